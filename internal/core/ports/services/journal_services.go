package services

import (
	"github.com/shopspring/decimal"
)

// AuditJournal mirrors human-readable audit lines to a local durable log and,
// best-effort, to a remote collector. No method returns an error: journal
// failures must never block or fail the transaction path.
type AuditJournal interface {
	TransactionStart(transactionID int64)
	Item(code, name string, price decimal.Decimal)
	VoidItem(code, name string, qty int64)
	QuantityChange(code, name string, oldQty, newQty int64)
	Subtotal(subtotal decimal.Decimal)
	Discount(amount decimal.Decimal, appliedDiscounts []string)
	Tax(tax decimal.Decimal)
	Total(total decimal.Decimal)
	Payment(paymentType string, tendered, change decimal.Decimal)
	TransactionVoided(transactionID int64)
	TransactionSuspended(transactionID int64)
	TransactionResumed(transactionID int64)
	TransactionCompleted(transactionID int64)

	// Connected reports whether the remote mirror is still live.
	Connected() bool

	// Close flushes the local log and releases the remote connection.
	Close() error
}
