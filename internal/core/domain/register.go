package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnpersistedID marks a transaction that has not yet received a database id.
// The first line-item addition persists the row and assigns the real id.
const UnpersistedID int64 = -1

// TransactionStatus is the lifecycle state of a register transaction.
type TransactionStatus string

const (
	StatusActive    TransactionStatus = "ACTIVE"
	StatusSuspended TransactionStatus = "SUSPENDED"
	StatusVoided    TransactionStatus = "VOIDED"    // terminal
	StatusCompleted TransactionStatus = "COMPLETED" // terminal
)

// IsTerminal reports whether no further transitions are permitted.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusVoided || s == StatusCompleted
}

// RegisterTransaction is the persisted record of a sale.
type RegisterTransaction struct {
	ID          int64             `json:"id"`
	Status      TransactionStatus `json:"status"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	Tax         decimal.Decimal   `json:"tax"`
	Total       decimal.Decimal   `json:"total"`
	PaymentType string            `json:"paymentType,omitempty"`
	Tendered    decimal.Decimal   `json:"tendered"`
	Change      decimal.Decimal   `json:"change"`
	CreatedAt   time.Time         `json:"createdAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

// SuspendedTransaction is the typed payload returned when a suspended
// transaction is loaded for resumption.
type SuspendedTransaction struct {
	ID       int64           `json:"id"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Items    []LineItem      `json:"items"`
}

// TotalsSnapshot is the derived pricing state of the current transaction.
// It is recomputed from the ledger after every mutation and never cached
// across mutations.
type TotalsSnapshot struct {
	TransactionID    int64           `json:"transactionID"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	AppliedDiscounts []string        `json:"appliedDiscounts,omitempty"`
	DiscountStatus   DiscountStatus  `json:"discountStatus,omitempty"`
	Items            []LineItem      `json:"items"`
}

// CompletedSale summarizes a finished payment for the caller.
type CompletedSale struct {
	TransactionID int64           `json:"transactionID"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentType   string          `json:"paymentType"`
	Tendered      decimal.Decimal `json:"tendered"`
	Change        decimal.Decimal `json:"change"`
}
