package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product mirrors one row of the products table.
type Product struct {
	UPC   string
	Name  string
	Price decimal.Decimal
}

// Transaction mirrors one row of the transactions table. Lifecycle is stored
// as the original register schema did: independent flags plus timestamps,
// with the domain status derived from them.
type Transaction struct {
	ID              int64
	TransactionDate time.Time
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	PaymentType     *string
	AmountTendered  decimal.NullDecimal
	ChangeAmount    decimal.NullDecimal
	IsVoided        bool
	VoidDate        *time.Time
	VoidReason      *string
	IsSuspended     bool
	SuspendDate     *time.Time
	IsResumed       bool
	ResumeDate      *time.Time
	IsCompleted     bool
	CompletionDate  *time.Time
}

// TransactionItem mirrors one row of the transaction_items table.
type TransactionItem struct {
	ID            int64
	TransactionID int64
	UPC           string
	ProductName   string
	Price         decimal.Decimal
	Quantity      int64
	Total         decimal.Decimal
	IsVoided      bool
}
