package domain

import "github.com/shopspring/decimal"

// DiscountStatus reports how a discount resolution concluded.
type DiscountStatus string

const (
	DiscountSuccess  DiscountStatus = "SUCCESS"  // engine call succeeded
	DiscountFallback DiscountStatus = "FALLBACK" // engine unreachable or malformed, zero discount applied
	DiscountDisabled DiscountStatus = "DISABLED" // disabled by configuration, no call made
	DiscountNoItems  DiscountStatus = "NO_ITEMS" // empty ledger, no call made
)

// DiscountResult is the outcome of one discount resolution. It is a cache
// consumed by the pricing pipeline and is never persisted; every ledger
// mutation replaces it wholesale.
type DiscountResult struct {
	Status           DiscountStatus  `json:"status"`
	OriginalTotal    decimal.Decimal `json:"originalTotal"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	FinalTotal       decimal.Decimal `json:"finalTotal"`
	AppliedDiscounts []string        `json:"appliedDiscounts,omitempty"`
	Message          string          `json:"message,omitempty"`
}

// HasDiscount reports whether a positive discount applies.
func (r DiscountResult) HasDiscount() bool {
	return r.DiscountAmount.IsPositive()
}
