package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry resolved from the pricebook.
// Products are immutable from the register's point of view.
type Product struct {
	Code      string          `json:"code"` // UPC, primary key in the catalog
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
