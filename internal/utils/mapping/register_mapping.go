package mapping

import (
	"github.com/sdejesus/pos_register_app/internal/core/domain"
	"github.com/sdejesus/pos_register_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainProduct converts a model Product to a domain Product.
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		Code:      m.UPC,
		Name:      m.Name,
		UnitPrice: m.Price,
	}
}

// ToModelProduct converts a domain Product to a model Product.
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		UPC:   d.Code,
		Name:  d.Name,
		Price: d.UnitPrice,
	}
}

// ToModelTransactionItem converts a domain LineItem to a row model.
func ToModelTransactionItem(transactionID int64, d domain.LineItem) models.TransactionItem {
	return models.TransactionItem{
		TransactionID: transactionID,
		UPC:           d.Product.Code,
		ProductName:   d.Product.Name,
		Price:         d.Product.UnitPrice,
		Quantity:      d.Quantity,
		Total:         d.Total(),
	}
}

// ToDomainLineItem converts a row model back to a domain LineItem.
func ToDomainLineItem(m models.TransactionItem) domain.LineItem {
	return domain.LineItem{
		Product: domain.Product{
			Code:      m.UPC,
			Name:      m.ProductName,
			UnitPrice: m.Price,
		},
		Quantity: m.Quantity,
	}
}

// DeriveStatus maps the persisted lifecycle flags onto the domain status.
// Terminal flags win over the suspended flag.
func DeriveStatus(m models.Transaction) domain.TransactionStatus {
	switch {
	case m.IsCompleted:
		return domain.StatusCompleted
	case m.IsVoided:
		return domain.StatusVoided
	case m.IsSuspended && !m.IsResumed:
		return domain.StatusSuspended
	default:
		return domain.StatusActive
	}
}

// ToDomainTransaction converts a model Transaction to a domain RegisterTransaction.
func ToDomainTransaction(m models.Transaction) domain.RegisterTransaction {
	d := domain.RegisterTransaction{
		ID:        m.ID,
		Status:    DeriveStatus(m),
		Subtotal:  m.Subtotal,
		Tax:       m.Tax,
		Total:     m.Total,
		CreatedAt: m.TransactionDate,
	}
	if m.PaymentType != nil {
		d.PaymentType = *m.PaymentType
	}
	if m.AmountTendered.Valid {
		d.Tendered = m.AmountTendered.Decimal
	} else {
		d.Tendered = decimal.Zero
	}
	if m.ChangeAmount.Valid {
		d.Change = m.ChangeAmount.Decimal
	} else {
		d.Change = decimal.Zero
	}
	d.CompletedAt = m.CompletionDate
	return d
}
