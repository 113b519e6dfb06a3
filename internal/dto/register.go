package dto

import (
	"time"

	"github.com/sdejesus/pos_register_app/internal/core/domain"
	"github.com/sdejesus/pos_register_app/internal/utils"
	"github.com/shopspring/decimal"
)

// AddItemRequest scans one product into the current transaction.
type AddItemRequest struct {
	Code     string `json:"code" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
}

// ChangeQuantityRequest replaces the quantity of a ledger line.
type ChangeQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// ResumeRequest reactivates a suspended transaction.
type ResumeRequest struct {
	TransactionID int64 `json:"transactionID" binding:"required,gt=0"`
}

// VoidRequest cancels the current transaction. Reason is optional.
type VoidRequest struct {
	Reason string `json:"reason"`
}

// CompleteRequest tenders payment for the current transaction.
type CompleteRequest struct {
	PaymentType string          `json:"paymentType" binding:"required,paymenttype"`
	Tendered    decimal.Decimal `json:"tendered"`
}

// LineItemResponse is one ledger line as returned to the caller.
type LineItemResponse struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// TotalsResponse is the pricing state of the current transaction.
type TotalsResponse struct {
	TransactionID    int64              `json:"transactionID"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	Discount         decimal.Decimal    `json:"discount"`
	Tax              decimal.Decimal    `json:"tax"`
	Total            decimal.Decimal    `json:"total"`
	DisplayTotal     string             `json:"displayTotal"`
	AppliedDiscounts []string           `json:"appliedDiscounts,omitempty"`
	DiscountStatus   string             `json:"discountStatus,omitempty"`
	Items            []LineItemResponse `json:"items"`
}

// CompletedSaleResponse summarizes a finished payment.
type CompletedSaleResponse struct {
	TransactionID int64           `json:"transactionID"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentType   string          `json:"paymentType"`
	Tendered      decimal.Decimal `json:"tendered"`
	Change        decimal.Decimal `json:"change"`
	DisplayChange string          `json:"displayChange"`
}

// SuspendedListResponse lists transactions eligible for resumption.
type SuspendedListResponse struct {
	TransactionIDs []int64 `json:"transactionIDs"`
}

// TransactionSummaryResponse is one history row.
type TransactionSummaryResponse struct {
	ID          int64           `json:"id"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	PaymentType string          `json:"paymentType,omitempty"`
	Tendered    decimal.Decimal `json:"tendered"`
	Change      decimal.Decimal `json:"change"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// HistoryResponse wraps the transaction history listing.
type HistoryResponse struct {
	Transactions []TransactionSummaryResponse `json:"transactions"`
}

// ToLineItemResponse converts a domain.LineItem to LineItemResponse DTO.
func ToLineItemResponse(item domain.LineItem) LineItemResponse {
	return LineItemResponse{
		Code:      item.Product.Code,
		Name:      item.Product.Name,
		UnitPrice: item.Product.UnitPrice,
		Quantity:  item.Quantity,
		Total:     item.Total(),
	}
}

// ToTotalsResponse converts a domain.TotalsSnapshot to TotalsResponse DTO.
func ToTotalsResponse(snapshot *domain.TotalsSnapshot) TotalsResponse {
	items := make([]LineItemResponse, len(snapshot.Items))
	for i, item := range snapshot.Items {
		items[i] = ToLineItemResponse(item)
	}
	return TotalsResponse{
		TransactionID:    snapshot.TransactionID,
		Subtotal:         snapshot.Subtotal,
		Discount:         snapshot.Discount,
		Tax:              snapshot.Tax,
		Total:            snapshot.Total,
		DisplayTotal:     utils.FormatAmount(snapshot.Total),
		AppliedDiscounts: snapshot.AppliedDiscounts,
		DiscountStatus:   string(snapshot.DiscountStatus),
		Items:            items,
	}
}

// ToCompletedSaleResponse converts a domain.CompletedSale to its DTO.
func ToCompletedSaleResponse(sale *domain.CompletedSale) CompletedSaleResponse {
	return CompletedSaleResponse{
		TransactionID: sale.TransactionID,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Tax:           sale.Tax,
		Total:         sale.Total,
		PaymentType:   sale.PaymentType,
		Tendered:      sale.Tendered,
		Change:        sale.Change,
		DisplayChange: utils.FormatAmount(sale.Change),
	}
}

// ToTransactionSummaryResponse converts a domain.RegisterTransaction to its DTO.
func ToTransactionSummaryResponse(txn domain.RegisterTransaction) TransactionSummaryResponse {
	return TransactionSummaryResponse{
		ID:          txn.ID,
		Status:      string(txn.Status),
		Subtotal:    txn.Subtotal,
		Tax:         txn.Tax,
		Total:       txn.Total,
		PaymentType: txn.PaymentType,
		Tendered:    txn.Tendered,
		Change:      txn.Change,
		CreatedAt:   txn.CreatedAt,
		CompletedAt: txn.CompletedAt,
	}
}

// ToHistoryResponse converts a slice of domain.RegisterTransaction to HistoryResponse.
func ToHistoryResponse(txns []domain.RegisterTransaction) HistoryResponse {
	summaries := make([]TransactionSummaryResponse, len(txns))
	for i, txn := range txns {
		summaries[i] = ToTransactionSummaryResponse(txn)
	}
	return HistoryResponse{Transactions: summaries}
}
