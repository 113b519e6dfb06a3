package services

import (
	"context"

	"github.com/sdejesus/pos_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterSvcFacade is the transaction state machine. It is the only entry
// point the presentation layer calls; every mutation re-derives totals and
// re-syncs the persisted snapshot before returning.
type RegisterSvcFacade interface {
	// AddItem resolves the code and merges it into the ledger. The first item
	// of a fresh transaction persists the row and assigns its id.
	AddItem(ctx context.Context, code string, qty int64) (*domain.TotalsSnapshot, error)

	// VoidItem removes the ledger line at index. An out-of-range index is a
	// no-op returning the unchanged snapshot.
	VoidItem(ctx context.Context, index int) (*domain.TotalsSnapshot, error)

	// ChangeQuantity replaces the quantity of the line at index.
	ChangeQuantity(ctx context.Context, index int, newQty int64) (*domain.TotalsSnapshot, error)

	// Suspend persists the current ledger and parks the transaction.
	Suspend(ctx context.Context) error

	// Resume reloads a suspended transaction into the ledger. Fails with
	// ErrInvalidState while another transaction is active; the caller must
	// suspend or void it first.
	Resume(ctx context.Context, transactionID int64) (*domain.TotalsSnapshot, error)

	// Void terminally cancels the current transaction.
	Void(ctx context.Context, reason string) error

	// Complete takes payment and terminally closes the current transaction.
	Complete(ctx context.Context, paymentType string, tendered decimal.Decimal) (*domain.CompletedSale, error)

	// Totals returns the current derived pricing state without mutating anything.
	Totals(ctx context.Context) *domain.TotalsSnapshot

	// ListSuspended returns resumable transaction ids.
	ListSuspended(ctx context.Context) ([]int64, error)

	// History returns past transactions for reporting.
	History(ctx context.Context, includeVoided, includeSuspended bool) ([]domain.RegisterTransaction, error)
}

// DiscountSvcFacade resolves discounts for the current ledger. Resolution
// never fails: every outcome, including network failure, is expressed as a
// DiscountResult status.
type DiscountSvcFacade interface {
	Resolve(ctx context.Context, items []domain.LineItem) domain.DiscountResult
}
