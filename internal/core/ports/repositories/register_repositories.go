package repositories

import (
	"context"

	"github.com/sdejesus/pos_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterRepositoryFacade is the transaction side of the persistence gateway.
// Implementations surface storage failures as errors; they are never retried
// here, and callers treat the in-memory ledger as authoritative until the
// next successful write.
type RegisterRepositoryFacade interface {
	// CreateTransaction inserts a new transaction row and returns its assigned id.
	CreateTransaction(ctx context.Context, subtotal, tax, total decimal.Decimal) (int64, error)

	// SaveItems rewrites the full item set of a transaction (clear + batch insert).
	SaveItems(ctx context.Context, transactionID int64, items []domain.LineItem) error

	// UpdateTotals re-syncs the persisted pricing snapshot.
	UpdateTotals(ctx context.Context, transactionID int64, subtotal, tax, total decimal.Decimal) error

	// UpdatePayment records the payment fields and marks the transaction completed.
	UpdatePayment(ctx context.Context, transactionID int64, paymentType string, tendered, change decimal.Decimal) error

	// VoidTransaction marks the row voided with a reason. Terminal.
	VoidTransaction(ctx context.Context, transactionID int64, reason string) error

	// SuspendTransaction marks the row suspended so it can be resumed later.
	SuspendTransaction(ctx context.Context, transactionID int64) error

	// ListSuspended returns the ids of transactions eligible for resumption.
	ListSuspended(ctx context.Context) ([]int64, error)

	// LoadSuspended marks a suspended transaction resumed and returns its
	// items and totals. Returns apperrors.ErrNotFound for an unknown id and
	// apperrors.ErrInvalidState when the transaction is not suspended.
	LoadSuspended(ctx context.Context, transactionID int64) (*domain.SuspendedTransaction, error)

	// ListHistory returns past transactions, newest first.
	ListHistory(ctx context.Context, includeVoided, includeSuspended bool) ([]domain.RegisterTransaction, error)
}
