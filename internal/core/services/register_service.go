package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sdejesus/pos_register_app/internal/apperrors"
	"github.com/sdejesus/pos_register_app/internal/core/domain"
	portsrepo "github.com/sdejesus/pos_register_app/internal/core/ports/repositories"
	portssvc "github.com/sdejesus/pos_register_app/internal/core/ports/services"
	"github.com/sdejesus/pos_register_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// defaultVoidReason is recorded when the caller gives none.
const defaultVoidReason = "Voided by cashier"

// registerService owns the single in-progress transaction of this terminal:
// the line-item ledger, the cached discount result, and the lifecycle state.
// A mutex serializes access because the HTTP layer may call from concurrent
// request goroutines; the engine itself performs no background work.
type registerService struct {
	mu           sync.Mutex
	productRepo  portsrepo.ProductRepositoryFacade
	registerRepo portsrepo.RegisterRepositoryFacade
	discountSvc  portssvc.DiscountSvcFacade
	journal      portssvc.AuditJournal

	items     []domain.LineItem
	currentID int64
	discount  *domain.DiscountResult
}

// NewRegisterService creates the transaction state machine.
func NewRegisterService(
	productRepo portsrepo.ProductRepositoryFacade,
	registerRepo portsrepo.RegisterRepositoryFacade,
	discountSvc portssvc.DiscountSvcFacade,
	journal portssvc.AuditJournal,
) portssvc.RegisterSvcFacade {
	return &registerService{
		productRepo:  productRepo,
		registerRepo: registerRepo,
		discountSvc:  discountSvc,
		journal:      journal,
		currentID:    domain.UnpersistedID,
	}
}

var _ portssvc.RegisterSvcFacade = (*registerService)(nil)

// AddItem resolves the code, merges the quantity into the ledger, and
// re-syncs discount, totals and the persisted snapshot. The first item of a
// fresh transaction lazily persists the row and assigns its id.
func (s *registerService) AddItem(ctx context.Context, code string, qty int64) (*domain.TotalsSnapshot, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: product code must not be empty", apperrors.ErrValidation)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", apperrors.ErrValidation, qty)
	}

	product, err := s.productRepo.FindProductByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("product lookup for code %s failed: %w", code, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == domain.UnpersistedID && len(s.items) == 0 {
		id, err := s.registerRepo.CreateTransaction(ctx, decimal.Zero, decimal.Zero, decimal.Zero)
		if err != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}
		s.currentID = id
		s.journal.TransactionStart(id)
		middleware.GetLoggerFromCtx(ctx).Info("Transaction started", slog.Int64("transaction_id", id))
	}

	merged := false
	for i := range s.items {
		if s.items[i].Product.Code == product.Code {
			s.items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, domain.LineItem{Product: *product, Quantity: qty})
	}
	s.journal.Item(product.Code, product.Name, product.UnitPrice)

	if err := s.recomputeAndSyncLocked(ctx); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

// VoidItem removes the ledger line at index. An out-of-range index is a no-op
// returning the unchanged snapshot.
func (s *registerService) VoidItem(ctx context.Context, index int) (*domain.TotalsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return s.snapshotLocked(), nil
	}

	item := s.items[index]
	s.journal.VoidItem(item.Product.Code, item.Product.Name, item.Quantity)
	s.items = append(s.items[:index], s.items[index+1:]...)

	if err := s.recomputeAndSyncLocked(ctx); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

// ChangeQuantity replaces the quantity of the line at index. An out-of-range
// index is a no-op, like VoidItem.
func (s *registerService) ChangeQuantity(ctx context.Context, index int, newQty int64) (*domain.TotalsSnapshot, error) {
	if newQty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", apperrors.ErrValidation, newQty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return s.snapshotLocked(), nil
	}

	item := &s.items[index]
	oldQty := item.Quantity
	item.Quantity = newQty
	s.journal.QuantityChange(item.Product.Code, item.Product.Name, oldQty, newQty)
	s.journal.Item(item.Product.Code, item.Product.Name, item.Product.UnitPrice)

	if err := s.recomputeAndSyncLocked(ctx); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

// Suspend persists the final snapshot and parks the transaction. The
// in-memory state is cleared; the persisted row keeps its id for Resume.
func (s *registerService) Suspend(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return fmt.Errorf("%w: no items to suspend", apperrors.ErrInvalidState)
	}

	if err := s.syncPersistedLocked(ctx); err != nil {
		return err
	}

	s.journal.TransactionSuspended(s.currentID)
	if err := s.registerRepo.SuspendTransaction(ctx, s.currentID); err != nil {
		return fmt.Errorf("failed to suspend transaction %d: %w", s.currentID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Transaction suspended", slog.Int64("transaction_id", s.currentID))
	s.clearLocked()
	return nil
}

// Resume loads a suspended transaction into the ledger. The caller must
// suspend or void any in-progress transaction first; there is no implicit
// auto-suspend.
func (s *registerService) Resume(ctx context.Context, transactionID int64) (*domain.TotalsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID != domain.UnpersistedID || len(s.items) > 0 {
		return nil, fmt.Errorf("%w: transaction %d is still in progress, suspend or void it first",
			apperrors.ErrInvalidState, s.currentID)
	}

	loaded, err := s.registerRepo.LoadSuspended(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resume transaction %d: %w", transactionID, err)
	}

	s.items = loaded.Items
	s.currentID = loaded.ID
	s.journal.TransactionResumed(loaded.ID)
	middleware.GetLoggerFromCtx(ctx).Info("Transaction resumed", slog.Int64("transaction_id", loaded.ID))

	s.resolveDiscountLocked(ctx)
	return s.snapshotLocked(), nil
}

// Void terminally cancels the current transaction.
func (s *registerService) Void(ctx context.Context, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == domain.UnpersistedID && len(s.items) == 0 {
		return fmt.Errorf("%w: no transaction to void", apperrors.ErrInvalidState)
	}
	if reason == "" {
		reason = defaultVoidReason
	}

	s.journal.TransactionVoided(s.currentID)
	if err := s.registerRepo.VoidTransaction(ctx, s.currentID, reason); err != nil {
		return fmt.Errorf("failed to void transaction %d: %w", s.currentID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Transaction voided",
		slog.Int64("transaction_id", s.currentID), slog.String("reason", reason))
	s.clearLocked()
	return nil
}

// Complete takes payment and terminally closes the current transaction.
// Fails with ErrInsufficientPayment, changing nothing, when tendered < total.
func (s *registerService) Complete(ctx context.Context, paymentType string, tendered decimal.Decimal) (*domain.CompletedSale, error) {
	if paymentType == "" {
		return nil, fmt.Errorf("%w: payment type must not be empty", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil, fmt.Errorf("%w: no items in transaction", apperrors.ErrInvalidState)
	}

	if s.discount == nil {
		s.resolveDiscountLocked(ctx)
	}

	discountAmt := s.discountAmountLocked()
	subtotal, tax, total := computeTotals(s.items, discountAmt)
	change := tendered.Sub(total)
	if change.IsNegative() {
		return nil, fmt.Errorf("%w: tendered %s is less than total %s",
			apperrors.ErrInsufficientPayment, tendered.StringFixed(2), total.StringFixed(2))
	}

	if err := s.syncPersistedLocked(ctx); err != nil {
		return nil, err
	}

	s.journal.Subtotal(subtotal)
	if discountAmt.IsPositive() {
		s.journal.Discount(discountAmt, s.appliedDiscountsLocked())
	}
	s.journal.Tax(tax)
	s.journal.Total(total)
	s.journal.Payment(paymentType, tendered, change)
	s.journal.TransactionCompleted(s.currentID)

	if err := s.registerRepo.UpdatePayment(ctx, s.currentID, paymentType, tendered, change); err != nil {
		return nil, fmt.Errorf("failed to record payment for transaction %d: %w", s.currentID, err)
	}

	sale := &domain.CompletedSale{
		TransactionID: s.currentID,
		Subtotal:      subtotal,
		Discount:      discountAmt,
		Tax:           tax,
		Total:         total,
		PaymentType:   paymentType,
		Tendered:      tendered,
		Change:        change,
	}
	middleware.GetLoggerFromCtx(ctx).Info("Transaction completed",
		slog.Int64("transaction_id", s.currentID), slog.String("total", total.StringFixed(2)))

	s.clearLocked()
	return sale, nil
}

// Totals returns the current derived pricing state without mutating anything.
func (s *registerService) Totals(_ context.Context) *domain.TotalsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ListSuspended returns resumable transaction ids, newest first.
func (s *registerService) ListSuspended(ctx context.Context) ([]int64, error) {
	ids, err := s.registerRepo.ListSuspended(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suspended transactions: %w", err)
	}
	return ids, nil
}

// History returns past transactions for reporting.
func (s *registerService) History(ctx context.Context, includeVoided, includeSuspended bool) ([]domain.RegisterTransaction, error) {
	records, err := s.registerRepo.ListHistory(ctx, includeVoided, includeSuspended)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction history: %w", err)
	}
	return records, nil
}

// recomputeAndSyncLocked re-resolves the discount, then rewrites the persisted
// items and totals so the stored snapshot matches the ledger.
func (s *registerService) recomputeAndSyncLocked(ctx context.Context) error {
	s.resolveDiscountLocked(ctx)
	return s.syncPersistedLocked(ctx)
}

// resolveDiscountLocked replaces the cached discount result. An empty ledger
// drops the cache entirely.
func (s *registerService) resolveDiscountLocked(ctx context.Context) {
	if len(s.items) == 0 {
		s.discount = nil
		return
	}
	result := s.discountSvc.Resolve(ctx, s.items)
	s.discount = &result
}

// syncPersistedLocked rewrites the item rows and the totals of the persisted
// transaction. Storage failures propagate; the in-memory ledger stays
// authoritative and is not rolled back.
func (s *registerService) syncPersistedLocked(ctx context.Context) error {
	if s.currentID == domain.UnpersistedID {
		return nil
	}
	if err := s.registerRepo.SaveItems(ctx, s.currentID, s.items); err != nil {
		return fmt.Errorf("failed to save items for transaction %d: %w", s.currentID, err)
	}
	subtotal, tax, total := computeTotals(s.items, s.discountAmountLocked())
	if err := s.registerRepo.UpdateTotals(ctx, s.currentID, subtotal, tax, total); err != nil {
		return fmt.Errorf("failed to update totals for transaction %d: %w", s.currentID, err)
	}
	return nil
}

func (s *registerService) discountAmountLocked() decimal.Decimal {
	if s.discount == nil {
		return decimal.Zero
	}
	return s.discount.DiscountAmount
}

func (s *registerService) appliedDiscountsLocked() []string {
	if s.discount == nil {
		return nil
	}
	return s.discount.AppliedDiscounts
}

// snapshotLocked derives the totals view from the ledger and cached discount.
func (s *registerService) snapshotLocked() *domain.TotalsSnapshot {
	discountAmt := s.discountAmountLocked()
	subtotal, tax, total := computeTotals(s.items, discountAmt)

	snapshot := &domain.TotalsSnapshot{
		TransactionID: s.currentID,
		Subtotal:      subtotal,
		Discount:      discountAmt,
		Tax:           tax,
		Total:         total,
		Items:         append([]domain.LineItem(nil), s.items...),
	}
	if s.discount != nil {
		snapshot.AppliedDiscounts = s.discount.AppliedDiscounts
		snapshot.DiscountStatus = s.discount.Status
	}
	return snapshot
}

// clearLocked resets the in-memory state between transactions.
func (s *registerService) clearLocked() {
	s.items = nil
	s.currentID = domain.UnpersistedID
	s.discount = nil
}
