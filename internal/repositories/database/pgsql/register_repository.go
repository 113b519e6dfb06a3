package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sdejesus/pos_register_app/internal/apperrors"
	"github.com/sdejesus/pos_register_app/internal/core/domain"
	portsrepo "github.com/sdejesus/pos_register_app/internal/core/ports/repositories"
	"github.com/sdejesus/pos_register_app/internal/models"
	"github.com/sdejesus/pos_register_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type PgxRegisterRepository struct {
	BaseRepository
}

// newPgxRegisterRepository creates a new repository for register transaction data.
func newPgxRegisterRepository(pool *pgxpool.Pool) portsrepo.RegisterRepositoryFacade {
	return &PgxRegisterRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RegisterRepositoryFacade = (*PgxRegisterRepository)(nil)

// CreateTransaction inserts a new transaction row and returns its assigned id.
func (r *PgxRegisterRepository) CreateTransaction(ctx context.Context, subtotal, tax, total decimal.Decimal) (int64, error) {
	query := `
		INSERT INTO transactions (transaction_date, subtotal, tax, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query, time.Now().UTC(), subtotal, tax, total).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create transaction: %w", err)
	}
	return id, nil
}

// SaveItems rewrites the full item set of a transaction as one atomic swap.
func (r *PgxRegisterRepository) SaveItems(ctx context.Context, transactionID int64, items []domain.LineItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	clearQuery := `DELETE FROM transaction_items WHERE transaction_id = $1 AND is_voided = FALSE;`
	if _, err := tx.Exec(ctx, clearQuery, transactionID); err != nil {
		return fmt.Errorf("failed to clear items for transaction %d: %w", transactionID, err)
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		modelItem := mapping.ToModelTransactionItem(transactionID, item)
		batch.Queue(
			`INSERT INTO transaction_items (transaction_id, upc, product_name, price, quantity, total)
			 VALUES ($1, $2, $3, $4, $5, $6);`,
			modelItem.TransactionID,
			modelItem.UPC,
			modelItem.ProductName,
			modelItem.Price,
			modelItem.Quantity,
			modelItem.Total,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save items for transaction %d: %w", transactionID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateTotals re-syncs the persisted pricing snapshot.
func (r *PgxRegisterRepository) UpdateTotals(ctx context.Context, transactionID int64, subtotal, tax, total decimal.Decimal) error {
	query := `
		UPDATE transactions
		SET subtotal = $2, tax = $3, total = $4
		WHERE id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, subtotal, tax, total)
	if err != nil {
		return fmt.Errorf("failed to update totals for transaction %d: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePayment records the payment fields and marks the transaction completed.
func (r *PgxRegisterRepository) UpdatePayment(ctx context.Context, transactionID int64, paymentType string, tendered, change decimal.Decimal) error {
	query := `
		UPDATE transactions
		SET payment_type = $2,
		    amount_tendered = $3,
		    change_amount = $4,
		    is_completed = TRUE,
		    completion_date = $5
		WHERE id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, paymentType, tendered, change, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record payment for transaction %d: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// VoidTransaction marks the row voided with a reason. Terminal.
func (r *PgxRegisterRepository) VoidTransaction(ctx context.Context, transactionID int64, reason string) error {
	query := `
		UPDATE transactions
		SET is_voided = TRUE, void_date = $2, void_reason = $3
		WHERE id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, time.Now().UTC(), reason)
	if err != nil {
		return fmt.Errorf("failed to void transaction %d: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SuspendTransaction marks the row suspended so it can be resumed later.
func (r *PgxRegisterRepository) SuspendTransaction(ctx context.Context, transactionID int64) error {
	query := `
		UPDATE transactions
		SET is_suspended = TRUE, suspend_date = $2, is_resumed = FALSE, resume_date = NULL
		WHERE id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to suspend transaction %d: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListSuspended returns the ids of transactions eligible for resumption.
func (r *PgxRegisterRepository) ListSuspended(ctx context.Context) ([]int64, error) {
	query := `
		SELECT id
		FROM transactions
		WHERE is_suspended = TRUE
		  AND is_resumed = FALSE
		  AND is_voided = FALSE
		  AND is_completed = FALSE
		ORDER BY suspend_date DESC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suspended transactions: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect suspended transactions: %w", err)
	}
	return ids, nil
}

// LoadSuspended marks a suspended transaction resumed and returns its items
// and totals. The flag flip and the read happen in one database transaction
// so two terminals cannot both resume the same id.
func (r *PgxRegisterRepository) LoadSuspended(ctx context.Context, transactionID int64) (*domain.SuspendedTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		SELECT id, subtotal, tax, total, is_voided, is_suspended, is_resumed, is_completed
		FROM transactions
		WHERE id = $1
		FOR UPDATE;
	`
	var modelTxn models.Transaction
	err = tx.QueryRow(ctx, query, transactionID).Scan(
		&modelTxn.ID,
		&modelTxn.Subtotal,
		&modelTxn.Tax,
		&modelTxn.Total,
		&modelTxn.IsVoided,
		&modelTxn.IsSuspended,
		&modelTxn.IsResumed,
		&modelTxn.IsCompleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load transaction %d: %w", transactionID, err)
	}

	if modelTxn.IsVoided || modelTxn.IsCompleted || !modelTxn.IsSuspended || modelTxn.IsResumed {
		return nil, fmt.Errorf("transaction %d is not suspended: %w", transactionID, apperrors.ErrInvalidState)
	}

	resumeQuery := `
		UPDATE transactions
		SET is_resumed = TRUE, resume_date = $2
		WHERE id = $1;
	`
	if _, err := tx.Exec(ctx, resumeQuery, transactionID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to mark transaction %d resumed: %w", transactionID, err)
	}

	itemsQuery := `
		SELECT id, transaction_id, upc, product_name, price, quantity, total, is_voided
		FROM transaction_items
		WHERE transaction_id = $1 AND is_voided = FALSE
		ORDER BY id;
	`
	rows, err := tx.Query(ctx, itemsQuery, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for transaction %d: %w", transactionID, err)
	}

	modelItems, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TransactionItem, error) {
		var item models.TransactionItem
		err := row.Scan(
			&item.ID,
			&item.TransactionID,
			&item.UPC,
			&item.ProductName,
			&item.Price,
			&item.Quantity,
			&item.Total,
			&item.IsVoided,
		)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect items for transaction %d: %w", transactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	suspended := &domain.SuspendedTransaction{
		ID:       modelTxn.ID,
		Subtotal: modelTxn.Subtotal,
		Tax:      modelTxn.Tax,
		Total:    modelTxn.Total,
		Items:    make([]domain.LineItem, 0, len(modelItems)),
	}
	for _, item := range modelItems {
		suspended.Items = append(suspended.Items, mapping.ToDomainLineItem(item))
	}
	return suspended, nil
}

// ListHistory returns past transactions, newest first.
func (r *PgxRegisterRepository) ListHistory(ctx context.Context, includeVoided, includeSuspended bool) ([]domain.RegisterTransaction, error) {
	query := `
		SELECT id, transaction_date, subtotal, tax, total, payment_type,
		       amount_tendered, change_amount,
		       is_voided, void_date, void_reason,
		       is_suspended, suspend_date, is_resumed, resume_date,
		       is_completed, completion_date
		FROM transactions
		WHERE ($1 OR is_voided = FALSE)
		  AND ($2 OR is_suspended = FALSE OR is_resumed = TRUE OR is_completed = TRUE)
		ORDER BY transaction_date DESC;
	`
	rows, err := r.Pool.Query(ctx, query, includeVoided, includeSuspended)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction history: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		var txn models.Transaction
		err := row.Scan(
			&txn.ID,
			&txn.TransactionDate,
			&txn.Subtotal,
			&txn.Tax,
			&txn.Total,
			&txn.PaymentType,
			&txn.AmountTendered,
			&txn.ChangeAmount,
			&txn.IsVoided,
			&txn.VoidDate,
			&txn.VoidReason,
			&txn.IsSuspended,
			&txn.SuspendDate,
			&txn.IsResumed,
			&txn.ResumeDate,
			&txn.IsCompleted,
			&txn.CompletionDate,
		)
		return txn, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect transaction history: %w", err)
	}

	history := make([]domain.RegisterTransaction, 0, len(modelTxns))
	for _, txn := range modelTxns {
		history = append(history, mapping.ToDomainTransaction(txn))
	}
	return history, nil
}
