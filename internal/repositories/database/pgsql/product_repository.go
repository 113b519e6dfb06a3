package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sdejesus/pos_register_app/internal/apperrors"
	"github.com/sdejesus/pos_register_app/internal/core/domain"
	portsrepo "github.com/sdejesus/pos_register_app/internal/core/ports/repositories"
	"github.com/sdejesus/pos_register_app/internal/models"
	"github.com/sdejesus/pos_register_app/internal/utils/mapping"
)

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for pricebook data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

// FindProductByCode retrieves a product by its UPC.
func (r *PgxProductRepository) FindProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	query := `
		SELECT upc, name, price
		FROM products
		WHERE upc = $1;
	`
	var modelProd models.Product
	err := r.Pool.QueryRow(ctx, query, code).Scan(
		&modelProd.UPC,
		&modelProd.Name,
		&modelProd.Price,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by code %s: %w", code, err)
	}

	domainProd := mapping.ToDomainProduct(modelProd)
	return &domainProd, nil
}

// ReplacePricebook atomically swaps the full product catalog for the given set.
func (r *PgxProductRepository) ReplacePricebook(ctx context.Context, products []domain.Product) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM products;`); err != nil {
		return fmt.Errorf("failed to clear pricebook: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		modelProd := mapping.ToModelProduct(p)
		batch.Queue(
			`INSERT INTO products (upc, name, price) VALUES ($1, $2, $3)
			 ON CONFLICT (upc) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price;`,
			modelProd.UPC, modelProd.Name, modelProd.Price,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to load pricebook: %w", err)
	}

	return r.Commit(ctx, tx)
}
