package repositories

import (
	"context"

	"github.com/sdejesus/pos_register_app/internal/core/domain"
)

// ProductRepositoryFacade is the catalog-lookup side of the persistence gateway.
type ProductRepositoryFacade interface {
	// FindProductByCode resolves a product code to its catalog entry.
	// Returns apperrors.ErrNotFound when the code is unknown.
	FindProductByCode(ctx context.Context, code string) (*domain.Product, error)

	// ReplacePricebook swaps the full product catalog for the given set.
	ReplacePricebook(ctx context.Context, products []domain.Product) error
}
