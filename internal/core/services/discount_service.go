package services

import (
	"context"
	"log/slog"

	"github.com/sdejesus/pos_register_app/internal/clients/discount"
	"github.com/sdejesus/pos_register_app/internal/core/domain"
	portssvc "github.com/sdejesus/pos_register_app/internal/core/ports/services"
	"github.com/sdejesus/pos_register_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// discountCalculator is the outbound contract of the discount engine client.
type discountCalculator interface {
	Calculate(ctx context.Context, req discount.Request) (*discount.Response, error)
}

// discountService wraps the engine client with the register's fallback policy.
// It makes exactly one attempt per resolution and never returns an error:
// any failure degrades to a FALLBACK result with zero discount.
type discountService struct {
	calculator discountCalculator
	enabled    bool
}

// NewDiscountService creates a resolver around the given engine client.
// Enabled == true means the engine is called; false short-circuits to DISABLED.
func NewDiscountService(calculator discountCalculator, enabled bool) portssvc.DiscountSvcFacade {
	return &discountService{
		calculator: calculator,
		enabled:    enabled,
	}
}

var _ portssvc.DiscountSvcFacade = (*discountService)(nil)

func (s *discountService) Resolve(ctx context.Context, items []domain.LineItem) domain.DiscountResult {
	if len(items) == 0 {
		return domain.DiscountResult{
			Status:  domain.DiscountNoItems,
			Message: "no items in transaction",
		}
	}

	subtotal := ledgerSubtotal(items)

	if !s.enabled {
		return domain.DiscountResult{
			Status:        domain.DiscountDisabled,
			OriginalTotal: subtotal,
			FinalTotal:    subtotal,
			Message:       "discount service is disabled",
		}
	}

	resp, err := s.calculator.Calculate(ctx, toDiscountRequest(items))
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Discount engine unavailable, falling back to zero discount",
			slog.String("error", err.Error()))
		// Fallback: report the undiscounted subtotal as both original and final total.
		return domain.DiscountResult{
			Status:        domain.DiscountFallback,
			OriginalTotal: subtotal,
			FinalTotal:    subtotal,
			Message:       "discount engine unavailable, no discount applied: " + err.Error(),
		}
	}

	return domain.DiscountResult{
		Status:           domain.DiscountSuccess,
		OriginalTotal:    decimal.NewFromFloat(resp.OriginalTotal),
		DiscountAmount:   decimal.NewFromFloat(resp.DiscountAmount),
		FinalTotal:       decimal.NewFromFloat(resp.FinalTotal),
		AppliedDiscounts: resp.AppliedDiscounts,
		Message:          "discount calculated successfully",
	}
}

// toDiscountRequest maps ledger lines onto the engine wire format.
func toDiscountRequest(items []domain.LineItem) discount.Request {
	wireItems := make([]discount.Item, len(items))
	for i, item := range items {
		wireItems[i] = discount.Item{
			Product: discount.ProductRef{
				UPC:   item.Product.Code,
				Name:  item.Product.Name,
				Price: item.Product.UnitPrice.InexactFloat64(),
			},
			Quantity: item.Quantity,
		}
	}
	return discount.Request{Items: wireItems}
}
