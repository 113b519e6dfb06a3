package services

import (
	"github.com/sdejesus/pos_register_app/internal/clients/discount"
	portsrepo "github.com/sdejesus/pos_register_app/internal/core/ports/repositories"
	portssvc "github.com/sdejesus/pos_register_app/internal/core/ports/services"
	"github.com/sdejesus/pos_register_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, journal portssvc.AuditJournal) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	discountClient := discount.NewClient(discount.Config{
		BaseURL:        cfg.DiscountBaseURL,
		ConnectTimeout: cfg.DiscountConnectTimeout,
		ReadTimeout:    cfg.DiscountReadTimeout,
	})
	container.Discount = NewDiscountService(discountClient, cfg.DiscountEnabled)

	container.Register = NewRegisterService(
		repos.ProductRepo,
		repos.RegisterRepo,
		container.Discount,
		journal,
	)

	container.Journal = journal

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RegisterSvcFacade = (*registerService)(nil)
	_ portssvc.DiscountSvcFacade = (*discountService)(nil)
)
