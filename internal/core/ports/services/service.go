package services

// ServiceContainer aggregates the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Register RegisterSvcFacade
	Discount DiscountSvcFacade
	Journal  AuditJournal
}
