package services

// ServiceContainer bundles all service facades for injection into handlers.
type ServiceContainer struct {
	Allocation AllocationSvcFacade
	Reversal   ReversalSvcFacade
	Balance    BalanceSvcFacade
	Tenant     TenantSvcFacade
}
