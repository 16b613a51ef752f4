package services

import (
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service facade onto the repository
// provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	allocation := NewAllocationService(repos.AccountRepo, repos.LedgerRepo, repos.TenantRepo)
	return &portssvc.ServiceContainer{
		Allocation: allocation,
		Reversal:   NewReversalService(repos.AccountRepo, repos.LedgerRepo, repos.TenantRepo, allocation),
		Balance:    NewBalanceService(repos.AccountRepo, repos.LedgerRepo, repos.TenantRepo, repos.ReportingRepo),
		Tenant:     NewTenantService(repos.TenantRepo, repos.AccountRepo),
	}
}
