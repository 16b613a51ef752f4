package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every Postgres repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, accountRepo)
	tenantRepo := newPgxTenantRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return &portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		LedgerRepo:    ledgerRepo,
		TenantRepo:    tenantRepo,
		ReportingRepo: reportingRepo,
	}
}
