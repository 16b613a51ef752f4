package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for aggregate queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTenantTotals computes tenant-wide lifetime volumes from the entry log
// and the current pool balance from the snapshot. TotalDistributed counts
// tenant-to-department transfers only; department-to-employee movements stay
// internal to the department breakdown.
func (r *PgxReportingRepository) GetTenantTotals(ctx context.Context, tenantID string) (*domain.TenantStats, error) {
	var poolAccountID string
	var poolBalance decimal.Decimal
	poolQuery := `
		SELECT account_id, balance
		FROM balance_accounts
		WHERE tenant_id = $1 AND node_type = 'TENANT';
	`
	err := r.Pool.QueryRow(ctx, poolQuery, tenantID).Scan(&poolAccountID, &poolBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant pool account for "+tenantID, err)
	}

	stats := domain.TenantStats{
		TenantID:    tenantID,
		PoolBalance: poolBalance,
	}
	totalsQuery := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'ALLOCATE'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'DISTRIBUTE' AND source_account_id = $2), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'SPEND'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type IN ('CLAWBACK', 'REVERSAL')), 0)
		FROM ledger_entries
		WHERE tenant_id = $1;
	`
	err = r.Pool.QueryRow(ctx, totalsQuery, tenantID, poolAccountID).Scan(
		&stats.TotalAllocated,
		&stats.TotalDistributed,
		&stats.TotalSpent,
		&stats.TotalClawedBack,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute ledger totals for tenant "+tenantID, err)
	}

	return &stats, nil
}

// GetDepartmentBreakdown returns per-department balances and lifetime volumes
// straight from the account snapshots.
func (r *PgxReportingRepository) GetDepartmentBreakdown(ctx context.Context, tenantID string) ([]domain.DepartmentBreakdownRow, error) {
	query := `
		SELECT d.department_id, d.name,
		       a.balance, a.total_allocated_in, a.total_distributed_out, a.total_spent
		FROM departments d
		JOIN balance_accounts a
		  ON a.tenant_id = d.tenant_id
		 AND a.node_type = 'DEPARTMENT'
		 AND a.node_id = d.department_id
		WHERE d.tenant_id = $1
		ORDER BY d.created_at, d.department_id;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query department breakdown for tenant "+tenantID, err)
	}
	defer rows.Close()

	breakdown := []domain.DepartmentBreakdownRow{}
	for rows.Next() {
		var row domain.DepartmentBreakdownRow
		if err := rows.Scan(
			&row.DepartmentID,
			&row.DepartmentName,
			&row.Balance,
			&row.AllocatedIn,
			&row.DistributedOut,
			&row.Spent,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan department breakdown row", err)
		}
		breakdown = append(breakdown, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating department breakdown rows", err)
	}
	return breakdown, nil
}
