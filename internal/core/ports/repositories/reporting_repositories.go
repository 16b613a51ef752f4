package repositories

import (
	"context"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
)

// ReportingRepository serves read-only aggregate queries for dashboards.
type ReportingRepository interface {
	// GetTenantTotals returns tenant-wide lifetime volumes and the current
	// pool balance. Departments is left empty.
	GetTenantTotals(ctx context.Context, tenantID string) (*domain.TenantStats, error)

	// GetDepartmentBreakdown returns per-department balances and volumes.
	GetDepartmentBreakdown(ctx context.Context, tenantID string) ([]domain.DepartmentBreakdownRow, error)
}
