package repositories

import (
	"context"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
)

// TenantRepository persists the tenant directory: tenants, departments,
// employee wallet holders and the per-tenant currency config. The directory
// is the scoping input for every transfer validation.
type TenantRepository interface {
	SaveTenant(ctx context.Context, tenant domain.Tenant) error
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context, limit int, offset int) ([]domain.Tenant, error)

	SaveDepartment(ctx context.Context, department domain.Department) error
	FindDepartmentByID(ctx context.Context, tenantID string, departmentID string) (*domain.Department, error)
	ListDepartmentsByTenant(ctx context.Context, tenantID string) ([]domain.Department, error)

	SaveEmployee(ctx context.Context, employee domain.Employee) error
	FindEmployeeByID(ctx context.Context, tenantID string, employeeID string) (*domain.Employee, error)
	ListEmployeesByDepartment(ctx context.Context, tenantID string, departmentID string) ([]domain.Employee, error)

	SaveCurrencyConfig(ctx context.Context, config domain.CurrencyConfig) error
	FindCurrencyConfig(ctx context.Context, tenantID string) (*domain.CurrencyConfig, error)
	UpdateCurrencyConfig(ctx context.Context, config domain.CurrencyConfig) error
}
