package services

import (
	"context"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	"github.com/recognizely/points_ledger_backend/internal/dto"
)

// TenantSvcFacade manages the tenant directory and account provisioning.
// Creating a node provisions its zero-balance account in the same request;
// accounts are never deleted while the owning node exists.
type TenantSvcFacade interface {
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorID string) (*dto.TenantResponse, error)
	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context, limit int, offset int) ([]domain.Tenant, error)

	CreateDepartment(ctx context.Context, tenantID string, req dto.CreateDepartmentRequest, creatorID string) (*dto.DepartmentResponse, error)
	ListDepartments(ctx context.Context, tenantID string) ([]domain.Department, error)

	EnrollEmployee(ctx context.Context, tenantID string, req dto.EnrollEmployeeRequest, creatorID string) (*dto.EmployeeResponse, error)

	GetCurrencyConfig(ctx context.Context, tenantID string) (*dto.CurrencyConfigResponse, error)
	UpdateCurrencyConfig(ctx context.Context, tenantID string, req dto.UpdateCurrencyConfigRequest, updaterID string) (*dto.CurrencyConfigResponse, error)
}
