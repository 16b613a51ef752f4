package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
	"github.com/recognizely/points_ledger_backend/internal/middleware"
)

// tenantService manages the tenant directory. Every directory node is
// provisioned together with its zero-balance account so a transfer can never
// observe a node without one.
type tenantService struct {
	tenantRepo  portsrepo.TenantRepository
	accountRepo portsrepo.AccountRepository
}

// NewTenantService creates a new tenant directory service.
func NewTenantService(tenantRepo portsrepo.TenantRepository, accountRepo portsrepo.AccountRepository) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo:  tenantRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant onboards a tenant: directory record, currency config and the
// tenant pool account, all zero-balance until the first ALLOCATE.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorID string) (*dto.TenantResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	fxRate := req.FxRate
	displayCurrency := strings.ToUpper(req.DisplayCurrency)
	baseCurrency := strings.ToUpper(req.BaseCurrency)
	if displayCurrency == "" || displayCurrency == baseCurrency {
		displayCurrency = baseCurrency
		fxRate = decimal.NewFromInt(1)
	}
	if fxRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: fx rate must be positive", apperrors.ErrValidation)
	}

	tenant := domain.Tenant{
		TenantID: uuid.NewString(),
		Name:     req.Name,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	config := domain.CurrencyConfig{
		TenantID:        tenant.TenantID,
		BaseCurrency:    baseCurrency,
		DisplayCurrency: displayCurrency,
		FxRate:          fxRate,
		AuditFields:     tenant.AuditFields,
	}
	if err := s.tenantRepo.SaveCurrencyConfig(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save currency config: %w", err)
	}

	account, err := s.provisionAccount(ctx, tenant.TenantID, domain.NodeTenant, tenant.TenantID, creatorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Tenant created",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("account_id", account.AccountID),
	)
	return &dto.TenantResponse{
		TenantID:  tenant.TenantID,
		Name:      tenant.Name,
		AccountID: account.AccountID,
		IsActive:  tenant.IsActive,
		CreatedAt: tenant.CreatedAt,
		CreatedBy: tenant.CreatedBy,
	}, nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	return tenant, nil
}

func (s *tenantService) ListTenants(ctx context.Context, limit int, offset int) ([]domain.Tenant, error) {
	if limit <= 0 {
		limit = defaultStatementLimit
	}
	if limit > maxStatementLimit {
		limit = maxStatementLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.tenantRepo.ListTenants(ctx, limit, offset)
}

// CreateDepartment provisions a department and its pool account.
func (s *tenantService) CreateDepartment(ctx context.Context, tenantID string, req dto.CreateDepartmentRequest, creatorID string) (*dto.DepartmentResponse, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	if !tenant.IsActive {
		return nil, fmt.Errorf("%w: %w: tenant %s", apperrors.ErrValidation, ErrTenantInactive, tenantID)
	}

	now := time.Now().UTC()
	department := domain.Department{
		DepartmentID: uuid.NewString(),
		TenantID:     tenantID,
		Name:         req.Name,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.tenantRepo.SaveDepartment(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to save department: %w", err)
	}

	account, err := s.provisionAccount(ctx, tenantID, domain.NodeDepartment, department.DepartmentID, creatorID)
	if err != nil {
		return nil, err
	}

	return &dto.DepartmentResponse{
		DepartmentID: department.DepartmentID,
		TenantID:     department.TenantID,
		Name:         department.Name,
		AccountID:    account.AccountID,
		IsActive:     department.IsActive,
		CreatedAt:    department.CreatedAt,
	}, nil
}

func (s *tenantService) ListDepartments(ctx context.Context, tenantID string) ([]domain.Department, error) {
	if _, err := s.tenantRepo.FindTenantByID(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	return s.tenantRepo.ListDepartmentsByTenant(ctx, tenantID)
}

// EnrollEmployee provisions an employee wallet under an existing department.
func (s *tenantService) EnrollEmployee(ctx context.Context, tenantID string, req dto.EnrollEmployeeRequest, creatorID string) (*dto.EmployeeResponse, error) {
	department, err := s.tenantRepo.FindDepartmentByID(ctx, tenantID, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find department %s: %w", req.DepartmentID, err)
	}
	if !department.IsActive {
		return nil, fmt.Errorf("%w: %w: department %s", apperrors.ErrValidation, ErrNodeInactive, department.DepartmentID)
	}

	now := time.Now().UTC()
	employee := domain.Employee{
		EmployeeID:   uuid.NewString(),
		TenantID:     tenantID,
		DepartmentID: department.DepartmentID,
		UserRef:      req.UserRef,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.tenantRepo.SaveEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}

	account, err := s.provisionAccount(ctx, tenantID, domain.NodeEmployee, employee.EmployeeID, creatorID)
	if err != nil {
		return nil, err
	}

	return &dto.EmployeeResponse{
		EmployeeID:   employee.EmployeeID,
		TenantID:     employee.TenantID,
		DepartmentID: employee.DepartmentID,
		UserRef:      employee.UserRef,
		AccountID:    account.AccountID,
		IsActive:     employee.IsActive,
		CreatedAt:    employee.CreatedAt,
	}, nil
}

func (s *tenantService) GetCurrencyConfig(ctx context.Context, tenantID string) (*dto.CurrencyConfigResponse, error) {
	config, err := s.tenantRepo.FindCurrencyConfig(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find currency config for tenant %s: %w", tenantID, err)
	}
	resp := dto.ToCurrencyConfigResponse(*config)
	return &resp, nil
}

// UpdateCurrencyConfig changes the display currency and/or rate. The base
// currency never changes; stored amounts are denominated in it.
func (s *tenantService) UpdateCurrencyConfig(ctx context.Context, tenantID string, req dto.UpdateCurrencyConfigRequest, updaterID string) (*dto.CurrencyConfigResponse, error) {
	config, err := s.tenantRepo.FindCurrencyConfig(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find currency config for tenant %s: %w", tenantID, err)
	}

	if req.DisplayCurrency != nil {
		config.DisplayCurrency = strings.ToUpper(*req.DisplayCurrency)
	}
	if req.FxRate != nil {
		if req.FxRate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: fx rate must be positive", apperrors.ErrValidation)
		}
		config.FxRate = *req.FxRate
	}
	if config.DisplayCurrency == config.BaseCurrency {
		config.FxRate = decimal.NewFromInt(1)
	}
	config.LastUpdatedAt = time.Now().UTC()
	config.LastUpdatedBy = updaterID

	if err := s.tenantRepo.UpdateCurrencyConfig(ctx, *config); err != nil {
		return nil, fmt.Errorf("failed to update currency config: %w", err)
	}

	resp := dto.ToCurrencyConfigResponse(*config)
	return &resp, nil
}

// provisionAccount inserts the zero-balance account owned by a directory
// node. Provisioning is idempotent at the node level: a re-run that finds an
// existing account returns it unchanged.
func (s *tenantService) provisionAccount(ctx context.Context, tenantID string, nodeType domain.NodeType, nodeID string, creatorID string) (*domain.BalanceAccount, error) {
	now := time.Now().UTC()
	account := domain.BalanceAccount{
		AccountID:        uuid.NewString(),
		TenantID:         tenantID,
		NodeType:         nodeType,
		NodeID:           nodeID,
		Balance:          decimal.Zero,
		TotalAllocatedIn: decimal.Zero,
		TotalDistributed: decimal.Zero,
		TotalSpent:       decimal.Zero,
		TotalReversed:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			existing, findErr := s.accountRepo.FindAccountByNode(ctx, tenantID, nodeType, nodeID)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to provision %s account for node %s: %w", nodeType, nodeID, err)
	}
	return &account, nil
}
