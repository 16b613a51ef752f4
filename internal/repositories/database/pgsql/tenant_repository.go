package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	"github.com/recognizely/points_ledger_backend/internal/models"
	"github.com/recognizely/points_ledger_backend/internal/utils/mapping"
)

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for the tenant directory.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepository {
	return &PgxTenantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTenantRepository implements portsrepo.TenantRepository
var _ portsrepo.TenantRepository = (*PgxTenantRepository)(nil)

func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	m := mapping.ToModelTenant(tenant)
	query := `
		INSERT INTO tenants (tenant_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TenantID, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert tenant "+m.TenantID, err)
	}
	return nil
}

func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM tenants
		WHERE tenant_id = $1;
	`
	var m models.Tenant
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&m.TenantID, &m.Name, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant "+tenantID, err)
	}
	tenant := mapping.ToDomainTenant(m)
	return &tenant, nil
}

func (r *PgxTenantRepository) ListTenants(ctx context.Context, limit int, offset int) ([]domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM tenants
		ORDER BY created_at, tenant_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tenants", err)
	}
	defer rows.Close()

	tenants := []domain.Tenant{}
	for rows.Next() {
		var m models.Tenant
		if err := rows.Scan(
			&m.TenantID, &m.Name, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tenant row", err)
		}
		tenants = append(tenants, mapping.ToDomainTenant(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tenant rows", err)
	}
	return tenants, nil
}

func (r *PgxTenantRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	m := mapping.ToModelDepartment(department)
	query := `
		INSERT INTO departments (department_id, tenant_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DepartmentID, m.TenantID, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert department "+m.DepartmentID, err)
	}
	return nil
}

func (r *PgxTenantRepository) FindDepartmentByID(ctx context.Context, tenantID string, departmentID string) (*domain.Department, error) {
	query := `
		SELECT department_id, tenant_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM departments
		WHERE tenant_id = $1 AND department_id = $2;
	`
	var m models.Department
	err := r.Pool.QueryRow(ctx, query, tenantID, departmentID).Scan(
		&m.DepartmentID, &m.TenantID, &m.Name, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find department "+departmentID, err)
	}
	department := mapping.ToDomainDepartment(m)
	return &department, nil
}

func (r *PgxTenantRepository) ListDepartmentsByTenant(ctx context.Context, tenantID string) ([]domain.Department, error) {
	query := `
		SELECT department_id, tenant_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM departments
		WHERE tenant_id = $1
		ORDER BY created_at, department_id;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query departments for tenant "+tenantID, err)
	}
	defer rows.Close()

	departments := []domain.Department{}
	for rows.Next() {
		var m models.Department
		if err := rows.Scan(
			&m.DepartmentID, &m.TenantID, &m.Name, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan department row", err)
		}
		departments = append(departments, mapping.ToDomainDepartment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating department rows for tenant "+tenantID, err)
	}
	return departments, nil
}

func (r *PgxTenantRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	m := mapping.ToModelEmployee(employee)
	query := `
		INSERT INTO employees (employee_id, tenant_id, department_id, user_ref, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EmployeeID, m.TenantID, m.DepartmentID, m.UserRef, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert employee "+m.EmployeeID, err)
	}
	return nil
}

func (r *PgxTenantRepository) FindEmployeeByID(ctx context.Context, tenantID string, employeeID string) (*domain.Employee, error) {
	query := `
		SELECT employee_id, tenant_id, department_id, user_ref, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM employees
		WHERE tenant_id = $1 AND employee_id = $2;
	`
	var m models.Employee
	err := r.Pool.QueryRow(ctx, query, tenantID, employeeID).Scan(
		&m.EmployeeID, &m.TenantID, &m.DepartmentID, &m.UserRef, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find employee "+employeeID, err)
	}
	employee := mapping.ToDomainEmployee(m)
	return &employee, nil
}

func (r *PgxTenantRepository) ListEmployeesByDepartment(ctx context.Context, tenantID string, departmentID string) ([]domain.Employee, error) {
	query := `
		SELECT employee_id, tenant_id, department_id, user_ref, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM employees
		WHERE tenant_id = $1 AND department_id = $2
		ORDER BY created_at, employee_id;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, departmentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query employees for department "+departmentID, err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var m models.Employee
		if err := rows.Scan(
			&m.EmployeeID, &m.TenantID, &m.DepartmentID, &m.UserRef, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan employee row", err)
		}
		employees = append(employees, mapping.ToDomainEmployee(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating employee rows for department "+departmentID, err)
	}
	return employees, nil
}

func (r *PgxTenantRepository) SaveCurrencyConfig(ctx context.Context, config domain.CurrencyConfig) error {
	m := mapping.ToModelCurrencyConfig(config)
	query := `
		INSERT INTO tenant_currency_configs (tenant_id, base_currency, display_currency, fx_rate, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TenantID, m.BaseCurrency, m.DisplayCurrency, m.FxRate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert currency config for tenant "+m.TenantID, err)
	}
	return nil
}

func (r *PgxTenantRepository) FindCurrencyConfig(ctx context.Context, tenantID string) (*domain.CurrencyConfig, error) {
	query := `
		SELECT tenant_id, base_currency, display_currency, fx_rate, created_at, created_by, last_updated_at, last_updated_by
		FROM tenant_currency_configs
		WHERE tenant_id = $1;
	`
	var m models.CurrencyConfig
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&m.TenantID, &m.BaseCurrency, &m.DisplayCurrency, &m.FxRate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find currency config for tenant "+tenantID, err)
	}
	config := mapping.ToDomainCurrencyConfig(m)
	return &config, nil
}

func (r *PgxTenantRepository) UpdateCurrencyConfig(ctx context.Context, config domain.CurrencyConfig) error {
	m := mapping.ToModelCurrencyConfig(config)
	query := `
		UPDATE tenant_currency_configs
		SET display_currency = $2,
		    fx_rate = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.TenantID, m.DisplayCurrency, m.FxRate, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update currency config for tenant "+m.TenantID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("currency config for tenant " + m.TenantID + " not found for update")
	}
	return nil
}
