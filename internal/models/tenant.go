package models

import "github.com/shopspring/decimal"

// Tenant mirrors the tenants table.
type Tenant struct {
	TenantID string `db:"tenant_id"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
	AuditFields
}

// Department mirrors the departments table.
type Department struct {
	DepartmentID string `db:"department_id"`
	TenantID     string `db:"tenant_id"`
	Name         string `db:"name"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// Employee mirrors the employees table.
type Employee struct {
	EmployeeID   string `db:"employee_id"`
	TenantID     string `db:"tenant_id"`
	DepartmentID string `db:"department_id"`
	UserRef      string `db:"user_ref"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// CurrencyConfig mirrors the tenant_currency_configs table.
type CurrencyConfig struct {
	TenantID        string          `db:"tenant_id"`
	BaseCurrency    string          `db:"base_currency"`
	DisplayCurrency string          `db:"display_currency"`
	FxRate          decimal.Decimal `db:"fx_rate"`
	AuditFields
}
