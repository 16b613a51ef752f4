package domain

import "github.com/shopspring/decimal"

// Tenant is one customer organisation on the platform. Its budget pool is the
// BalanceAccount with NodeType TENANT and NodeID == TenantID.
type Tenant struct {
	TenantID string `json:"tenantID"` // Primary key (UUID)
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	AuditFields
}

// Department is a budget-holding unit inside a tenant.
type Department struct {
	DepartmentID string `json:"departmentID"` // Primary key (UUID)
	TenantID     string `json:"tenantID"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// Employee is a wallet holder belonging to one department of one tenant.
// UserRef points at the external user-management record.
type Employee struct {
	EmployeeID   string `json:"employeeID"` // Primary key (UUID)
	TenantID     string `json:"tenantID"`
	DepartmentID string `json:"departmentID"`
	UserRef      string `json:"userRef"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// CurrencyConfig is the per-tenant presentation configuration. It is a
// read-only input to the display adapter; stored amounts are always in
// BaseCurrency and the rate never participates in ledger arithmetic.
type CurrencyConfig struct {
	TenantID        string          `json:"tenantID"`
	BaseCurrency    string          `json:"baseCurrency"`    // ISO 4217, e.g. "USD"
	DisplayCurrency string          `json:"displayCurrency"` // e.g. "JPY"
	FxRate          decimal.Decimal `json:"fxRate"`          // display = base * FxRate
	AuditFields
}
