package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
)

// CreateTenantRequest onboards a tenant and provisions its pool account.
type CreateTenantRequest struct {
	Name            string          `json:"name" binding:"required"`
	BaseCurrency    string          `json:"baseCurrency" binding:"required,len=3"`
	DisplayCurrency string          `json:"displayCurrency" binding:"omitempty,len=3"`
	FxRate          decimal.Decimal `json:"fxRate"` // Defaults to 1 when display == base
}

// TenantResponse mirrors domain.Tenant plus its pool account id.
type TenantResponse struct {
	TenantID  string    `json:"tenantID"`
	Name      string    `json:"name"`
	AccountID string    `json:"accountID"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// CreateDepartmentRequest provisions a department and its pool account.
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// DepartmentResponse mirrors domain.Department plus its pool account id.
type DepartmentResponse struct {
	DepartmentID string    `json:"departmentID"`
	TenantID     string    `json:"tenantID"`
	Name         string    `json:"name"`
	AccountID    string    `json:"accountID"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EnrollEmployeeRequest provisions an employee wallet.
type EnrollEmployeeRequest struct {
	DepartmentID string `json:"departmentID" binding:"required"`
	UserRef      string `json:"userRef" binding:"required"`
}

// EmployeeResponse mirrors domain.Employee plus its wallet account id.
type EmployeeResponse struct {
	EmployeeID   string    `json:"employeeID"`
	TenantID     string    `json:"tenantID"`
	DepartmentID string    `json:"departmentID"`
	UserRef      string    `json:"userRef"`
	AccountID    string    `json:"accountID"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CurrencyConfigResponse mirrors domain.CurrencyConfig.
type CurrencyConfigResponse struct {
	TenantID        string          `json:"tenantID"`
	BaseCurrency    string          `json:"baseCurrency"`
	DisplayCurrency string          `json:"displayCurrency"`
	FxRate          decimal.Decimal `json:"fxRate"`
}

// UpdateCurrencyConfigRequest changes the display currency and/or rate.
// The base currency is immutable: stored amounts are denominated in it.
type UpdateCurrencyConfigRequest struct {
	DisplayCurrency *string          `json:"displayCurrency" binding:"omitempty,len=3"`
	FxRate          *decimal.Decimal `json:"fxRate"`
}

// ToCurrencyConfigResponse converts a domain currency config to its DTO.
func ToCurrencyConfigResponse(c domain.CurrencyConfig) CurrencyConfigResponse {
	return CurrencyConfigResponse{
		TenantID:        c.TenantID,
		BaseCurrency:    c.BaseCurrency,
		DisplayCurrency: c.DisplayCurrency,
		FxRate:          c.FxRate,
	}
}
