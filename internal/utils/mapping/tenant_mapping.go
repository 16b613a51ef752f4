package mapping

import (
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	"github.com/recognizely/points_ledger_backend/internal/models"
)

func ToModelTenant(d domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:    d.TenantID,
		Name:        d.Name,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainTenant(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:    m.TenantID,
		Name:        m.Name,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelDepartment(d domain.Department) models.Department {
	return models.Department{
		DepartmentID: d.DepartmentID,
		TenantID:     d.TenantID,
		Name:         d.Name,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainDepartment(m models.Department) domain.Department {
	return domain.Department{
		DepartmentID: m.DepartmentID,
		TenantID:     m.TenantID,
		Name:         m.Name,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelEmployee(d domain.Employee) models.Employee {
	return models.Employee{
		EmployeeID:   d.EmployeeID,
		TenantID:     d.TenantID,
		DepartmentID: d.DepartmentID,
		UserRef:      d.UserRef,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainEmployee(m models.Employee) domain.Employee {
	return domain.Employee{
		EmployeeID:   m.EmployeeID,
		TenantID:     m.TenantID,
		DepartmentID: m.DepartmentID,
		UserRef:      m.UserRef,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelCurrencyConfig(d domain.CurrencyConfig) models.CurrencyConfig {
	return models.CurrencyConfig{
		TenantID:        d.TenantID,
		BaseCurrency:    d.BaseCurrency,
		DisplayCurrency: d.DisplayCurrency,
		FxRate:          d.FxRate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainCurrencyConfig(m models.CurrencyConfig) domain.CurrencyConfig {
	return domain.CurrencyConfig{
		TenantID:        m.TenantID,
		BaseCurrency:    m.BaseCurrency,
		DisplayCurrency: m.DisplayCurrency,
		FxRate:          m.FxRate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
