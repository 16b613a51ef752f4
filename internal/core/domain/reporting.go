package domain

import (
	"github.com/shopspring/decimal"
)

// DepartmentBreakdownRow is one department's slice of a tenant's budget.
type DepartmentBreakdownRow struct {
	DepartmentID   string          `json:"departmentID"`
	DepartmentName string          `json:"departmentName"`
	Balance        decimal.Decimal `json:"balance"`
	AllocatedIn    decimal.Decimal `json:"allocatedIn"`
	DistributedOut decimal.Decimal `json:"distributedOut"`
	Spent          decimal.Decimal `json:"spent"`
}

// TenantStats aggregates a tenant's ledger activity for dashboards.
type TenantStats struct {
	TenantID         string                   `json:"tenantID"`
	PoolBalance      decimal.Decimal          `json:"poolBalance"`      // Current tenant pool balance
	TotalAllocated   decimal.Decimal          `json:"totalAllocated"`   // Lifetime ALLOCATE credits from Platform
	TotalDistributed decimal.Decimal          `json:"totalDistributed"` // Lifetime tenant -> department transfers
	TotalSpent       decimal.Decimal          `json:"totalSpent"`       // Lifetime SPEND across all wallets
	TotalClawedBack  decimal.Decimal          `json:"totalClawedBack"`  // Lifetime CLAWBACK/REVERSAL volume
	Departments      []DepartmentBreakdownRow `json:"departments"`
}
