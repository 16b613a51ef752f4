package domain

import (
	"github.com/shopspring/decimal"
)

// NodeType identifies which level of the budget hierarchy owns an account.
// The Platform root is implicit and owns no stored account.
type NodeType string

const (
	NodeTenant     NodeType = "TENANT"
	NodeDepartment NodeType = "DEPARTMENT"
	NodeEmployee   NodeType = "EMPLOYEE"
)

// ChildOf reports whether n is exactly one hierarchy level below parent.
// The Platform root (no stored account) is the parent of TENANT.
func (n NodeType) ChildOf(parent NodeType) bool {
	switch n {
	case NodeDepartment:
		return parent == NodeTenant
	case NodeEmployee:
		return parent == NodeDepartment
	default:
		return false
	}
}

// BalanceAccount is the current-balance projection owned by one hierarchy
// node (tenant pool, department pool or employee wallet). All amounts are in
// the tenant's base currency. The balance is only ever mutated inside the
// same storage transaction that appends the corresponding ledger entry.
type BalanceAccount struct {
	AccountID         string          `json:"accountID"` // Primary key (UUID)
	TenantID          string          `json:"tenantID"`  // Every account is scoped to one tenant
	NodeType          NodeType        `json:"nodeType"`
	NodeID            string          `json:"nodeID"` // Owning tenant/department/employee id
	Balance           decimal.Decimal `json:"balance"`
	TotalAllocatedIn  decimal.Decimal `json:"totalAllocatedIn"`  // Lifetime credits from the parent level
	TotalDistributed  decimal.Decimal `json:"totalDistributed"`  // Lifetime debits passed down the hierarchy
	TotalSpent        decimal.Decimal `json:"totalSpent"`        // Lifetime terminal debits
	TotalReversed     decimal.Decimal `json:"totalReversed"`     // Lifetime clawback/reversal debits
	AuditFields
}

// Reconciles reports whether the account satisfies the balance identity
// balance == total_allocated_in - total_distributed - total_spent - total_reversed.
func (a BalanceAccount) Reconciles() bool {
	derived := a.TotalAllocatedIn.
		Sub(a.TotalDistributed).
		Sub(a.TotalSpent).
		Sub(a.TotalReversed)
	return a.Balance.Equal(derived)
}
