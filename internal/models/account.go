package models

import (
	"github.com/shopspring/decimal"
)

// NodeType identifies which hierarchy level owns an account row.
type NodeType string

const (
	NodeTenant     NodeType = "TENANT"
	NodeDepartment NodeType = "DEPARTMENT"
	NodeEmployee   NodeType = "EMPLOYEE"
)

// BalanceAccount mirrors the balance_accounts table.
type BalanceAccount struct {
	AccountID        string          `db:"account_id"`
	TenantID         string          `db:"tenant_id"`
	NodeType         NodeType        `db:"node_type"`
	NodeID           string          `db:"node_id"`
	Balance          decimal.Decimal `db:"balance"`
	TotalAllocatedIn decimal.Decimal `db:"total_allocated_in"`
	TotalDistributed decimal.Decimal `db:"total_distributed_out"`
	TotalSpent       decimal.Decimal `db:"total_spent"`
	TotalReversed    decimal.Decimal `db:"total_reversed"`
	AuditFields
}
