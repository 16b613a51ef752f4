package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
)

// BalanceResponse reports an account's current balance in base currency plus
// the tenant's configured display rendering.
type BalanceResponse struct {
	AccountID        string          `json:"accountID"`
	TenantID         string          `json:"tenantID"`
	NodeType         string          `json:"nodeType"`
	NodeID           string          `json:"nodeID"`
	Balance          decimal.Decimal `json:"balance"`
	BaseCurrency     string          `json:"baseCurrency"`
	DisplayCurrency  string          `json:"displayCurrency,omitempty"`
	DisplayBalance   string          `json:"displayBalance,omitempty"`
	TotalAllocatedIn decimal.Decimal `json:"totalAllocatedIn"`
	TotalDistributed decimal.Decimal `json:"totalDistributed"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	TotalReversed    decimal.Decimal `json:"totalReversed"`
}

// StatementParams narrows and paginates an account statement.
type StatementParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Types     []string   `form:"type"`
	Limit     int        `form:"limit,default=20"`
	NextToken *string    `form:"nextToken"`
}

// EntryResponse is one statement line.
type EntryResponse struct {
	EntryID         string          `json:"entryID"`
	TenantID        string          `json:"tenantID"`
	TransactionType string          `json:"transactionType"`
	SourceAccountID *string         `json:"sourceAccountID"`
	TargetAccountID *string         `json:"targetAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	AccountID       string          `json:"accountID"`
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	ActorID         string          `json:"actorID"`
	ActorType       string          `json:"actorType"`
	Reference       string          `json:"reference,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// StatementResponse is a page of an account statement, newest first.
type StatementResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain ledger entry to its response DTO.
func ToEntryResponse(e domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:         e.EntryID,
		TenantID:        e.TenantID,
		TransactionType: string(e.TransactionType),
		SourceAccountID: e.SourceAccountID,
		TargetAccountID: e.TargetAccountID,
		Amount:          e.Amount,
		AccountID:       e.AccountID,
		BalanceBefore:   e.BalanceBefore,
		BalanceAfter:    e.BalanceAfter,
		ActorID:         e.ActorID,
		ActorType:       string(e.ActorType),
		Reference:       e.Reference,
		CreatedAt:       e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of entries.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToEntryResponse(e)
	}
	return res
}

// DepartmentBreakdownResponse is one department row of the tenant stats.
type DepartmentBreakdownResponse struct {
	DepartmentID   string          `json:"departmentID"`
	DepartmentName string          `json:"departmentName"`
	Balance        decimal.Decimal `json:"balance"`
	AllocatedIn    decimal.Decimal `json:"allocatedIn"`
	DistributedOut decimal.Decimal `json:"distributedOut"`
	Spent          decimal.Decimal `json:"spent"`
}

// TenantStatsResponse aggregates a tenant's ledger activity.
type TenantStatsResponse struct {
	TenantID         string                        `json:"tenantID"`
	PoolBalance      decimal.Decimal               `json:"poolBalance"`
	TotalAllocated   decimal.Decimal               `json:"totalAllocated"`
	TotalDistributed decimal.Decimal               `json:"totalDistributed"`
	TotalSpent       decimal.Decimal               `json:"totalSpent"`
	TotalClawedBack  decimal.Decimal               `json:"totalClawedBack"`
	Departments      []DepartmentBreakdownResponse `json:"departments"`
}

// ToTenantStatsResponse converts domain tenant stats to the response DTO.
func ToTenantStatsResponse(s domain.TenantStats) TenantStatsResponse {
	departments := make([]DepartmentBreakdownResponse, len(s.Departments))
	for i, d := range s.Departments {
		departments[i] = DepartmentBreakdownResponse{
			DepartmentID:   d.DepartmentID,
			DepartmentName: d.DepartmentName,
			Balance:        d.Balance,
			AllocatedIn:    d.AllocatedIn,
			DistributedOut: d.DistributedOut,
			Spent:          d.Spent,
		}
	}
	return TenantStatsResponse{
		TenantID:         s.TenantID,
		PoolBalance:      s.PoolBalance,
		TotalAllocated:   s.TotalAllocated,
		TotalDistributed: s.TotalDistributed,
		TotalSpent:       s.TotalSpent,
		TotalClawedBack:  s.TotalClawedBack,
		Departments:      departments,
	}
}
