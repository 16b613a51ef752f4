package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry row.
type TransactionType string

const (
	Allocate   TransactionType = "ALLOCATE"
	Distribute TransactionType = "DISTRIBUTE"
	Spend      TransactionType = "SPEND"
	Clawback   TransactionType = "CLAWBACK"
	Reversal   TransactionType = "REVERSAL"
	Adjustment TransactionType = "ADJUSTMENT"
)

// LedgerEntry mirrors the ledger_entries table. Rows are append-only; there
// is no UPDATE or DELETE path for this table anywhere in the codebase.
type LedgerEntry struct {
	EntryID         string          `db:"entry_id"`
	TenantID        string          `db:"tenant_id"`
	TransactionType TransactionType `db:"transaction_type"`
	SourceAccountID *string         `db:"source_account_id"` // NULL = Platform root
	TargetAccountID *string         `db:"target_account_id"` // NULL = terminal spend
	Amount          decimal.Decimal `db:"amount"`
	AccountID       string          `db:"account_id"` // Primary account of the audit pair
	BalanceBefore   decimal.Decimal `db:"balance_before"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	ActorID         string          `db:"actor_id"`
	ActorType       string          `db:"actor_type"`
	Reference       string          `db:"reference"`
	CreatedAt       time.Time       `db:"created_at"`
}
