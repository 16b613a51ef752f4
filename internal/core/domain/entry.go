package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry. Direction is encoded by the
// type together with the source/target accounts, never by the sign of the
// amount (amounts are always positive).
type TransactionType string

const (
	// Allocate credits a tenant pool from the Platform root.
	Allocate TransactionType = "ALLOCATE"
	// Distribute moves value one level down the hierarchy
	// (tenant -> department or department -> employee).
	Distribute TransactionType = "DISTRIBUTE"
	// Spend is a terminal employee-wallet debit; value leaves the ledger.
	Spend TransactionType = "SPEND"
	// Clawback moves value one level back up the hierarchy.
	Clawback TransactionType = "CLAWBACK"
	// Reversal compensates one specific prior entry.
	Reversal TransactionType = "REVERSAL"
	// Adjustment is a platform-initiated manual correction.
	Adjustment TransactionType = "ADJUSTMENT"
)

// LedgerEntry is the immutable record of one value movement. Entries are
// never updated or deleted; mistakes are corrected by appending a
// compensating CLAWBACK or REVERSAL entry.
type LedgerEntry struct {
	EntryID         string          `json:"entryID"`  // Primary key (UUID)
	TenantID        string          `json:"tenantID"` // Scope, also for Platform->Tenant entries
	TransactionType TransactionType `json:"transactionType"`
	SourceAccountID *string         `json:"sourceAccountID"` // nil = Platform root
	TargetAccountID *string         `json:"targetAccountID"` // nil = terminal spend / value left the ledger
	Amount          decimal.Decimal `json:"amount"`          // Always > 0

	// Audit pair for the entry's primary account: the debited account for
	// DISTRIBUTE/SPEND/CLAWBACK/REVERSAL, the credited account for ALLOCATE.
	AccountID     string          `json:"accountID"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`

	ActorID   string    `json:"actorID"`
	ActorType ActorType `json:"actorType"`
	Reference string    `json:"reference"` // Business-event link, idempotency key when set
	CreatedAt time.Time `json:"createdAt"`
}

// Receipt is returned synchronously from every allocation-engine operation.
type Receipt struct {
	EntryID         string          `json:"entryID"`
	TransactionType TransactionType `json:"transactionType"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	Reference       string          `json:"reference,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ReceiptFromEntry builds the caller-facing receipt for a committed entry.
func ReceiptFromEntry(e LedgerEntry) Receipt {
	return Receipt{
		EntryID:         e.EntryID,
		TransactionType: e.TransactionType,
		AccountID:       e.AccountID,
		Amount:          e.Amount,
		BalanceBefore:   e.BalanceBefore,
		BalanceAfter:    e.BalanceAfter,
		Reference:       e.Reference,
		CreatedAt:       e.CreatedAt,
	}
}
