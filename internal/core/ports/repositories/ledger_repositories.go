package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
)

// AccountDelta describes the balance mutation AppendTransfer must apply to
// one account alongside the entry insert. Delta may be negative. The counter
// increments are usually positive; clawbacks and reversals carry a negative
// DistributedOut on the parent side, handing back value it previously sent.
type AccountDelta struct {
	AccountID      string
	Delta          decimal.Decimal // Signed change to the current balance
	AllocatedIn    decimal.Decimal // Increment to total_allocated_in
	DistributedOut decimal.Decimal // Increment to total_distributed_out
	Spent          decimal.Decimal // Increment to total_spent
	Reversed       decimal.Decimal // Increment to total_reversed
}

// StatementFilter narrows and paginates an account statement. Results are
// ordered created_at DESC with entry_id DESC as a stable tie-break.
type StatementFilter struct {
	From      *time.Time
	To        *time.Time
	Types     []domain.TransactionType
	Limit     int
	NextToken *string
}

// LedgerRepository is the append-only transaction log plus the balance
// snapshots it maintains. Entries have no update or delete operations.
type LedgerRepository interface {
	// AppendTransfer writes one ledger entry and every account mutation in a
	// single atomic unit: it locks the affected accounts in sorted id order,
	// re-verifies under the lock that no resulting balance would go negative,
	// fills the entry's balance_before/balance_after from the locked state of
	// the primary account, and commits. Failure modes:
	// apperrors.ErrInsufficientFunds, apperrors.ErrDuplicateReference,
	// apperrors.ErrConcurrentModification, apperrors.ErrStorageFailure.
	AppendTransfer(ctx context.Context, entry domain.LedgerEntry, changes []AccountDelta) (*domain.LedgerEntry, error)

	// FindEntryByID retrieves one entry scoped to a tenant.
	FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.LedgerEntry, error)

	// FindEntryByReference retrieves the committed entry recorded for an
	// idempotency reference and transaction type, or ErrNotFound.
	FindEntryByReference(ctx context.Context, tenantID string, txnType domain.TransactionType, reference string) (*domain.LedgerEntry, error)

	// ListEntriesByAccount returns the paginated statement of one account
	// (entries where it is source, target or primary), newest first.
	ListEntriesByAccount(ctx context.Context, tenantID string, accountID string, filter StatementFilter) ([]domain.LedgerEntry, *string, error)

	// NetTransferredAlongPath computes the amount historically sent from a
	// parent account (nil = Platform root) to a child account, net of
	// clawbacks and reversals along the same path. Clawback validation
	// depends on this being exact, so it sums entries rather than snapshots.
	NetTransferredAlongPath(ctx context.Context, tenantID string, sourceAccountID *string, targetAccountID string) (decimal.Decimal, error)
}
