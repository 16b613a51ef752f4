package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	"github.com/recognizely/points_ledger_backend/internal/models"
	"github.com/recognizely/points_ledger_backend/internal/utils/mapping"
	"github.com/recognizely/points_ledger_backend/internal/utils/pagination"
)

// referenceConstraint is the partial unique index enforcing idempotency on
// (tenant_id, transaction_type, reference) for non-empty references.
const referenceConstraint = "uq_ledger_entries_reference"

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

const entryColumns = `
	entry_id, tenant_id, transaction_type, source_account_id, target_account_id,
	amount, account_id, balance_before, balance_after,
	actor_id, actor_type, reference, created_at`

// AppendTransfer writes one ledger entry and every account mutation in a
// single database transaction. The affected rows are locked in sorted id
// order, the non-negative invariant is re-verified against the locked
// balances, and the entry's audit pair is filled from the locked state of
// the primary account. Nothing is visible to readers until the commit.
func (r *PgxLedgerRepository) AppendTransfer(ctx context.Context, entry domain.LedgerEntry, changes []portsrepo.AccountDelta) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	accountIDs := make([]string, 0, len(changes))
	for _, ch := range changes {
		accountIDs = append(accountIDs, ch.AccountID)
	}
	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	// Re-verify under the lock: a competing transfer may have drained one of
	// the accounts between the caller's read and this lock acquisition.
	for _, ch := range changes {
		locked := lockedAccounts[ch.AccountID]
		newBalance := locked.Balance.Add(ch.Delta)
		if newBalance.IsNegative() {
			return nil, apperrors.ErrInsufficientFunds
		}
	}

	primary, ok := lockedAccounts[entry.AccountID]
	if !ok {
		return nil, apperrors.NewAppError(500, "entry account "+entry.AccountID+" carries no balance change", nil)
	}
	var primaryDelta decimal.Decimal
	for _, ch := range changes {
		if ch.AccountID == entry.AccountID {
			primaryDelta = ch.Delta
			break
		}
	}
	entry.BalanceBefore = primary.Balance
	entry.BalanceAfter = primary.Balance.Add(primaryDelta)

	modelEntry := mapping.ToModelEntry(entry)
	entryQuery := `
		INSERT INTO ledger_entries (
			entry_id, tenant_id, transaction_type, source_account_id, target_account_id,
			amount, account_id, balance_before, balance_after,
			actor_id, actor_type, reference, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.TenantID,
		modelEntry.TransactionType,
		modelEntry.SourceAccountID,
		modelEntry.TargetAccountID,
		modelEntry.Amount,
		modelEntry.AccountID,
		modelEntry.BalanceBefore,
		modelEntry.BalanceAfter,
		modelEntry.ActorID,
		modelEntry.ActorType,
		modelEntry.Reference,
		modelEntry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, referenceConstraint) {
			return nil, apperrors.ErrDuplicateReference
		}
		if isConcurrencyConflict(err) {
			return nil, apperrors.ErrConcurrentModification
		}
		return nil, apperrors.NewAppError(500, "failed to insert ledger entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	updateQuery := `
		UPDATE balance_accounts
		SET balance = balance + $2,
		    total_allocated_in = total_allocated_in + $3,
		    total_distributed_out = total_distributed_out + $4,
		    total_spent = total_spent + $5,
		    total_reversed = total_reversed + $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE account_id = $1;
	`
	for _, ch := range changes {
		batch.Queue(updateQuery,
			ch.AccountID,
			ch.Delta,
			ch.AllocatedIn,
			ch.DistributedOut,
			ch.Spent,
			ch.Reversed,
			entry.CreatedAt,
			entry.ActorID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isConcurrencyConflict(err) {
			return nil, apperrors.ErrConcurrentModification
		}
		return nil, apperrors.NewAppError(500, "failed to apply balance changes for entry "+modelEntry.EntryID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isConcurrencyConflict(err) {
			return nil, apperrors.ErrConcurrentModification
		}
		return nil, apperrors.NewAppError(500, "failed to commit transfer "+modelEntry.EntryID, err)
	}

	return &entry, nil
}

// FindEntryByID retrieves one entry scoped to a tenant.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT` + entryColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND entry_id = $2;`
	row := r.Pool.QueryRow(ctx, query, tenantID, entryID)
	return scanEntry(row, "entry "+entryID)
}

// FindEntryByReference retrieves the committed entry recorded for an
// idempotency reference and transaction type.
func (r *PgxLedgerRepository) FindEntryByReference(ctx context.Context, tenantID string, txnType domain.TransactionType, reference string) (*domain.LedgerEntry, error) {
	query := `SELECT` + entryColumns + `
		FROM ledger_entries
		WHERE tenant_id = $1 AND transaction_type = $2 AND reference = $3;`
	row := r.Pool.QueryRow(ctx, query, tenantID, string(txnType), reference)
	return scanEntry(row, "entry with reference "+reference)
}

// ListEntriesByAccount retrieves a paginated statement for one account using
// token-based pagination, newest first with entry_id as a stable tie-break.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, tenantID string, accountID string, filter portsrepo.StatementFilter) ([]domain.LedgerEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT` + entryColumns + `
		FROM ledger_entries
		WHERE tenant_id = $1
		  AND (account_id = $2 OR source_account_id = $2 OR target_account_id = $2)`
	args := []interface{}{tenantID, accountID}

	if filter.From != nil {
		args = append(args, *filter.From)
		baseQuery += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		baseQuery += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		baseQuery += ` AND transaction_type = ANY($` + strconv.Itoa(len(args)) + `)`
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Tuple comparison keeps the cursor stable across equal timestamps.
		args = append(args, lastCreatedAt, lastEntryID)
		baseQuery += ` AND (created_at, entry_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY created_at DESC, entry_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for account "+accountID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntryRow(rows)
		if scanErr != nil {
			return nil, nil, scanErr
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for account "+accountID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainEntrySlice(results), nextTokenVal, nil
}

// NetTransferredAlongPath sums value sent from a parent account (nil for the
// Platform root) down to a child, minus the clawbacks and reversals already
// taken back along the same path. The sum is computed from the entries rather
// than the balance snapshots so it stays exact under concurrent activity.
func (r *PgxLedgerRepository) NetTransferredAlongPath(ctx context.Context, tenantID string, sourceAccountID *string, targetAccountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN transaction_type IN ('ALLOCATE', 'DISTRIBUTE') THEN amount
				ELSE -amount
			END
		), 0)
		FROM ledger_entries
		WHERE tenant_id = $1
		  AND (
			(transaction_type IN ('ALLOCATE', 'DISTRIBUTE')
				AND source_account_id IS NOT DISTINCT FROM $2
				AND target_account_id = $3)
			OR
			(transaction_type IN ('CLAWBACK', 'REVERSAL')
				AND source_account_id = $3
				AND target_account_id IS NOT DISTINCT FROM $2)
		  );
	`
	var net decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, tenantID, sourceAccountID, targetAccountID).Scan(&net); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum path transfers for account "+targetAccountID, err)
	}
	return net, nil
}

func scanEntry(row pgx.Row, what string) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.TransactionType,
		&m.SourceAccountID,
		&m.TargetAccountID,
		&m.Amount,
		&m.AccountID,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.ActorID,
		&m.ActorType,
		&m.Reference,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find "+what, err)
	}
	entry := mapping.ToDomainEntry(m)
	return &entry, nil
}

func scanEntryRow(rows pgx.Rows) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := rows.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.TransactionType,
		&m.SourceAccountID,
		&m.TargetAccountID,
		&m.Amount,
		&m.AccountID,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.ActorID,
		&m.ActorType,
		&m.Reference,
		&m.CreatedAt,
	)
	if err != nil {
		return m, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
	}
	return m, nil
}
