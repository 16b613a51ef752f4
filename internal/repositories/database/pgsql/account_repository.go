package pgsql

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	"github.com/recognizely/points_ledger_backend/internal/models"
	"github.com/recognizely/points_ledger_backend/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for balance account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `
	account_id, tenant_id, node_type, node_id, balance,
	total_allocated_in, total_distributed_out, total_spent, total_reversed,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveAccount inserts a newly provisioned zero-balance account. The
// (tenant_id, node_type, node_id) unique constraint surfaces as ErrDuplicate
// so provisioning can be retried safely.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.BalanceAccount) error {
	modelAccount := mapping.ToModelAccount(account)
	query := `
		INSERT INTO balance_accounts (
			account_id, tenant_id, node_type, node_id, balance,
			total_allocated_in, total_distributed_out, total_spent, total_reversed,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAccount.AccountID,
		modelAccount.TenantID,
		modelAccount.NodeType,
		modelAccount.NodeID,
		modelAccount.Balance,
		modelAccount.TotalAllocatedIn,
		modelAccount.TotalDistributed,
		modelAccount.TotalSpent,
		modelAccount.TotalReversed,
		modelAccount.CreatedAt,
		modelAccount.CreatedBy,
		modelAccount.LastUpdatedAt,
		modelAccount.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert account "+modelAccount.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its id.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.BalanceAccount, error) {
	query := `SELECT` + accountColumns + ` FROM balance_accounts WHERE account_id = $1;`
	row := r.Pool.QueryRow(ctx, query, accountID)
	return scanAccount(row, "account "+accountID)
}

// FindAccountByNode retrieves the account owned by a hierarchy node.
func (r *PgxAccountRepository) FindAccountByNode(ctx context.Context, tenantID string, nodeType domain.NodeType, nodeID string) (*domain.BalanceAccount, error) {
	query := `SELECT` + accountColumns + ` FROM balance_accounts WHERE tenant_id = $1 AND node_type = $2 AND node_id = $3;`
	row := r.Pool.QueryRow(ctx, query, tenantID, string(nodeType), nodeID)
	return scanAccount(row, "account for node "+nodeID)
}

// FindAccountsByIDs retrieves multiple accounts keyed by account id.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.BalanceAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.BalanceAccount{}, nil
	}
	query := `SELECT` + accountColumns + ` FROM balance_accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by ids", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// FindAccountsByIDsForUpdate locks the account rows within tx. Ids are locked
// in sorted order so competing transfers touching the same accounts acquire
// their locks in the same sequence and cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.BalanceAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.BalanceAccount{}, nil
	}
	sortedIDs := make([]string, len(accountIDs))
	copy(sortedIDs, accountIDs)
	sort.Strings(sortedIDs)

	query := `SELECT` + accountColumns + `
		FROM balance_accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;`
	rows, err := tx.Query(ctx, query, sortedIDs)
	if err != nil {
		if isConcurrencyConflict(err) {
			return nil, apperrors.ErrConcurrentModification
		}
		return nil, apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}
	for _, id := range sortedIDs {
		if _, ok := accounts[id]; !ok {
			return nil, apperrors.NewNotFoundError("account " + id + " not found for locking")
		}
	}
	return accounts, nil
}

// ListAccountsByTenant lists a tenant's accounts, tenant pool first.
func (r *PgxAccountRepository) ListAccountsByTenant(ctx context.Context, tenantID string, limit int, offset int) ([]domain.BalanceAccount, error) {
	query := `SELECT` + accountColumns + `
		FROM balance_accounts
		WHERE tenant_id = $1
		ORDER BY node_type, created_at, account_id
		LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for tenant "+tenantID, err)
	}
	defer rows.Close()

	accounts := []domain.BalanceAccount{}
	for rows.Next() {
		m, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows for tenant "+tenantID, err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row, what string) (*domain.BalanceAccount, error) {
	var m models.BalanceAccount
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.NodeType,
		&m.NodeID,
		&m.Balance,
		&m.TotalAllocatedIn,
		&m.TotalDistributed,
		&m.TotalSpent,
		&m.TotalReversed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find "+what, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func scanAccountRow(rows pgx.Rows) (models.BalanceAccount, error) {
	var m models.BalanceAccount
	err := rows.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.NodeType,
		&m.NodeID,
		&m.Balance,
		&m.TotalAllocatedIn,
		&m.TotalDistributed,
		&m.TotalSpent,
		&m.TotalReversed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, apperrors.NewAppError(500, "failed to scan account row", err)
	}
	return m, nil
}

func collectAccounts(rows pgx.Rows) (map[string]domain.BalanceAccount, error) {
	accounts := make(map[string]domain.BalanceAccount)
	for rows.Next() {
		m, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}
