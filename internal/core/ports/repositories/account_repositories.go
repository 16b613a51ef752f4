package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
)

// AccountRepository persists balance accounts. Balances are never written
// through this interface; the only balance mutation path is
// LedgerRepository.AppendTransfer.
type AccountRepository interface {
	// SaveAccount inserts a newly provisioned zero-balance account.
	SaveAccount(ctx context.Context, account domain.BalanceAccount) error

	// FindAccountByID retrieves an account by its id.
	FindAccountByID(ctx context.Context, accountID string) (*domain.BalanceAccount, error)

	// FindAccountByNode retrieves the account owned by a hierarchy node.
	FindAccountByNode(ctx context.Context, tenantID string, nodeType domain.NodeType, nodeID string) (*domain.BalanceAccount, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by account id.
	// Missing ids are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.BalanceAccount, error)

	// FindAccountsByIDsForUpdate locks the account rows within tx. Ids are
	// locked in sorted order so competing transfers cannot deadlock.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.BalanceAccount, error)

	// ListAccountsByTenant lists a tenant's accounts.
	ListAccountsByTenant(ctx context.Context, tenantID string, limit int, offset int) ([]domain.BalanceAccount, error)
}
