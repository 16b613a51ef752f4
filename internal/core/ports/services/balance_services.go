package services

import (
	"context"

	"github.com/recognizely/points_ledger_backend/internal/dto"
)

// BalanceSvcFacade is the read side of the ledger: current balances,
// paginated statements and tenant aggregates. Reads always reflect the
// latest committed state (no caching layer sits in front of them).
type BalanceSvcFacade interface {
	GetBalance(ctx context.Context, tenantID string, accountID string) (*dto.BalanceResponse, error)
	GetStatement(ctx context.Context, tenantID string, accountID string, params dto.StatementParams) (*dto.StatementResponse, error)
	GetTenantStats(ctx context.Context, tenantID string) (*dto.TenantStatsResponse, error)
}
