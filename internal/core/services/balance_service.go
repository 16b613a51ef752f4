package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
	"github.com/recognizely/points_ledger_backend/internal/utils/moneydisplay"
)

const (
	defaultStatementLimit = 20
	maxStatementLimit     = 100
)

// balanceService is the read side of the ledger. Balances come straight from
// the committed account snapshots, so they always reflect the caller's own
// completed writes.
type balanceService struct {
	accountRepo   portsrepo.AccountRepository
	ledgerRepo    portsrepo.LedgerRepository
	tenantRepo    portsrepo.TenantRepository
	reportingRepo portsrepo.ReportingRepository
}

// NewBalanceService creates a new balance service.
func NewBalanceService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository, tenantRepo portsrepo.TenantRepository, reportingRepo portsrepo.ReportingRepository) portssvc.BalanceSvcFacade {
	return &balanceService{
		accountRepo:   accountRepo,
		ledgerRepo:    ledgerRepo,
		tenantRepo:    tenantRepo,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// GetBalance returns the current balance of one account in base currency,
// plus the tenant's configured display rendering when one is set up.
func (s *balanceService) GetBalance(ctx context.Context, tenantID string, accountID string) (*dto.BalanceResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.TenantID != tenantID {
		return nil, fmt.Errorf("%w: account %s belongs to tenant %s",
			apperrors.ErrCrossTenantViolation, account.AccountID, account.TenantID)
	}

	resp := &dto.BalanceResponse{
		AccountID:        account.AccountID,
		TenantID:         account.TenantID,
		NodeType:         string(account.NodeType),
		NodeID:           account.NodeID,
		Balance:          account.Balance,
		TotalAllocatedIn: account.TotalAllocatedIn,
		TotalDistributed: account.TotalDistributed,
		TotalSpent:       account.TotalSpent,
		TotalReversed:    account.TotalReversed,
	}

	config, err := s.tenantRepo.FindCurrencyConfig(ctx, tenantID)
	if err != nil {
		// A tenant without a currency config reports base amounts only.
		if errors.Is(err, apperrors.ErrNotFound) {
			return resp, nil
		}
		return nil, fmt.Errorf("failed to find currency config for tenant %s: %w", tenantID, err)
	}

	resp.BaseCurrency = config.BaseCurrency
	if config.DisplayCurrency != "" && config.DisplayCurrency != config.BaseCurrency {
		display := moneydisplay.ToDisplay(account.Balance, config.FxRate, config.DisplayCurrency)
		resp.DisplayCurrency = config.DisplayCurrency
		resp.DisplayBalance = moneydisplay.Format(display, config.DisplayCurrency)
	}
	return resp, nil
}

// GetStatement returns one page of an account's ledger history, newest first.
func (s *balanceService) GetStatement(ctx context.Context, tenantID string, accountID string, params dto.StatementParams) (*dto.StatementResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.TenantID != tenantID {
		return nil, fmt.Errorf("%w: account %s belongs to tenant %s",
			apperrors.ErrCrossTenantViolation, account.AccountID, account.TenantID)
	}

	filter, err := buildStatementFilter(params)
	if err != nil {
		return nil, err
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, tenantID, accountID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}

	return &dto.StatementResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// GetTenantStats assembles tenant-wide totals plus the per-department
// breakdown for dashboards.
func (s *balanceService) GetTenantStats(ctx context.Context, tenantID string) (*dto.TenantStatsResponse, error) {
	if _, err := s.tenantRepo.FindTenantByID(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}

	stats, err := s.reportingRepo.GetTenantTotals(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute tenant totals: %w", err)
	}
	breakdown, err := s.reportingRepo.GetDepartmentBreakdown(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute department breakdown: %w", err)
	}
	stats.Departments = breakdown

	resp := dto.ToTenantStatsResponse(*stats)
	return &resp, nil
}

func buildStatementFilter(params dto.StatementParams) (portsrepo.StatementFilter, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultStatementLimit
	}
	if limit > maxStatementLimit {
		limit = maxStatementLimit
	}

	types := make([]domain.TransactionType, 0, len(params.Types))
	for _, t := range params.Types {
		txnType := domain.TransactionType(t)
		switch txnType {
		case domain.Allocate, domain.Distribute, domain.Spend,
			domain.Clawback, domain.Reversal, domain.Adjustment:
			types = append(types, txnType)
		default:
			return portsrepo.StatementFilter{}, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, t)
		}
	}

	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return portsrepo.StatementFilter{}, fmt.Errorf("%w: statement range end precedes start", apperrors.ErrValidation)
	}

	return portsrepo.StatementFilter{
		From:      params.From,
		To:        params.To,
		Types:     types,
		Limit:     limit,
		NextToken: params.NextToken,
	}, nil
}
