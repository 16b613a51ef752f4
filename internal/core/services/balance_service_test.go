package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/core/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
)

// --- Test Suite Setup ---
type BalanceServiceTestSuite struct {
	suite.Suite
	mockAccountRepo   *MockAccountRepository
	mockLedgerRepo    *MockLedgerRepository
	mockTenantRepo    *MockTenantRepository
	mockReportingRepo *MockReportingRepository
	service           portssvc.BalanceSvcFacade

	tenantID string
	wallet   domain.BalanceAccount
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewBalanceService(suite.mockAccountRepo, suite.mockLedgerRepo, suite.mockTenantRepo, suite.mockReportingRepo)

	suite.tenantID = uuid.NewString()
	suite.wallet = domain.BalanceAccount{
		AccountID:        uuid.NewString(),
		TenantID:         suite.tenantID,
		NodeType:         domain.NodeEmployee,
		NodeID:           uuid.NewString(),
		Balance:          decimal.RequireFromString("150.50"),
		TotalAllocatedIn: decimal.RequireFromString("200.50"),
		TotalSpent:       decimal.RequireFromString("50.00"),
	}
}

// --- Test Cases ---

func (suite *BalanceServiceTestSuite) TestGetBalance_WithDisplayConversion() {
	ctx := context.Background()
	config := domain.CurrencyConfig{
		TenantID:        suite.tenantID,
		BaseCurrency:    "USD",
		DisplayCurrency: "JPY",
		FxRate:          decimal.RequireFromString("148.73"),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.wallet.AccountID).Return(&suite.wallet, nil).Once()
	suite.mockTenantRepo.On("FindCurrencyConfig", ctx, suite.tenantID).Return(&config, nil).Once()

	resp, err := suite.service.GetBalance(ctx, suite.tenantID, suite.wallet.AccountID)

	suite.Require().NoError(err)
	suite.True(resp.Balance.Equal(decimal.RequireFromString("150.50")))
	suite.Equal("USD", resp.BaseCurrency)
	suite.Equal("JPY", resp.DisplayCurrency)
	// 150.50 * 148.73 = 22383.865, rounded to the yen's zero decimal places.
	suite.Equal("22384", resp.DisplayBalance)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_NoCurrencyConfigReportsBaseOnly() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.wallet.AccountID).Return(&suite.wallet, nil).Once()
	suite.mockTenantRepo.On("FindCurrencyConfig", ctx, suite.tenantID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetBalance(ctx, suite.tenantID, suite.wallet.AccountID)

	suite.Require().NoError(err)
	suite.True(resp.Balance.Equal(suite.wallet.Balance))
	suite.Empty(resp.DisplayCurrency)
	suite.Empty(resp.DisplayBalance)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_SameDisplayCurrencySkipsConversion() {
	ctx := context.Background()
	config := domain.CurrencyConfig{
		TenantID:        suite.tenantID,
		BaseCurrency:    "USD",
		DisplayCurrency: "USD",
		FxRate:          decimal.NewFromInt(1),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.wallet.AccountID).Return(&suite.wallet, nil).Once()
	suite.mockTenantRepo.On("FindCurrencyConfig", ctx, suite.tenantID).Return(&config, nil).Once()

	resp, err := suite.service.GetBalance(ctx, suite.tenantID, suite.wallet.AccountID)

	suite.Require().NoError(err)
	suite.Equal("USD", resp.BaseCurrency)
	suite.Empty(resp.DisplayCurrency)
	suite.Empty(resp.DisplayBalance)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_CrossTenantForbidden() {
	ctx := context.Background()
	foreign := suite.wallet
	foreign.TenantID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, foreign.AccountID).Return(&foreign, nil).Once()

	_, err := suite.service.GetBalance(ctx, suite.tenantID, foreign.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCrossTenantViolation)
}

func (suite *BalanceServiceTestSuite) TestGetStatement_RejectsUnknownType() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.wallet.AccountID).Return(&suite.wallet, nil).Once()

	_, err := suite.service.GetStatement(ctx, suite.tenantID, suite.wallet.AccountID, dto.StatementParams{
		Types: []string{"TRANSFER"},
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ListEntriesByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestGetStatement_RejectsInvertedRange() {
	ctx := context.Background()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-24 * time.Hour)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.wallet.AccountID).Return(&suite.wallet, nil).Once()

	_, err := suite.service.GetStatement(ctx, suite.tenantID, suite.wallet.AccountID, dto.StatementParams{
		From: &from,
		To:   &to,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BalanceServiceTestSuite) TestGetStatement_ClampsLimitAndPaginates() {
	ctx := context.Background()
	entries := []domain.LedgerEntry{{
		EntryID:         uuid.NewString(),
		TenantID:        suite.tenantID,
		TransactionType: domain.Spend,
		Amount:          decimal.NewFromInt(10),
		AccountID:       suite.wallet.AccountID,
	}}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.wallet.AccountID).Return(&suite.wallet, nil).Once()
	suite.mockLedgerRepo.On("ListEntriesByAccount", ctx, suite.tenantID, suite.wallet.AccountID, mock.MatchedBy(func(f portsrepo.StatementFilter) bool {
		return f.Limit == 100
	})).Return(entries, "next-page-token", nil).Once()

	resp, err := suite.service.GetStatement(ctx, suite.tenantID, suite.wallet.AccountID, dto.StatementParams{
		Limit: 5000,
	})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-page-token", *resp.NextToken)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGetTenantStats_AssemblesBreakdown() {
	ctx := context.Background()
	tenant := domain.Tenant{TenantID: suite.tenantID, IsActive: true}
	totals := domain.TenantStats{
		TenantID:         suite.tenantID,
		PoolBalance:      decimal.NewFromInt(7000),
		TotalAllocated:   decimal.NewFromInt(10000),
		TotalDistributed: decimal.NewFromInt(3000),
		TotalSpent:       decimal.NewFromInt(500),
		TotalClawedBack:  decimal.NewFromInt(0),
	}
	breakdown := []domain.DepartmentBreakdownRow{{
		DepartmentID:   uuid.NewString(),
		DepartmentName: "Engineering",
		Balance:        decimal.NewFromInt(2500),
		AllocatedIn:    decimal.NewFromInt(3000),
		DistributedOut: decimal.NewFromInt(0),
		Spent:          decimal.NewFromInt(500),
	}}

	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&tenant, nil).Once()
	suite.mockReportingRepo.On("GetTenantTotals", ctx, suite.tenantID).Return(&totals, nil).Once()
	suite.mockReportingRepo.On("GetDepartmentBreakdown", ctx, suite.tenantID).Return(breakdown, nil).Once()

	resp, err := suite.service.GetTenantStats(ctx, suite.tenantID)

	suite.Require().NoError(err)
	suite.Equal(suite.tenantID, resp.TenantID)
	suite.True(resp.PoolBalance.Equal(decimal.NewFromInt(7000)))
	suite.Require().Len(resp.Departments, 1)
	suite.Equal("Engineering", resp.Departments[0].DepartmentName)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
