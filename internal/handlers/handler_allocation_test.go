package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
	"github.com/recognizely/points_ledger_backend/internal/handlers"
	"github.com/recognizely/points_ledger_backend/internal/middleware"
	"github.com/recognizely/points_ledger_backend/internal/platform/config"
)

// --- Mock AllocationService ---
type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) Allocate(ctx context.Context, actor domain.Actor, tenantID string, req dto.AllocateRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
func (m *MockAllocationService) Distribute(ctx context.Context, actor domain.Actor, tenantID string, req dto.DistributeRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
func (m *MockAllocationService) AllocateToEmployee(ctx context.Context, actor domain.Actor, tenantID string, req dto.AllocateToEmployeeRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
func (m *MockAllocationService) Spend(ctx context.Context, actor domain.Actor, tenantID string, req dto.SpendRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
func (m *MockAllocationService) Clawback(ctx context.Context, actor domain.Actor, tenantID string, req dto.ClawbackRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
func (m *MockAllocationService) Adjust(ctx context.Context, actor domain.Actor, tenantID string, req dto.AdjustRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AllocationSvcFacade = (*MockAllocationService)(nil)

// --- Mock ReversalService ---
type MockReversalService struct {
	mock.Mock
}

func (m *MockReversalService) Clawback(ctx context.Context, actor domain.Actor, tenantID string, req dto.ClawbackRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
func (m *MockReversalService) ReverseEntry(ctx context.Context, actor domain.Actor, tenantID string, entryID string) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ReversalSvcFacade = (*MockReversalService)(nil)

// --- Test Suite ---
type AllocationHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockAllocationService *MockAllocationService
	mockReversalService   *MockReversalService
	jwtSecret             string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *AllocationHandlerTestSuite) generateTestToken(actorID string, actorType domain.ActorType) string {
	claims := middleware.ActorClaims{
		ActorType: string(actorType),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ledger-test",
			Subject:   actorID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AllocationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAllocationService = new(MockAllocationService)
	suite.mockReversalService = new(MockReversalService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // no swagger routes under test
	}
	services := &portssvc.ServiceContainer{
		Allocation: suite.mockAllocationService,
		Reversal:   suite.mockReversalService,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *AllocationHandlerTestSuite) postJSON(url string, body any, token string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AllocationHandlerTestSuite) TestAllocate_Success() {
	tenantID := uuid.NewString()
	actorID := uuid.NewString()
	reqBody := dto.AllocateRequest{Amount: decimal.NewFromInt(500), Reference: "grant-2026-q3"}

	receipt := domain.Receipt{
		EntryID:         uuid.NewString(),
		TransactionType: domain.Allocate,
		AccountID:       uuid.NewString(),
		Amount:          reqBody.Amount,
		BalanceAfter:    decimal.NewFromInt(500),
		Reference:       reqBody.Reference,
		CreatedAt:       time.Now().UTC(),
	}
	suite.mockAllocationService.On("Allocate",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(a domain.Actor) bool {
			return a.ActorID == actorID && a.ActorType == domain.ActorUser
		}),
		tenantID,
		mock.MatchedBy(func(r dto.AllocateRequest) bool {
			return r.Amount.Equal(reqBody.Amount) && r.Reference == reqBody.Reference
		}),
	).Return(&receipt, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/allocations", tenantID)
	w := suite.postJSON(url, reqBody, suite.generateTestToken(actorID, domain.ActorUser))

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.ReceiptResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(receipt.EntryID, responseBody.EntryID)
	suite.Equal(string(domain.Allocate), responseBody.TransactionType)

	suite.mockAllocationService.AssertExpectations(suite.T())
}

func (suite *AllocationHandlerTestSuite) TestDistribute_InsufficientFundsMapsTo422() {
	tenantID := uuid.NewString()
	reqBody := dto.DistributeRequest{DepartmentID: uuid.NewString(), Amount: decimal.NewFromInt(9999)}

	suite.mockAllocationService.On("Distribute",
		mock.Anything, mock.Anything, tenantID, mock.Anything,
	).Return(nil, fmt.Errorf("pool is short: %w", apperrors.ErrInsufficientFunds)).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/distributions", tenantID)
	w := suite.postJSON(url, reqBody, suite.generateTestToken(uuid.NewString(), domain.ActorUser))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockAllocationService.AssertExpectations(suite.T())
}

func (suite *AllocationHandlerTestSuite) TestClawback_InvalidReversalAmountMapsTo422() {
	tenantID := uuid.NewString()
	reqBody := dto.ClawbackRequest{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(50000)}

	suite.mockReversalService.On("Clawback",
		mock.Anything, mock.Anything, tenantID, mock.Anything,
	).Return(nil, fmt.Errorf("too much: %w", apperrors.ErrInvalidReversalAmount)).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/clawbacks", tenantID)
	w := suite.postJSON(url, reqBody, suite.generateTestToken(uuid.NewString(), domain.ActorUser))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockReversalService.AssertExpectations(suite.T())
	suite.mockAllocationService.AssertNotCalled(suite.T(), "Clawback", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AllocationHandlerTestSuite) TestAllocate_MissingTokenRejected() {
	url := fmt.Sprintf("/api/v1/tenants/%s/allocations", uuid.NewString())
	reqBody := dto.AllocateRequest{Amount: decimal.NewFromInt(1), Reference: "grant"}

	w := suite.postJSON(url, reqBody, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAllocationService.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AllocationHandlerTestSuite) TestAdjust_SystemActorTypePropagates() {
	tenantID := uuid.NewString()
	actorID := uuid.NewString()
	reqBody := dto.AdjustRequest{
		AccountID: uuid.NewString(),
		Amount:    decimal.NewFromInt(25),
		Direction: dto.AdjustDebit,
		Reference: "correction-17",
	}

	receipt := domain.Receipt{EntryID: uuid.NewString(), TransactionType: domain.Adjustment, Amount: reqBody.Amount}
	suite.mockAllocationService.On("Adjust",
		mock.Anything,
		mock.MatchedBy(func(a domain.Actor) bool {
			return a.ActorID == actorID && a.ActorType == domain.ActorSystem
		}),
		tenantID,
		mock.Anything,
	).Return(&receipt, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/adjustments", tenantID)
	w := suite.postJSON(url, reqBody, suite.generateTestToken(actorID, domain.ActorSystem))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAllocationService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAllocationHandler(t *testing.T) {
	suite.Run(t, new(AllocationHandlerTestSuite))
}
