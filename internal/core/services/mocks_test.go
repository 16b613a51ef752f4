package services_test

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.BalanceAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.BalanceAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNode(ctx context.Context, tenantID string, nodeType domain.NodeType, nodeID string) (*domain.BalanceAccount, error) {
	args := m.Called(ctx, tenantID, nodeType, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.BalanceAccount, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.BalanceAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.BalanceAccount, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.BalanceAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByTenant(ctx context.Context, tenantID string, limit int, offset int) ([]domain.BalanceAccount, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceAccount), args.Error(1)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepository = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) AppendTransfer(ctx context.Context, entry domain.LedgerEntry, changes []portsrepo.AccountDelta) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntryByReference(ctx context.Context, tenantID string, txnType domain.TransactionType, reference string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, txnType, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, tenantID string, accountID string, filter portsrepo.StatementFilter) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, tenantID, accountID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), nextToken, args.Error(2)
}

func (m *MockLedgerRepository) NetTransferredAlongPath(ctx context.Context, tenantID string, sourceAccountID *string, targetAccountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, sourceAccountID, targetAccountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock TenantRepository ---
type MockTenantRepository struct {
	mock.Mock
}

var _ portsrepo.TenantRepository = (*MockTenantRepository)(nil)

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenants(ctx context.Context, limit int, offset int) ([]domain.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	args := m.Called(ctx, department)
	return args.Error(0)
}

func (m *MockTenantRepository) FindDepartmentByID(ctx context.Context, tenantID string, departmentID string) (*domain.Department, error) {
	args := m.Called(ctx, tenantID, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *MockTenantRepository) ListDepartmentsByTenant(ctx context.Context, tenantID string) ([]domain.Department, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Department), args.Error(1)
}

func (m *MockTenantRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockTenantRepository) FindEmployeeByID(ctx context.Context, tenantID string, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, tenantID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockTenantRepository) ListEmployeesByDepartment(ctx context.Context, tenantID string, departmentID string) ([]domain.Employee, error) {
	args := m.Called(ctx, tenantID, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *MockTenantRepository) SaveCurrencyConfig(ctx context.Context, config domain.CurrencyConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockTenantRepository) FindCurrencyConfig(ctx context.Context, tenantID string) (*domain.CurrencyConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyConfig), args.Error(1)
}

func (m *MockTenantRepository) UpdateCurrencyConfig(ctx context.Context, config domain.CurrencyConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTenantTotals(ctx context.Context, tenantID string) (*domain.TenantStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantStats), args.Error(1)
}

func (m *MockReportingRepository) GetDepartmentBreakdown(ctx context.Context, tenantID string) ([]domain.DepartmentBreakdownRow, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepartmentBreakdownRow), args.Error(1)
}

// --- In-memory ledger fake ---

// fakeLedgerRepository applies transfers against in-memory accounts under a
// mutex, mirroring the storage contract: atomic apply, non-negative re-check
// and reference uniqueness. It backs the concurrency tests where expectation
// mocks cannot express interleaving.
type fakeLedgerRepository struct {
	mu          sync.Mutex
	accounts    map[string]*domain.BalanceAccount
	entries     map[string]domain.LedgerEntry
	byReference map[string]string // "type|reference" -> entry id
}

var _ portsrepo.LedgerRepository = (*fakeLedgerRepository)(nil)

func newFakeLedgerRepository(accounts ...*domain.BalanceAccount) *fakeLedgerRepository {
	f := &fakeLedgerRepository{
		accounts:    make(map[string]*domain.BalanceAccount),
		entries:     make(map[string]domain.LedgerEntry),
		byReference: make(map[string]string),
	}
	for _, a := range accounts {
		f.accounts[a.AccountID] = a
	}
	return f
}

func (f *fakeLedgerRepository) AppendTransfer(ctx context.Context, entry domain.LedgerEntry, changes []portsrepo.AccountDelta) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if entry.Reference != "" {
		key := string(entry.TransactionType) + "|" + entry.Reference
		if _, exists := f.byReference[key]; exists {
			return nil, apperrors.ErrDuplicateReference
		}
	}

	for _, ch := range changes {
		acc, ok := f.accounts[ch.AccountID]
		if !ok {
			return nil, apperrors.ErrNotFound
		}
		if acc.Balance.Add(ch.Delta).IsNegative() {
			return nil, apperrors.ErrInsufficientFunds
		}
	}

	primary := f.accounts[entry.AccountID]
	entry.BalanceBefore = primary.Balance
	for _, ch := range changes {
		acc := f.accounts[ch.AccountID]
		acc.Balance = acc.Balance.Add(ch.Delta)
		acc.TotalAllocatedIn = acc.TotalAllocatedIn.Add(ch.AllocatedIn)
		acc.TotalDistributed = acc.TotalDistributed.Add(ch.DistributedOut)
		acc.TotalSpent = acc.TotalSpent.Add(ch.Spent)
		acc.TotalReversed = acc.TotalReversed.Add(ch.Reversed)
	}
	entry.BalanceAfter = primary.Balance

	f.entries[entry.EntryID] = entry
	if entry.Reference != "" {
		f.byReference[string(entry.TransactionType)+"|"+entry.Reference] = entry.EntryID
	}
	return &entry, nil
}

func (f *fakeLedgerRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[entryID]
	if !ok || entry.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &entry, nil
}

func (f *fakeLedgerRepository) FindEntryByReference(ctx context.Context, tenantID string, txnType domain.TransactionType, reference string) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entryID, ok := f.byReference[string(txnType)+"|"+reference]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	entry := f.entries[entryID]
	if entry.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &entry, nil
}

func (f *fakeLedgerRepository) ListEntriesByAccount(ctx context.Context, tenantID string, accountID string, filter portsrepo.StatementFilter) ([]domain.LedgerEntry, *string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := []domain.LedgerEntry{}
	for _, e := range f.entries {
		if e.TenantID != tenantID {
			continue
		}
		if e.AccountID == accountID ||
			(e.SourceAccountID != nil && *e.SourceAccountID == accountID) ||
			(e.TargetAccountID != nil && *e.TargetAccountID == accountID) {
			entries = append(entries, e)
		}
	}
	return entries, nil, nil
}

func (f *fakeLedgerRepository) NetTransferredAlongPath(ctx context.Context, tenantID string, sourceAccountID *string, targetAccountID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	net := decimal.Zero
	sameSource := func(id *string) bool {
		if sourceAccountID == nil || id == nil {
			return sourceAccountID == nil && id == nil
		}
		return *sourceAccountID == *id
	}
	for _, e := range f.entries {
		if e.TenantID != tenantID {
			continue
		}
		switch e.TransactionType {
		case domain.Allocate, domain.Distribute:
			if sameSource(e.SourceAccountID) && e.TargetAccountID != nil && *e.TargetAccountID == targetAccountID {
				net = net.Add(e.Amount)
			}
		case domain.Clawback, domain.Reversal:
			if e.SourceAccountID != nil && *e.SourceAccountID == targetAccountID && sameSource(e.TargetAccountID) {
				net = net.Sub(e.Amount)
			}
		}
	}
	return net, nil
}
