package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
	"github.com/recognizely/points_ledger_backend/internal/middleware"
)

var (
	ErrAmountNotPositive  = errors.New("transfer amount must be positive")
	ErrAmountScale        = errors.New("transfer amount must have at most two decimal places")
	ErrTenantInactive     = errors.New("tenant is inactive")
	ErrNodeInactive       = errors.New("hierarchy node is inactive")
	ErrDepartmentMismatch = errors.New("employee does not belong to the given department")
)

// allocationService is the Allocation Engine. Every value movement through
// the hierarchy funnels into the execute method, which owns validation and
// delegates the atomic write to the ledger repository.
type allocationService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
	tenantRepo  portsrepo.TenantRepository
}

// NewAllocationService creates a new allocation engine.
func NewAllocationService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository, tenantRepo portsrepo.TenantRepository) portssvc.AllocationSvcFacade {
	return &allocationService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		tenantRepo:  tenantRepo,
	}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// transfer is the single primitive underlying all public operations,
// parameterized by the (source, target) account pair. A nil source is the
// Platform root; a nil target is a terminal debit.
type transfer struct {
	txnType   domain.TransactionType
	tenantID  string
	source    *domain.BalanceAccount
	target    *domain.BalanceAccount
	amount    decimal.Decimal
	actor     domain.Actor
	reference string
}

// primary returns the account whose balance_before/balance_after audit pair
// the entry records: the debited account when one exists, otherwise the
// credited account.
func (t transfer) primary() *domain.BalanceAccount {
	if t.source != nil {
		return t.source
	}
	return t.target
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountScale)
	}
	return nil
}

// buildDeltas computes the balance mutation and lifetime-counter increments
// for both sides of a transfer. The counters keep every account satisfying
// balance == total_allocated_in - total_distributed_out - total_spent -
// total_reversed: a downward transfer grows the source's distributed_out and
// the target's allocated_in; a clawback/reversal grows the child's
// total_reversed and gives the parent its distributed_out back.
func buildDeltas(t transfer) []portsrepo.AccountDelta {
	deltas := make([]portsrepo.AccountDelta, 0, 2)

	if t.source != nil {
		d := portsrepo.AccountDelta{
			AccountID: t.source.AccountID,
			Delta:     t.amount.Neg(),
		}
		switch t.txnType {
		case domain.Spend:
			d.Spent = t.amount
		case domain.Clawback, domain.Reversal:
			d.Reversed = t.amount
		case domain.Adjustment:
			d.Reversed = t.amount
		default: // DISTRIBUTE
			d.DistributedOut = t.amount
		}
		deltas = append(deltas, d)
	}

	if t.target != nil {
		d := portsrepo.AccountDelta{
			AccountID: t.target.AccountID,
			Delta:     t.amount,
		}
		switch t.txnType {
		case domain.Clawback, domain.Reversal:
			// The parent reclaims value it previously sent down.
			d.DistributedOut = t.amount.Neg()
		default: // ALLOCATE, DISTRIBUTE, credit ADJUSTMENT
			d.AllocatedIn = t.amount
		}
		deltas = append(deltas, d)
	}

	return deltas
}

// priorReceipt looks up an already-committed entry for this reference and
// transaction type. A hit means the request is a replay: the first
// application already passed every precondition and may since have changed
// the state those preconditions inspect, so the caller must return the
// original receipt without re-checking anything.
func priorReceipt(ctx context.Context, ledgerRepo portsrepo.LedgerRepository, tenantID string, txnType domain.TransactionType, reference string) (*domain.Receipt, error) {
	if reference == "" {
		return nil, nil
	}
	prior, err := ledgerRepo.FindEntryByReference(ctx, tenantID, txnType, reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check reference %q: %w", reference, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Replayed transfer returned prior receipt",
		slog.String("entry_id", prior.EntryID), slog.String("reference", reference))
	receipt := domain.ReceiptFromEntry(*prior)
	return &receipt, nil
}

// execute validates and atomically applies one transfer, returning the
// receipt. Any precondition failure aborts before any write. Replay
// detection happens in the public operations before any other check; the
// duplicate-reference fallback below only covers the race with a concurrent
// writer committing the same reference after that probe.
func (s *allocationService) execute(ctx context.Context, t transfer) (*domain.Receipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(t.amount); err != nil {
		return nil, err
	}

	// Tenant scoping: a transfer may never cross tenant boundaries. The
	// Platform root carries no tenant and is exempt on the ALLOCATE step.
	for _, acc := range []*domain.BalanceAccount{t.source, t.target} {
		if acc != nil && acc.TenantID != t.tenantID {
			return nil, fmt.Errorf("%w: account %s belongs to tenant %s, operation is scoped to %s",
				apperrors.ErrCrossTenantViolation, acc.AccountID, acc.TenantID, t.tenantID)
		}
	}

	// Fast insufficient-funds check against the freshest committed read. The
	// authoritative check re-runs inside the storage transaction under row
	// locks; this one only exists to fail cheaply.
	if t.source != nil && t.source.Balance.LessThan(t.amount) {
		return nil, fmt.Errorf("%w: account %s holds %s, transfer needs %s",
			apperrors.ErrInsufficientFunds, t.source.AccountID, t.source.Balance, t.amount)
	}

	primary := t.primary()
	entry := domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		TenantID:        t.tenantID,
		TransactionType: t.txnType,
		Amount:          t.amount,
		AccountID:       primary.AccountID,
		ActorID:         t.actor.ActorID,
		ActorType:       t.actor.ActorType,
		Reference:       t.reference,
		CreatedAt:       time.Now().UTC(),
	}
	if t.source != nil {
		id := t.source.AccountID
		entry.SourceAccountID = &id
	}
	if t.target != nil {
		id := t.target.AccountID
		entry.TargetAccountID = &id
	}

	committed, err := s.ledgerRepo.AppendTransfer(ctx, entry, buildDeltas(t))
	if err != nil {
		// A concurrent writer may have committed the same reference between
		// the probe above and the append; surface its receipt as success.
		if errors.Is(err, apperrors.ErrDuplicateReference) && t.reference != "" {
			prior, findErr := s.ledgerRepo.FindEntryByReference(ctx, t.tenantID, t.txnType, t.reference)
			if findErr == nil && prior != nil {
				logger.Info("Concurrent replay returned prior receipt",
					slog.String("entry_id", prior.EntryID), slog.String("reference", t.reference))
				receipt := domain.ReceiptFromEntry(*prior)
				return &receipt, nil
			}
		}
		return nil, err
	}

	logger.Info("Transfer committed",
		slog.String("entry_id", committed.EntryID),
		slog.String("transaction_type", string(committed.TransactionType)),
		slog.String("tenant_id", committed.TenantID),
		slog.String("amount", committed.Amount.String()),
	)
	receipt := domain.ReceiptFromEntry(*committed)
	return &receipt, nil
}

// Allocate grants platform budget to a tenant pool. The Platform root is an
// unlimited source, so there is no source balance check.
func (s *allocationService) Allocate(ctx context.Context, actor domain.Actor, tenantID string, req dto.AllocateRequest) (*domain.Receipt, error) {
	if prior, err := priorReceipt(ctx, s.ledgerRepo, tenantID, domain.Allocate, req.Reference); prior != nil || err != nil {
		return prior, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	if !tenant.IsActive {
		return nil, fmt.Errorf("%w: %w: tenant %s", apperrors.ErrValidation, ErrTenantInactive, tenantID)
	}

	pool, err := s.accountRepo.FindAccountByNode(ctx, tenantID, domain.NodeTenant, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant pool account: %w", err)
	}

	return s.execute(ctx, transfer{
		txnType:   domain.Allocate,
		tenantID:  tenantID,
		target:    pool,
		amount:    req.Amount,
		actor:     actor,
		reference: req.Reference,
	})
}

// Distribute moves tenant pool budget into a department pool.
func (s *allocationService) Distribute(ctx context.Context, actor domain.Actor, tenantID string, req dto.DistributeRequest) (*domain.Receipt, error) {
	if prior, err := priorReceipt(ctx, s.ledgerRepo, tenantID, domain.Distribute, req.Reference); prior != nil || err != nil {
		return prior, err
	}

	dept, err := s.tenantRepo.FindDepartmentByID(ctx, tenantID, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find department %s: %w", req.DepartmentID, err)
	}
	if !dept.IsActive {
		return nil, fmt.Errorf("%w: %w: department %s", apperrors.ErrValidation, ErrNodeInactive, dept.DepartmentID)
	}

	pool, err := s.accountRepo.FindAccountByNode(ctx, tenantID, domain.NodeTenant, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant pool account: %w", err)
	}
	deptAccount, err := s.accountRepo.FindAccountByNode(ctx, tenantID, domain.NodeDepartment, dept.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find department account: %w", err)
	}

	return s.execute(ctx, transfer{
		txnType:   domain.Distribute,
		tenantID:  tenantID,
		source:    pool,
		target:    deptAccount,
		amount:    req.Amount,
		actor:     actor,
		reference: req.Reference,
	})
}

// AllocateToEmployee moves department budget into an employee wallet. Same
// pattern as Distribute one level down the hierarchy.
func (s *allocationService) AllocateToEmployee(ctx context.Context, actor domain.Actor, tenantID string, req dto.AllocateToEmployeeRequest) (*domain.Receipt, error) {
	if prior, err := priorReceipt(ctx, s.ledgerRepo, tenantID, domain.Distribute, req.Reference); prior != nil || err != nil {
		return prior, err
	}

	employee, err := s.tenantRepo.FindEmployeeByID(ctx, tenantID, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee %s: %w", req.EmployeeID, err)
	}
	if !employee.IsActive {
		return nil, fmt.Errorf("%w: %w: employee %s", apperrors.ErrValidation, ErrNodeInactive, employee.EmployeeID)
	}
	if employee.DepartmentID != req.DepartmentID {
		return nil, fmt.Errorf("%w: %w: employee %s is in department %s",
			apperrors.ErrValidation, ErrDepartmentMismatch, employee.EmployeeID, employee.DepartmentID)
	}

	deptAccount, err := s.accountRepo.FindAccountByNode(ctx, tenantID, domain.NodeDepartment, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find department account: %w", err)
	}
	wallet, err := s.accountRepo.FindAccountByNode(ctx, tenantID, domain.NodeEmployee, employee.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee wallet: %w", err)
	}

	return s.execute(ctx, transfer{
		txnType:   domain.Distribute,
		tenantID:  tenantID,
		source:    deptAccount,
		target:    wallet,
		amount:    req.Amount,
		actor:     actor,
		reference: req.Reference,
	})
}

// Spend debits an employee wallet terminally; the value leaves the ledger.
func (s *allocationService) Spend(ctx context.Context, actor domain.Actor, tenantID string, req dto.SpendRequest) (*domain.Receipt, error) {
	if prior, err := priorReceipt(ctx, s.ledgerRepo, tenantID, domain.Spend, req.Reference); prior != nil || err != nil {
		return prior, err
	}

	employee, err := s.tenantRepo.FindEmployeeByID(ctx, tenantID, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee %s: %w", req.EmployeeID, err)
	}
	if !employee.IsActive {
		return nil, fmt.Errorf("%w: %w: employee %s", apperrors.ErrValidation, ErrNodeInactive, employee.EmployeeID)
	}

	wallet, err := s.accountRepo.FindAccountByNode(ctx, tenantID, domain.NodeEmployee, employee.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee wallet: %w", err)
	}

	return s.execute(ctx, transfer{
		txnType:   domain.Spend,
		tenantID:  tenantID,
		source:    wallet,
		amount:    req.Amount,
		actor:     actor,
		reference: req.Reference,
	})
}

// Clawback moves value from a child account back up to its parent. The
// reversal handler layers path-history validation on top of this.
func (s *allocationService) Clawback(ctx context.Context, actor domain.Actor, tenantID string, req dto.ClawbackRequest) (*domain.Receipt, error) {
	if prior, err := priorReceipt(ctx, s.ledgerRepo, tenantID, domain.Clawback, req.Reference); prior != nil || err != nil {
		return prior, err
	}

	child, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if child.TenantID != tenantID {
		return nil, fmt.Errorf("%w: account %s belongs to tenant %s",
			apperrors.ErrCrossTenantViolation, child.AccountID, child.TenantID)
	}

	parent, err := s.resolveParentAccount(ctx, child)
	if err != nil {
		return nil, err
	}

	return s.execute(ctx, transfer{
		txnType:   domain.Clawback,
		tenantID:  tenantID,
		source:    child,
		target:    parent, // nil for a tenant pool: value returns to the Platform root
		amount:    req.Amount,
		actor:     actor,
		reference: req.Reference,
	})
}

// Adjust applies a platform-initiated manual correction. Only system actors
// may adjust; human corrections go through clawbacks so the path history
// stays honest.
func (s *allocationService) Adjust(ctx context.Context, actor domain.Actor, tenantID string, req dto.AdjustRequest) (*domain.Receipt, error) {
	if actor.ActorType != domain.ActorSystem {
		return nil, fmt.Errorf("%w: adjustments require a platform system actor", apperrors.ErrForbidden)
	}
	if prior, err := priorReceipt(ctx, s.ledgerRepo, tenantID, domain.Adjustment, req.Reference); prior != nil || err != nil {
		return prior, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if account.TenantID != tenantID {
		return nil, fmt.Errorf("%w: account %s belongs to tenant %s",
			apperrors.ErrCrossTenantViolation, account.AccountID, account.TenantID)
	}

	t := transfer{
		txnType:   domain.Adjustment,
		tenantID:  tenantID,
		amount:    req.Amount,
		actor:     actor,
		reference: req.Reference,
	}
	if req.Direction == dto.AdjustDebit {
		t.source = account
	} else {
		t.target = account
	}

	return s.execute(ctx, t)
}

func (s *allocationService) resolveParentAccount(ctx context.Context, child *domain.BalanceAccount) (*domain.BalanceAccount, error) {
	return resolveParentAccount(ctx, s.accountRepo, s.tenantRepo, child)
}

// resolveParentAccount returns the account one hierarchy level above child,
// or nil when the parent is the Platform root.
func resolveParentAccount(ctx context.Context, accountRepo portsrepo.AccountRepository, tenantRepo portsrepo.TenantRepository, child *domain.BalanceAccount) (*domain.BalanceAccount, error) {
	switch child.NodeType {
	case domain.NodeTenant:
		return nil, nil
	case domain.NodeDepartment:
		parent, err := accountRepo.FindAccountByNode(ctx, child.TenantID, domain.NodeTenant, child.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to find tenant pool account: %w", err)
		}
		return parent, nil
	case domain.NodeEmployee:
		employee, err := tenantRepo.FindEmployeeByID(ctx, child.TenantID, child.NodeID)
		if err != nil {
			return nil, fmt.Errorf("failed to find employee %s: %w", child.NodeID, err)
		}
		parent, err := accountRepo.FindAccountByNode(ctx, child.TenantID, domain.NodeDepartment, employee.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to find department account: %w", err)
		}
		return parent, nil
	default:
		return nil, fmt.Errorf("%w: unknown node type %q", apperrors.ErrValidation, child.NodeType)
	}
}
