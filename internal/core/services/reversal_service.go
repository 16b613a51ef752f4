package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	portsrepo "github.com/recognizely/points_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
	"github.com/recognizely/points_ledger_backend/internal/middleware"
)

// reversalService layers path-history validation over the allocation engine.
// A clawback may never exceed the net value that was historically sent down
// the exact parent->child path it reverses, even when the child still holds
// a larger balance from other sources.
type reversalService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
	tenantRepo  portsrepo.TenantRepository
	engine      portssvc.AllocationSvcFacade
}

// NewReversalService creates a new reversal handler delegating transfers to
// the given allocation engine.
func NewReversalService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository, tenantRepo portsrepo.TenantRepository, engine portssvc.AllocationSvcFacade) portssvc.ReversalSvcFacade {
	return &reversalService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		tenantRepo:  tenantRepo,
		engine:      engine,
	}
}

var _ portssvc.ReversalSvcFacade = (*reversalService)(nil)

// Clawback validates the requested amount against the path history and then
// delegates the transfer to the allocation engine. A replayed reference
// returns the prior receipt before the path check runs: the first
// application itself drained the path, so re-checking would wrongly reject
// the retry.
func (s *reversalService) Clawback(ctx context.Context, actor domain.Actor, tenantID string, req dto.ClawbackRequest) (*domain.Receipt, error) {
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

	parent, err := resolveParentAccount(ctx, s.accountRepo, s.tenantRepo, child)
	if err != nil {
		return nil, err
	}

	var parentAccountID *string
	if parent != nil {
		id := parent.AccountID
		parentAccountID = &id
	}
	netSent, err := s.ledgerRepo.NetTransferredAlongPath(ctx, tenantID, parentAccountID, child.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute path history for account %s: %w", child.AccountID, err)
	}
	if req.Amount.GreaterThan(netSent) {
		return nil, fmt.Errorf("%w: requested %s exceeds net %s sent down this path",
			apperrors.ErrInvalidReversalAmount, req.Amount, netSent)
	}

	return s.engine.Clawback(ctx, actor, tenantID, req)
}

// ReverseEntry appends a compensating REVERSAL entry for one prior ALLOCATE
// or DISTRIBUTE entry. Reversing the same entry twice returns the first
// reversal's receipt; the synthetic reference makes the replay detection the
// same mechanism every other operation uses.
func (s *reversalService) ReverseEntry(ctx context.Context, actor domain.Actor, tenantID string, entryID string) (*domain.Receipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.ledgerRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	if original.TransactionType != domain.Allocate && original.TransactionType != domain.Distribute {
		return nil, fmt.Errorf("%w: only ALLOCATE and DISTRIBUTE entries can be reversed, entry %s is %s",
			apperrors.ErrValidation, entryID, original.TransactionType)
	}
	if original.TargetAccountID == nil {
		return nil, fmt.Errorf("%w: entry %s has no credited account to reverse", apperrors.ErrValidation, entryID)
	}

	reference := "reversal:" + original.EntryID
	if prior, findErr := s.ledgerRepo.FindEntryByReference(ctx, tenantID, domain.Reversal, reference); findErr == nil && prior != nil {
		logger.Info("Entry already reversed, returning prior receipt",
			slog.String("entry_id", prior.EntryID), slog.String("reversed_entry_id", original.EntryID))
		receipt := domain.ReceiptFromEntry(*prior)
		return &receipt, nil
	} else if findErr != nil && !errors.Is(findErr, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing reversal: %w", findErr)
	}

	// Intermediate clawbacks may have drained the path since the original
	// transfer; the full original amount must still be net-outstanding.
	netSent, err := s.ledgerRepo.NetTransferredAlongPath(ctx, tenantID, original.SourceAccountID, *original.TargetAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute path history for entry %s: %w", entryID, err)
	}
	if original.Amount.GreaterThan(netSent) {
		return nil, fmt.Errorf("%w: entry amount %s exceeds net %s still outstanding on this path",
			apperrors.ErrInvalidReversalAmount, original.Amount, netSent)
	}

	// The reversal runs in the opposite direction: debit the account the
	// original credited, credit the account it debited (or the Platform root).
	debited, err := s.accountRepo.FindAccountByID(ctx, *original.TargetAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", *original.TargetAccountID, err)
	}
	if debited.Balance.LessThan(original.Amount) {
		return nil, fmt.Errorf("%w: account %s holds %s, reversal needs %s",
			apperrors.ErrInsufficientFunds, debited.AccountID, debited.Balance, original.Amount)
	}

	entry := domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		TenantID:        tenantID,
		TransactionType: domain.Reversal,
		SourceAccountID: original.TargetAccountID,
		TargetAccountID: original.SourceAccountID,
		Amount:          original.Amount,
		AccountID:       debited.AccountID,
		ActorID:         actor.ActorID,
		ActorType:       actor.ActorType,
		Reference:       reference,
		CreatedAt:       time.Now().UTC(),
	}

	deltas := []portsrepo.AccountDelta{{
		AccountID: debited.AccountID,
		Delta:     original.Amount.Neg(),
		Reversed:  original.Amount,
	}}
	if original.SourceAccountID != nil {
		deltas = append(deltas, portsrepo.AccountDelta{
			AccountID:      *original.SourceAccountID,
			Delta:          original.Amount,
			DistributedOut: original.Amount.Neg(),
		})
	}

	committed, err := s.ledgerRepo.AppendTransfer(ctx, entry, deltas)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateReference) {
			prior, findErr := s.ledgerRepo.FindEntryByReference(ctx, tenantID, domain.Reversal, reference)
			if findErr == nil && prior != nil {
				receipt := domain.ReceiptFromEntry(*prior)
				return &receipt, nil
			}
		}
		return nil, err
	}

	logger.Info("Entry reversed",
		slog.String("entry_id", committed.EntryID),
		slog.String("reversed_entry_id", original.EntryID),
		slog.String("amount", committed.Amount.String()),
	)
	receipt := domain.ReceiptFromEntry(*committed)
	return &receipt, nil
}
