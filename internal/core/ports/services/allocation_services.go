package services

import (
	"context"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	"github.com/recognizely/points_ledger_backend/internal/dto"
)

// AllocationSvcFacade is the Allocation Engine: every value movement through
// the hierarchy goes through exactly one of these operations, each a single
// transactional unit of work returning a receipt or a typed error.
type AllocationSvcFacade interface {
	// Allocate grants platform budget to a tenant pool. The Platform root is
	// an unlimited source; no source balance check applies.
	Allocate(ctx context.Context, actor domain.Actor, tenantID string, req dto.AllocateRequest) (*domain.Receipt, error)

	// Distribute moves tenant pool budget into a department pool.
	Distribute(ctx context.Context, actor domain.Actor, tenantID string, req dto.DistributeRequest) (*domain.Receipt, error)

	// AllocateToEmployee moves department budget into an employee wallet.
	AllocateToEmployee(ctx context.Context, actor domain.Actor, tenantID string, req dto.AllocateToEmployeeRequest) (*domain.Receipt, error)

	// Spend debits an employee wallet terminally; value leaves the ledger.
	Spend(ctx context.Context, actor domain.Actor, tenantID string, req dto.SpendRequest) (*domain.Receipt, error)

	// Clawback moves value from a child account back up to its parent. Path
	// history validation lives in ReversalSvcFacade; this is the raw
	// transfer used by it.
	Clawback(ctx context.Context, actor domain.Actor, tenantID string, req dto.ClawbackRequest) (*domain.Receipt, error)

	// Adjust applies a platform-initiated manual correction.
	Adjust(ctx context.Context, actor domain.Actor, tenantID string, req dto.AdjustRequest) (*domain.Receipt, error)
}

// ReversalSvcFacade wraps clawbacks with path-history validation and exposes
// entry-level reversal.
type ReversalSvcFacade interface {
	// Clawback validates the amount against the net value historically sent
	// down the parent->child path before delegating to the allocation
	// engine. Fails with apperrors.ErrInvalidReversalAmount when the amount
	// exceeds what was ever granted through this path.
	Clawback(ctx context.Context, actor domain.Actor, tenantID string, req dto.ClawbackRequest) (*domain.Receipt, error)

	// ReverseEntry appends a compensating REVERSAL entry for one specific
	// prior ALLOCATE or DISTRIBUTE entry.
	ReverseEntry(ctx context.Context, actor domain.Actor, tenantID string, entryID string) (*domain.Receipt, error)
}
