package mapping

import (
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	"github.com/recognizely/points_ledger_backend/internal/models"
)

// ToModelEntry converts a domain ledger entry for DB storage.
func ToModelEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:         d.EntryID,
		TenantID:        d.TenantID,
		TransactionType: models.TransactionType(d.TransactionType),
		SourceAccountID: d.SourceAccountID,
		TargetAccountID: d.TargetAccountID,
		Amount:          d.Amount,
		AccountID:       d.AccountID,
		BalanceBefore:   d.BalanceBefore,
		BalanceAfter:    d.BalanceAfter,
		ActorID:         d.ActorID,
		ActorType:       string(d.ActorType),
		Reference:       d.Reference,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainEntry converts a DB ledger entry row to the domain type.
func ToDomainEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:         m.EntryID,
		TenantID:        m.TenantID,
		TransactionType: domain.TransactionType(m.TransactionType),
		SourceAccountID: m.SourceAccountID,
		TargetAccountID: m.TargetAccountID,
		Amount:          m.Amount,
		AccountID:       m.AccountID,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		ActorID:         m.ActorID,
		ActorType:       domain.ActorType(m.ActorType),
		Reference:       m.Reference,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainEntrySlice converts a slice of entry rows.
func ToDomainEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntry(m)
	}
	return ds
}
