package mapping

import (
	"github.com/recognizely/points_ledger_backend/internal/core/domain"
	"github.com/recognizely/points_ledger_backend/internal/models"
)

// ToModelAccount converts a domain balance account for DB storage.
func ToModelAccount(d domain.BalanceAccount) models.BalanceAccount {
	return models.BalanceAccount{
		AccountID:        d.AccountID,
		TenantID:         d.TenantID,
		NodeType:         models.NodeType(d.NodeType),
		NodeID:           d.NodeID,
		Balance:          d.Balance,
		TotalAllocatedIn: d.TotalAllocatedIn,
		TotalDistributed: d.TotalDistributed,
		TotalSpent:       d.TotalSpent,
		TotalReversed:    d.TotalReversed,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB balance account row to the domain type.
func ToDomainAccount(m models.BalanceAccount) domain.BalanceAccount {
	return domain.BalanceAccount{
		AccountID:        m.AccountID,
		TenantID:         m.TenantID,
		NodeType:         domain.NodeType(m.NodeType),
		NodeID:           m.NodeID,
		Balance:          m.Balance,
		TotalAllocatedIn: m.TotalAllocatedIn,
		TotalDistributed: m.TotalDistributed,
		TotalSpent:       m.TotalSpent,
		TotalReversed:    m.TotalReversed,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
