package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Actor reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // Actor reference
}

// ActorType distinguishes human-initiated operations from system-initiated ones.
type ActorType string

const (
	ActorUser   ActorType = "USER"
	ActorSystem ActorType = "SYSTEM"
)

// Actor identifies who initiated a ledger operation.
type Actor struct {
	ActorID   string    `json:"actorID"`
	ActorType ActorType `json:"actorType"`
}
