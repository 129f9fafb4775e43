package domain

import "time"

// Audit event types.
const (
	AuditTransactionPosted = "TRANSACTION_POSTED"
	AuditReversalCreated   = "REVERSAL_CREATED"
	AuditPeriodLocked      = "PERIOD_LOCKED"
	AuditPeriodUnlocked    = "PERIOD_UNLOCKED"
)

// Audited entity types.
const (
	EntityTransaction = "TRANSACTION"
	EntityPeriod      = "PERIOD"
)

// AuditEvent is emitted inside the same unit of work as the mutation it describes.
type AuditEvent struct {
	EventID    string         `json:"eventID"`
	TenantID   string         `json:"tenantID"`
	Actor      string         `json:"actor"`
	EventType  string         `json:"eventType"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID"`
	Summary    string         `json:"summary"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
