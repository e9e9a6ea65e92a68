package domain

import "time"

// AuditLog records an administrative action against an account.
type AuditLog struct {
	ID        string
	ActorID   string
	AccountID string
	Action    string
	Details   map[string]any
	CreatedAt time.Time
}
