package domain

import "time"

// Notification is a short message shown to one account.
type Notification struct {
	ID        string
	AccountID string
	Text      string
	Read      bool
	CreatedAt time.Time
}
