package domain

import "time"

// Event types carried by both the in-process hub and the durable outbox.
const (
	EventTypeBalanceUpdate       = "balance.updated"
	EventTypeNotificationCreated = "notification.created"
	EventTypeMarketUpdate        = "market.updated"
	EventTypeCatalogUpdate       = "catalog.updated"
	EventTypeAuctionUpdate       = "auction.updated"
	EventTypeSettlementFailed    = "auction.settlement_failed"
)

// Event is a fan-out message. AccountID is empty for global events.
type Event struct {
	Type      string         `json:"type"`
	AccountID string         `json:"accountId,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	At        time.Time      `json:"at"`
}

// OutboxEvent is a durable event row written in the same transaction as
// the state change it describes, and published asynchronously by a relay.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
