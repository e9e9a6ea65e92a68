package fanout

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/ceobank/backend/internal/domain"
)

const subscriberBuffer = 64

// Hub implements usecase.EventBus. It fans events out to connected
// subscribers over buffered channels. Publishing never blocks: a
// subscriber that cannot keep up loses events rather than stalling the
// publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger zerolog.Logger

	onDrop func()
}

// Subscription is one subscriber's event feed. Global events are always
// delivered; account-scoped events only when the subscription's account
// matches.
type Subscription struct {
	hub       *Hub
	accountID string
	ch        chan domain.Event
	closeOnce sync.Once
}

// NewHub creates a new Hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// OnDrop registers a callback invoked whenever an event is dropped on a
// slow subscriber.
func (h *Hub) OnDrop(fn func()) {
	h.mu.Lock()
	h.onDrop = fn
	h.mu.Unlock()
}

// Subscribe registers a subscriber for one account's events plus all
// global events. Close the subscription when done.
func (h *Hub) Subscribe(accountID string) *Subscription {
	sub := &Subscription{
		hub:       h,
		accountID: accountID,
		ch:        make(chan domain.Event, subscriberBuffer),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Events returns the subscription's event channel.
func (s *Subscription) Events() <-chan domain.Event {
	return s.ch
}

// Close removes the subscription from the hub.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

// PublishToAccount delivers an event to subscribers of one account.
func (h *Hub) PublishToAccount(accountID string, event domain.Event) {
	h.publish(func(sub *Subscription) bool {
		return sub.accountID == accountID
	}, event)
}

// PublishGlobal delivers an event to every subscriber.
func (h *Hub) PublishGlobal(event domain.Event) {
	h.publish(func(*Subscription) bool { return true }, event)
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) publish(match func(*Subscription) bool, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !match(sub) {
			continue
		}

		select {
		case sub.ch <- event:
		default:
			if h.onDrop != nil {
				h.onDrop()
			}
			h.logger.Warn().
				Str("event_type", event.Type).
				Str("account_id", sub.accountID).
				Msg("dropping event for slow subscriber")
		}
	}
}
