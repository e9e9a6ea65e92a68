package fanout

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ceobank/backend/internal/domain"
)

func TestHubRoutesAccountEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	alice := hub.Subscribe("acc-a")
	defer alice.Close()
	bob := hub.Subscribe("acc-b")
	defer bob.Close()

	hub.PublishToAccount("acc-a", domain.Event{Type: domain.EventTypeBalanceUpdate, AccountID: "acc-a"})

	select {
	case event := <-alice.Events():
		if event.Type != domain.EventTypeBalanceUpdate {
			t.Fatalf("unexpected event type %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("expected alice to receive her event")
	}

	select {
	case event := <-bob.Events():
		t.Fatalf("bob received someone else's event: %+v", event)
	default:
	}
}

func TestHubBroadcastsGlobalEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	alice := hub.Subscribe("acc-a")
	defer alice.Close()
	bob := hub.Subscribe("acc-b")
	defer bob.Close()

	hub.PublishGlobal(domain.Event{Type: domain.EventTypeMarketUpdate})

	for _, sub := range []*Subscription{alice, bob} {
		select {
		case event := <-sub.Events():
			if event.Type != domain.EventTypeMarketUpdate {
				t.Fatalf("unexpected event type %s", event.Type)
			}
		case <-time.After(time.Second):
			t.Fatal("expected all subscribers to receive global event")
		}
	}
}

func TestHubDropsOnSlowSubscriber(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	dropped := 0
	hub.OnDrop(func() { dropped++ })

	sub := hub.Subscribe("acc-a")
	defer sub.Close()

	// Never read: fill the buffer and then some.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.PublishToAccount("acc-a", domain.Event{Type: domain.EventTypeBalanceUpdate})
	}

	if dropped != 5 {
		t.Fatalf("expected 5 dropped events, got %d", dropped)
	}
}

func TestHubCloseRemovesSubscriber(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	sub := hub.Subscribe("acc-a")
	if hub.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount())
	}

	sub.Close()
	sub.Close() // closing twice is safe

	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after close, got %d", hub.SubscriberCount())
	}

	if _, open := <-sub.Events(); open {
		t.Fatal("expected channel to be closed")
	}
}
