package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Auction keys. The economy runs a fixed set of named auctions rather than
// arbitrary user-created ones.
const (
	AuctionKeyGeneral    = "general"
	AuctionKeySpecialLot = "special-lot"
)

// Auction is the state of one named auction. Bids are strictly increasing;
// payment is settled once, at close.
type Auction struct {
	ID          string
	Key         string
	Title       string
	Description string
	Active      bool
	StartPrice  decimal.Decimal
	EndsAt      *time.Time

	// Winner fields are terminal: set exactly once when the auction closes
	// with a successfully settled highest bid.
	WinnerID   *string
	WinningBid *decimal.Decimal
	SettledAt  *time.Time
	UpdatedAt  time.Time
}

// Bid is one bid on an auction. No money moves when a bid is placed.
type Bid struct {
	ID        string
	AuctionID string
	AccountID string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// MinNextBid returns the lowest acceptable next bid given the current
// highest bid (nil when there are no bids yet).
func (a *Auction) MinNextBid(highest *Bid) decimal.Decimal {
	if highest == nil {
		return a.StartPrice
	}
	return highest.Amount.Add(decimal.NewFromFloat(0.01))
}

// Expired reports whether the auction's end time has passed at now.
func (a *Auction) Expired(now time.Time) bool {
	return a.EndsAt != nil && !a.EndsAt.After(now)
}

// WonLot records a settled auction win.
type WonLot struct {
	ID        string
	AccountID string
	Title     string
	Amount    decimal.Decimal
	WonAt     time.Time
}
