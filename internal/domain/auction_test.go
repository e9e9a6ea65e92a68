package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAuctionMinNextBid(t *testing.T) {
	a := &Auction{StartPrice: decimal.RequireFromString("10.00")}

	assert.True(t, a.MinNextBid(nil).Equal(decimal.RequireFromString("10.00")))

	highest := &Bid{Amount: decimal.RequireFromString("12.00")}
	assert.True(t, a.MinNextBid(highest).Equal(decimal.RequireFromString("12.01")))
}

func TestAuctionExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	assert.False(t, (&Auction{}).Expired(now))
	assert.True(t, (&Auction{EndsAt: &past}).Expired(now))
	assert.False(t, (&Auction{EndsAt: &future}).Expired(now))
}
