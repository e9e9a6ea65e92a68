package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind distinguishes how volatile an asset is on the exchange.
type AssetKind string

const (
	AssetKindEquity AssetKind = "equity"
	AssetKindCrypto AssetKind = "crypto"
)

// Drift bands in percent for the random walk, and the absolute price floor.
var (
	driftBandEquity = 1.5
	driftBandCrypto = 3.0

	// PriceFloor is the minimum price any asset can reach.
	PriceFloor = decimal.NewFromFloat(0.01)
)

// Asset is a tradeable instrument with a single shared price.
type Asset struct {
	ID        string
	Ticker    string
	Name      string
	Kind      AssetKind
	Price     decimal.Decimal
	UpdatedAt time.Time
}

// DriftBand returns the half-width of the tick distribution in percent.
func (a *Asset) DriftBand() float64 {
	if a.Kind == AssetKindCrypto {
		return driftBandCrypto
	}
	return driftBandEquity
}

// NextPrice applies one tick of the bounded random walk. sample must be in
// [0, 1); the walk is slightly upward-biased (center 0.495).
func (a *Asset) NextPrice(sample float64) decimal.Decimal {
	pct := (sample - 0.495) * a.DriftBand()
	next := a.Price.Mul(decimal.NewFromFloat(1 + pct/100))
	if next.LessThan(PriceFloor) {
		next = PriceFloor
	}
	return next.Round(2)
}

// PricePoint is one row of an asset's price history.
type PricePoint struct {
	ID         string
	AssetID    string
	Price      decimal.Decimal
	RecordedAt time.Time
}

// Holding is the quantity of one asset owned by one account.
type Holding struct {
	ID        string
	AccountID string
	AssetID   string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
