package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAssetDriftBand(t *testing.T) {
	assert.Equal(t, 1.5, (&Asset{Kind: AssetKindEquity}).DriftBand())
	assert.Equal(t, 3.0, (&Asset{Kind: AssetKindCrypto}).DriftBand())
}

func TestAssetNextPrice(t *testing.T) {
	tests := []struct {
		name   string
		kind   AssetKind
		price  string
		sample float64
		want   string
	}{
		// (0.295-0.495)*1.5 = -0.3% → 150.00 * 0.997 = 149.55
		{name: "equity small drop", kind: AssetKindEquity, price: "150.00", sample: 0.295, want: "149.55"},
		// (0.495-0.495)*band = 0 → unchanged
		{name: "center sample keeps price", kind: AssetKindCrypto, price: "65000", sample: 0.495, want: "65000"},
		// max upward tick: (1-0.495)*3 = +1.515%
		{name: "crypto max gain", kind: AssetKindCrypto, price: "100.00", sample: 0.999999, want: "101.51"},
		{name: "floor holds", kind: AssetKindCrypto, price: "0.01", sample: 0.0, want: "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Asset{Kind: tt.kind, Price: decimal.RequireFromString(tt.price)}
			got := a.NextPrice(tt.sample)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestAssetNextPriceNeverBelowFloor(t *testing.T) {
	a := &Asset{Kind: AssetKindCrypto, Price: PriceFloor}
	for _, sample := range []float64{0, 0.1, 0.25, 0.495, 0.75, 0.999} {
		next := a.NextPrice(sample)
		assert.True(t, next.GreaterThanOrEqual(PriceFloor), "sample %f produced %s", sample, next)
		a.Price = next
	}
}
