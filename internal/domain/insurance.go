package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsuranceOption is a purchasable coverage period. Buying one extends the
// account's InsuredUntil by Duration from the later of now and the current
// expiry.
type InsuranceOption struct {
	ID       string
	Name     string
	Duration time.Duration
	Cost     decimal.Decimal
}

// ExtendFrom returns the new expiry after buying this option at now with
// the given current expiry (nil if uninsured).
func (o *InsuranceOption) ExtendFrom(now time.Time, current *time.Time) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.Add(o.Duration)
}
