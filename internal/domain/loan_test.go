package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoanPayoff(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{name: "five percent", amount: "1000", rate: "5", want: "1050"},
		{name: "rounds to cents", amount: "33.33", rate: "5", want: "35.00"},
		{name: "zero rate", amount: "500", rate: "0", want: "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Loan{
				Amount:       decimal.RequireFromString(tt.amount),
				InterestRate: decimal.RequireFromString(tt.rate),
			}
			got := l.Payoff()
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestLoanActive(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Loan{}).Active())
	assert.False(t, (&Loan{RepaidAt: &now}).Active())
}
