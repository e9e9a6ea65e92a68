package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is an account's single active loan. Interest is a flat percentage
// of the principal, fixed at take time.
type Loan struct {
	ID           string
	AccountID    string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TakenAt      time.Time
	RepaidAt     *time.Time
}

// Payoff returns principal plus flat interest, rounded to cents.
func (l *Loan) Payoff() decimal.Decimal {
	interest := l.Amount.Mul(l.InterestRate).Div(decimal.NewFromInt(100))
	return l.Amount.Add(interest).Round(2)
}

// Active reports whether the loan is still outstanding.
func (l *Loan) Active() bool {
	return l.RepaidAt == nil
}
