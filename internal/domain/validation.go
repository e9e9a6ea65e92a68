package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyRound rounds a monetary amount to two decimal places. Every amount
// that is persisted or compared goes through this first.
func MoneyRound(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ValidateAmount checks that a user-supplied monetary amount is positive.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateUsername checks a registration username.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return ErrInvalidUsername
	}
	return nil
}

// ValidatePassword checks a registration password.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}
