package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind labels the economic action that produced a ledger entry.
type EntryKind string

const (
	EntryKindRegistrationBonus EntryKind = "registration-bonus"
	EntryKindTransferOut       EntryKind = "transfer-out"
	EntryKindTransferIn        EntryKind = "transfer-in"
	EntryKindPurchase          EntryKind = "purchase"
	EntryKindDepositOpen       EntryKind = "deposit-open"
	EntryKindDepositMaturity   EntryKind = "deposit-maturity"
	EntryKindAdminAdjustment   EntryKind = "admin-adjustment"
	EntryKindLoan              EntryKind = "loan"
	EntryKindLoanRepayment     EntryKind = "loan-repayment"
	EntryKindInsurance         EntryKind = "insurance"
	EntryKindExchangeBuy       EntryKind = "exchange-buy"
	EntryKindExchangeSell      EntryKind = "exchange-sell"
	EntryKindAuctionWin        EntryKind = "auction-win"
	EntryKindReversal          EntryKind = "reversal"
)

// AnnotationReversed marks an entry that has been compensated by a
// reversal. The annotation is the only field of an entry that may be
// written after creation.
const AnnotationReversed = "reversed"

// Entry is the immutable record of one balance-affecting event. Amount is
// stored non-negative; direction is carried by IsCredit.
type Entry struct {
	ID        string
	AccountID string
	Kind      EntryKind
	Amount    decimal.Decimal
	IsCredit  bool
	Comment   string
	Details   map[string]any

	// CounterpartyID identifies the other account of a transfer. It is set
	// at creation time so a reversal never has to parse display text.
	CounterpartyID *string

	// GroupID links the two legs of a transfer, and their reversal legs.
	GroupID *string

	Annotation   string
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// Signed returns the amount with its direction applied.
func (e *Entry) Signed() decimal.Decimal {
	if e.IsCredit {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Reversed reports whether the entry has been marked reversed.
func (e *Entry) Reversed() bool {
	return e.Annotation == AnnotationReversed
}

// Reversible reports whether a compensating entry can be produced for this
// kind of entry.
func (e *Entry) Reversible() bool {
	switch e.Kind {
	case EntryKindTransferOut, EntryKindTransferIn, EntryKindPurchase:
		return true
	}
	return false
}
