package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
	"github.com/ceobank/backend/internal/usecase/mocks"
)

func newLoanFixture() (*ledgerFixture, *mocks.MockLoanRepository, *usecase.LoanUseCase) {
	f := newLedgerFixture()
	loans := mocks.NewMockLoanRepository()
	uc := usecase.NewLoanUseCase(
		f.txManager,
		f.accounts,
		loans,
		f.idGen,
		f.ledger,
		mustDecimal("1000"),
		mustDecimal("5"),
	)
	return f, loans, uc
}

func TestLoanUseCase_TakeAndRepay(t *testing.T) {
	f, _, uc := newLoanFixture()
	alice := f.seedAccount("acc-a", "alice", "100.00")

	loan, err := uc.Take(context.Background(), alice.ID, mustDecimal("1000"))
	require.NoError(t, err)

	assert.True(t, alice.Balance.Equal(mustDecimal("1100.00")), "got %s", alice.Balance)
	assert.True(t, loan.InterestRate.Equal(mustDecimal("5")))

	// A second loan while one is active is rejected.
	_, err = uc.Take(context.Background(), alice.ID, mustDecimal("10"))
	assert.ErrorIs(t, err, domain.ErrLoanActive)

	entry, err := uc.Repay(context.Background(), alice.ID)
	require.NoError(t, err)

	// 1000 principal + 5% flat interest.
	assert.True(t, entry.Amount.Equal(mustDecimal("1050.00")), "got %s", entry.Amount)
	assert.True(t, alice.Balance.Equal(mustDecimal("50.00")), "got %s", alice.Balance)

	_, err = uc.ActiveLoan(context.Background(), alice.ID)
	assert.ErrorIs(t, err, domain.ErrNoActiveLoan)

	// Fresh loan after repayment is fine.
	_, err = uc.Take(context.Background(), alice.ID, mustDecimal("100"))
	assert.NoError(t, err)
}

func TestLoanUseCase_TakeErrors(t *testing.T) {
	f, _, uc := newLoanFixture()
	alice := f.seedAccount("acc-a", "alice", "0")

	_, err := uc.Take(context.Background(), alice.ID, mustDecimal("1000.01"))
	assert.ErrorIs(t, err, domain.ErrLoanTooLarge)

	_, err = uc.Take(context.Background(), alice.ID, mustDecimal("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestLoanUseCase_RepayWithoutLoan(t *testing.T) {
	f, _, uc := newLoanFixture()
	alice := f.seedAccount("acc-a", "alice", "100.00")

	_, err := uc.Repay(context.Background(), alice.ID)
	assert.ErrorIs(t, err, domain.ErrNoActiveLoan)
}

func TestLoanUseCase_RepayInsufficientFunds(t *testing.T) {
	f, _, uc := newLoanFixture()
	alice := f.seedAccount("acc-a", "alice", "0")

	_, err := uc.Take(context.Background(), alice.ID, mustDecimal("100"))
	require.NoError(t, err)

	alice.Balance = mustDecimal("50")

	_, err = uc.Repay(context.Background(), alice.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Loan is still outstanding.
	loan, err := uc.ActiveLoan(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, loan.Active())
}
