package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

func newDepositUseCase(f *ledgerFixture) *usecase.DepositUseCase {
	return usecase.NewDepositUseCase(
		f.txManager,
		f.accounts,
		f.idGen,
		f.ledger,
		mustDecimal("1.10"),
	)
}

func TestDepositUseCase_OpenDeposit(t *testing.T) {
	f := newLedgerFixture()
	uc := newDepositUseCase(f)
	alice := f.seedAccount("acc-a", "alice", "500.00")

	entry, err := uc.OpenDeposit(context.Background(), usecase.OpenDepositInput{
		AccountID: alice.ID,
		Amount:    mustDecimal("200"),
		Term:      time.Hour,
	})
	require.NoError(t, err)

	assert.True(t, alice.Balance.Equal(mustDecimal("300.00")), "got %s", alice.Balance)
	assert.True(t, alice.DepositAmount.Equal(mustDecimal("200")))
	require.NotNil(t, alice.DepositMaturesAt)
	assert.Equal(t, domain.EntryKindDepositOpen, entry.Kind)

	// Second deposit while one is active is rejected.
	_, err = uc.OpenDeposit(context.Background(), usecase.OpenDepositInput{
		AccountID: alice.ID,
		Amount:    mustDecimal("50"),
		Term:      time.Hour,
	})
	assert.ErrorIs(t, err, domain.ErrDepositActive)
}

func TestDepositUseCase_OpenDepositInsufficientFunds(t *testing.T) {
	f := newLedgerFixture()
	uc := newDepositUseCase(f)
	alice := f.seedAccount("acc-a", "alice", "100.00")

	_, err := uc.OpenDeposit(context.Background(), usecase.OpenDepositInput{
		AccountID: alice.ID,
		Amount:    mustDecimal("100.01"),
		Term:      time.Hour,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, alice.DepositAmount.IsZero())
}

func TestDepositUseCase_RunMaturationTick(t *testing.T) {
	f := newLedgerFixture()
	uc := newDepositUseCase(f)

	alice := f.seedAccount("acc-a", "alice", "0")
	matured := time.Now().UTC().Add(-time.Minute)
	alice.DepositAmount = mustDecimal("200.00")
	alice.DepositMaturesAt = &matured

	// A second account whose deposit is not yet due stays untouched.
	bob := f.seedAccount("acc-b", "bob", "0")
	future := time.Now().UTC().Add(time.Hour)
	bob.DepositAmount = mustDecimal("100.00")
	bob.DepositMaturesAt = &future

	results, err := uc.RunMaturationTick(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, alice.ID, results[0].AccountID)
	assert.True(t, results[0].Payout.Equal(mustDecimal("220.00")), "got %s", results[0].Payout)

	assert.True(t, alice.Balance.Equal(mustDecimal("220.00")), "got %s", alice.Balance)
	assert.True(t, alice.DepositAmount.IsZero())
	assert.Nil(t, alice.DepositMaturesAt)
	assert.True(t, alice.DepositEarnings.Equal(mustDecimal("20.00")), "got %s", alice.DepositEarnings)

	assert.True(t, bob.Balance.IsZero())
	assert.True(t, bob.DepositAmount.Equal(mustDecimal("100.00")))

	// The payout is announced to the account and recorded as a notification.
	notifs := f.notifs.All()
	require.Len(t, notifs, 1)
	assert.Equal(t, alice.ID, notifs[0].AccountID)

	// Running the tick again pays nothing out twice.
	results, err = uc.RunMaturationTick(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.True(t, alice.Balance.Equal(mustDecimal("220.00")))
}
