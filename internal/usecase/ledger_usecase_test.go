package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

func TestLedgerUseCase_Transfer(t *testing.T) {
	f := newLedgerFixture()
	alice := f.seedAccount("acc-a", "alice", "100.00")
	bob := f.seedAccount("acc-b", "bob", "50.00")

	result, err := f.ledger.Transfer(context.Background(), usecase.TransferInput{
		SenderID:          alice.ID,
		RecipientUsername: "bob",
		Amount:            mustDecimal("30"),
		Comment:           "lunch",
	})
	require.NoError(t, err)

	assert.True(t, alice.Balance.Equal(mustDecimal("70")), "sender balance: %s", alice.Balance)
	assert.True(t, bob.Balance.Equal(mustDecimal("80")), "recipient balance: %s", bob.Balance)
	assert.True(t, alice.TotalSent.Equal(mustDecimal("30")))

	require.NotNil(t, result.OutEntry)
	require.NotNil(t, result.InEntry)
	assert.Equal(t, domain.EntryKindTransferOut, result.OutEntry.Kind)
	assert.Equal(t, domain.EntryKindTransferIn, result.InEntry.Kind)
	assert.False(t, result.OutEntry.IsCredit)
	assert.True(t, result.InEntry.IsCredit)

	// Both legs share the group and reference each other.
	require.NotNil(t, result.OutEntry.GroupID)
	require.NotNil(t, result.InEntry.GroupID)
	assert.Equal(t, *result.OutEntry.GroupID, *result.InEntry.GroupID)
	require.NotNil(t, result.OutEntry.CounterpartyID)
	assert.Equal(t, bob.ID, *result.OutEntry.CounterpartyID)
	require.NotNil(t, result.InEntry.CounterpartyID)
	assert.Equal(t, alice.ID, *result.InEntry.CounterpartyID)

	// Recipient gets a notification.
	notifs := f.notifs.All()
	require.Len(t, notifs, 1)
	assert.Equal(t, bob.ID, notifs[0].AccountID)

	// Two balance updates plus the notification went out on the bus.
	events := f.bus.Published()
	var balanceUpdates, notifications int
	for _, e := range events {
		switch e.Type {
		case domain.EventTypeBalanceUpdate:
			balanceUpdates++
		case domain.EventTypeNotificationCreated:
			notifications++
		}
	}
	assert.Equal(t, 2, balanceUpdates)
	assert.Equal(t, 1, notifications)
}

func TestLedgerUseCase_TransferErrors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *ledgerFixture)
		input     usecase.TransferInput
		wantErr   error
	}{
		{
			name: "insufficient funds",
			setup: func(f *ledgerFixture) {
				f.seedAccount("acc-a", "alice", "10.00")
				f.seedAccount("acc-b", "bob", "0")
			},
			input: usecase.TransferInput{
				SenderID:          "acc-a",
				RecipientUsername: "bob",
				Amount:            mustDecimal("10.01"),
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name: "self transfer",
			setup: func(f *ledgerFixture) {
				f.seedAccount("acc-a", "alice", "100")
			},
			input: usecase.TransferInput{
				SenderID:          "acc-a",
				RecipientUsername: "alice",
				Amount:            mustDecimal("5"),
			},
			wantErr: domain.ErrSelfTransfer,
		},
		{
			name: "recipient not found",
			setup: func(f *ledgerFixture) {
				f.seedAccount("acc-a", "alice", "100")
			},
			input: usecase.TransferInput{
				SenderID:          "acc-a",
				RecipientUsername: "nobody",
				Amount:            mustDecimal("5"),
			},
			wantErr: domain.ErrRecipientNotFound,
		},
		{
			name: "non-positive amount",
			setup: func(f *ledgerFixture) {
				f.seedAccount("acc-a", "alice", "100")
				f.seedAccount("acc-b", "bob", "0")
			},
			input: usecase.TransferInput{
				SenderID:          "acc-a",
				RecipientUsername: "bob",
				Amount:            decimal.Zero,
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "blocked sender",
			setup: func(f *ledgerFixture) {
				alice := f.seedAccount("acc-a", "alice", "100")
				alice.Blocked = true
				f.seedAccount("acc-b", "bob", "0")
			},
			input: usecase.TransferInput{
				SenderID:          "acc-a",
				RecipientUsername: "bob",
				Amount:            mustDecimal("5"),
			},
			wantErr: domain.ErrAccountBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture()
			tt.setup(f)

			_, err := f.ledger.Transfer(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.entries.All(), "no entries on failure")
		})
	}
}

func TestLedgerUseCase_TransferRoundsAmount(t *testing.T) {
	f := newLedgerFixture()
	alice := f.seedAccount("acc-a", "alice", "100.00")
	bob := f.seedAccount("acc-b", "bob", "0")

	_, err := f.ledger.Transfer(context.Background(), usecase.TransferInput{
		SenderID:          alice.ID,
		RecipientUsername: "bob",
		Amount:            mustDecimal("9.999"),
	})
	require.NoError(t, err)

	assert.True(t, bob.Balance.Equal(mustDecimal("10.00")), "got %s", bob.Balance)
}

func TestLedgerUseCase_ApplyDelta(t *testing.T) {
	f := newLedgerFixture()
	alice := f.seedAccount("acc-a", "alice", "10.00")

	entry, err := f.ledger.ApplyDelta(context.Background(), usecase.ApplyDeltaInput{
		AccountID: alice.ID,
		Kind:      domain.EntryKindAdminAdjustment,
		Amount:    mustDecimal("2.50"),
		IsCredit:  true,
		Comment:   "correction",
	})
	require.NoError(t, err)

	assert.True(t, alice.Balance.Equal(mustDecimal("12.50")))
	assert.True(t, entry.BalanceAfter.Equal(mustDecimal("12.50")))

	// Every commit also appended a durable outbox event.
	events := f.outbox.All()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeBalanceUpdate, events[0].EventType)
}

func TestLedgerUseCase_AdjustBalance(t *testing.T) {
	f := newLedgerFixture()
	alice := f.seedAccount("acc-a", "alice", "50.00")

	entry, err := f.ledger.AdjustBalance(context.Background(), usecase.AdjustBalanceInput{
		ActorID:   "admin-1",
		AccountID: alice.ID,
		Amount:    mustDecimal("-20"),
		Comment:   "penalty",
	})
	require.NoError(t, err)

	assert.True(t, alice.Balance.Equal(mustDecimal("30")))
	assert.Equal(t, domain.EntryKindAdminAdjustment, entry.Kind)
	assert.False(t, entry.IsCredit)

	logs := f.audit.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "balance.adjust", logs[0].Action)
	assert.Equal(t, "admin-1", logs[0].ActorID)
}

func TestLedgerUseCase_VerifyAccount(t *testing.T) {
	f := newLedgerFixture()
	alice := f.seedAccount("acc-a", "alice", "0")
	f.seedAccount("acc-b", "bob", "0")

	_, err := f.ledger.ApplyDelta(context.Background(), usecase.ApplyDeltaInput{
		AccountID: alice.ID,
		Kind:      domain.EntryKindRegistrationBonus,
		Amount:    mustDecimal("100"),
		IsCredit:  true,
	})
	require.NoError(t, err)

	_, err = f.ledger.Transfer(context.Background(), usecase.TransferInput{
		SenderID:          alice.ID,
		RecipientUsername: "bob",
		Amount:            mustDecimal("33.33"),
	})
	require.NoError(t, err)

	ok, err := f.ledger.VerifyAccount(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Tamper with the balance behind the ledger's back.
	alice.Balance = alice.Balance.Add(mustDecimal("1"))
	ok, err = f.ledger.VerifyAccount(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	f := newLedgerFixture()

	f.ledgerDB.CheckConsistencyFunc = func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
		return mustDecimal("150"), mustDecimal("150"), nil
	}
	ok, err := f.ledger.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	f.ledgerDB.CheckConsistencyFunc = func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
		return mustDecimal("150"), mustDecimal("149"), nil
	}
	ok, err = f.ledger.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
