package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
	"github.com/ceobank/backend/internal/usecase/mocks"
)

type reversalFixture struct {
	*ledgerFixture
	shop *mocks.MockShopRepository
	uc   *usecase.ReversalUseCase
}

func newReversalFixture() *reversalFixture {
	lf := newLedgerFixture()
	shop := mocks.NewMockShopRepository()
	return &reversalFixture{
		ledgerFixture: lf,
		shop:          shop,
		uc: usecase.NewReversalUseCase(
			lf.txManager,
			lf.accounts,
			lf.entries,
			shop,
			lf.audit,
			lf.idGen,
			lf.ledger,
		),
	}
}

func TestReversalUseCase_RevokeTransfer(t *testing.T) {
	f := newReversalFixture()
	alice := f.seedAccount("acc-a", "alice", "100.00")
	bob := f.seedAccount("acc-b", "bob", "50.00")

	transfer, err := f.ledger.Transfer(context.Background(), usecase.TransferInput{
		SenderID:          alice.ID,
		RecipientUsername: "bob",
		Amount:            mustDecimal("30"),
	})
	require.NoError(t, err)

	result, err := f.uc.Revoke(context.Background(), "admin-1", transfer.OutEntry.ID)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	// Balances are back where they started.
	assert.True(t, alice.Balance.Equal(mustDecimal("100.00")), "sender: %s", alice.Balance)
	assert.True(t, bob.Balance.Equal(mustDecimal("50.00")), "recipient: %s", bob.Balance)

	// Originals carry the reversed annotation; compensating entries exist.
	out, err := f.entries.GetByID(context.Background(), transfer.OutEntry.ID)
	require.NoError(t, err)
	assert.True(t, out.Reversed())
	in, err := f.entries.GetByID(context.Background(), transfer.InEntry.ID)
	require.NoError(t, err)
	assert.True(t, in.Reversed())

	for _, e := range result.Entries {
		assert.Equal(t, domain.EntryKindReversal, e.Kind)
	}
}

func TestReversalUseCase_RevokeTwice(t *testing.T) {
	f := newReversalFixture()
	alice := f.seedAccount("acc-a", "alice", "100.00")
	f.seedAccount("acc-b", "bob", "0")

	transfer, err := f.ledger.Transfer(context.Background(), usecase.TransferInput{
		SenderID:          alice.ID,
		RecipientUsername: "bob",
		Amount:            mustDecimal("10"),
	})
	require.NoError(t, err)

	_, err = f.uc.Revoke(context.Background(), "admin-1", transfer.OutEntry.ID)
	require.NoError(t, err)

	// Revoking either leg again is rejected.
	_, err = f.uc.Revoke(context.Background(), "admin-1", transfer.OutEntry.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
	_, err = f.uc.Revoke(context.Background(), "admin-1", transfer.InEntry.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)

	assert.True(t, alice.Balance.Equal(mustDecimal("100.00")))
}

func TestReversalUseCase_RevokeTransferRecipientBroke(t *testing.T) {
	f := newReversalFixture()
	alice := f.seedAccount("acc-a", "alice", "100.00")
	bob := f.seedAccount("acc-b", "bob", "0")

	transfer, err := f.ledger.Transfer(context.Background(), usecase.TransferInput{
		SenderID:          alice.ID,
		RecipientUsername: "bob",
		Amount:            mustDecimal("30"),
	})
	require.NoError(t, err)

	// Bob spends the money before the reversal lands.
	bob.Balance = mustDecimal("5")

	_, err = f.uc.Revoke(context.Background(), "admin-1", transfer.OutEntry.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Nothing was annotated.
	out, err := f.entries.GetByID(context.Background(), transfer.OutEntry.ID)
	require.NoError(t, err)
	assert.False(t, out.Reversed())
}

func TestReversalUseCase_RevokeNotReversible(t *testing.T) {
	f := newReversalFixture()
	alice := f.seedAccount("acc-a", "alice", "10.00")

	entry, err := f.ledger.ApplyDelta(context.Background(), usecase.ApplyDeltaInput{
		AccountID: alice.ID,
		Kind:      domain.EntryKindDepositMaturity,
		Amount:    mustDecimal("5"),
		IsCredit:  true,
	})
	require.NoError(t, err)

	_, err = f.uc.Revoke(context.Background(), "admin-1", entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotReversible)
}

func TestReversalUseCase_RevokeMissingEntry(t *testing.T) {
	f := newReversalFixture()

	_, err := f.uc.Revoke(context.Background(), "admin-1", "no-such-entry")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestReversalUseCase_RevokePurchase(t *testing.T) {
	f := newReversalFixture()
	alice := f.seedAccount("acc-a", "alice", "100.00")

	f.shop.Put(&domain.ShopItem{
		ID:         "item-1",
		Name:       "Mug",
		Price:      mustDecimal("12.00"),
		Quantity:   3,
		Popularity: 7,
	})

	// A purchase entry as checkout writes it.
	entry := &domain.Entry{
		ID:        "entry-p",
		AccountID: alice.ID,
		Kind:      domain.EntryKindPurchase,
		Amount:    mustDecimal("24.00"),
		IsCredit:  false,
		Comment:   "Purchase: Mug",
		Details: map[string]any{
			"items": []any{
				map[string]any{"itemId": "item-1", "quantity": float64(2)},
				map[string]any{"itemId": "item-gone", "quantity": float64(1)},
			},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.entries.Create(context.Background(), nil, entry))
	alice.Balance = mustDecimal("76.00")

	result, err := f.uc.Revoke(context.Background(), "admin-1", entry.ID)
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)

	// Buyer refunded in full even though one item vanished.
	assert.True(t, alice.Balance.Equal(mustDecimal("100.00")), "got %s", alice.Balance)

	item := f.shop.Item("item-1")
	assert.Equal(t, int64(5), item.Quantity)
	assert.Equal(t, int64(5), item.Popularity)

	got, err := f.entries.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.True(t, got.Reversed())
}
