package usecase_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
	"github.com/ceobank/backend/internal/usecase/mocks"
)

// ledgerFixture wires a LedgerUseCase against in-memory mocks. Other use
// case tests build on top of it because every balance change flows
// through the ledger.
type ledgerFixture struct {
	txManager *mocks.MockTransactionManager
	accounts  *mocks.MockAccountRepository
	entries   *mocks.MockEntryRepository
	ledgerDB  *mocks.MockLedgerRepository
	outbox    *mocks.MockOutboxRepository
	audit     *mocks.MockAuditRepository
	notifs    *mocks.MockNotificationRepository
	idGen     *mocks.MockIDGenerator
	retrier   *mocks.MockRetrier
	bus       *mocks.MockEventBus
	ledger    *usecase.LedgerUseCase
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		txManager: mocks.NewMockTransactionManager(),
		accounts:  mocks.NewMockAccountRepository(),
		entries:   mocks.NewMockEntryRepository(),
		ledgerDB:  mocks.NewMockLedgerRepository(),
		outbox:    mocks.NewMockOutboxRepository(),
		audit:     mocks.NewMockAuditRepository(),
		notifs:    mocks.NewMockNotificationRepository(),
		idGen:     mocks.NewMockIDGenerator(),
		retrier:   mocks.NewMockRetrier(),
		bus:       mocks.NewMockEventBus(),
	}
	f.ledger = usecase.NewLedgerUseCase(
		f.txManager,
		f.accounts,
		f.entries,
		f.ledgerDB,
		f.outbox,
		f.audit,
		f.notifs,
		f.idGen,
		f.retrier,
		f.bus,
	)
	return f
}

// seedAccount adds an account with the given balance.
func (f *ledgerFixture) seedAccount(id, username, balance string) *domain.Account {
	acc := &domain.Account{
		ID:        id,
		Username:  username,
		Balance:   decimal.RequireFromString(balance),
		TotalSent: decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	f.accounts.Put(acc)
	return acc
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
