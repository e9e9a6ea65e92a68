package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
)

// DepositUseCase handles term deposits: money leaves the balance when the
// deposit opens and returns with a fixed-rate payout when it matures.
type DepositUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	idGen       IDGenerator
	ledger      *LedgerUseCase
	payoutRate  decimal.Decimal
}

// NewDepositUseCase creates a new DepositUseCase. payoutRate is the
// multiplier applied to the principal at maturity, e.g. 1.10.
func NewDepositUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	idGen IDGenerator,
	ledger *LedgerUseCase,
	payoutRate decimal.Decimal,
) *DepositUseCase {
	return &DepositUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
		ledger:      ledger,
		payoutRate:  payoutRate,
	}
}

// OpenDepositInput represents input for opening a deposit.
type OpenDepositInput struct {
	AccountID string
	Amount    decimal.Decimal
	Term      time.Duration
}

// OpenDeposit moves amount from the balance into a deposit maturing after
// the given term. One active deposit per account.
func (uc *DepositUseCase) OpenDeposit(ctx context.Context, input OpenDepositInput) (*domain.Entry, error) {
	if input.Term <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Blocked {
		return nil, domain.ErrAccountBlocked
	}
	if account.HasActiveDeposit() {
		return nil, domain.ErrDepositActive
	}

	now := time.Now().UTC()
	amount := domain.MoneyRound(input.Amount)

	entry, err := uc.ledger.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     domain.EntryKindDepositOpen,
		Amount:   amount,
		IsCredit: false,
		Comment:  "Deposit opened",
	}, now)
	if err != nil {
		return nil, err
	}

	maturesAt := now.Add(input.Term)
	if err := uc.accountRepo.UpdateDeposit(txCtx, tx, account.ID, amount, &maturesAt, account.DepositEarnings, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	account.DepositAmount = amount
	account.DepositMaturesAt = &maturesAt

	uc.ledger.publishBalance(account, entry)

	return entry, nil
}

// MaturedDeposit is the outcome of one paid-out deposit.
type MaturedDeposit struct {
	AccountID string
	Principal decimal.Decimal
	Payout    decimal.Decimal
}

// RunMaturationTick pays out every deposit whose maturity has passed.
// Each account settles in its own transaction; failures are joined into
// the returned error and never block other accounts.
func (uc *DepositUseCase) RunMaturationTick(ctx context.Context) ([]MaturedDeposit, error) {
	now := time.Now().UTC()

	ids, err := uc.accountRepo.ListDueDepositIDs(ctx, now)
	if err != nil {
		return nil, err
	}

	matured := make([]MaturedDeposit, 0, len(ids))

	var errs []error
	for _, id := range ids {
		m, err := uc.matureOne(ctx, id, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("mature deposit for %s: %w", id, err))
			continue
		}
		if m != nil {
			matured = append(matured, *m)
		}
	}

	return matured, errors.Join(errs...)
}

func (uc *DepositUseCase) matureOne(ctx context.Context, accountID string, now time.Time) (*MaturedDeposit, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	// Re-check under the lock: another tick may have settled it already.
	if !account.DepositDue(now) {
		return nil, nil
	}

	principal := account.DepositAmount
	payout := domain.MoneyRound(principal.Mul(uc.payoutRate))
	profit := payout.Sub(principal)

	entry, err := uc.ledger.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     domain.EntryKindDepositMaturity,
		Amount:   payout,
		IsCredit: true,
		Comment:  "Deposit matured",
		Details: map[string]any{
			"principal": principal.String(),
			"profit":    profit.String(),
		},
	}, now)
	if err != nil {
		return nil, err
	}

	earnings := account.DepositEarnings.Add(profit)
	if err := uc.accountRepo.UpdateDeposit(txCtx, tx, account.ID, decimal.Zero, nil, earnings, now); err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		ID:        uc.idGen.Generate(),
		AccountID: account.ID,
		Text:      "Your deposit of " + principal.StringFixed(2) + " matured and paid out " + payout.StringFixed(2),
		CreatedAt: now,
	}
	if err := uc.ledger.createNotificationTx(txCtx, tx, notification); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	account.DepositAmount = decimal.Zero
	account.DepositMaturesAt = nil
	account.DepositEarnings = earnings

	uc.ledger.publishBalance(account, entry)
	uc.ledger.publishNotification(notification)

	return &MaturedDeposit{AccountID: account.ID, Principal: principal, Payout: payout}, nil
}
