package usecase

import (
	"context"
	"time"

	"github.com/ceobank/backend/internal/domain"
)

// InsuranceUseCase sells coverage periods that extend an account's
// InsuredUntil timestamp.
type InsuranceUseCase struct {
	txManager     TransactionManager
	accountRepo   AccountRepository
	insuranceRepo InsuranceRepository
	ledger        *LedgerUseCase
}

// NewInsuranceUseCase creates a new InsuranceUseCase.
func NewInsuranceUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	insuranceRepo InsuranceRepository,
	ledger *LedgerUseCase,
) *InsuranceUseCase {
	return &InsuranceUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		insuranceRepo: insuranceRepo,
		ledger:        ledger,
	}
}

// ListOptions returns the purchasable coverage options.
func (uc *InsuranceUseCase) ListOptions(ctx context.Context) ([]*domain.InsuranceOption, error) {
	return uc.insuranceRepo.ListOptions(ctx)
}

// Buy charges the option's cost and extends coverage. Buying while still
// insured stacks: the new period starts at the current expiry.
func (uc *InsuranceUseCase) Buy(ctx context.Context, accountID, optionID string) (*domain.Entry, error) {
	option, err := uc.insuranceRepo.GetOption(ctx, optionID)
	if err != nil {
		return nil, err
	}

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
	if account.Blocked {
		return nil, domain.ErrAccountBlocked
	}

	now := time.Now().UTC()

	entry, err := uc.ledger.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     domain.EntryKindInsurance,
		Amount:   option.Cost,
		IsCredit: false,
		Comment:  "Insurance: " + option.Name,
		Details:  map[string]any{"optionId": option.ID},
	}, now)
	if err != nil {
		return nil, err
	}

	insuredUntil := option.ExtendFrom(now, account.InsuredUntil)
	if err := uc.accountRepo.UpdateInsurance(txCtx, tx, account.ID, insuredUntil, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	account.InsuredUntil = &insuredUntil

	uc.ledger.publishBalance(account, entry)

	return entry, nil
}
