package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
)

// LoanUseCase handles loans: one active loan per account, flat interest
// fixed when the loan is taken.
type LoanUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	loanRepo    LoanRepository
	idGen       IDGenerator
	ledger      *LedgerUseCase
	maxAmount   decimal.Decimal
	rate        decimal.Decimal
}

// NewLoanUseCase creates a new LoanUseCase. maxAmount caps the principal;
// rate is the flat interest percentage.
func NewLoanUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	loanRepo LoanRepository,
	idGen IDGenerator,
	ledger *LedgerUseCase,
	maxAmount decimal.Decimal,
	rate decimal.Decimal,
) *LoanUseCase {
	return &LoanUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		loanRepo:    loanRepo,
		idGen:       idGen,
		ledger:      ledger,
		maxAmount:   maxAmount,
		rate:        rate,
	}
}

// Take credits the account with the requested principal and opens a loan.
func (uc *LoanUseCase) Take(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Loan, error) {
	amount = domain.MoneyRound(amount)
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if amount.GreaterThan(uc.maxAmount) {
		return nil, domain.ErrLoanTooLarge
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

	if _, err := uc.loanRepo.GetActiveByAccountForUpdate(txCtx, tx, accountID); err == nil {
		return nil, domain.ErrLoanActive
	} else if !errors.Is(err, domain.ErrNoActiveLoan) {
		return nil, err
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:           uc.idGen.Generate(),
		AccountID:    accountID,
		Amount:       amount,
		InterestRate: uc.rate,
		TakenAt:      now,
	}
	if err := uc.loanRepo.Create(txCtx, tx, loan); err != nil {
		return nil, err
	}

	entry, err := uc.ledger.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     domain.EntryKindLoan,
		Amount:   amount,
		IsCredit: true,
		Comment:  "Loan taken",
		Details:  map[string]any{"loanId": loan.ID},
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.publishBalance(account, entry)

	return loan, nil
}

// Repay settles the active loan in full: principal plus flat interest.
func (uc *LoanUseCase) Repay(ctx context.Context, accountID string) (*domain.Entry, error) {
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

	loan, err := uc.loanRepo.GetActiveByAccountForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	entry, err := uc.ledger.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     domain.EntryKindLoanRepayment,
		Amount:   loan.Payoff(),
		IsCredit: false,
		Comment:  "Loan repaid",
		Details:  map[string]any{"loanId": loan.ID},
	}, now)
	if err != nil {
		return nil, err
	}

	if err := uc.loanRepo.MarkRepaid(txCtx, tx, loan.ID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.publishBalance(account, entry)

	return entry, nil
}

// ActiveLoan returns the account's outstanding loan, if any.
func (uc *LoanUseCase) ActiveLoan(ctx context.Context, accountID string) (*domain.Loan, error) {
	return uc.loanRepo.GetActiveByAccount(ctx, accountID)
}
