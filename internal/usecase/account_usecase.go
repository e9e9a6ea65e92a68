package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ceobank/backend/internal/domain"
)

// AccountUseCase handles registration, authentication and account admin.
type AccountUseCase struct {
	txManager      TransactionManager
	accountRepo    AccountRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	ledger         *LedgerUseCase
	initialBalance decimal.Decimal
	initialLoyalty int64
}

// NewAccountUseCase creates a new AccountUseCase. initialBalance is
// credited to every new account as a registration bonus entry so the
// ledger invariant holds from the first moment.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	ledger *LedgerUseCase,
	initialBalance decimal.Decimal,
	initialLoyalty int64,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:      txManager,
		accountRepo:    accountRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		ledger:         ledger,
		initialBalance: initialBalance,
		initialLoyalty: initialLoyalty,
	}
}

// RegisterInput represents input for account registration.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a new account with the configured welcome bonus.
func (uc *AccountUseCase) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	username := strings.TrimSpace(input.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
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

	now := time.Now().UTC()
	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		Username:      username,
		PasswordHash:  string(hash),
		Balance:       decimal.Zero,
		LoyaltyPoints: uc.initialLoyalty,
		TotalSent:     decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	if uc.initialBalance.IsPositive() {
		if _, err := uc.ledger.applyDeltaTx(txCtx, tx, account, delta{
			Kind:     domain.EntryKindRegistrationBonus,
			Amount:   uc.initialBalance,
			IsCredit: true,
			Comment:  "Welcome bonus",
		}, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return account, nil
}

// Authenticate verifies credentials and returns the account.
func (uc *AccountUseCase) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidPassword
	}

	if account.Blocked {
		return nil, domain.ErrAccountBlocked
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetByUsername retrieves an account by username.
func (uc *AccountUseCase) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return uc.accountRepo.GetByUsername(ctx, username)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}
	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}

	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// SetBlocked blocks or unblocks an account and records an audit log.
func (uc *AccountUseCase) SetBlocked(ctx context.Context, actorID, accountID string, blocked bool) error {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.SetBlocked(ctx, accountID, blocked, now); err != nil {
		return err
	}

	return uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:        uc.idGen.Generate(),
		ActorID:   actorID,
		AccountID: accountID,
		Action:    "account.set_blocked",
		Details:   map[string]any{"blocked": blocked},
		CreatedAt: now,
	})
}
