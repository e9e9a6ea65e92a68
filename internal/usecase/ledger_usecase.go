package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
)

// LedgerUseCase is the single owner of balance mutations. Every other
// use case routes its debits and credits through applyDeltaTx so the
// invariant "balance equals the signed sum of entries" holds everywhere.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	notifRepo   NotificationRepository
	idGen       IDGenerator
	retrier     Retrier
	bus         EventBus
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	notifRepo NotificationRepository,
	idGen IDGenerator,
	retrier Retrier,
	bus EventBus,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		notifRepo:   notifRepo,
		idGen:       idGen,
		retrier:     retrier,
		bus:         bus,
	}
}

// delta describes one balance change to be applied inside a transaction.
type delta struct {
	Kind           domain.EntryKind
	Amount         decimal.Decimal
	IsCredit       bool
	Comment        string
	Details        map[string]any
	CounterpartyID *string
	GroupID        *string
}

// applyDeltaTx appends one entry and moves the account balance inside an
// open transaction. The caller must hold the account's row lock. The
// account struct is updated in place so subsequent deltas in the same
// transaction see the new balance.
func (uc *LedgerUseCase) applyDeltaTx(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	d delta,
	now time.Time,
) (*domain.Entry, error) {
	amount := domain.MoneyRound(d.Amount)
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal
	if d.IsCredit {
		newBalance = account.Balance.Add(amount)
	} else {
		if err := account.ValidateDebit(amount); err != nil {
			return nil, err
		}
		newBalance = account.Balance.Sub(amount)
	}

	entry := &domain.Entry{
		ID:             uc.idGen.Generate(),
		AccountID:      account.ID,
		Kind:           d.Kind,
		Amount:         amount,
		IsCredit:       d.IsCredit,
		Comment:        d.Comment,
		Details:        d.Details,
		CounterpartyID: d.CounterpartyID,
		GroupID:        d.GroupID,
		BalanceAfter:   newBalance,
		CreatedAt:      now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: "account",
		EventType:     domain.EventTypeBalanceUpdate,
		Payload: map[string]any{
			"accountId": account.ID,
			"balance":   newBalance.String(),
			"entryId":   entry.ID,
			"kind":      string(entry.Kind),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.Version++

	return entry, nil
}

// publishBalance pushes a balance update to the account's live
// subscribers. Called after commit only.
func (uc *LedgerUseCase) publishBalance(account *domain.Account, entry *domain.Entry) {
	uc.bus.PublishToAccount(account.ID, domain.Event{
		Type:      domain.EventTypeBalanceUpdate,
		AccountID: account.ID,
		Payload: map[string]any{
			"balance": account.Balance.String(),
			"entryId": entry.ID,
			"kind":    string(entry.Kind),
			"amount":  entry.Signed().String(),
			"comment": entry.Comment,
		},
		At: entry.CreatedAt,
	})
}

// ApplyDeltaInput represents input for a single balance change.
type ApplyDeltaInput struct {
	AccountID string
	Kind      domain.EntryKind
	Amount    decimal.Decimal
	IsCredit  bool
	Comment   string
	Details   map[string]any
}

// ApplyDelta applies one debit or credit to an account in its own
// transaction.
func (uc *LedgerUseCase) ApplyDelta(ctx context.Context, input ApplyDeltaInput) (*domain.Entry, error) {
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

	now := time.Now().UTC()

	entry, err := uc.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     input.Kind,
		Amount:   input.Amount,
		IsCredit: input.IsCredit,
		Comment:  input.Comment,
		Details:  input.Details,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.publishBalance(account, entry)

	return entry, nil
}

// TransferInput represents input for a peer-to-peer transfer.
type TransferInput struct {
	SenderID          string
	RecipientUsername string
	Amount            decimal.Decimal
	Comment           string
}

// TransferResult carries both legs of a completed transfer.
type TransferResult struct {
	GroupID  string
	OutEntry *domain.Entry
	InEntry  *domain.Entry
}

// Transfer moves money between two accounts. Both legs and both balance
// updates happen in one transaction with the account rows locked in
// sorted-ID order. Retried on deadlock.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	amount := domain.MoneyRound(input.Amount)
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	recipient, err := uc.accountRepo.GetByUsername(ctx, input.RecipientUsername)
	if err != nil {
		return nil, domain.ErrRecipientNotFound
	}

	if recipient.ID == input.SenderID {
		return nil, domain.ErrSelfTransfer
	}

	var result *TransferResult
	err = uc.retrier.Retry(ctx, func() error {
		var opErr error
		result, opErr = uc.transferOnce(ctx, input.SenderID, recipient.ID, amount, input.Comment)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *LedgerUseCase) transferOnce(
	ctx context.Context,
	senderID, recipientID string,
	amount decimal.Decimal,
	comment string,
) (*TransferResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// Lock both account rows in sorted order to prevent deadlocks.
	ids := []string{senderID, recipientID}
	sort.Strings(ids)

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}

	sender := accountMap[senderID]
	recipient := accountMap[recipientID]

	if sender.Blocked {
		return nil, domain.ErrAccountBlocked
	}

	now := time.Now().UTC()
	groupID := uc.idGen.Generate()

	outEntry, err := uc.applyDeltaTx(txCtx, tx, sender, delta{
		Kind:           domain.EntryKindTransferOut,
		Amount:         amount,
		IsCredit:       false,
		Comment:        comment,
		CounterpartyID: &recipient.ID,
		GroupID:        &groupID,
	}, now)
	if err != nil {
		return nil, err
	}

	inEntry, err := uc.applyDeltaTx(txCtx, tx, recipient, delta{
		Kind:           domain.EntryKindTransferIn,
		Amount:         amount,
		IsCredit:       true,
		Comment:        comment,
		CounterpartyID: &sender.ID,
		GroupID:        &groupID,
	}, now)
	if err != nil {
		return nil, err
	}

	newTotal := sender.TotalSent.Add(amount)
	if err := uc.accountRepo.UpdateTotalSent(txCtx, tx, sender.ID, newTotal, now); err != nil {
		return nil, err
	}
	sender.TotalSent = newTotal

	notification := &domain.Notification{
		ID:        uc.idGen.Generate(),
		AccountID: recipient.ID,
		Text:      "You received " + amount.StringFixed(2) + " from " + sender.Username,
		CreatedAt: now,
	}
	if err := uc.createNotificationTx(txCtx, tx, notification); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.publishBalance(sender, outEntry)
	uc.publishBalance(recipient, inEntry)
	uc.publishNotification(notification)

	return &TransferResult{GroupID: groupID, OutEntry: outEntry, InEntry: inEntry}, nil
}

// AdjustBalanceInput represents an administrative balance adjustment.
// Amount is signed: negative debits the account.
type AdjustBalanceInput struct {
	ActorID   string
	AccountID string
	Amount    decimal.Decimal
	Comment   string
}

// AdjustBalance applies an admin adjustment and records an audit log.
func (uc *LedgerUseCase) AdjustBalance(ctx context.Context, input AdjustBalanceInput) (*domain.Entry, error) {
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

	now := time.Now().UTC()

	entry, err := uc.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     domain.EntryKindAdminAdjustment,
		Amount:   input.Amount.Abs(),
		IsCredit: !input.Amount.IsNegative(),
		Comment:  input.Comment,
	}, now)
	if err != nil {
		return nil, err
	}

	auditLog := &domain.AuditLog{
		ID:        uc.idGen.Generate(),
		ActorID:   input.ActorID,
		AccountID: input.AccountID,
		Action:    "balance.adjust",
		Details: map[string]any{
			"amount":  input.Amount.String(),
			"comment": input.Comment,
			"entryId": entry.ID,
		},
		CreatedAt: now,
	}
	if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.publishBalance(account, entry)

	return entry, nil
}

// StatementInput represents input for listing an account's entries.
type StatementInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// Statement lists an account's ledger entries, newest first.
func (uc *LedgerUseCase) Statement(ctx context.Context, input StatementInput) ([]*domain.Entry, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}
	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

// GetEntry retrieves a single ledger entry.
func (uc *LedgerUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// VerifyAccount checks that the signed sum of an account's entries equals
// its current balance.
func (uc *LedgerUseCase) VerifyAccount(ctx context.Context, accountID string) (bool, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return false, err
	}

	sum, err := uc.entryRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return false, err
	}

	return sum.Equal(account.Balance), nil
}

// CheckConsistency verifies that the sum of all balances equals the signed
// sum of all entries.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	totalBalance, totalSigned, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return false, err
	}

	return totalBalance.Equal(totalSigned), nil
}

// createNotificationTx writes a notification and its durable event inside
// the caller's transaction.
func (uc *LedgerUseCase) createNotificationTx(ctx context.Context, tx Transaction, n *domain.Notification) error {
	if err := uc.notifRepo.Create(ctx, tx, n); err != nil {
		return err
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   n.AccountID,
		AggregateType: "account",
		EventType:     domain.EventTypeNotificationCreated,
		Payload: map[string]any{
			"notificationId": n.ID,
			"text":           n.Text,
		},
		CreatedAt: n.CreatedAt,
	})
}

func (uc *LedgerUseCase) publishNotification(n *domain.Notification) {
	uc.bus.PublishToAccount(n.AccountID, domain.Event{
		Type:      domain.EventTypeNotificationCreated,
		AccountID: n.AccountID,
		Payload: map[string]any{
			"id":   n.ID,
			"text": n.Text,
		},
		At: n.CreatedAt,
	})
}
