package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/ceobank/backend/internal/domain"
)

// ReversalUseCase compensates previously committed ledger entries. A
// reversal never rewrites history: it appends compensating entries and
// marks the originals through their annotation.
type ReversalUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	shopRepo    ShopRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	ledger      *LedgerUseCase
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	shopRepo ShopRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	ledger *LedgerUseCase,
) *ReversalUseCase {
	return &ReversalUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		shopRepo:    shopRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		ledger:      ledger,
	}
}

// RevokeResult carries the compensating entries of a reversal.
type RevokeResult struct {
	Entries []*domain.Entry
}

// Revoke compensates the entry with the given ID. Transfers are reversed
// on both legs using the stored counterparty and group; purchases refund
// the buyer and restore item stock. Revoking an already-reversed entry
// returns ErrAlreadyReversed.
func (uc *ReversalUseCase) Revoke(ctx context.Context, actorID, entryID string) (*RevokeResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Reversed() {
		return nil, domain.ErrAlreadyReversed
	}
	if !entry.Reversible() {
		return nil, domain.ErrNotReversible
	}

	now := time.Now().UTC()

	var (
		result  *RevokeResult
		updates []balanceUpdate
	)
	switch entry.Kind {
	case domain.EntryKindTransferOut, domain.EntryKindTransferIn:
		result, updates, err = uc.revokeTransfer(txCtx, tx, entry, now)
	case domain.EntryKindPurchase:
		result, updates, err = uc.revokePurchase(txCtx, tx, entry, now)
	default:
		return nil, domain.ErrNotReversible
	}
	if err != nil {
		return nil, err
	}

	auditLog := &domain.AuditLog{
		ID:        uc.idGen.Generate(),
		ActorID:   actorID,
		AccountID: entry.AccountID,
		Action:    "entry.revoke",
		Details: map[string]any{
			"entryId": entry.ID,
			"kind":    string(entry.Kind),
		},
		CreatedAt: now,
	}
	if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	for _, u := range updates {
		uc.ledger.publishBalance(u.account, u.entry)
	}

	return result, nil
}

// balanceUpdate pairs an account with the entry to announce after commit.
type balanceUpdate struct {
	account *domain.Account
	entry   *domain.Entry
}

// revokeTransfer compensates both legs of a transfer. The in-leg account
// is debited, so a reversal fails with ErrInsufficientFunds if the
// recipient has already spent the money.
func (uc *ReversalUseCase) revokeTransfer(
	ctx context.Context,
	tx Transaction,
	entry *domain.Entry,
	now time.Time,
) (*RevokeResult, []balanceUpdate, error) {
	if entry.CounterpartyID == nil || entry.GroupID == nil {
		return nil, nil, domain.ErrCounterpartyNotFound
	}

	legs, err := uc.entryRepo.GetByGroupForUpdate(ctx, tx, *entry.GroupID)
	if err != nil {
		return nil, nil, err
	}

	var outLeg, inLeg *domain.Entry
	for _, leg := range legs {
		if leg.Reversed() {
			return nil, nil, domain.ErrAlreadyReversed
		}
		switch leg.Kind {
		case domain.EntryKindTransferOut:
			outLeg = leg
		case domain.EntryKindTransferIn:
			inLeg = leg
		}
	}
	if outLeg == nil || inLeg == nil {
		return nil, nil, domain.ErrCounterpartyNotFound
	}

	ids := []string{outLeg.AccountID, inLeg.AccountID}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(accounts) != len(ids) {
		return nil, nil, domain.ErrCounterpartyNotFound
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}

	groupID := uc.idGen.Generate()
	details := map[string]any{"reverses": *entry.GroupID}

	// Debit the recipient first: if they cannot cover it the whole
	// reversal rolls back.
	debitEntry, err := uc.ledger.applyDeltaTx(ctx, tx, accountMap[inLeg.AccountID], delta{
		Kind:           domain.EntryKindReversal,
		Amount:         inLeg.Amount,
		IsCredit:       false,
		Comment:        "Reversal of transfer",
		Details:        details,
		CounterpartyID: &outLeg.AccountID,
		GroupID:        &groupID,
	}, now)
	if err != nil {
		return nil, nil, err
	}

	creditEntry, err := uc.ledger.applyDeltaTx(ctx, tx, accountMap[outLeg.AccountID], delta{
		Kind:           domain.EntryKindReversal,
		Amount:         outLeg.Amount,
		IsCredit:       true,
		Comment:        "Reversal of transfer",
		Details:        details,
		CounterpartyID: &inLeg.AccountID,
		GroupID:        &groupID,
	}, now)
	if err != nil {
		return nil, nil, err
	}

	for _, leg := range []*domain.Entry{outLeg, inLeg} {
		if err := uc.entryRepo.SetAnnotation(ctx, tx, leg.ID, domain.AnnotationReversed, now); err != nil {
			return nil, nil, err
		}
	}

	updates := []balanceUpdate{
		{account: accountMap[inLeg.AccountID], entry: debitEntry},
		{account: accountMap[outLeg.AccountID], entry: creditEntry},
	}

	return &RevokeResult{Entries: []*domain.Entry{debitEntry, creditEntry}}, updates, nil
}

// revokePurchase refunds a purchase and restores stock. Items deleted
// since the purchase are skipped; the refund still goes through in full.
func (uc *ReversalUseCase) revokePurchase(
	ctx context.Context,
	tx Transaction,
	entry *domain.Entry,
	now time.Time,
) (*RevokeResult, []balanceUpdate, error) {
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, entry.AccountID)
	if err != nil {
		return nil, nil, err
	}

	refund, err := uc.ledger.applyDeltaTx(ctx, tx, account, delta{
		Kind:     domain.EntryKindReversal,
		Amount:   entry.Amount,
		IsCredit: true,
		Comment:  "Refund: " + entry.Comment,
		Details:  map[string]any{"reverses": entry.ID},
	}, now)
	if err != nil {
		return nil, nil, err
	}

	if err := uc.restoreStock(ctx, tx, entry, now); err != nil {
		return nil, nil, err
	}

	if err := uc.entryRepo.SetAnnotation(ctx, tx, entry.ID, domain.AnnotationReversed, now); err != nil {
		return nil, nil, err
	}

	updates := []balanceUpdate{{account: account, entry: refund}}

	return &RevokeResult{Entries: []*domain.Entry{refund}}, updates, nil
}

func (uc *ReversalUseCase) restoreStock(ctx context.Context, tx Transaction, entry *domain.Entry, now time.Time) error {
	lines, ok := entry.Details["items"].([]any)
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(lines))
	qtyByID := make(map[string]int64, len(lines))
	for _, raw := range lines {
		line, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id, _ := line["itemId"].(string)
		qty, _ := line["quantity"].(float64)
		if id == "" || qty <= 0 {
			continue
		}
		ids = append(ids, id)
		qtyByID[id] = int64(qty)
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)

	items, err := uc.shopRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	// Items missing from the result have been deleted; skip them.
	for _, item := range items {
		qty := qtyByID[item.ID]
		popularity := item.Popularity - qty
		if popularity < 0 {
			popularity = 0
		}
		if err := uc.shopRepo.UpdateStock(ctx, tx, item.ID, item.Quantity+qty, popularity, now); err != nil {
			return err
		}
	}

	return nil
}
