package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
)

// AuctionUseCase runs the named auctions. Bids move no money; the winning
// bid is settled exactly once, at close.
type AuctionUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	auctionRepo AuctionRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	ledger      *LedgerUseCase
	bus         EventBus
}

// NewAuctionUseCase creates a new AuctionUseCase.
func NewAuctionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	auctionRepo AuctionRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	ledger *LedgerUseCase,
	bus EventBus,
) *AuctionUseCase {
	return &AuctionUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		auctionRepo: auctionRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		ledger:      ledger,
		bus:         bus,
	}
}

// AuctionView is an auction together with its recent bids.
type AuctionView struct {
	Auction *domain.Auction
	Bids    []*domain.Bid
}

// Get returns the auction for key with its bid history.
func (uc *AuctionUseCase) Get(ctx context.Context, key string) (*AuctionView, error) {
	auction, err := uc.auctionRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	bids, err := uc.auctionRepo.ListBids(ctx, auction.ID, MaxListLimit)
	if err != nil {
		return nil, err
	}

	return &AuctionView{Auction: auction, Bids: bids}, nil
}

// StartAuctionInput represents input for opening an auction round.
type StartAuctionInput struct {
	ActorID     string
	Key         string
	Title       string
	Description string
	StartPrice  decimal.Decimal
	Duration    time.Duration
}

// StartAuction opens a new round on the named auction.
func (uc *AuctionUseCase) StartAuction(ctx context.Context, input StartAuctionInput) (*domain.Auction, error) {
	if err := domain.ValidateAmount(input.StartPrice); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	auction, err := uc.auctionRepo.GetByKeyForUpdate(txCtx, tx, input.Key)
	if err != nil {
		return nil, err
	}
	if auction.Active {
		return nil, domain.ErrAuctionAlreadyActive
	}

	now := time.Now().UTC()
	auction.Title = input.Title
	auction.Description = input.Description
	auction.Active = true
	auction.StartPrice = domain.MoneyRound(input.StartPrice)
	auction.WinnerID = nil
	auction.WinningBid = nil
	auction.SettledAt = nil
	auction.UpdatedAt = now

	if input.Duration > 0 {
		endsAt := now.Add(input.Duration)
		auction.EndsAt = &endsAt
	} else {
		auction.EndsAt = nil
	}

	if err := uc.auctionRepo.Update(txCtx, tx, auction); err != nil {
		return nil, err
	}

	// A new round starts with a clean board.
	if err := uc.auctionRepo.DeleteBids(txCtx, tx, auction.ID); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.CreateTx(txCtx, tx, &domain.AuditLog{
		ID:        uc.idGen.Generate(),
		ActorID:   input.ActorID,
		AccountID: input.ActorID,
		Action:    "auction.start",
		Details:   map[string]any{"key": input.Key, "startPrice": auction.StartPrice.String()},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.publishAuction(auction, "started", nil)

	return auction, nil
}

// PlaceBid records a bid on an active auction. Bids are strictly
// increasing; no funds move until the auction closes.
func (uc *AuctionUseCase) PlaceBid(ctx context.Context, accountID, key string, amount decimal.Decimal) (*domain.Bid, error) {
	amount = domain.MoneyRound(amount)
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	auction, err := uc.auctionRepo.GetByKeyForUpdate(txCtx, tx, key)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !auction.Active || auction.Expired(now) {
		return nil, domain.ErrAuctionNotActive
	}

	account, err := uc.accountRepo.GetByID(txCtx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Blocked {
		return nil, domain.ErrAccountBlocked
	}

	highest, err := uc.auctionRepo.HighestBid(txCtx, tx, auction.ID)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(auction.MinNextBid(highest)) {
		return nil, domain.ErrBidTooLow
	}

	bid := &domain.Bid{
		ID:        uc.idGen.Generate(),
		AuctionID: auction.ID,
		AccountID: accountID,
		Amount:    amount,
		CreatedAt: now,
	}
	if err := uc.auctionRepo.CreateBid(txCtx, tx, bid); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.publishAuction(auction, "bid", map[string]any{
		"amount": amount.String(),
		"bidder": account.Username,
	})

	return bid, nil
}

// CloseResult carries the outcome of closing an auction.
type CloseResult struct {
	Auction          *domain.Auction
	WinnerID         *string
	Amount           *decimal.Decimal
	SettlementFailed bool
}

// CloseAuction ends the round and settles the highest bid. If the winner
// cannot cover the bid the sale is cancelled: the auction closes with no
// winner, the would-be winner is notified, and a durable
// settlement-failed event is emitted for reporting.
func (uc *AuctionUseCase) CloseAuction(ctx context.Context, actorID, key string) (*CloseResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	auction, err := uc.auctionRepo.GetByKeyForUpdate(txCtx, tx, key)
	if err != nil {
		return nil, err
	}
	if !auction.Active {
		return nil, domain.ErrAuctionNotActive
	}

	now := time.Now().UTC()

	highest, err := uc.auctionRepo.HighestBid(txCtx, tx, auction.ID)
	if err != nil {
		return nil, err
	}

	auction.Active = false
	auction.UpdatedAt = now

	// No bids: just close the round.
	if highest == nil {
		if err := uc.auctionRepo.Update(txCtx, tx, auction); err != nil {
			return nil, err
		}
		if err := tx.Commit(txCtx); err != nil {
			return nil, err
		}
		uc.publishAuction(auction, "closed", nil)
		return &CloseResult{Auction: auction}, nil
	}

	winner, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, highest.AccountID)
	if err != nil {
		return nil, err
	}

	entry, err := uc.ledger.applyDeltaTx(txCtx, tx, winner, delta{
		Kind:     domain.EntryKindAuctionWin,
		Amount:   highest.Amount,
		IsCredit: false,
		Comment:  "Auction won: " + auction.Title,
		Details:  map[string]any{"auctionKey": auction.Key, "bidId": highest.ID},
	}, now)

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return uc.cancelSettlement(txCtx, tx, auction, winner, highest, now)
	case err != nil:
		return nil, err
	}

	auction.WinnerID = &winner.ID
	auction.WinningBid = &highest.Amount
	auction.SettledAt = &now
	if err := uc.auctionRepo.Update(txCtx, tx, auction); err != nil {
		return nil, err
	}

	lot := &domain.WonLot{
		ID:        uc.idGen.Generate(),
		AccountID: winner.ID,
		Title:     auction.Title,
		Amount:    highest.Amount,
		WonAt:     now,
	}
	if err := uc.auctionRepo.CreateWonLot(txCtx, tx, lot); err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		ID:        uc.idGen.Generate(),
		AccountID: winner.ID,
		Text:      "You won the auction \"" + auction.Title + "\" for " + highest.Amount.StringFixed(2),
		CreatedAt: now,
	}
	if err := uc.ledger.createNotificationTx(txCtx, tx, notification); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.publishBalance(winner, entry)
	uc.ledger.publishNotification(notification)
	uc.publishAuction(auction, "closed", map[string]any{
		"winner": winner.Username,
		"amount": highest.Amount.String(),
	})

	return &CloseResult{Auction: auction, WinnerID: &winner.ID, Amount: &highest.Amount}, nil
}

// cancelSettlement closes the auction with no winner after the highest
// bidder failed to pay. Runs inside the caller's transaction, which is
// still clean because the failed debit wrote nothing.
func (uc *AuctionUseCase) cancelSettlement(
	ctx context.Context,
	tx Transaction,
	auction *domain.Auction,
	bidder *domain.Account,
	bid *domain.Bid,
	now time.Time,
) (*CloseResult, error) {
	if err := uc.auctionRepo.Update(ctx, tx, auction); err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		ID:        uc.idGen.Generate(),
		AccountID: bidder.ID,
		Text:      "Your winning bid of " + bid.Amount.StringFixed(2) + " on \"" + auction.Title + "\" could not be settled",
		CreatedAt: now,
	}
	if err := uc.ledger.createNotificationTx(ctx, tx, notification); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   auction.ID,
		AggregateType: "auction",
		EventType:     domain.EventTypeSettlementFailed,
		Payload: map[string]any{
			"auctionKey": auction.Key,
			"bidderId":   bidder.ID,
			"amount":     bid.Amount.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.ledger.publishNotification(notification)
	uc.publishAuction(auction, "settlement_failed", map[string]any{"auctionKey": auction.Key})

	return &CloseResult{Auction: auction, SettlementFailed: true}, nil
}

// WonLots lists an account's settled auction wins.
func (uc *AuctionUseCase) WonLots(ctx context.Context, accountID string) ([]*domain.WonLot, error) {
	return uc.auctionRepo.ListWonLots(ctx, accountID)
}

func (uc *AuctionUseCase) publishAuction(auction *domain.Auction, phase string, extra map[string]any) {
	payload := map[string]any{
		"key":    auction.Key,
		"phase":  phase,
		"active": auction.Active,
	}
	for k, v := range extra {
		payload[k] = v
	}

	uc.bus.PublishGlobal(domain.Event{
		Type:    domain.EventTypeAuctionUpdate,
		Payload: payload,
		At:      auction.UpdatedAt,
	})
}
