package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

const auctionColumns = `id, key, title, description, is_active, start_price, ends_at,
	winner_id, winning_bid, settled_at, updated_at`

// AuctionRepository implements usecase.AuctionRepository.
type AuctionRepository struct {
	pool *pgxpool.Pool
}

// NewAuctionRepository creates a new AuctionRepository.
func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

// GetByKey retrieves an auction by its well-known key.
func (r *AuctionRepository) GetByKey(ctx context.Context, key string) (*domain.Auction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+auctionColumns+` FROM auctions WHERE key = $1`, key)

	return scanAuction(row)
}

// GetByKeyForUpdate retrieves an auction with a FOR UPDATE lock.
func (r *AuctionRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Transaction, key string) (*domain.Auction, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `SELECT `+auctionColumns+` FROM auctions WHERE key = $1 FOR UPDATE`, key)

	return scanAuction(row)
}

// Update persists an auction's mutable state.
func (r *AuctionRepository) Update(ctx context.Context, tx usecase.Transaction, auction *domain.Auction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE auctions SET title = $2, description = $3, is_active = $4, start_price = $5,
			ends_at = $6, winner_id = $7, winning_bid = $8, settled_at = $9, updated_at = $10
		WHERE id = $1`,
		auction.ID,
		auction.Title,
		auction.Description,
		auction.Active,
		decimalToNumeric(auction.StartPrice),
		auction.EndsAt,
		auction.WinnerID,
		decimalPtrToNumeric(auction.WinningBid),
		auction.SettledAt,
		auction.UpdatedAt,
	)

	return err
}

// CreateBid records a bid within a transaction.
func (r *AuctionRepository) CreateBid(ctx context.Context, tx usecase.Transaction, bid *domain.Bid) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO auction_bids (id, auction_id, account_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		bid.ID, bid.AuctionID, bid.AccountID, decimalToNumeric(bid.Amount), bid.CreatedAt)

	return err
}

// DeleteBids removes every bid of an auction. StartAuction calls this so
// a new round begins with a clean board.
func (r *AuctionRepository) DeleteBids(ctx context.Context, tx usecase.Transaction, auctionID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM auction_bids WHERE auction_id = $1`, auctionID)

	return err
}

// HighestBid returns the current highest bid, or nil when there is none.
func (r *AuctionRepository) HighestBid(ctx context.Context, tx usecase.Transaction, auctionID string) (*domain.Bid, error) {
	pgxTx := tx.(*Tx).PgxTx()

	bid, err := scanBid(pgxTx.QueryRow(ctx, `
		SELECT id, auction_id, account_id, amount, created_at FROM auction_bids
		WHERE auction_id = $1 ORDER BY amount DESC, created_at LIMIT 1`, auctionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return bid, nil
}

// ListBids lists bids on an auction, highest first.
func (r *AuctionRepository) ListBids(ctx context.Context, auctionID string, limit int) ([]*domain.Bid, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, auction_id, account_id, amount, created_at FROM auction_bids
		WHERE auction_id = $1 ORDER BY amount DESC, created_at LIMIT $2`,
		auctionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}

	return bids, rows.Err()
}

// CreateWonLot records a settled auction win.
func (r *AuctionRepository) CreateWonLot(ctx context.Context, tx usecase.Transaction, lot *domain.WonLot) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO won_lots (id, account_id, title, amount, won_at)
		VALUES ($1, $2, $3, $4, $5)`,
		lot.ID, lot.AccountID, lot.Title, decimalToNumeric(lot.Amount), lot.WonAt)

	return err
}

// ListWonLots lists an account's wins, newest first.
func (r *AuctionRepository) ListWonLots(ctx context.Context, accountID string) ([]*domain.WonLot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, title, amount, won_at FROM won_lots
		WHERE account_id = $1 ORDER BY won_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []*domain.WonLot
	for rows.Next() {
		var (
			lot    domain.WonLot
			amount pgtype.Numeric
		)
		if err := rows.Scan(&lot.ID, &lot.AccountID, &lot.Title, &amount, &lot.WonAt); err != nil {
			return nil, err
		}
		lot.Amount = numericToDecimal(amount)
		lots = append(lots, &lot)
	}

	return lots, rows.Err()
}

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	var (
		auction    domain.Auction
		startPrice pgtype.Numeric
		winningBid pgtype.Numeric
	)

	err := row.Scan(
		&auction.ID,
		&auction.Key,
		&auction.Title,
		&auction.Description,
		&auction.Active,
		&startPrice,
		&auction.EndsAt,
		&auction.WinnerID,
		&winningBid,
		&auction.SettledAt,
		&auction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}

		return nil, err
	}

	auction.StartPrice = numericToDecimal(startPrice)
	auction.WinningBid = numericToDecimalPtr(winningBid)

	return &auction, nil
}

func scanBid(row pgx.Row) (*domain.Bid, error) {
	var (
		bid    domain.Bid
		amount pgtype.Numeric
	)

	err := row.Scan(&bid.ID, &bid.AuctionID, &bid.AccountID, &amount, &bid.CreatedAt)
	if err != nil {
		return nil, err
	}

	bid.Amount = numericToDecimal(amount)

	return &bid, nil
}
