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

// HoldingRepository implements usecase.HoldingRepository.
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{pool: pool}
}

// GetForUpdate retrieves one holding with a FOR UPDATE lock. Returns
// (nil, nil) when the account holds none of the asset yet.
func (r *HoldingRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID, assetID string) (*domain.Holding, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var (
		holding  domain.Holding
		quantity pgtype.Numeric
	)

	err := pgxTx.QueryRow(ctx, `
		SELECT id, account_id, asset_id, quantity, updated_at FROM holdings
		WHERE account_id = $1 AND asset_id = $2 FOR UPDATE`,
		accountID, assetID).Scan(&holding.ID, &holding.AccountID, &holding.AssetID, &quantity, &holding.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	holding.Quantity = numericToDecimal(quantity)

	return &holding, nil
}

// Upsert inserts or replaces a holding.
func (r *HoldingRepository) Upsert(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO holdings (id, account_id, asset_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, asset_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		holding.ID, holding.AccountID, holding.AssetID, decimalToNumeric(holding.Quantity), holding.UpdatedAt)

	return err
}

// ListByAccount lists an account's non-empty holdings.
func (r *HoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, asset_id, quantity, updated_at FROM holdings
		WHERE account_id = $1 AND quantity > 0 ORDER BY asset_id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		var (
			holding  domain.Holding
			quantity pgtype.Numeric
		)
		if err := rows.Scan(&holding.ID, &holding.AccountID, &holding.AssetID, &quantity, &holding.UpdatedAt); err != nil {
			return nil, err
		}
		holding.Quantity = numericToDecimal(quantity)
		holdings = append(holdings, &holding)
	}

	return holdings, rows.Err()
}
