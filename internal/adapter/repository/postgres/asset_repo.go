package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

const assetColumns = `id, ticker, name, kind, price, updated_at`

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

// List lists all tradeable assets.
func (r *AssetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssets(rows)
}

// GetByTicker retrieves an asset by ticker.
func (r *AssetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE ticker = $1`, ticker)

	return scanAsset(row)
}

// GetByTickerForUpdate retrieves an asset by ticker with a FOR UPDATE lock.
func (r *AssetRepository) GetByTickerForUpdate(ctx context.Context, tx usecase.Transaction, ticker string) (*domain.Asset, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE ticker = $1 FOR UPDATE`, ticker)

	return scanAsset(row)
}

// ListForUpdate lists all assets with FOR UPDATE locks, in ticker order.
func (r *AssetRepository) ListForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Asset, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY ticker FOR UPDATE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssets(rows)
}

// UpdatePrice sets an asset's current price.
func (r *AssetRepository) UpdatePrice(ctx context.Context, tx usecase.Transaction, id string, price decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE assets SET price = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(price), updatedAt)

	return err
}

// AddPricePoint appends one row of price history.
func (r *AssetRepository) AddPricePoint(ctx context.Context, tx usecase.Transaction, point *domain.PricePoint) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO asset_prices (id, asset_id, price, recorded_at) VALUES ($1, $2, $3, $4)`,
		point.ID, point.AssetID, decimalToNumeric(point.Price), point.RecordedAt)

	return err
}

// History returns the most recent price points in chronological order.
func (r *AssetRepository) History(ctx context.Context, assetID string, limit int) ([]*domain.PricePoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, asset_id, price, recorded_at FROM asset_prices
		WHERE asset_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT $2`,
		assetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*domain.PricePoint
	for rows.Next() {
		var (
			point domain.PricePoint
			price pgtype.Numeric
		)
		if err := rows.Scan(&point.ID, &point.AssetID, &price, &point.RecordedAt); err != nil {
			return nil, err
		}
		point.Price = numericToDecimal(price)
		points = append(points, &point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Oldest first, so charts read left to right.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	return points, nil
}

func collectAssets(rows pgx.Rows) ([]*domain.Asset, error) {
	var assets []*domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var (
		asset domain.Asset
		kind  string
		price pgtype.Numeric
	)

	err := row.Scan(&asset.ID, &asset.Ticker, &asset.Name, &kind, &price, &asset.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}

		return nil, err
	}

	asset.Kind = domain.AssetKind(kind)
	asset.Price = numericToDecimal(price)

	return &asset, nil
}
