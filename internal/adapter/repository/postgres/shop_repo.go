package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

const shopItemColumns = `id, name, description, price, discount_price, quantity, category, popularity, created_at, updated_at`

// ShopRepository implements usecase.ShopRepository.
type ShopRepository struct {
	pool *pgxpool.Pool
}

// NewShopRepository creates a new ShopRepository.
func NewShopRepository(pool *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

// List lists the catalog, best sellers first.
func (r *ShopRepository) List(ctx context.Context) ([]*domain.ShopItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+shopItemColumns+` FROM shop_items ORDER BY popularity DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.ShopItem
	for rows.Next() {
		item, err := scanShopItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetByIDsForUpdate retrieves items with FOR UPDATE locks, in ID order.
func (r *ShopRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.ShopItem, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+shopItemColumns+` FROM shop_items WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.ShopItem, 0, len(ids))
	for rows.Next() {
		item, err := scanShopItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateStock sets an item's remaining quantity and popularity counter.
func (r *ShopRepository) UpdateStock(ctx context.Context, tx usecase.Transaction, id string, quantity, popularity int64, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE shop_items SET quantity = $2, popularity = $3, updated_at = $4 WHERE id = $1`,
		id, quantity, popularity, updatedAt)

	return err
}

func scanShopItem(row pgx.Row) (*domain.ShopItem, error) {
	var (
		item          domain.ShopItem
		price         pgtype.Numeric
		discountPrice pgtype.Numeric
	)

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&price,
		&discountPrice,
		&item.Quantity,
		&item.Category,
		&item.Popularity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Price = numericToDecimal(price)
	item.DiscountPrice = numericToDecimalPtr(discountPrice)

	return &item, nil
}
