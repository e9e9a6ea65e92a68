package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

// NotificationRepository implements usecase.NotificationRepository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create stores a notification within a transaction.
func (r *NotificationRepository) Create(ctx context.Context, tx usecase.Transaction, notification *domain.Notification) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO notifications (id, account_id, text, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		notification.ID, notification.AccountID, notification.Text, notification.Read, notification.CreatedAt)

	return err
}

// ListByAccount lists an account's notifications, newest first.
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, text, is_read, created_at FROM notifications
		WHERE account_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Text, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkRead marks one notification as read. The account ID guards against
// marking someone else's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, accountID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}
