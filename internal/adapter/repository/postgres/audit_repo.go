package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create records an audit log outside of any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	details, err := json.Marshal(log.Details)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, insertAuditLog,
		log.ID, log.ActorID, log.AccountID, log.Action, details, log.CreatedAt)

	return err
}

// CreateTx records an audit log within a transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	pgxTx := tx.(*Tx).PgxTx()

	details, err := json.Marshal(log.Details)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, insertAuditLog,
		log.ID, log.ActorID, log.AccountID, log.Action, details, log.CreatedAt)

	return err
}

const insertAuditLog = `
	INSERT INTO audit_logs (id, actor_id, account_id, action, details, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// ListByAccount lists audit logs touching an account, newest first.
func (r *AuditRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, actor_id, account_id, action, details, created_at FROM audit_logs
		WHERE account_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log     domain.AuditLog
			details []byte
		)
		if err := rows.Scan(&log.ID, &log.ActorID, &log.AccountID, &log.Action, &details, &log.CreatedAt); err != nil {
			return nil, err
		}
		if details != nil {
			_ = json.Unmarshal(details, &log.Details)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
