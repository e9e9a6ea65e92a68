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

const accountColumns = `id, username, password_hash, is_admin, is_blocked, balance, loyalty_points,
	deposit_amount, deposit_matures_at, deposit_earnings, insured_until, total_sent, version,
	created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account within a transaction.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Admin,
		account.Blocked,
		decimalToNumeric(account.Balance),
		account.LoyaltyPoints,
		decimalToNumeric(account.DepositAmount),
		account.DepositMaturesAt,
		decimalToNumeric(account.DepositEarnings),
		account.InsuredUntil,
		decimalToNumeric(account.TotalSent),
		account.Version,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)

	return scanAccount(row)
}

// GetByUsername retrieves an account by username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)

	return scanAccount(row)
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)

	return scanAccount(row)
}

// GetByIDsForUpdate retrieves multiple accounts with FOR UPDATE locks. Rows
// are locked in ID order to keep concurrent transactions deadlock-free.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, len(ids))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the balance of an account and bumps its version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE accounts SET balance = $2, version = version + 1, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(balance), updatedAt)

	return err
}

// UpdateDeposit replaces the account's deposit state.
func (r *AccountRepository) UpdateDeposit(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, maturesAt *time.Time, earnings decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE accounts SET deposit_amount = $2, deposit_matures_at = $3, deposit_earnings = $4, updated_at = $5
		WHERE id = $1`,
		id, decimalToNumeric(amount), maturesAt, decimalToNumeric(earnings), updatedAt)

	return err
}

// UpdateInsurance sets the account's insurance expiry.
func (r *AccountRepository) UpdateInsurance(ctx context.Context, tx usecase.Transaction, id string, insuredUntil time.Time, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE accounts SET insured_until = $2, updated_at = $3 WHERE id = $1`,
		id, insuredUntil, updatedAt)

	return err
}

// UpdateLoyalty sets the account's loyalty point total.
func (r *AccountRepository) UpdateLoyalty(ctx context.Context, tx usecase.Transaction, id string, points int64, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE accounts SET loyalty_points = $2, updated_at = $3 WHERE id = $1`,
		id, points, updatedAt)

	return err
}

// UpdateTotalSent sets the account's lifetime outgoing transfer total.
func (r *AccountRepository) UpdateTotalSent(ctx context.Context, tx usecase.Transaction, id string, total decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE accounts SET total_sent = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(total), updatedAt)

	return err
}

// SetBlocked blocks or unblocks an account.
func (r *AccountRepository) SetBlocked(ctx context.Context, id string, blocked bool, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET is_blocked = $2, updated_at = $3 WHERE id = $1`,
		id, blocked, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// ListDueDepositIDs returns IDs of accounts whose deposit has matured.
func (r *AccountRepository) ListDueDepositIDs(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM accounts
		WHERE deposit_matures_at IS NOT NULL AND deposit_matures_at <= $1 AND deposit_amount > 0
		ORDER BY deposit_matures_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account         domain.Account
		balance         pgtype.Numeric
		depositAmount   pgtype.Numeric
		depositEarnings pgtype.Numeric
		totalSent       pgtype.Numeric
	)

	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Admin,
		&account.Blocked,
		&balance,
		&account.LoyaltyPoints,
		&depositAmount,
		&account.DepositMaturesAt,
		&depositEarnings,
		&account.InsuredUntil,
		&totalSent,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.DepositAmount = numericToDecimal(depositAmount)
	account.DepositEarnings = numericToDecimal(depositEarnings)
	account.TotalSent = numericToDecimal(totalSent)

	return &account, nil
}
