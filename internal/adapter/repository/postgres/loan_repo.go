package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

const loanColumns = `id, account_id, amount, interest_rate, taken_at, repaid_at`

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create records a new loan within a transaction.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO loans (`+loanColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		loan.ID,
		loan.AccountID,
		decimalToNumeric(loan.Amount),
		decimalToNumeric(loan.InterestRate),
		loan.TakenAt,
		loan.RepaidAt,
	)

	return err
}

// GetActiveByAccount retrieves the account's outstanding loan.
func (r *LoanRepository) GetActiveByAccount(ctx context.Context, accountID string) (*domain.Loan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+loanColumns+` FROM loans WHERE account_id = $1 AND repaid_at IS NULL`, accountID)

	return scanLoan(row)
}

// GetActiveByAccountForUpdate retrieves the outstanding loan with a FOR
// UPDATE lock.
func (r *LoanRepository) GetActiveByAccountForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Loan, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `
		SELECT `+loanColumns+` FROM loans WHERE account_id = $1 AND repaid_at IS NULL FOR UPDATE`, accountID)

	return scanLoan(row)
}

// MarkRepaid closes a loan.
func (r *LoanRepository) MarkRepaid(ctx context.Context, tx usecase.Transaction, id string, repaidAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE loans SET repaid_at = $2 WHERE id = $1 AND repaid_at IS NULL`, id, repaidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoActiveLoan
	}

	return nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan         domain.Loan
		amount       pgtype.Numeric
		interestRate pgtype.Numeric
	)

	err := row.Scan(&loan.ID, &loan.AccountID, &amount, &interestRate, &loan.TakenAt, &loan.RepaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoActiveLoan
		}

		return nil, err
	}

	loan.Amount = numericToDecimal(amount)
	loan.InterestRate = numericToDecimal(interestRate)

	return &loan, nil
}
