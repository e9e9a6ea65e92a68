package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ceobank/backend/internal/domain"
)

// InsuranceRepository implements usecase.InsuranceRepository.
type InsuranceRepository struct {
	pool *pgxpool.Pool
}

// NewInsuranceRepository creates a new InsuranceRepository.
func NewInsuranceRepository(pool *pgxpool.Pool) *InsuranceRepository {
	return &InsuranceRepository{pool: pool}
}

// ListOptions lists purchasable coverage options, cheapest first.
func (r *InsuranceRepository) ListOptions(ctx context.Context) ([]*domain.InsuranceOption, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, duration_seconds, cost FROM insurance_options ORDER BY cost`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []*domain.InsuranceOption
	for rows.Next() {
		option, err := scanInsuranceOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}

	return options, rows.Err()
}

// GetOption retrieves one coverage option.
func (r *InsuranceRepository) GetOption(ctx context.Context, id string) (*domain.InsuranceOption, error) {
	option, err := scanInsuranceOption(r.pool.QueryRow(ctx, `
		SELECT id, name, duration_seconds, cost FROM insurance_options WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsuranceOptionNotFound
		}

		return nil, err
	}

	return option, nil
}

func scanInsuranceOption(row pgx.Row) (*domain.InsuranceOption, error) {
	var (
		option          domain.InsuranceOption
		durationSeconds int64
		cost            pgtype.Numeric
	)

	err := row.Scan(&option.ID, &option.Name, &durationSeconds, &cost)
	if err != nil {
		return nil, err
	}

	option.Duration = time.Duration(durationSeconds) * time.Second
	option.Cost = numericToDecimal(cost)

	return &option, nil
}
