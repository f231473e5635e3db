package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syklonAK/hesabdari/internal/domain"
)

type Transactions struct{ pool *pgxpool.Pool }

func NewTransactions(p *pgxpool.Pool) *Transactions { return &Transactions{pool: p} }

func (r *Transactions) Create(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO transactions(amount, description, is_income, recorded_at, user_id)
		VALUES($1,$2,$3,$4,$5)
		RETURNING id
	`, t.Amount, t.Description, t.IsIncome, t.RecordedAt, t.UserID).Scan(&t.ID)
	return t, err
}

func (r *Transactions) ListByOwner(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, amount, description, is_income, recorded_at, user_id
		FROM transactions
		WHERE user_id=$1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if e := rows.Scan(&t.ID, &t.Amount, &t.Description, &t.IsIncome, &t.RecordedAt, &t.UserID); e != nil {
			return nil, e
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Transactions) FindByID(ctx context.Context, userID, id int64) (domain.Transaction, error) {
	var t domain.Transaction
	err := r.pool.QueryRow(ctx, `
		SELECT id, amount, description, is_income, recorded_at, user_id
		FROM transactions
		WHERE id=$1 AND user_id=$2
	`, id, userID).Scan(&t.ID, &t.Amount, &t.Description, &t.IsIncome, &t.RecordedAt, &t.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Transaction{}, ErrNotFound
	}
	return t, err
}

func (r *Transactions) DeleteByID(ctx context.Context, userID, id int64) (domain.Transaction, error) {
	var t domain.Transaction
	err := r.pool.QueryRow(ctx, `
		DELETE FROM transactions
		WHERE id=$1 AND user_id=$2
		RETURNING id, amount, description, is_income, recorded_at, user_id
	`, id, userID).Scan(&t.ID, &t.Amount, &t.Description, &t.IsIncome, &t.RecordedAt, &t.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Transaction{}, ErrNotFound
	}
	return t, err
}

func (r *Transactions) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
