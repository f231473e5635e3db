package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syklonAK/hesabdari/internal/domain"
)

// uniqueViolation is the SQLSTATE Postgres raises when an insert hits
// the debtor_code primary key.
const uniqueViolation = "23505"

type Debts struct{ pool *pgxpool.Pool }

func NewDebts(p *pgxpool.Pool) *Debts { return &Debts{pool: p} }

func (r *Debts) Create(ctx context.Context, d domain.Debt) (domain.Debt, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO debts(debtor_code, debtor_name, amount, description, recorded_at, user_id)
		VALUES($1,$2,$3,$4,$5,$6)
		RETURNING debtor_code
	`, d.DebtorCode, d.DebtorName, d.Amount, d.Description, d.RecordedAt, d.UserID).Scan(&d.DebtorCode)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Debt{}, ErrDuplicateCode
		}
		return domain.Debt{}, err
	}
	return d, nil
}

func (r *Debts) ListByOwner(ctx context.Context, userID int64) ([]domain.Debt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT debtor_code, debtor_name, amount, description, recorded_at, user_id
		FROM debts
		WHERE user_id=$1
		ORDER BY recorded_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Debt
	for rows.Next() {
		var d domain.Debt
		if e := rows.Scan(&d.DebtorCode, &d.DebtorName, &d.Amount, &d.Description, &d.RecordedAt, &d.UserID); e != nil {
			return nil, e
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Codes returns every debtor code in the store, across all owners.
// Codes are globally unique, so the generator has to check against the
// full set.
func (r *Debts) Codes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT debtor_code FROM debts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var code string
		if e := rows.Scan(&code); e != nil {
			return nil, e
		}
		out[code] = struct{}{}
	}
	return out, rows.Err()
}

func (r *Debts) DeleteByCode(ctx context.Context, userID int64, code string) (domain.Debt, error) {
	var d domain.Debt
	err := r.pool.QueryRow(ctx, `
		DELETE FROM debts
		WHERE debtor_code=$1 AND user_id=$2
		RETURNING debtor_code, debtor_name, amount, description, recorded_at, user_id
	`, code, userID).Scan(&d.DebtorCode, &d.DebtorName, &d.Amount, &d.Description, &d.RecordedAt, &d.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Debt{}, ErrNotFound
	}
	return d, err
}
