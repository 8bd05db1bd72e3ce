package repository

import (
	"context"

	"parq-core/internal/domain/ledger"
	"parq-core/internal/infra"
	"parq-core/internal/infra/db"
	"parq-core/internal/infra/repository/converter"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransactionRepository struct {
	db db.DBTX
}

func NewTransactionRepository(db db.DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Append(ctx context.Context, t ledger.Transaction) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO transactions (`+converter.TransactionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		converter.TransactionArgs(t)...)
	if err != nil {
		return infra.WrapRepoErr("failed to append transaction", err)
	}
	return nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, page shared.Keyset) ([]ledger.Transaction, error) {
	query, args := keysetQuery(
		`SELECT `+converter.TransactionColumns+` FROM transactions WHERE account_id = $1`,
		"", accountID, page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list transactions", err)
	}
	return collectTransactions(rows)
}

// ListAllByAccount returns the log in append order.
func (r *TransactionRepository) ListAllByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+converter.TransactionColumns+` FROM transactions WHERE account_id = $1 ORDER BY seq`,
		accountID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list transactions", err)
	}
	return collectTransactions(rows)
}

func (r *TransactionRepository) ListByBooking(ctx context.Context, accountID, bookingID uuid.UUID) ([]ledger.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+converter.TransactionColumns+` FROM transactions
		WHERE account_id = $1 AND booking_id = $2 ORDER BY seq`,
		accountID, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking transactions", err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]ledger.Transaction, error) {
	defer rows.Close()
	var out []ledger.Transaction
	for rows.Next() {
		var row converter.TransactionRow
		if err := rows.Scan(row.Targets()...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan transaction", err)
		}
		out = append(out, converter.TransactionToDomain(row))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate transactions", err)
	}
	return out, nil
}
