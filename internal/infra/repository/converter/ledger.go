package converter

import (
	"time"

	"parq-core/internal/domain/ledger"
	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const TransactionColumns = `id, account_id, type, amount, booking_id, description, resulting_balance, created_at`

type TransactionRow struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	Type             string
	Amount           int64
	BookingID        pgtype.UUID
	Description      string
	ResultingBalance int64
	CreatedAt        time.Time
}

func (r *TransactionRow) Targets() []any {
	return []any{&r.ID, &r.AccountID, &r.Type, &r.Amount, &r.BookingID, &r.Description, &r.ResultingBalance, &r.CreatedAt}
}

func TransactionToDomain(r TransactionRow) ledger.Transaction {
	return ledger.Transaction{
		ID:               r.ID,
		AccountID:        r.AccountID,
		Type:             ledger.TransactionType(r.Type),
		Amount:           money.FromPaise(r.Amount),
		BookingID:        pgconv.UUIDPtrFromPgtype(r.BookingID),
		Description:      r.Description,
		ResultingBalance: money.FromPaise(r.ResultingBalance),
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

func TransactionArgs(t ledger.Transaction) []any {
	return []any{
		t.ID, t.AccountID, t.Type.String(), t.Amount.Paise(), pgconv.UUIDPtrToPgtype(t.BookingID),
		t.Description, t.ResultingBalance.Paise(), t.CreatedAt,
	}
}
