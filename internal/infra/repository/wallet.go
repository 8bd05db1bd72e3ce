package repository

import (
	"context"
	"time"

	"parq-core/internal/domain/ledger"
	"parq-core/internal/domain/money"
	"parq-core/internal/infra"
	"parq-core/internal/infra/db"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type WalletRepository struct {
	db db.DBTX
}

func NewWalletRepository(db db.DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Get(ctx context.Context, accountID uuid.UUID) (*ledger.Wallet, error) {
	var (
		balance   int64
		version   int64
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT balance, version, updated_at FROM wallets WHERE account_id = $1`, accountID).
		Scan(&balance, &version, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return ledger.NewEmptyWallet(accountID), nil
		}
		return nil, infra.WrapRepoErr("failed to get wallet", err)
	}
	return ledger.ReconstructWallet(accountID, money.FromPaise(balance), version, updatedAt.UTC()), nil
}

// CompareAndSwap inserts the first version of a wallet and updates later ones
// only while the stored version is unchanged.
func (r *WalletRepository) CompareAndSwap(ctx context.Context, w *ledger.Wallet) error {
	var (
		affected int64
		query    string
	)
	if w.Version() == 0 {
		query = `INSERT INTO wallets (account_id, balance, version, updated_at) VALUES ($1, $2, 1, $3)
			ON CONFLICT (account_id) DO NOTHING`
		tag, err := r.db.Exec(ctx, query, w.AccountID(), w.Balance().Paise(), w.UpdatedAt())
		if err != nil {
			return infra.WrapRepoErr("failed to create wallet", err)
		}
		affected = tag.RowsAffected()
	} else {
		query = `UPDATE wallets SET balance = $2, version = version + 1, updated_at = $3
			WHERE account_id = $1 AND version = $4`
		tag, err := r.db.Exec(ctx, query, w.AccountID(), w.Balance().Paise(), w.UpdatedAt(), w.Version())
		if err != nil {
			return infra.WrapRepoErr("failed to update wallet", err)
		}
		affected = tag.RowsAffected()
	}

	if affected == 0 {
		return errs.Wrapf(errs.ErrConcurrencyConflict, "wallet %s moved past version %d", w.AccountID(), w.Version())
	}
	w.AdvanceVersion()
	return nil
}
