//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"parq-core/internal/domain/ledger"
	"parq-core/internal/domain/money"
	"parq-core/internal/infra"
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWalletCompareAndSwap(t *testing.T) {
	accountID := uuid.New()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		version     int64
		fragment    string
		rows        int
		execErr     error
		wantErr     error
		wantVersion int64
	}{
		{name: "first write inserts", version: 0, fragment: "ON CONFLICT (account_id) DO NOTHING", rows: 1, wantVersion: 1},
		{name: "concurrent first write loses", version: 0, fragment: "ON CONFLICT (account_id) DO NOTHING", rows: 0, wantErr: errs.ErrConcurrencyConflict, wantVersion: 0},
		{name: "update at expected version", version: 3, fragment: "WHERE account_id = $1 AND version = $4", rows: 1, wantVersion: 4},
		{name: "stale version is a conflict", version: 3, fragment: "WHERE account_id = $1 AND version = $4", rows: 0, wantErr: errs.ErrConcurrencyConflict, wantVersion: 3},
		{name: "driver failure", version: 3, fragment: "WHERE account_id = $1 AND version = $4", execErr: assert.AnError, wantErr: errs.ErrStoreUnavailable, wantVersion: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ledger.ReconstructWallet(accountID, money.FromRupees(100), tt.version, at)
			args := []any{accountID, int64(10000), at}
			if tt.version > 0 {
				args = append(args, tt.version)
			}

			mockDB := new(MockDBTX)
			mockDB.On("Exec", mock.Anything, sqlContaining(tt.fragment), args).Return(tagAffecting(tt.rows), tt.execErr)

			err := NewWalletRepository(mockDB).CompareAndSwap(context.Background(), w)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			if tt.execErr != nil {
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
			}
			assert.Equal(t, tt.wantVersion, w.Version())
			mockDB.AssertExpectations(t)
		})
	}
}

func TestWalletGet(t *testing.T) {
	accountID := uuid.New()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("missing row is an empty wallet", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, sqlContaining("FROM wallets WHERE account_id = $1"), []any{accountID}).
			Return(fakeRow{err: pgx.ErrNoRows})

		w, err := NewWalletRepository(mockDB).Get(context.Background(), accountID)

		require.NoError(t, err)
		assert.True(t, w.Balance().IsZero())
		assert.Zero(t, w.Version())
		mockDB.AssertExpectations(t)
	})

	t.Run("stored row", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, mock.Anything, []any{accountID}).
			Return(fakeRow{values: []any{int64(245000), int64(7), at}})

		w, err := NewWalletRepository(mockDB).Get(context.Background(), accountID)

		require.NoError(t, err)
		assert.Equal(t, money.FromRupees(2450), w.Balance())
		assert.EqualValues(t, 7, w.Version())
	})

	t.Run("driver failure", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, mock.Anything, []any{accountID}).Return(fakeRow{err: assert.AnError})

		_, err := NewWalletRepository(mockDB).Get(context.Background(), accountID)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}
