//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"parq-core/internal/infra"
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCouponIncrementUsage(t *testing.T) {
	couponID := uuid.New()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rows    int
		exists  bool
		wantErr error
	}{
		{name: "use left", rows: 1},
		{name: "limit reached", rows: 0, exists: true, wantErr: errs.ErrCouponExhausted},
		{name: "coupon gone", rows: 0, exists: false, wantErr: errs.ErrCouponNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("Exec", mock.Anything, sqlContaining("WHERE id = $1 AND used_count < usage_limit"), []any{couponID, at}).
				Return(tagAffecting(tt.rows), nil)
			if tt.rows == 0 {
				mockDB.On("QueryRow", mock.Anything, sqlContaining("SELECT EXISTS"), []any{couponID}).
					Return(fakeRow{values: []any{tt.exists}})
			}

			err := NewCouponRepository(mockDB).IncrementUsage(context.Background(), couponID, at)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			mockDB.AssertExpectations(t)
		})
	}

	t.Run("driver failure", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return(pgconn.CommandTag{}, assert.AnError)

		err := NewCouponRepository(mockDB).IncrementUsage(context.Background(), couponID, at)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		mockDB.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
	})
}
