package response

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type WalletResponse struct {
	AccountID uuid.UUID    `json:"accountId"`
	Balance   money.Amount `json:"balance"`
	Version   int64        `json:"version"`
	UpdatedAt *time.Time   `json:"updatedAt,omitempty"`
}

func FromWalletView(v *queries.WalletView) *WalletResponse {
	return &WalletResponse{
		AccountID: v.AccountID,
		Balance:   v.Balance,
		Version:   v.Version,
		UpdatedAt: v.UpdatedAt,
	}
}

type TransactionResponse struct {
	ID               uuid.UUID    `json:"id"`
	AccountID        uuid.UUID    `json:"accountId"`
	Type             string       `json:"type"`
	Amount           money.Amount `json:"amount"`
	BookingID        *uuid.UUID   `json:"bookingId,omitempty"`
	Description      string       `json:"description"`
	ResultingBalance money.Amount `json:"resultingBalance"`
	CreatedAt        time.Time    `json:"createdAt"`
}

func FromTransactionView(v *queries.TransactionView) *TransactionResponse {
	return &TransactionResponse{
		ID:               v.ID,
		AccountID:        v.AccountID,
		Type:             v.Type,
		Amount:           v.Amount,
		BookingID:        v.BookingID,
		Description:      v.Description,
		ResultingBalance: v.ResultingBalance,
		CreatedAt:        v.CreatedAt,
	}
}

type ReconcileResponse struct {
	AccountID       uuid.UUID    `json:"accountId"`
	StoredBalance   money.Amount `json:"storedBalance"`
	ReplayedBalance money.Amount `json:"replayedBalance"`
	Delta           money.Amount `json:"delta"`
	Entries         int          `json:"entries"`
	Consistent      bool         `json:"consistent"`
}

func FromReconcileView(v *queries.ReconcileView) *ReconcileResponse {
	return &ReconcileResponse{
		AccountID:       v.AccountID,
		StoredBalance:   v.Stored,
		ReplayedBalance: v.Replayed,
		Delta:           v.Delta,
		Entries:         v.Entries,
		Consistent:      v.Consistent,
	}
}
