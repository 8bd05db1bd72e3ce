package ledger

import (
	"parq-core/internal/domain/money"

	"github.com/google/uuid"
)

// Replay folds the log in order.
func Replay(txns []Transaction) money.Amount {
	var balance money.Amount
	for _, t := range txns {
		balance = balance.Add(t.Signed())
	}
	return balance
}

// OutstandingHold is what is still held for a booking: holds minus the
// releases and refunds that returned part of them.
func OutstandingHold(txns []Transaction, bookingID uuid.UUID) money.Amount {
	var held money.Amount
	for _, t := range txns {
		if t.BookingID == nil || *t.BookingID != bookingID {
			continue
		}
		switch t.Type {
		case TypeHold:
			held = held.Add(t.Amount)
		case TypeRelease, TypeRefund:
			held = held.Sub(t.Amount)
		}
	}
	if held.IsNegative() {
		return 0
	}
	return held
}

// Drift compares the stored balance with a replay of the log.
type Drift struct {
	AccountID uuid.UUID
	Stored    money.Amount
	Replayed  money.Amount
	Entries   int
}

func (d Drift) Consistent() bool {
	return d.Stored == d.Replayed
}

func (d Drift) Delta() money.Amount {
	return d.Stored.Sub(d.Replayed)
}

func Reconcile(w *Wallet, txns []Transaction) Drift {
	return Drift{
		AccountID: w.AccountID(),
		Stored:    w.Balance(),
		Replayed:  Replay(txns),
		Entries:   len(txns),
	}
}
