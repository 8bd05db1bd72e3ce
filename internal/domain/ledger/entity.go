package ledger

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrNonPositiveAmount = errs.Validation("transaction amount must be positive")

// Wallet is the materialized balance of one account. A wallet that has never
// been written reads as zero at version 0.
type Wallet struct {
	accountID uuid.UUID
	balance   money.Amount
	version   int64
	updatedAt time.Time
}

func NewEmptyWallet(accountID uuid.UUID) *Wallet {
	return &Wallet{accountID: accountID}
}

func ReconstructWallet(accountID uuid.UUID, balance money.Amount, version int64, updatedAt time.Time) *Wallet {
	return &Wallet{
		accountID: accountID,
		balance:   balance,
		version:   version,
		updatedAt: updatedAt,
	}
}

// Apply moves the balance by one entry. Entries that draw from the balance
// fail with ErrInsufficientFunds instead of going negative.
func (w *Wallet) Apply(t TransactionType, amount money.Amount, now time.Time) error {
	if !t.IsValid() {
		return ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	var next money.Amount
	if t.Sign() > 0 {
		var err error
		if next, err = w.balance.Plus(amount); err != nil {
			return err
		}
	} else {
		next = w.balance.Sub(amount)
	}
	if next.IsNegative() {
		return errs.Wrapf(errs.ErrInsufficientFunds, "balance %s, required %s", w.balance, amount)
	}
	w.balance = next
	w.updatedAt = now
	return nil
}

// AdvanceVersion is called by stores after a successful compare-and-swap.
func (w *Wallet) AdvanceVersion() {
	w.version++
}

func (w *Wallet) AccountID() uuid.UUID  { return w.accountID }
func (w *Wallet) Balance() money.Amount { return w.balance }
func (w *Wallet) Version() int64        { return w.version }
func (w *Wallet) UpdatedAt() time.Time  { return w.updatedAt }

// Transaction is one immutable line of the ledger log.
type Transaction struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	Type             TransactionType
	Amount           money.Amount
	BookingID        *uuid.UUID
	Description      string
	ResultingBalance money.Amount
	CreatedAt        time.Time
}

func NewTransaction(
	accountID uuid.UUID,
	t TransactionType,
	amount money.Amount,
	bookingID *uuid.UUID,
	description string,
	resultingBalance money.Amount,
	now time.Time,
) (Transaction, error) {
	if !t.IsValid() {
		return Transaction{}, ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return Transaction{}, ErrNonPositiveAmount
	}
	return Transaction{
		ID:               uuid.New(),
		AccountID:        accountID,
		Type:             t,
		Amount:           amount,
		BookingID:        bookingID,
		Description:      description,
		ResultingBalance: resultingBalance,
		CreatedAt:        now,
	}, nil
}

// Signed is the amount as it moves the balance.
func (t Transaction) Signed() money.Amount {
	return t.Amount.Mul(t.Type.Sign())
}
