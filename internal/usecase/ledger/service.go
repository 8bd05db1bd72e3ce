package ledger

import (
	"context"
	"log/slog"

	domledger "parq-core/internal/domain/ledger"
	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/clock"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/retry"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrExceedsHold = errs.Validation("amount exceeds the outstanding hold")

// Service is the only writer of wallets and transactions. Each entry moves
// the wallet with a version check and appends to the log in the same unit.
type Service struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	policy retry.Policy
	logger *slog.Logger
}

func NewService(uow shared.UnitOfWork, clk clock.Clock, policy retry.Policy, logger *slog.Logger) *Service {
	return &Service{uow: uow, clock: clk, policy: policy, logger: logger}
}

// Entry is one ledger movement for an account.
type Entry struct {
	AccountID   uuid.UUID
	Type        domledger.TransactionType
	Amount      money.Amount
	BookingID   *uuid.UUID
	Description string
}

// Post applies e inside tx. Zero amounts are skipped and write nothing.
func (s *Service) Post(ctx context.Context, tx shared.Tx, e Entry) (*domledger.Transaction, error) {
	if e.Amount.IsZero() {
		return nil, nil
	}
	now := s.clock.Now()

	w, err := tx.Wallets().Get(ctx, e.AccountID)
	if err != nil {
		return nil, err
	}
	if err := w.Apply(e.Type, e.Amount, now); err != nil {
		return nil, err
	}
	if err := tx.Wallets().CompareAndSwap(ctx, w); err != nil {
		return nil, err
	}

	txn, err := domledger.NewTransaction(e.AccountID, e.Type, e.Amount, e.BookingID, e.Description, w.Balance(), now)
	if err != nil {
		return nil, err
	}
	if err := tx.Transactions().Append(ctx, txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *Service) Hold(ctx context.Context, tx shared.Tx, account, bookingID uuid.UUID, amount money.Amount) error {
	_, err := s.Post(ctx, tx, Entry{
		AccountID:   account,
		Type:        domledger.TypeHold,
		Amount:      amount,
		BookingID:   &bookingID,
		Description: "hold for booking " + bookingID.String(),
	})
	return err
}

// Outstanding is what is still held on account for bookingID.
func (s *Service) Outstanding(ctx context.Context, tx shared.Tx, account, bookingID uuid.UUID) (money.Amount, error) {
	txns, err := tx.Transactions().ListByBooking(ctx, account, bookingID)
	if err != nil {
		return 0, err
	}
	return domledger.OutstandingHold(txns, bookingID), nil
}

// ReleaseAll returns whatever is still held for bookingID. Safe to repeat.
func (s *Service) ReleaseAll(ctx context.Context, tx shared.Tx, account, bookingID uuid.UUID) (money.Amount, error) {
	held, err := s.Outstanding(ctx, tx, account, bookingID)
	if err != nil {
		return 0, err
	}
	if _, err := s.Post(ctx, tx, Entry{
		AccountID:   account,
		Type:        domledger.TypeRelease,
		Amount:      held,
		BookingID:   &bookingID,
		Description: "release hold for booking " + bookingID.String(),
	}); err != nil {
		return 0, err
	}
	return held, nil
}

// Capture turns amount of the hold into a payment: a Release then a Debit.
func (s *Service) Capture(ctx context.Context, tx shared.Tx, account, bookingID uuid.UUID, amount money.Amount) error {
	held, err := s.Outstanding(ctx, tx, account, bookingID)
	if err != nil {
		return err
	}
	if amount > held {
		return errs.Wrapf(ErrExceedsHold, "capture %s, held %s", amount, held)
	}
	desc := "capture for booking " + bookingID.String()
	if _, err := s.Post(ctx, tx, Entry{AccountID: account, Type: domledger.TypeRelease, Amount: amount, BookingID: &bookingID, Description: desc}); err != nil {
		return err
	}
	_, err = s.Post(ctx, tx, Entry{AccountID: account, Type: domledger.TypeDebit, Amount: amount, BookingID: &bookingID, Description: desc})
	return err
}

// Refund gives amount of the hold back to the account.
func (s *Service) Refund(ctx context.Context, tx shared.Tx, account, bookingID uuid.UUID, amount money.Amount) error {
	held, err := s.Outstanding(ctx, tx, account, bookingID)
	if err != nil {
		return err
	}
	if amount > held {
		return errs.Wrapf(ErrExceedsHold, "refund %s, held %s", amount, held)
	}
	_, err = s.Post(ctx, tx, Entry{
		AccountID:   account,
		Type:        domledger.TypeRefund,
		Amount:      amount,
		BookingID:   &bookingID,
		Description: "refund for booking " + bookingID.String(),
	})
	return err
}

func (s *Service) Credit(ctx context.Context, tx shared.Tx, account uuid.UUID, bookingID *uuid.UUID, amount money.Amount, desc string) error {
	_, err := s.Post(ctx, tx, Entry{AccountID: account, Type: domledger.TypeCredit, Amount: amount, BookingID: bookingID, Description: desc})
	return err
}

func (s *Service) Debit(ctx context.Context, tx shared.Tx, account uuid.UUID, bookingID *uuid.UUID, amount money.Amount, desc string) error {
	_, err := s.Post(ctx, tx, Entry{AccountID: account, Type: domledger.TypeDebit, Amount: amount, BookingID: bookingID, Description: desc})
	return err
}

// TopUp funds a wallet from outside the marketplace in its own unit.
func (s *Service) TopUp(ctx context.Context, account uuid.UUID, amount money.Amount, desc string) (*domledger.Transaction, error) {
	if !amount.IsPositive() {
		return nil, domledger.ErrNonPositiveAmount
	}
	if desc == "" {
		desc = "wallet top-up"
	}
	var txn *domledger.Transaction
	err := retry.Do(ctx, s.policy, func() error {
		return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			txn, err = s.Post(ctx, tx, Entry{AccountID: account, Type: domledger.TypeCredit, Amount: amount, Description: desc})
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("wallet topped up",
		slog.String("account_id", account.String()),
		slog.String("amount", amount.String()))
	return txn, nil
}

func (s *Service) Balance(ctx context.Context, account uuid.UUID) (*domledger.Wallet, error) {
	var w *domledger.Wallet
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		w, err = tx.Wallets().Get(ctx, account)
		return err
	})
	return w, err
}

func (s *Service) Transactions(ctx context.Context, account uuid.UUID, page shared.Keyset) ([]domledger.Transaction, error) {
	var txns []domledger.Transaction
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		txns, err = tx.Transactions().ListByAccount(ctx, account, page)
		return err
	})
	return txns, err
}

// Reconcile replays the account's log against its stored balance.
func (s *Service) Reconcile(ctx context.Context, account uuid.UUID) (domledger.Drift, error) {
	var drift domledger.Drift
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		w, err := tx.Wallets().Get(ctx, account)
		if err != nil {
			return err
		}
		txns, err := tx.Transactions().ListAllByAccount(ctx, account)
		if err != nil {
			return err
		}
		drift = domledger.Reconcile(w, txns)
		return nil
	})
	if err != nil {
		return domledger.Drift{}, err
	}
	if !drift.Consistent() {
		s.logger.Error("ledger drift detected",
			slog.String("account_id", account.String()),
			slog.String("stored", drift.Stored.String()),
			slog.String("replayed", drift.Replayed.String()))
	}
	return drift, nil
}
