package ledger

import "parq-core/internal/pkg/errs"

var ErrInvalidTransactionType = errs.Validation("invalid transaction type")

type TransactionType string

const (
	TypeCredit  TransactionType = "credit"
	TypeDebit   TransactionType = "debit"
	TypeHold    TransactionType = "hold"
	TypeRelease TransactionType = "release"
	TypeRefund  TransactionType = "refund"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TypeCredit, TypeDebit, TypeHold, TypeRelease, TypeRefund:
		return true
	default:
		return false
	}
}

// Sign is +1 for entries that add to the balance and -1 for those that draw from it.
func (t TransactionType) Sign() int64 {
	switch t {
	case TypeCredit, TypeRelease, TypeRefund:
		return 1
	case TypeDebit, TypeHold:
		return -1
	default:
		return 0
	}
}

func (t TransactionType) String() string {
	return string(t)
}
