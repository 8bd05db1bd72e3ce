package infra

import (
	"errors"

	"parq-core/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

// WrapRepoErr classifies a driver error. Without an explicit kind, unique and
// foreign key violations are recognized from the Postgres error code and
// everything else is a DB failure. The result carries the matching errs kind
// so the layers above never look at driver errors.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := KindDBFailure
	if len(kind) > 0 {
		k = kind[0]
	} else {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeUniqueViolation:
				k = KindDuplicateKey
			case pgErrCodeForeignKeyViolation:
				k = KindForeignKeyViolated
			}
		}
	}

	var wrapped error = RepositoryError{Kind: k, msg: msg, err: err}
	switch k {
	case KindNotFound:
		return errs.Mark(wrapped, errs.ErrNotFound)
	case KindDuplicateKey:
		return errs.Mark(wrapped, errs.ErrDuplicate)
	case KindForeignKeyViolated:
		return errs.Mark(wrapped, errs.ErrValidation)
	case KindConflict:
		return errs.Mark(wrapped, errs.ErrConcurrencyConflict)
	default:
		return errs.Mark(wrapped, errs.ErrStoreUnavailable)
	}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errs.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindConflict           RepositoryErrorKind = "VERSION_CONFLICT"
)
