package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errs.Validation("invalid cursor")

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	cursorData := fmt.Sprintf("%s:%d-%s", CursorVersionV1, t.UnixMicro(), id.String())
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "not base64url")
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "unknown cursor version")
	}

	parts := strings.SplitN(payload, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "expected '<micros>-<uuid>'")
	}
	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "invalid timestamp")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "invalid id")
	}
	return time.UnixMicro(micros).UTC(), id, nil
}

// Keyset turns an opaque cursor and a requested limit into a store page.
func Keyset(cursor string, limit int) (shared.Keyset, error) {
	page := shared.Keyset{Limit: ValidateLimit(limit)}
	if cursor == "" {
		return page, nil
	}
	t, id, err := DecodeAfterCursor(cursor)
	if err != nil {
		return shared.Keyset{}, err
	}
	page.AfterTime, page.AfterID = t, id
	return page, nil
}

type Cursor struct {
	After string `json:"after,omitempty"`
}

// Page is one slice of a newest-first listing.
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *Cursor `json:"next_cursor,omitempty"`
}

// NewPage sets NextCursor when the store returned a full page.
func NewPage[T any](items []T, limit int, last func(T) (time.Time, uuid.UUID)) Page[T] {
	p := Page[T]{Items: items}
	if p.Items == nil {
		p.Items = []T{}
	}
	if len(items) > 0 && len(items) == limit {
		t, id := last(items[len(items)-1])
		p.NextCursor = &Cursor{After: EncodeAfterCursor(t, id)}
	}
	return p
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
