package repository

import (
	"fmt"
	"strings"

	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// keysetQuery appends the newest-first (created_at, id) predicate, ordering
// and limit to base, whose only placeholder so far is $1. alias qualifies
// the columns when base joins.
func keysetQuery(base, alias string, owner uuid.UUID, page shared.Keyset) (string, []any) {
	timeCol, idCol := "created_at", "id"
	if alias != "" {
		timeCol, idCol = alias+"."+timeCol, alias+"."+idCol
	}

	args := []any{owner}
	var sb strings.Builder
	sb.WriteString(base)
	if !page.First() {
		args = append(args, page.AfterTime, page.AfterID)
		fmt.Fprintf(&sb, " AND (%s, %s) < ($2, $3)", timeCol, idCol)
	}
	fmt.Fprintf(&sb, " ORDER BY %s DESC, %s DESC", timeCol, idCol)
	if page.Limit > 0 {
		args = append(args, page.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args
}

// prefixed qualifies every column of a comma separated list.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
