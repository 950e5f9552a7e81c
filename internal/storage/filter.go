package storage

import (
	"strings"
	"time"
)

// VisitorFilter narrows visitor queries. A zero filter matches every
// record.
type VisitorFilter struct {
	// Search matches records whose name contains it as a
	// case-insensitive literal substring.
	Search string
	// Start and End bound visited_at inclusively. Both must be set for
	// the range to apply.
	Start *time.Time
	End   *time.Time
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters so user input is matched as a
// literal substring, never as a pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// whereClause renders the filter as a SQL predicate plus its arguments.
// Returns an empty string for the zero filter.
func (f VisitorFilter) whereClause() (string, []any) {
	var conds []string
	var args []any

	if f.Search != "" {
		conds = append(conds, `name LIKE ? ESCAPE '\' COLLATE NOCASE`)
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}

	if f.Start != nil && f.End != nil {
		conds = append(conds, "visited_at >= ? AND visited_at <= ?")
		args = append(args, *f.Start, *f.End)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
