package storage

import (
	"testing"
	"time"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"alice", "alice"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, c := range cases {
		if got := escapeLike(c.in); got != c.want {
			t.Errorf("escapeLike(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWhereClause(t *testing.T) {
	t.Run("zero filter", func(t *testing.T) {
		where, args := VisitorFilter{}.whereClause()
		if where != "" || args != nil {
			t.Errorf("expected empty clause, got %q with %v", where, args)
		}
	})

	t.Run("search only", func(t *testing.T) {
		where, args := VisitorFilter{Search: "ali"}.whereClause()
		if where != ` WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE` {
			t.Errorf("unexpected clause %q", where)
		}
		if len(args) != 1 || args[0] != "%ali%" {
			t.Errorf("unexpected args %v", args)
		}
	})

	t.Run("date range needs both bounds", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		where, _ := VisitorFilter{Start: &start}.whereClause()
		if where != "" {
			t.Errorf("start alone must not filter, got %q", where)
		}

		end := time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC)
		where, args := VisitorFilter{Start: &start, End: &end}.whereClause()
		if where != " WHERE visited_at >= ? AND visited_at <= ?" {
			t.Errorf("unexpected clause %q", where)
		}
		if len(args) != 2 {
			t.Fatalf("expected 2 args, got %v", args)
		}
	})

	t.Run("combined", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC)
		where, args := VisitorFilter{Search: "x", Start: &start, End: &end}.whereClause()
		want := ` WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE AND visited_at >= ? AND visited_at <= ?`
		if where != want {
			t.Errorf("unexpected clause %q", where)
		}
		if len(args) != 3 {
			t.Errorf("expected 3 args, got %v", args)
		}
	})
}
