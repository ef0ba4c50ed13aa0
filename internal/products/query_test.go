package products

import (
	"strings"
	"testing"
)

func TestBuildListFilterEmpty(t *testing.T) {
	where, args := buildListFilter(ListFilter{})
	if where != "" {
		t.Errorf("expected empty where clause, got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildListFilterCombinesWithAND(t *testing.T) {
	min, max := 1000.0, 50000.0
	f := ListFilter{
		Search:   "chain",
		Category: "chains",
		Metal:    "gold",
		Purity:   "22K",
		Gender:   "unisex",
		Featured: true,
		MinPrice: &min,
		MaxPrice: &max,
	}

	where, args := buildListFilter(f)

	if !strings.HasPrefix(where, " WHERE ") {
		t.Fatalf("where clause missing WHERE prefix: %q", where)
	}
	if got := strings.Count(where, " AND "); got != 7 {
		t.Errorf("expected 7 AND joins for 8 conditions, got %d in %q", got, where)
	}
	// featured is a literal, everything else is a placeholder
	if len(args) != 7 {
		t.Errorf("expected 7 args, got %d: %v", len(args), args)
	}
	if args[0] != "%chain%" {
		t.Errorf("keyword arg = %v, want %%chain%%", args[0])
	}
	if !strings.Contains(where, "base_price >= $6") || !strings.Contains(where, "base_price <= $7") {
		t.Errorf("price range placeholders wrong: %q", where)
	}
	if !strings.Contains(where, "name ILIKE $1") {
		t.Errorf("keyword match should be case-insensitive substring: %q", where)
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"", "created_at DESC"},
		{"newest", "created_at DESC"},
		{"price-asc", "base_price ASC"},
		{"price-desc", "base_price DESC"},
		{"rating", "rating DESC"},
	}
	for _, tt := range tests {
		if got := orderClause(tt.sort); got != tt.want {
			t.Errorf("orderClause(%q) = %q, want %q", tt.sort, got, tt.want)
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{30, 12, 3},
		{24, 12, 2},
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.limit); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
