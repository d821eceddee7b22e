package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		{ID: "1", User: "budi", Origin: "Ops", Activity: "Deploy service", Remarks: "prod", Date: "2025-06-02", Tags: []string{"infra", "urgent"}},
		{ID: "2", User: "sari", Origin: "Dev", Activity: "code review", Remarks: "", Date: "2025-06-02"},
		{ID: "3", User: "budi", Origin: "Dev", Activity: "Fix bug", Remarks: "login page", Date: "2025-06-01", Tags: []string{"frontend"}},
	}
}

func TestFiltersAreANDed(t *testing.T) {
	rows := Reconcile(sampleRows(), Options{Filters: map[string][]string{
		"origin": {"Dev"},
		"date":   {"2025-06-02"},
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].ID)
}

func TestFilterMatchesAnyValueInSet(t *testing.T) {
	rows := Reconcile(sampleRows(), Options{Filters: map[string][]string{
		"origin": {"Ops", "Dev"},
	}})
	assert.Len(t, rows, 3)

	rows = Reconcile(sampleRows(), Options{Filters: map[string][]string{
		"origin": {"Ghost"},
	}})
	assert.Empty(t, rows)
}

func TestBlankTagSentinel(t *testing.T) {
	rows := Reconcile(sampleRows(), Options{Filters: map[string][]string{
		"tags": {""},
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].ID)

	// Sentinel dan tag biasa boleh dicampur
	rows = Reconcile(sampleRows(), Options{Filters: map[string][]string{
		"tags": {"", "infra"},
	}})
	assert.Len(t, rows, 2)
}

func TestTagIntersection(t *testing.T) {
	rows := Reconcile(sampleRows(), Options{Filters: map[string][]string{
		"tags": {"urgent", "frontend"},
	}})
	assert.Len(t, rows, 2)
}

func TestSearchAllKeywordsMustMatch(t *testing.T) {
	rows := Reconcile(sampleRows(), Options{Search: "BUG login"})
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0].ID)

	// Kata kunci juga mengenai tags
	rows = Reconcile(sampleRows(), Options{Search: "deploy infra"})
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].ID)

	assert.Empty(t, Reconcile(sampleRows(), Options{Search: "deploy frontend"}))
}

func TestSortIsStableAndCaseInsensitive(t *testing.T) {
	rows := Reconcile(sampleRows(), Options{SortKey: "activity", SortAsc: true})
	assert.Equal(t, []string{"2", "1", "3"}, ids(rows))

	rows = Reconcile(sampleRows(), Options{SortKey: "date", SortAsc: false})
	// Urutan asal dipertahankan untuk tanggal yang sama
	assert.Equal(t, []string{"1", "2", "3"}, ids(rows))
}

func TestUserColumnResolvesFullName(t *testing.T) {
	resolve := func(username string) (string, bool) {
		if username == "budi" {
			return "Santoso, Budi", true
		}
		return "", false
	}
	rows := Reconcile(sampleRows(), Options{SortKey: "user", SortAsc: true, Resolve: resolve})
	// "santoso, budi" < "sari"; user tanpa nama lengkap memakai username
	assert.Equal(t, []string{"1", "3", "2"}, ids(rows))

	filtered := Reconcile(sampleRows(), Options{
		Filters: map[string][]string{"user": {"sari"}},
		Resolve: resolve,
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)
}

func TestReconcileIsIdempotent(t *testing.T) {
	opts := Options{
		Filters: map[string][]string{"origin": {"Dev"}},
		Search:  "review",
		SortKey: "date",
		SortAsc: true,
	}
	once := Reconcile(sampleRows(), opts)
	twice := Reconcile(once, opts)
	assert.Equal(t, once, twice)
}

func TestDistinctValues(t *testing.T) {
	assert.Equal(t, []string{"Dev", "Ops"}, DistinctValues(sampleRows(), "origin", Options{}))
	assert.Equal(t, []string{"", "frontend", "infra", "urgent"}, DistinctValues(sampleRows(), "tags", Options{}))
}

func ids(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}
