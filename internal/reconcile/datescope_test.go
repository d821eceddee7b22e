package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeAll(t *testing.T) {
	assert.True(t, DateScope{}.Match("2025-06-02"))
	assert.True(t, DateScope{Type: ScopeAll}.Match("1999-01-01"))
}

func TestScopeMonth(t *testing.T) {
	scope := DateScope{Type: ScopeMonth, Month: "2025-06"}
	assert.True(t, scope.Match("2025-06-30"))
	assert.False(t, scope.Match("2025-07-01"))
}

func TestScopeWeek(t *testing.T) {
	// Minggu pertama 2025: 1 Jan jatuh di Rabu, mundur ke Senin 30 Des
	scope := DateScope{Type: ScopeWeek, Week: "2025-W01"}
	assert.True(t, scope.Match("2024-12-30"))
	assert.True(t, scope.Match("2025-01-05"))
	assert.False(t, scope.Match("2025-01-06"))

	scope = DateScope{Type: ScopeWeek, Week: "2025-W02"}
	assert.True(t, scope.Match("2025-01-06"))
	assert.True(t, scope.Match("2025-01-12"))
	assert.False(t, scope.Match("2025-01-13"))

	assert.False(t, DateScope{Type: ScopeWeek, Week: "garbage"}.Match("2025-01-06"))
}

func TestScopeDates(t *testing.T) {
	scope := DateScope{Type: ScopeDates, Dates: []string{"2025-06-01", "2025-06-03"}}
	assert.True(t, scope.Match("2025-06-03"))
	assert.False(t, scope.Match("2025-06-02"))
}

func TestScopeRange(t *testing.T) {
	scope := DateScope{Type: ScopeRange, Start: "2025-06-01", End: "2025-06-03"}
	assert.True(t, scope.Match("2025-06-01"))
	assert.True(t, scope.Match("2025-06-03"))
	assert.False(t, scope.Match("2025-06-04"))
}

func TestFilterByScope(t *testing.T) {
	rows := []Row{
		{ID: "1", Date: "2025-06-01"},
		{ID: "2", Date: "2025-07-01"},
	}
	filtered := FilterByScope(rows, DateScope{Type: ScopeMonth, Month: "2025-06"})
	assert.Equal(t, []string{"1"}, ids(filtered))
}
