package reconcile

import (
	"strconv"
	"strings"
	"time"
)

// Jenis cakupan tanggal mass editor.
const (
	ScopeAll   = "all"
	ScopeMonth = "month"
	ScopeWeek  = "week"
	ScopeDates = "dates"
	ScopeRange = "range"
)

// DateScope membatasi baris mass editor ke rentang tanggal tertentu.
type DateScope struct {
	Type  string   `json:"type"`
	Month string   `json:"month,omitempty"` // "YYYY-MM"
	Week  string   `json:"week,omitempty"`  // "YYYY-Www"
	Dates []string `json:"dates,omitempty"`
	Start string   `json:"start,omitempty"`
	End   string   `json:"end,omitempty"`
}

// Match menguji satu tanggal "YYYY-MM-DD" terhadap cakupan.
func (s DateScope) Match(date string) bool {
	switch s.Type {
	case "", ScopeAll:
		return true
	case ScopeMonth:
		return strings.HasPrefix(date, s.Month)
	case ScopeWeek:
		start, end, ok := weekBounds(s.Week)
		if !ok {
			return false
		}
		return date >= start && date <= end
	case ScopeDates:
		for _, d := range s.Dates {
			if d == date {
				return true
			}
		}
		return false
	case ScopeRange:
		return date >= s.Start && date <= s.End
	}
	return false
}

// FilterByScope membuang baris di luar cakupan.
func FilterByScope(rows []Row, scope DateScope) []Row {
	if scope.Type == "" || scope.Type == ScopeAll {
		return rows
	}
	out := []Row{}
	for _, row := range rows {
		if scope.Match(row.Date) {
			out = append(out, row)
		}
	}
	return out
}

// weekBounds menghitung Senin..Minggu dari notasi minggu "YYYY-Www":
// mulai dari 1 Januari plus (minggu-1)*7 hari, lalu mundur ke Senin.
func weekBounds(week string) (string, string, bool) {
	parts := strings.SplitN(week, "-W", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", "", false
	}
	weekNum, err := strconv.Atoi(parts[1])
	if err != nil || weekNum < 1 {
		return "", "", false
	}
	approx := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, (weekNum-1)*7)
	offset := (int(approx.Weekday()) + 6) % 7
	monday := approx.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	const layout = "2006-01-02"
	return monday.Format(layout), sunday.Format(layout), true
}
