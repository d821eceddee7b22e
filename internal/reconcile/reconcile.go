// Package reconcile menyaring, mencari, dan mengurutkan baris task
// untuk tampilan tabel. Semua fungsi murni, tanpa akses store.
package reconcile

import (
	"sort"
	"strings"

	"worklog-go/internal/models"
)

// Row adalah satu baris tabel hasil reconcile. User hanya terisi pada
// tampilan lintas user (mass editor, laporan harian).
type Row struct {
	ID       string   `json:"id"`
	User     string   `json:"user,omitempty"`
	Origin   string   `json:"origin"`
	Activity string   `json:"activity"`
	Remarks  string   `json:"remarks"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
}

func FromTask(task models.Task) Row {
	return Row{
		ID:       task.ID,
		Origin:   task.Origin,
		Activity: task.Activity,
		Remarks:  task.Remarks,
		Date:     task.Date,
		Tags:     task.Tags,
	}
}

func FromUserTask(username string, task models.Task) Row {
	row := FromTask(task)
	row.User = username
	return row
}

// Options mengatur satu kali jalan reconcile. Filters memetakan nama
// kolom ke kumpulan nilai yang lolos (kosong berarti kolom tidak
// difilter). Resolve menerjemahkan username ke nama lengkap untuk
// kolom user sintetis.
type Options struct {
	Filters map[string][]string
	Search  string
	SortKey string
	SortAsc bool
	Resolve func(username string) (string, bool)
}

// Reconcile menjalankan filter, lalu search, lalu sort. Urutan baris
// yang setara dipertahankan (sort stabil).
func Reconcile(rows []Row, opts Options) []Row {
	out := filterRows(rows, opts)
	out = searchRows(out, opts.Search)
	sortRows(out, opts)
	return out
}

func filterRows(rows []Row, opts Options) []Row {
	out := []Row{}
	for _, row := range rows {
		if matchesFilters(row, opts) {
			out = append(out, row)
		}
	}
	return out
}

// matchesFilters meng-AND-kan semua kolom terfilter. Nilai '' pada
// filter tags berarti baris tanpa tag.
func matchesFilters(row Row, opts Options) bool {
	for column, values := range opts.Filters {
		if len(values) == 0 {
			continue
		}
		if column == "tags" {
			if !matchesTagFilter(row.Tags, values) {
				return false
			}
			continue
		}
		if !containsString(values, columnValue(row, column, opts)) {
			return false
		}
	}
	return true
}

// matchesTagFilter lolos kalau ada irisan antara tag baris dan nilai
// filter; baris tanpa tag lolos lewat sentinel ''.
func matchesTagFilter(tags []string, values []string) bool {
	if len(tags) == 0 {
		return containsString(values, "")
	}
	for _, tag := range tags {
		if containsString(values, tag) {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func columnValue(row Row, column string, opts Options) string {
	switch column {
	case "user":
		return displayUser(row, opts)
	case "origin":
		return row.Origin
	case "activity":
		return row.Activity
	case "remarks":
		return row.Remarks
	case "date":
		return row.Date
	case "tags":
		return strings.Join(row.Tags, ", ")
	}
	return ""
}

// displayUser memakai "Surname, Firstname Middlename" kalau resolver
// mengenal usernamenya, kalau tidak jatuh ke username mentah.
func displayUser(row Row, opts Options) string {
	if opts.Resolve != nil {
		if full, ok := opts.Resolve(row.User); ok && full != "" {
			return full
		}
	}
	return row.User
}

// searchRows memecah kueri jadi kata kunci lowercase; semua kata harus
// muncul di gabungan activity+remarks+tags.
func searchRows(rows []Row, search string) []Row {
	keywords := strings.Fields(strings.ToLower(search))
	if len(keywords) == 0 {
		return rows
	}
	out := []Row{}
	for _, row := range rows {
		haystack := strings.ToLower(row.Activity + " " + row.Remarks + " " + strings.Join(row.Tags, " "))
		ok := true
		for _, keyword := range keywords {
			if !strings.Contains(haystack, keyword) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func sortRows(rows []Row, opts Options) {
	if opts.SortKey == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a := strings.ToLower(columnValue(rows[i], opts.SortKey, opts))
		b := strings.ToLower(columnValue(rows[j], opts.SortKey, opts))
		if opts.SortAsc {
			return a < b
		}
		return a > b
	})
}

// DistinctValues mengumpulkan nilai unik satu kolom untuk dropdown
// filter, terurut. Tags dipecah per tag; baris tanpa tag menyumbang ''.
func DistinctValues(rows []Row, column string, opts Options) []string {
	seen := map[string]bool{}
	for _, row := range rows {
		if column == "tags" {
			if len(row.Tags) == 0 {
				seen[""] = true
			}
			for _, tag := range row.Tags {
				seen[tag] = true
			}
			continue
		}
		seen[columnValue(row, column, opts)] = true
	}
	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// CollectTags mengumpulkan semua tag unik lintas baris, terurut.
func CollectTags(rows []Row) []string {
	return DistinctValues(rows, "tags", Options{})
}
