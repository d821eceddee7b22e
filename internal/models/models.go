package models

import (
	"encoding/json"
	"time"
)

// User adalah akun pengguna. Username dipakai sebagai primary key,
// ID adalah uuid yang stabil walaupun username di-rename.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	Surname     string `json:"surname"`
	Firstname   string `json:"firstname"`
	Middlename  string `json:"middlename"`
	Designation string `json:"designation"`
}

// FullName mengembalikan "Surname, Firstname Middlename" untuk tampilan
// dan sorting kolom user.
func (u User) FullName() string {
	name := u.Surname + ", " + u.Firstname
	if u.Middlename != "" {
		name += " " + u.Middlename
	}
	return name
}

// Task adalah satu aktivitas harian. Origin disimpan denormalized:
// rename origin harus menulis ulang field ini di semua task.
type Task struct {
	ID       string   `json:"id"`
	Origin   string   `json:"origin"`
	Activity string   `json:"activity"`
	Remarks  string   `json:"remarks"`
	Date     string   `json:"date"` // YYYY-MM-DD
	Tags     []string `json:"tags"`
}

// Clone membuat salinan dalam dari task (slice tags ikut disalin).
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return c
}

// TaskSet adalah agregat task per user: bucket today + bucket archive
// per tanggal. Setiap user punya tepat satu TaskSet.
type TaskSet struct {
	Today   []Task            `json:"today"`
	Archive map[string][]Task `json:"archive"`
}

// EnsureStructure mengisi slice/map yang masih nil.
// Mengembalikan true jika ada yang diperbaiki.
func (ts *TaskSet) EnsureStructure() bool {
	changed := false
	if ts.Today == nil {
		ts.Today = []Task{}
		changed = true
	}
	if ts.Archive == nil {
		ts.Archive = map[string][]Task{}
		changed = true
	}
	return changed
}

// Clone membuat salinan dalam dari seluruh TaskSet.
func (ts TaskSet) Clone() TaskSet {
	c := TaskSet{Today: make([]Task, 0, len(ts.Today)), Archive: map[string][]Task{}}
	for _, t := range ts.Today {
		c.Today = append(c.Today, t.Clone())
	}
	for date, arr := range ts.Archive {
		cp := make([]Task, 0, len(arr))
		for _, t := range arr {
			cp = append(cp, t.Clone())
		}
		c.Archive[date] = cp
	}
	return c
}

// AllTasks menggabungkan today + seluruh archive menjadi satu slice salinan.
func (ts TaskSet) AllTasks() []Task {
	all := make([]Task, 0, len(ts.Today))
	for _, t := range ts.Today {
		all = append(all, t.Clone())
	}
	for _, arr := range ts.Archive {
		for _, t := range arr {
			all = append(all, t.Clone())
		}
	}
	return all
}

// TaskIDs mengumpulkan semua id task di dalam TaskSet.
func (ts TaskSet) TaskIDs() map[string]bool {
	ids := map[string]bool{}
	for _, t := range ts.Today {
		ids[t.ID] = true
	}
	for _, arr := range ts.Archive {
		for _, t := range arr {
			ids[t.ID] = true
		}
	}
	return ids
}

// Origin adalah kategori/sumber aktivitas. Value unik dan jadi primary key.
// Origin yang diarsip tetap valid di task lama tapi tidak bisa dipilih lagi.
type Origin struct {
	Value    string `json:"value"`
	Archived bool   `json:"archived"`
}

// Holiday adalah hari libur. Jika Repeat true, cocok di semua tahun
// dengan bulan/tanggal yang sama.
type Holiday struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Name   string `json:"name"`
	Repeat bool   `json:"repeat"`
}

// StorageID adalah identitas dokumen holiday di store (date+name).
func (h Holiday) StorageID() string {
	return h.Date + h.Name
}

// Todo adalah item TODO pribadi, terpisah dari TaskSet.
type Todo struct {
	ID        string   `json:"id,omitempty"`
	UserID    string   `json:"userId"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	CreatedAt TodoTime `json:"createdAt"`
}

// TodoTime adalah timestamp pembuatan yang toleran: store lama bisa
// menyimpan RFC3339, tanggal polos, atau epoch millis.
type TodoTime struct {
	time.Time
}

func NewTodoTime(t time.Time) TodoTime { return TodoTime{Time: t} }

func (tt TodoTime) MarshalJSON() ([]byte, error) {
	if tt.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(tt.UTC().Format(time.RFC3339Nano))
}

func (tt *TodoTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		tt.Time = time.Time{}
		return nil
	}
	var millis int64
	if err := json.Unmarshal(data, &millis); err == nil {
		tt.Time = time.UnixMilli(millis).UTC()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			tt.Time = parsed
			return nil
		}
	}
	// Format tidak dikenal: anggap nol supaya sort jatuh ke urutan awal
	tt.Time = time.Time{}
	return nil
}
