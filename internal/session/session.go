// Package session menyimpan sesi edit tabel per user per tab.
// Satu sesi memegang dua salinan task: original (untuk discard) dan
// pending (yang dimutasi). Perubahan baru menyentuh store saat commit.
package session

import (
	"errors"
	"strings"
	"sync"

	"worklog-go/internal/models"
)

var (
	ErrActive    = errors.New("edit session already active")
	ErrNoSession = errors.New("no active edit session")
	ErrNoTask    = errors.New("task not found in session")
)

// Tab menandai tabel mana yang sedang diedit.
const (
	TabToday   = "today"
	TabArchive = "archive"
	TabMass    = "mass"
)

// EditSession adalah state edit satu tabel.
type EditSession struct {
	Tab        string
	TargetUser string
	DateKey    string
	Original   []models.Task
	Pending    []models.Task
	Selected   map[string]bool
}

// Manager memegang semua sesi aktif, dikunci per proses.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*EditSession
}

func NewManager() *Manager {
	return &Manager{sessions: map[string]*EditSession{}}
}

func sessionKey(username, tab string) string {
	return username + "/" + tab
}

// Begin membuka sesi edit baru. Kedua salinan task dibuat lewat deep
// copy supaya mutasi pending tidak bocor ke original.
func (m *Manager) Begin(username, tab, targetUser, dateKey string, tasks []models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(username, tab)
	if _, ok := m.sessions[key]; ok {
		return ErrActive
	}
	sess := &EditSession{
		Tab:        tab,
		TargetUser: targetUser,
		DateKey:    dateKey,
		Original:   cloneTasks(tasks),
		Pending:    cloneTasks(tasks),
		Selected:   map[string]bool{},
	}
	m.sessions[key] = sess
	return nil
}

// Get mengembalikan sesi aktif tanpa menutupnya.
func (m *Manager) Get(username, tab string) (*EditSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionKey(username, tab)]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// MutateField mengubah satu field pada task di pending berdasarkan id.
func (m *Manager) MutateField(username, tab, taskID, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionKey(username, tab)]
	if !ok {
		return ErrNoSession
	}
	for i := range sess.Pending {
		if sess.Pending[i].ID != taskID {
			continue
		}
		switch field {
		case "origin":
			sess.Pending[i].Origin = value
		case "activity":
			sess.Pending[i].Activity = value
		case "remarks":
			sess.Pending[i].Remarks = value
		case "date":
			sess.Pending[i].Date = value
		case "tags":
			sess.Pending[i].Tags = ParseTags(value)
		default:
			return errors.New("unknown field: " + field)
		}
		return nil
	}
	return ErrNoTask
}

// PendingSnapshot mengembalikan salinan pending sesi aktif, aman
// dibaca tanpa menyentuh state sesi.
func (m *Manager) PendingSnapshot(username, tab string) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionKey(username, tab)]
	if !ok {
		return nil, ErrNoSession
	}
	return cloneTasks(sess.Pending), nil
}

// SetSelected menandai atau melepas centang satu baris.
func (m *Manager) SetSelected(username, tab, taskID string, selected bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionKey(username, tab)]
	if !ok {
		return ErrNoSession
	}
	if selected {
		sess.Selected[taskID] = true
	} else {
		delete(sess.Selected, taskID)
	}
	return nil
}

// ClearSelection membuang seluruh centang tanpa mengubah pending.
func (m *Manager) ClearSelection(username, tab string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionKey(username, tab)]
	if !ok {
		return ErrNoSession
	}
	sess.Selected = map[string]bool{}
	return nil
}

// DeleteSelected membuang semua baris tercentang dari pending.
func (m *Manager) DeleteSelected(username, tab string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionKey(username, tab)]
	if !ok {
		return 0, ErrNoSession
	}
	kept := sess.Pending[:0]
	removed := 0
	for _, task := range sess.Pending {
		if sess.Selected[task.ID] {
			removed++
			continue
		}
		kept = append(kept, task)
	}
	sess.Pending = kept
	sess.Selected = map[string]bool{}
	return removed, nil
}

// Finish menutup sesi dan mengembalikan isinya. Sesi selalu dibuang,
// commit yang gagal menulis tidak menyisakan sesi menggantung.
func (m *Manager) Finish(username, tab string) (*EditSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(username, tab)
	sess, ok := m.sessions[key]
	if !ok {
		return nil, ErrNoSession
	}
	delete(m.sessions, key)
	return sess, nil
}

// ParseTags memecah input koma menjadi daftar tag bersih.
func ParseTags(value string) []string {
	parts := strings.Split(value, ",")
	tags := []string{}
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Clone())
	}
	return out
}

// CommitToday menerapkan pending dari tab today ke TaskSet. Baris yang
// tanggalnya masih hari ini mengganti bucket today; baris yang sudah
// pindah tanggal dikelompokkan lalu ditambahkan ke bucket arsipnya.
func CommitToday(ts *models.TaskSet, pending []models.Task, todayStr string) {
	ts.EnsureStructure()
	today := []models.Task{}
	moved := map[string][]models.Task{}
	for _, task := range pending {
		if task.Date == todayStr || task.Date == "" {
			if task.Date == "" {
				task.Date = todayStr
			}
			today = append(today, task)
			continue
		}
		moved[task.Date] = append(moved[task.Date], task)
	}
	ts.Today = today
	for date, tasks := range moved {
		ts.Archive[date] = append(ts.Archive[date], tasks...)
	}
}

// CommitArchive menerapkan pending dari satu bucket arsip. Baris yang
// tanggalnya diganti ke hari ini pindah ke bucket today; yang pindah
// ke tanggal lain menumpuk di bucket arsip tujuannya.
func CommitArchive(ts *models.TaskSet, pending []models.Task, dateKey, todayStr string) {
	ts.EnsureStructure()
	stays := []models.Task{}
	moved := map[string][]models.Task{}
	for _, task := range pending {
		switch {
		case task.Date == dateKey:
			stays = append(stays, task)
		case task.Date == todayStr:
			ts.Today = append(ts.Today, task)
		default:
			moved[task.Date] = append(moved[task.Date], task)
		}
	}
	if len(stays) == 0 {
		delete(ts.Archive, dateKey)
	} else {
		ts.Archive[dateKey] = stays
	}
	for date, tasks := range moved {
		ts.Archive[date] = append(ts.Archive[date], tasks...)
	}
}

// CommitAll membangun ulang today dan seluruh arsip dari pending (mass
// editor melihat semua bucket sekaligus, jadi hasilnya menggantikan
// semuanya).
func CommitAll(ts *models.TaskSet, pending []models.Task, todayStr string) {
	today := []models.Task{}
	archive := map[string][]models.Task{}
	for _, task := range pending {
		if task.Date == todayStr || task.Date == "" {
			if task.Date == "" {
				task.Date = todayStr
			}
			today = append(today, task)
			continue
		}
		archive[task.Date] = append(archive[task.Date], task)
	}
	ts.Today = today
	ts.Archive = archive
}
