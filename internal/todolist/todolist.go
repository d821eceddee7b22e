// Package todolist mengelola daftar TODO dengan penulisan optimistis:
// item baru langsung tampil dengan id sementara, lalu dikonfirmasi
// atau di-rollback setelah store menjawab.
package todolist

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"worklog-go/internal/models"
	"worklog-go/internal/store"
)

// Placeholder hanya dilacak selama pending; begitu committed atau
// rolled back entrinya dibuang supaya map tidak tumbuh terus.
const StatePending = "pending"

var ErrNoPlaceholder = errors.New("placeholder not found")

// Tracker memegang daftar TODO satu user plus placeholder yang masih
// menunggu jawaban store.
type Tracker struct {
	mu    sync.Mutex
	items []models.Todo
	state map[string]string
}

func NewTracker(items []models.Todo) *Tracker {
	return &Tracker{items: items, state: map[string]string{}}
}

// Items mengembalikan salinan daftar saat ini (placeholder termasuk).
func (t *Tracker) Items() []models.Todo {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Todo, len(t.items))
	copy(out, t.items)
	return out
}

// Sync mengganti daftar dengan isi store, mempertahankan placeholder
// yang masih menunggu konfirmasi di akhir daftar.
func (t *Tracker) Sync(items []models.Todo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := []models.Todo{}
	for _, item := range t.items {
		if t.state[item.ID] == StatePending {
			pending = append(pending, item)
		}
	}
	t.items = append(items, pending...)
}

// Stage menambahkan placeholder di akhir daftar dan mengembalikan id
// sementaranya.
func (t *Tracker) Stage(todo models.Todo) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	tempID := fmt.Sprintf("temp-%d-%d", time.Now().UnixNano(), rand.Intn(1000000))
	todo.ID = tempID
	t.items = append(t.items, todo)
	t.state[tempID] = StatePending
	return tempID
}

// Confirm mengganti placeholder dengan record resmi dari store. Item
// disisipkan pada posisi urut createdAt supaya daftar tetap terurut.
func (t *Tracker) Confirm(tempID string, stored models.Todo) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state[tempID] != StatePending {
		return ErrNoPlaceholder
	}
	t.removeLocked(tempID)
	pos := sort.Search(len(t.items), func(i int) bool {
		return t.items[i].CreatedAt.After(stored.CreatedAt.Time)
	})
	t.items = append(t.items, models.Todo{})
	copy(t.items[pos+1:], t.items[pos:])
	t.items[pos] = stored
	// Entri yang sudah committed tidak perlu diingat lagi
	delete(t.state, tempID)
	return nil
}

// Rollback membuang placeholder dan mengganti daftar dengan isi ulang
// dari store.
func (t *Tracker) Rollback(tempID string, reload []models.Todo) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state[tempID] != StatePending {
		return ErrNoPlaceholder
	}
	t.removeLocked(tempID)
	t.items = reload
	delete(t.state, tempID)
	return nil
}

func (t *Tracker) removeLocked(id string) {
	kept := t.items[:0]
	for _, item := range t.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	t.items = kept
}

// Manager memegang satu Tracker per user.
type Manager struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewManager() *Manager {
	return &Manager{trackers: map[string]*Tracker{}}
}

func (m *Manager) Tracker(userID string) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	tracker, ok := m.trackers[userID]
	if !ok {
		tracker = NewTracker(nil)
		m.trackers[userID] = tracker
	}
	return tracker
}

// Load membaca daftar TODO user terurut createdAt. Kalau store tidak
// mendukung order (atau query gagal), ambil tanpa order lalu urutkan
// sendiri; dokumen yang createdAt-nya rusak jatuh ke awal daftar.
func Load(ctx context.Context, st store.Store, userID string) ([]models.Todo, error) {
	where := store.Where{Field: "userId", Value: userID}
	docs, err := st.Query(ctx, store.ColTodos, where, "createdAt")
	if err != nil {
		docs, err = st.Query(ctx, store.ColTodos, where, "")
		if err != nil {
			return nil, err
		}
	}
	todos := []models.Todo{}
	for _, doc := range docs {
		var todo models.Todo
		if err := doc.Decode(&todo); err != nil {
			continue
		}
		todo.ID = doc.ID
		todos = append(todos, todo)
	}
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt.Before(todos[j].CreatedAt.Time)
	})
	return todos, nil
}

// Append menulis TODO baru ke store lalu membaca balik record resminya.
func Append(ctx context.Context, st store.Store, userID, text string) (models.Todo, error) {
	todo := models.Todo{
		UserID:    userID,
		Text:      text,
		CreatedAt: models.NewTodoTime(time.Now().UTC()),
	}
	id, err := st.Create(ctx, store.ColTodos, todo)
	if err != nil {
		return models.Todo{}, err
	}
	doc, err := st.GetByID(ctx, store.ColTodos, id)
	if err != nil {
		return models.Todo{}, err
	}
	var stored models.Todo
	if err := doc.Decode(&stored); err != nil {
		return models.Todo{}, err
	}
	stored.ID = id
	return stored, nil
}
