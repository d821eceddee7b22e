package todolist

import (
	"context"
	"strings"
	"testing"
	"time"

	"worklog-go/internal/models"
	"worklog-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func todoAt(id, text string, at time.Time) models.Todo {
	return models.Todo{ID: id, UserID: "u1", Text: text, CreatedAt: models.NewTodoTime(at)}
}

func TestStageConfirmKeepsOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tracker := NewTracker([]models.Todo{
		todoAt("a", "first", base),
		todoAt("c", "third", base.Add(2*time.Hour)),
	})

	tempID := tracker.Stage(models.Todo{UserID: "u1", Text: "second"})
	assert.True(t, strings.HasPrefix(tempID, "temp-"))
	items := tracker.Items()
	require.Len(t, items, 3)
	assert.Equal(t, tempID, items[2].ID)

	// Record resmi masuk di posisi urut createdAt, bukan di akhir
	stored := todoAt("b", "second", base.Add(time.Hour))
	require.NoError(t, tracker.Confirm(tempID, stored))
	items = tracker.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].ID, items[1].ID, items[2].ID})

	// Konfirmasi dua kali ditolak
	assert.Equal(t, ErrNoPlaceholder, tracker.Confirm(tempID, stored))
}

func TestResolvedPlaceholdersArePruned(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tracker := NewTracker(nil)

	confirmed := tracker.Stage(models.Todo{UserID: "u1", Text: "ok"})
	require.NoError(t, tracker.Confirm(confirmed, todoAt("a", "ok", base)))
	rolledBack := tracker.Stage(models.Todo{UserID: "u1", Text: "gagal"})
	require.NoError(t, tracker.Rollback(rolledBack, tracker.Items()))

	// Pelacakan tidak menumpuk entri untuk placeholder yang selesai
	tracker.mu.Lock()
	assert.Empty(t, tracker.state)
	tracker.mu.Unlock()
}

func TestRollbackReplacesWithReload(t *testing.T) {
	tracker := NewTracker(nil)
	tempID := tracker.Stage(models.Todo{UserID: "u1", Text: "doomed"})
	require.Len(t, tracker.Items(), 1)

	reload := []models.Todo{todoAt("x", "kept", time.Now())}
	require.NoError(t, tracker.Rollback(tempID, reload))
	items := tracker.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "x", items[0].ID)

	assert.Equal(t, ErrNoPlaceholder, tracker.Rollback(tempID, nil))
}

func TestSyncKeepsPendingPlaceholders(t *testing.T) {
	tracker := NewTracker(nil)
	tempID := tracker.Stage(models.Todo{UserID: "u1", Text: "pending"})

	tracker.Sync([]models.Todo{todoAt("a", "stored", time.Now())})
	items := tracker.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, tempID, items[1].ID)
}

func TestLoadFallsBackWhenOrderUnsupported(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	// Dibuat tidak urut supaya fallback sort terlihat
	for _, todo := range []models.Todo{
		todoAt("", "later", base.Add(time.Hour)),
		todoAt("", "earlier", base),
		{UserID: "other", Text: "someone else"},
	} {
		_, err := st.Create(ctx, store.ColTodos, todo)
		require.NoError(t, err)
	}

	todos, err := Load(ctx, st, "u1")
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "earlier", todos[0].Text)
	assert.Equal(t, "later", todos[1].Text)
}

func TestAppendReadsBackAuthoritativeRecord(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	stored, err := Append(ctx, st, "u1", "buy milk")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, strings.HasPrefix(stored.ID, "temp-"))
	assert.Equal(t, "buy milk", stored.Text)
	assert.False(t, stored.CreatedAt.IsZero())

	todos, err := Load(ctx, st, "u1")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, stored.ID, todos[0].ID)
}
