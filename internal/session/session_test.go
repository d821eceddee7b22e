package session

import (
	"testing"

	"worklog-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2025-06-02"

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "t1", Origin: "Ops", Activity: "Deploy", Date: today, Tags: []string{"infra"}},
		{ID: "t2", Origin: "Dev", Activity: "Review", Date: today},
	}
}

func TestBeginTwiceFails(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("budi", TabToday, "budi", "", sampleTasks()))
	assert.Equal(t, ErrActive, m.Begin("budi", TabToday, "budi", "", nil))

	// Tab lain tidak terpengaruh
	assert.NoError(t, m.Begin("budi", TabMass, "budi", "", nil))
}

func TestPendingIsIndependentCopy(t *testing.T) {
	m := NewManager()
	tasks := sampleTasks()
	require.NoError(t, m.Begin("budi", TabToday, "budi", "", tasks))
	require.NoError(t, m.MutateField("budi", TabToday, "t1", "activity", "Changed"))
	require.NoError(t, m.MutateField("budi", TabToday, "t1", "tags", "a, b , ,c"))

	sess, err := m.Get("budi", TabToday)
	require.NoError(t, err)
	assert.Equal(t, "Changed", sess.Pending[0].Activity)
	assert.Equal(t, []string{"a", "b", "c"}, sess.Pending[0].Tags)

	// Original dan slice sumber tetap utuh
	assert.Equal(t, "Deploy", sess.Original[0].Activity)
	assert.Equal(t, []string{"infra"}, sess.Original[0].Tags)
	assert.Equal(t, "Deploy", tasks[0].Activity)
}

func TestMutateUnknownTask(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("budi", TabToday, "budi", "", sampleTasks()))
	assert.Equal(t, ErrNoTask, m.MutateField("budi", TabToday, "nope", "activity", "x"))
	assert.Error(t, m.MutateField("budi", TabToday, "t1", "nosuchfield", "x"))
}

func TestDeleteSelected(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("budi", TabToday, "budi", "", sampleTasks()))
	require.NoError(t, m.SetSelected("budi", TabToday, "t1", true))
	require.NoError(t, m.SetSelected("budi", TabToday, "t2", true))
	require.NoError(t, m.SetSelected("budi", TabToday, "t2", false))

	removed, err := m.DeleteSelected("budi", TabToday)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	sess, err := m.Get("budi", TabToday)
	require.NoError(t, err)
	require.Len(t, sess.Pending, 1)
	assert.Equal(t, "t2", sess.Pending[0].ID)
	assert.Empty(t, sess.Selected)
}

func TestClearSelection(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("budi", TabToday, "budi", "", sampleTasks()))
	require.NoError(t, m.SetSelected("budi", TabToday, "t1", true))
	require.NoError(t, m.SetSelected("budi", TabToday, "t2", true))

	require.NoError(t, m.ClearSelection("budi", TabToday))
	removed, err := m.DeleteSelected("budi", TabToday)
	require.NoError(t, err)
	assert.Zero(t, removed)

	assert.Equal(t, ErrNoSession, m.ClearSelection("budi", TabArchive))
}

func TestPendingSnapshotIsACopy(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("budi", TabToday, "budi", "", sampleTasks()))

	snapshot, err := m.PendingSnapshot("budi", TabToday)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	// Mutasi snapshot tidak mengubah sesi
	snapshot[0].Activity = "Changed"
	snapshot[0].Tags[0] = "changed"
	sess, err := m.Get("budi", TabToday)
	require.NoError(t, err)
	assert.Equal(t, "Deploy", sess.Pending[0].Activity)
	assert.Equal(t, "infra", sess.Pending[0].Tags[0])

	_, err = m.PendingSnapshot("budi", TabMass)
	assert.Equal(t, ErrNoSession, err)
}

func TestFinishTearsDown(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("budi", TabToday, "budi", "", sampleTasks()))
	_, err := m.Finish("budi", TabToday)
	require.NoError(t, err)
	_, err = m.Get("budi", TabToday)
	assert.Equal(t, ErrNoSession, err)
	_, err = m.Finish("budi", TabToday)
	assert.Equal(t, ErrNoSession, err)
}

func TestCommitTodayPartitionsByDate(t *testing.T) {
	var ts models.TaskSet
	ts.EnsureStructure()
	ts.Archive["2025-05-30"] = []models.Task{{ID: "old", Date: "2025-05-30"}}

	pending := []models.Task{
		{ID: "t1", Date: today},
		{ID: "t2", Date: "2025-05-30"},
		{ID: "t3", Date: "2025-06-01"},
		{ID: "t4", Date: ""},
	}
	CommitToday(&ts, pending, today)

	require.Len(t, ts.Today, 2)
	assert.Equal(t, "t1", ts.Today[0].ID)
	assert.Equal(t, "t4", ts.Today[1].ID)
	assert.Equal(t, today, ts.Today[1].Date)

	// Bucket arsip lama bertambah, tidak tertimpa
	require.Len(t, ts.Archive["2025-05-30"], 2)
	assert.Equal(t, "old", ts.Archive["2025-05-30"][0].ID)
	assert.Equal(t, "t2", ts.Archive["2025-05-30"][1].ID)
	require.Len(t, ts.Archive["2025-06-01"], 1)
}

func TestCommitArchiveMovesToToday(t *testing.T) {
	var ts models.TaskSet
	ts.EnsureStructure()
	ts.Today = []models.Task{{ID: "now", Date: today}}
	ts.Archive["2025-05-30"] = []models.Task{
		{ID: "a1", Date: "2025-05-30"},
		{ID: "a2", Date: "2025-05-30"},
	}

	pending := []models.Task{
		{ID: "a1", Date: "2025-05-30"},
		{ID: "a2", Date: today},
	}
	CommitArchive(&ts, pending, "2025-05-30", today)

	require.Len(t, ts.Archive["2025-05-30"], 1)
	assert.Equal(t, "a1", ts.Archive["2025-05-30"][0].ID)
	require.Len(t, ts.Today, 2)
	assert.Equal(t, "a2", ts.Today[1].ID)
}

func TestCommitArchiveEmptiesBucket(t *testing.T) {
	var ts models.TaskSet
	ts.EnsureStructure()
	ts.Archive["2025-05-30"] = []models.Task{{ID: "a1", Date: "2025-05-30"}}

	CommitArchive(&ts, []models.Task{{ID: "a1", Date: "2025-05-31"}}, "2025-05-30", today)

	_, ok := ts.Archive["2025-05-30"]
	assert.False(t, ok)
	require.Len(t, ts.Archive["2025-05-31"], 1)
}

func TestCommitAllRebuildsEverything(t *testing.T) {
	var ts models.TaskSet
	ts.EnsureStructure()
	ts.Today = []models.Task{{ID: "gone", Date: today}}
	ts.Archive["2025-01-01"] = []models.Task{{ID: "gone2", Date: "2025-01-01"}}

	pending := []models.Task{
		{ID: "k1", Date: today},
		{ID: "k2", Date: "2025-03-03"},
	}
	CommitAll(&ts, pending, today)

	require.Len(t, ts.Today, 1)
	assert.Equal(t, "k1", ts.Today[0].ID)
	require.Len(t, ts.Archive, 1)
	require.Len(t, ts.Archive["2025-03-03"], 1)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseTags(" a , b ,"))
	assert.Empty(t, ParseTags("  ,  "))
}
