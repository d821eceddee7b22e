package repository

import (
	"context"
	"testing"

	"worklog-go/internal/config"
	"worklog-go/internal/models"
	"worklog-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) context.Context {
	t.Helper()
	config.Store = store.NewMemory()
	config.RedisClient = nil
	return context.Background()
}

func TestSeedAdminUser(t *testing.T) {
	ctx := setupStore(t)
	require.NoError(t, SeedAdminUser(ctx, "rahasia"))

	user, err := GetUser(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "rahasia", user.Password)

	ts, err := GetTaskSet(ctx, "admin")
	require.NoError(t, err)
	assert.NotNil(t, ts.Today)
	assert.NotNil(t, ts.Archive)

	// Seed kedua tidak menimpa
	require.NoError(t, SeedAdminUser(ctx, "lain"))
	again, err := GetUser(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.Password, again.Password)
}

func TestEnsureTaskStructureCreatesMissingSets(t *testing.T) {
	ctx := setupStore(t)
	require.NoError(t, config.Store.CreateWithID(ctx, store.ColUsers, "budi",
		models.User{ID: "u1", Username: "budi"}))

	require.NoError(t, EnsureTaskStructure(ctx))

	sets, err := GetTaskSets(ctx)
	require.NoError(t, err)
	ts, ok := sets["budi"]
	require.True(t, ok)
	assert.NotNil(t, ts.Today)
	assert.NotNil(t, ts.Archive)
}

func TestEnsureIDsBackfills(t *testing.T) {
	ctx := setupStore(t)
	require.NoError(t, config.Store.CreateWithID(ctx, store.ColUsers, "budi",
		models.User{Username: "budi"}))
	var ts models.TaskSet
	ts.EnsureStructure()
	ts.Today = []models.Task{{Activity: "tanpa id", Date: "2025-06-02"}}
	ts.Archive["2025-06-01"] = []models.Task{{ID: "sudah", Date: "2025-06-01"}}
	require.NoError(t, config.Store.CreateWithID(ctx, store.ColTasks, "budi", ts))

	require.NoError(t, EnsureIDs(ctx))

	user, err := GetUser(ctx, "budi")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	got, err := GetTaskSet(ctx, "budi")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Today[0].ID)
	assert.Equal(t, "sudah", got.Archive["2025-06-01"][0].ID)
}

func seedOriginsAndTasks(t *testing.T, ctx context.Context) {
	t.Helper()
	require.NoError(t, SaveOrigins(ctx, []models.Origin{
		{Value: "Ops"}, {Value: "Dev"},
	}))
	var ts models.TaskSet
	ts.EnsureStructure()
	ts.Today = []models.Task{{ID: "t1", Origin: "Ops", Date: "2025-06-02"}}
	ts.Archive["2025-06-01"] = []models.Task{{ID: "t2", Origin: "Ops", Date: "2025-06-01"}}
	require.NoError(t, SaveTaskSets(ctx, map[string]models.TaskSet{"budi": ts}))
}

func TestRenameOriginCascades(t *testing.T) {
	ctx := setupStore(t)
	seedOriginsAndTasks(t, ctx)

	require.NoError(t, RenameOrigin(ctx, "Ops", "Operations"))

	origins, err := GetOrigins(ctx)
	require.NoError(t, err)
	values := []string{}
	for _, origin := range origins {
		values = append(values, origin.Value)
	}
	assert.Contains(t, values, "Operations")
	assert.NotContains(t, values, "Ops")

	ts, err := GetTaskSet(ctx, "budi")
	require.NoError(t, err)
	assert.Equal(t, "Operations", ts.Today[0].Origin)
	assert.Equal(t, "Operations", ts.Archive["2025-06-01"][0].Origin)
}

func TestRenameOriginRejectsDuplicate(t *testing.T) {
	ctx := setupStore(t)
	seedOriginsAndTasks(t, ctx)

	assert.Equal(t, store.ErrConflict, RenameOrigin(ctx, "Ops", "Dev"))
	assert.Equal(t, store.ErrNotFound, RenameOrigin(ctx, "Ghost", "Anything"))

	// Task tidak berubah saat rename ditolak
	ts, err := GetTaskSet(ctx, "budi")
	require.NoError(t, err)
	assert.Equal(t, "Ops", ts.Today[0].Origin)
}

func TestActiveOriginsExcludesArchived(t *testing.T) {
	ctx := setupStore(t)
	require.NoError(t, SaveOrigins(ctx, []models.Origin{
		{Value: "Ops"}, {Value: "Legacy", Archived: true},
	}))
	active, err := ActiveOrigins(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ops", active[0].Value)
}

func TestHolidaysForDate(t *testing.T) {
	ctx := setupStore(t)
	require.NoError(t, SaveHolidays(ctx, []models.Holiday{
		{Date: "2025-08-17", Name: "Hari Kemerdekaan", Repeat: true},
		{Date: "2025-06-02", Name: "Cuti Bersama"},
	}))

	matched, err := HolidaysForDate(ctx, "2030-08-17")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Hari Kemerdekaan", matched[0].Name)

	matched, err = HolidaysForDate(ctx, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Cuti Bersama", matched[0].Name)

	matched, err = HolidaysForDate(ctx, "2026-06-02")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestGetTaskSetMissingIsEmpty(t *testing.T) {
	ctx := setupStore(t)
	ts, err := GetTaskSet(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ts.Today)
	assert.NotNil(t, ts.Archive)
}
