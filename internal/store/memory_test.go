package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Owner string `json:"owner"`
	Body  string `json:"body"`
}

func TestCreateWithIDConflict(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateWithID(ctx, "notes", "n1", note{Owner: "a"}))
	assert.Equal(t, ErrConflict, m.CreateWithID(ctx, "notes", "n1", note{Owner: "b"}))
}

func TestGetByIDNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.GetByID(context.Background(), "notes", "missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestQueryFiltersAndRejectsOrderBy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateWithID(ctx, "notes", "n1", note{Owner: "a", Body: "x"}))
	require.NoError(t, m.CreateWithID(ctx, "notes", "n2", note{Owner: "b", Body: "y"}))
	require.NoError(t, m.CreateWithID(ctx, "notes", "n3", note{Owner: "a", Body: "z"}))

	docs, err := m.Query(ctx, "notes", Where{Field: "owner", Value: "a"}, "")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "n1", docs[0].ID)
	assert.Equal(t, "n3", docs[1].ID)

	_, err = m.Query(ctx, "notes", Where{Field: "owner", Value: "a"}, "body")
	assert.Equal(t, ErrOrderUnsupported, err)
}

func TestOverwriteAllReplacesCollection(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateWithID(ctx, "notes", "old", note{Owner: "a"}))

	require.NoError(t, m.OverwriteAll(ctx, "notes", map[string]any{
		"new1": note{Owner: "b"},
		"new2": note{Owner: "c"},
	}))
	docs, err := m.ListAll(ctx, "notes")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	_, err = m.GetByID(ctx, "notes", "old")
	assert.Equal(t, ErrNotFound, err)
}

func TestUpdateFieldsMerges(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateWithID(ctx, "notes", "n1", note{Owner: "a", Body: "x"}))
	require.NoError(t, m.UpdateFields(ctx, "notes", "n1", map[string]any{"body": "changed"}))

	doc, err := m.GetByID(ctx, "notes", "n1")
	require.NoError(t, err)
	var got note
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, "a", got.Owner)
	assert.Equal(t, "changed", got.Body)

	assert.Equal(t, ErrNotFound, m.UpdateFields(ctx, "notes", "missing", map[string]any{"body": "x"}))
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateWithID(ctx, "notes", "n1", note{}))
	require.NoError(t, m.DeleteByID(ctx, "notes", "n1"))
	assert.Equal(t, ErrNotFound, m.DeleteByID(ctx, "notes", "n1"))
}

func TestDocumentsAreIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateWithID(ctx, "notes", "n1", note{Owner: "a"}))

	doc, err := m.GetByID(ctx, "notes", "n1")
	require.NoError(t, err)
	for i := range doc.Data {
		doc.Data[i] = 'x'
	}
	fresh, err := m.GetByID(ctx, "notes", "n1")
	require.NoError(t, err)
	var got note
	require.NoError(t, fresh.Decode(&got))
	assert.Equal(t, "a", got.Owner)
}
