package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullName(t *testing.T) {
	u := User{Surname: "Santoso", Firstname: "Budi", Middlename: "Agus"}
	assert.Equal(t, "Santoso, Budi Agus", u.FullName())
	u.Middlename = ""
	assert.Equal(t, "Santoso, Budi", u.FullName())
}

func TestTaskCloneIsDeep(t *testing.T) {
	task := Task{ID: "t1", Tags: []string{"a"}}
	clone := task.Clone()
	clone.Tags[0] = "changed"
	assert.Equal(t, "a", task.Tags[0])
}

func TestTaskSetCloneIsDeep(t *testing.T) {
	var ts TaskSet
	ts.EnsureStructure()
	ts.Archive["2025-06-01"] = []Task{{ID: "t1", Activity: "x"}}

	clone := ts.Clone()
	clone.Archive["2025-06-01"][0].Activity = "changed"
	assert.Equal(t, "x", ts.Archive["2025-06-01"][0].Activity)
}

func TestTodoTimeTolerantParsing(t *testing.T) {
	cases := map[string]string{
		`1717315200000`:           "2024-06-02T08:00:00Z",
		`"2024-06-02T08:00:00Z"`:  "2024-06-02T08:00:00Z",
		`"2024-06-02 08:00:00"`:   "2024-06-02T08:00:00Z",
		`"2024-06-02"`:            "2024-06-02T00:00:00Z",
	}
	for input, expected := range cases {
		var tt TodoTime
		require.NoError(t, json.Unmarshal([]byte(input), &tt), input)
		want, err := time.Parse(time.RFC3339, expected)
		require.NoError(t, err)
		assert.True(t, tt.Equal(want), "input %s: got %v", input, tt.Time)
	}

	// Format tak dikenal tidak error, jatuh ke nol
	var tt TodoTime
	require.NoError(t, json.Unmarshal([]byte(`"next tuesday"`), &tt))
	assert.True(t, tt.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &tt))
	assert.True(t, tt.IsZero())
}

func TestTodoTimeMarshal(t *testing.T) {
	tt := NewTodoTime(time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC))
	raw, err := json.Marshal(tt)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-02T08:00:00Z"`, string(raw))

	raw, err = json.Marshal(TodoTime{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(raw))
}
