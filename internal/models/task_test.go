package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPatch_Updates(t *testing.T) {
	var p TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"done": true}`), &p))

	assert.False(t, p.Empty())
	assert.Equal(t, map[string]interface{}{"done": true}, p.Updates())

	var empty TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"other": 1}`), &empty))
	assert.True(t, empty.Empty())
	assert.Empty(t, empty.Updates())
}

func TestTaskInsert_Task(t *testing.T) {
	name := "Write the report"
	done := true
	task := (&TaskInsert{Name: &name, Done: &done}).Task()

	assert.Zero(t, task.ID)
	assert.Equal(t, name, task.Name)
	assert.True(t, task.Done)
}

func TestTask_JSONFieldNames(t *testing.T) {
	b, err := json.Marshal(Task{ID: 1, Name: "x"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, k := range []string{"id", "name", "done", "createdAt", "updatedAt"} {
		assert.Contains(t, raw, k)
	}
}
