package devotion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/dailybible/internal/kv"
)

type failingStore struct {
	kv.Store
}

func (failingStore) Set(string, []byte) error {
	return errors.New("disk full")
}

func TestLoadCreatesAndPersistsFreshChecklist(t *testing.T) {
	store := kv.NewMemory()
	tracker := NewTracker(store)

	c, err := tracker.Load("2025-03-05")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-05", c.Date)
	for i, task := range c.Tasks {
		assert.Equal(t, i, task.ID)
		assert.Equal(t, CanonicalTitles[i], task.Title)
		assert.False(t, task.IsCompleted)
	}

	raw, ok, err := store.Get("ChecklistTasks_2025-03-05")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[
		{"title":"Prayed today?","isCompleted":false},
		{"title":"Read today's Bible verse?","isCompleted":false},
		{"title":"Completed the task?","isCompleted":false}
	]`, string(raw))
}

func TestLoadIsIdempotent(t *testing.T) {
	tracker := NewTracker(kv.NewMemory())

	first, err := tracker.Load("2025-03-05")
	require.NoError(t, err)
	first, _, err = tracker.Toggle(first, 1)
	require.NoError(t, err)

	a, err := tracker.Load("2025-03-05")
	require.NoError(t, err)
	b, err := tracker.Load("2025-03-05")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, first, a)
}

func TestToggleIsAnInvolution(t *testing.T) {
	tracker := NewTracker(kv.NewMemory())
	c, err := tracker.Load("2025-03-05")
	require.NoError(t, err)

	for i := range TaskCount {
		once, _, err := tracker.Toggle(c, i)
		require.NoError(t, err)
		twice, _, err := tracker.Toggle(once, i)
		require.NoError(t, err)

		assert.Equal(t, c.Tasks[i].IsCompleted, twice.Tasks[i].IsCompleted)
		assert.Equal(t, c.CompletedCount(), twice.CompletedCount())
	}
}

func TestCompletedCountTracksTasks(t *testing.T) {
	tracker := NewTracker(kv.NewMemory())
	c, err := tracker.Load("2025-03-05")
	require.NoError(t, err)

	c, just, err := tracker.Toggle(c, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, c.CompletedCount())
	assert.False(t, c.AllComplete())
	assert.False(t, just)

	c, just, err = tracker.Toggle(c, 0)
	require.NoError(t, err)
	assert.False(t, just)

	c, just, err = tracker.Toggle(c, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, c.CompletedCount())
	assert.True(t, c.AllComplete())
	assert.True(t, just)

	// Unchecking and rechecking fires the edge again, staying complete does not.
	c, just, err = tracker.Toggle(c, 1)
	require.NoError(t, err)
	assert.False(t, just)
	_, just, err = tracker.Toggle(c, 1)
	require.NoError(t, err)
	assert.True(t, just)
}

func TestToggleRejectsOutOfRangeIndex(t *testing.T) {
	tracker := NewTracker(kv.NewMemory())
	c, err := tracker.Load("2025-03-05")
	require.NoError(t, err)

	for _, index := range []int{-1, 3, 42} {
		_, _, err := tracker.Toggle(c, index)
		assert.ErrorIs(t, err, ErrInvalidTaskIndex)
	}
}

func TestLoadRepairsStoredLists(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		titles    [TaskCount]string
		completed [TaskCount]bool
	}{
		{
			name:      "missing titles",
			stored:    `[{"isCompleted":true},{"title":"Custom","isCompleted":false},{"isCompleted":true}]`,
			titles:    [TaskCount]string{CanonicalTitles[0], "Custom", CanonicalTitles[2]},
			completed: [TaskCount]bool{true, false, true},
		},
		{
			name:      "short list",
			stored:    `[{"title":"Prayed today?","isCompleted":true}]`,
			titles:    CanonicalTitles,
			completed: [TaskCount]bool{true, false, false},
		},
		{
			name:      "long list",
			stored:    `[{"isCompleted":true},{"isCompleted":true},{"isCompleted":true},{"isCompleted":false}]`,
			titles:    CanonicalTitles,
			completed: [TaskCount]bool{true, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemory()
			require.NoError(t, store.Set(ChecklistKey("2025-03-05"), []byte(tt.stored)))

			c, err := NewTracker(store).Load("2025-03-05")
			require.NoError(t, err)

			for i, task := range c.Tasks {
				assert.Equal(t, tt.titles[i], task.Title)
				assert.Equal(t, tt.completed[i], task.IsCompleted)
			}
		})
	}
}

func TestLoadReplacesUndecodablePayload(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(ChecklistKey("2025-03-05"), []byte("not json")))

	c, err := NewTracker(store).Load("2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, 0, c.CompletedCount())

	var stored []storedTask
	ok, err := kv.GetJSON(store, ChecklistKey("2025-03-05"), &stored)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored, TaskCount)
}

func TestToggleReturnsWriteErrors(t *testing.T) {
	tracker := NewTracker(failingStore{Store: kv.NewMemory()})

	_, _, err := tracker.Toggle(freshChecklist("2025-03-05"), 0)
	assert.Error(t, err)
}
