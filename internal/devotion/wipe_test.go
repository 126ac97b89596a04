package devotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/dailybible/internal/kv"
)

func TestOwnsKey(t *testing.T) {
	assert.True(t, OwnsKey("ChecklistTasks_2025-08-09"))
	assert.True(t, OwnsKey("CurrentWeek"))
	assert.True(t, OwnsKey("CurrentWeekYear"))
	assert.True(t, OwnsKey("CompletedDays"))
	assert.True(t, OwnsKey("CompletedTaskCount"))
	assert.False(t, OwnsKey("PushToken"))
	assert.False(t, OwnsKey("hasCompletedOnboarding"))
}

func TestWipe(t *testing.T) {
	store := kv.NewMemory()
	engine := NewEngine(testCatalog(t), store)
	now := time.Date(2025, time.August, 9, 10, 0, 0, 0, time.UTC)

	for i := 0; i < TaskCount; i++ {
		_, err := engine.Toggle(now, i)
		require.NoError(t, err)
	}
	require.NoError(t, store.Set("PushToken", []byte(`"abc"`)))

	removed, err := Wipe(store)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)
	assert.Equal(t, []string{"PushToken"}, store.Keys())

	state := engine.Peek(now)
	assert.Equal(t, PhaseUninitialized, state.Phase)
	assert.Empty(t, state.CompletedDays)
}
