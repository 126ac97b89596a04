package devotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/dailybible/internal/kv"
)

func TestOpenFreshDay(t *testing.T) {
	e := NewEngine(testCatalog(t), kv.NewMemory())

	s, err := e.Open(date(2025, time.March, 5))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-05", s.Date)
	assert.Equal(t, "Wednesday, March 5, 2025", s.DisplayDate)
	assert.Equal(t, Wednesday, s.Weekday)
	assert.Equal(t, 10, s.Week)
	assert.Equal(t, Record{Month: 3, Day: 5, Verse: "V", Reference: "R", Task: "T"}, s.Devotion)
	assert.Equal(t, "Faith", s.Theme.Title)
	assert.Len(t, s.Tasks, TaskCount)
	assert.Equal(t, 0, s.CompletedCount)
	assert.Equal(t, PhaseIncomplete, s.Phase)
	assert.Empty(t, s.CompletedDays)
}

func TestToggleScenario(t *testing.T) {
	store := kv.NewMemory()
	e := NewEngine(testCatalog(t), store)
	now := date(2025, time.March, 5)

	s, err := e.Toggle(now, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CompletedCount)
	assert.False(t, s.AllComplete)
	assert.False(t, s.JustCompleted)
	assert.Empty(t, s.CompletedDays)

	_, err = e.Toggle(now, 0)
	require.NoError(t, err)
	s, err = e.Toggle(now, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, s.CompletedCount)
	assert.True(t, s.AllComplete)
	assert.True(t, s.JustCompleted)
	assert.Equal(t, PhaseComplete, s.Phase)
	assert.Equal(t, []int{Wednesday}, s.CompletedDays)

	var count int
	ok, err := kv.GetJSON(store, "CompletedTaskCount", &count)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, count)
}

func TestOpenSyncsCompletedTaskCount(t *testing.T) {
	store := kv.NewMemory()
	e := NewEngine(testCatalog(t), store)

	for i := range TaskCount {
		_, err := e.Toggle(date(2025, time.March, 5), i)
		require.NoError(t, err)
	}

	count := func() int {
		var n int
		ok, err := kv.GetJSON(store, "CompletedTaskCount", &n)
		require.NoError(t, err)
		require.True(t, ok)
		return n
	}
	assert.Equal(t, 3, count())

	// Next day, same week
	_, err := e.Open(date(2025, time.March, 6))
	require.NoError(t, err)
	assert.Equal(t, 0, count())

	_, err = e.Toggle(date(2025, time.March, 6), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count())

	// Next week
	_, err = e.Open(date(2025, time.March, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, count())
}

func TestUncheckKeepsLedgerEntry(t *testing.T) {
	e := NewEngine(testCatalog(t), kv.NewMemory())
	now := date(2025, time.March, 5)

	for i := range TaskCount {
		_, err := e.Toggle(now, i)
		require.NoError(t, err)
	}

	s, err := e.Toggle(now, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CompletedCount)
	assert.Equal(t, PhaseIncomplete, s.Phase)
	assert.Equal(t, []int{Wednesday}, s.CompletedDays)

	s, err = e.Toggle(now, 0)
	require.NoError(t, err)
	assert.True(t, s.JustCompleted)
	assert.Equal(t, []int{Wednesday}, s.CompletedDays)
}

func TestSameWeekNewDay(t *testing.T) {
	e := NewEngine(testCatalog(t), kv.NewMemory())
	wed := date(2025, time.March, 5)

	for i := range TaskCount {
		_, err := e.Toggle(wed, i)
		require.NoError(t, err)
	}

	s, err := e.Open(date(2025, time.March, 6))
	require.NoError(t, err)
	assert.Equal(t, 0, s.CompletedCount)
	assert.Equal(t, []int{Wednesday}, s.CompletedDays)
	assert.Equal(t, "V2", s.Devotion.Verse)

	// Wednesday's list is still there.
	s, err = e.Open(wed)
	require.NoError(t, err)
	assert.True(t, s.AllComplete)
}

func TestWeekRolloverResetsEverything(t *testing.T) {
	store := kv.NewMemory()
	e := NewEngine(testCatalog(t), store)
	sun := date(2025, time.March, 9)
	mon := date(2025, time.March, 10)

	for i := range TaskCount {
		_, err := e.Toggle(sun, i)
		require.NoError(t, err)
	}

	// A stale completed list for Monday must not survive the rollover.
	require.NoError(t, store.Set(ChecklistKey(DateKey(mon)),
		[]byte(`[{"isCompleted":true},{"isCompleted":true},{"isCompleted":true}]`)))

	s, err := e.Open(mon)
	require.NoError(t, err)
	assert.Equal(t, 11, s.Week)
	assert.Empty(t, s.CompletedDays)
	assert.Equal(t, 0, s.CompletedCount)
	assert.Equal(t, PhaseIncomplete, s.Phase)
}

func TestToggleRejectsBadIndexBeforeWriting(t *testing.T) {
	store := kv.NewMemory()
	e := NewEngine(testCatalog(t), store)

	_, err := e.Toggle(date(2025, time.March, 5), 3)
	assert.ErrorIs(t, err, ErrInvalidTaskIndex)
	assert.Empty(t, store.Keys())
}

func TestPeekNeverWrites(t *testing.T) {
	store := kv.NewMemory()
	e := NewEngine(testCatalog(t), store)
	now := date(2025, time.March, 5)

	s := e.Peek(now)
	assert.Equal(t, PhaseUninitialized, s.Phase)
	assert.Empty(t, store.Keys())

	_, err := e.Toggle(now, 0)
	require.NoError(t, err)
	before, err := store.All()
	require.NoError(t, err)

	s = e.Peek(now)
	assert.Equal(t, PhaseIncomplete, s.Phase)
	assert.Equal(t, 1, s.CompletedCount)

	// Next week: Peek shows what Open would, but leaves the store alone.
	s = e.Peek(date(2025, time.March, 12))
	assert.Equal(t, 0, s.CompletedCount)
	assert.Empty(t, s.CompletedDays)

	after, err := store.All()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMomentum(t *testing.T) {
	e := NewEngine(testCatalog(t), kv.NewMemory())

	for _, day := range []int{3, 5} {
		for i := range TaskCount {
			_, err := e.Toggle(date(2025, time.March, day), i)
			require.NoError(t, err)
		}
	}
	_, err := e.Toggle(date(2025, time.March, 6), 0)
	require.NoError(t, err)

	m := e.Momentum(date(2025, time.March, 20))
	assert.Equal(t, 2025, m.Year)
	assert.Equal(t, 3, m.Month)
	assert.Equal(t, "March", m.MonthName)
	assert.Equal(t, 31, m.DaysInMonth)
	assert.Equal(t, []int{3, 5}, m.CompletedDays)
	assert.Equal(t, 2, m.Count())
}
