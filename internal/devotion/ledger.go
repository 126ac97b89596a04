package devotion

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/templui/dailybible/internal/kv"
)

const (
	keyCurrentWeek        = "CurrentWeek"
	keyCurrentWeekYear    = "CurrentWeekYear"
	keyCompletedDays      = "CompletedDays"
	keyCompletedTaskCount = "CompletedTaskCount"
)

// Ledger records which weekdays of an ISO week had every task completed.
type Ledger struct {
	Year          int   `json:"year"`
	Week          int   `json:"week"`
	CompletedDays []int `json:"completedDays"`
}

func (l Ledger) Has(weekday int) bool {
	return slices.Contains(l.CompletedDays, weekday)
}

func (l Ledger) matches(now time.Time) bool {
	year, week := Week(now)
	return l.Year == year && l.Week == week
}

// LedgerBook persists the weekly ledger. Entries are append-only within a week:
// unchecking a task never removes a weekday that was already recorded.
type LedgerBook struct {
	store kv.Store
}

func NewLedgerBook(store kv.Store) *LedgerBook {
	return &LedgerBook{store: store}
}

// Current reads the persisted ledger. Missing or unreadable values read as zero.
func (b *LedgerBook) Current() Ledger {
	var l Ledger
	b.readInt(keyCurrentWeek, &l.Week)
	b.readInt(keyCurrentWeekYear, &l.Year)

	var days []int
	_, err := kv.GetJSON(b.store, keyCompletedDays, &days)
	if err != nil {
		slog.Warn("failed to read completed days", "error", err)
	}
	l.CompletedDays = normalizeDays(days)
	return l
}

// View returns the ledger as it applies to now, without writing: a ledger
// from another week reads as empty.
func (b *LedgerBook) View(now time.Time) Ledger {
	l := b.Current()
	if l.matches(now) {
		return l
	}
	year, week := Week(now)
	return Ledger{Year: year, Week: week, CompletedDays: []int{}}
}

// CheckRollover clears the ledger when now falls in a different ISO week than
// the persisted one. rolled tells the caller to reset today's checklist.
func (b *LedgerBook) CheckRollover(now time.Time) (l Ledger, rolled bool, err error) {
	l = b.Current()
	if l.matches(now) {
		return l, false, nil
	}

	year, week := Week(now)
	l = Ledger{Year: year, Week: week, CompletedDays: []int{}}

	err = kv.SetJSON(b.store, keyCompletedDays, l.CompletedDays)
	if err != nil {
		return l, true, fmt.Errorf("failed to clear completed days: %w", err)
	}
	err = kv.SetJSON(b.store, keyCurrentWeekYear, year)
	if err != nil {
		return l, true, fmt.Errorf("failed to save week year: %w", err)
	}
	err = kv.SetJSON(b.store, keyCurrentWeek, week)
	if err != nil {
		return l, true, fmt.Errorf("failed to save week: %w", err)
	}

	slog.Debug("weekly ledger rolled over", "year", year, "week", week)
	return l, true, nil
}

// RecordIfComplete adds now's weekday to the ledger when allComplete is set.
// It is a no-op otherwise, and when the weekday is already recorded.
func (b *LedgerBook) RecordIfComplete(now time.Time, allComplete bool) (Ledger, error) {
	l := b.Current()
	if !allComplete {
		return l, nil
	}

	weekday := Weekday(now)
	if l.Has(weekday) {
		return l, nil
	}

	l.CompletedDays = normalizeDays(append(l.CompletedDays, weekday))
	err := kv.SetJSON(b.store, keyCompletedDays, l.CompletedDays)
	if err != nil {
		return l, fmt.Errorf("failed to save completed days: %w", err)
	}
	return l, nil
}

func (b *LedgerBook) readInt(key string, dst *int) {
	_, err := kv.GetJSON(b.store, key, dst)
	if err != nil {
		slog.Warn("failed to read ledger value", "error", err, "key", key)
		*dst = 0
	}
}

// normalizeDays drops values outside 1..7 and duplicates, and sorts the rest.
func normalizeDays(days []int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d >= Monday && d <= Sunday && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out
}
