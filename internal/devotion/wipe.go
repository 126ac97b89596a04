package devotion

import (
	"fmt"
	"strings"

	"github.com/templui/dailybible/internal/kv"
)

// OwnsKey reports whether key belongs to the engine (checklists and the weekly ledger).
func OwnsKey(key string) bool {
	switch key {
	case keyCurrentWeek, keyCurrentWeekYear, keyCompletedDays, keyCompletedTaskCount:
		return true
	}
	return strings.HasPrefix(key, checklistKeyPrefix)
}

// Wipe removes every engine key from store and leaves other keys alone.
// It returns the number of keys removed.
func Wipe(store kv.DumpStore) (int, error) {
	all, err := store.All()
	if err != nil {
		return 0, fmt.Errorf("failed to list device data: %w", err)
	}

	removed := 0
	for key := range all {
		if !OwnsKey(key) {
			continue
		}
		err = store.Remove(key)
		if err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", key, err)
		}
		removed++
	}

	return removed, nil
}
