package devotion

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/dailybible/internal/kv"
)

// TaskCount is the fixed number of daily sub-tasks.
const TaskCount = 3

// CanonicalTitles are the daily sub-task titles, by slot.
var CanonicalTitles = [TaskCount]string{
	"Prayed today?",
	"Read today's Bible verse?",
	"Completed the task?",
}

const checklistKeyPrefix = "ChecklistTasks_"

var ErrInvalidTaskIndex = errors.New("task index out of range")

// ChecklistKey returns the store key of the checklist for a "YYYY-MM-DD" date key.
func ChecklistKey(dateKey string) string {
	return checklistKeyPrefix + dateKey
}

type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

// Checklist is the set of sub-tasks of one date.
type Checklist struct {
	Date  string          `json:"date"`
	Tasks [TaskCount]Task `json:"tasks"`
}

func (c Checklist) CompletedCount() int {
	n := 0
	for _, t := range c.Tasks {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

func (c Checklist) AllComplete() bool {
	return c.CompletedCount() == TaskCount
}

func freshChecklist(dateKey string) Checklist {
	c := Checklist{Date: dateKey}
	for i := range c.Tasks {
		c.Tasks[i] = Task{ID: i, Title: CanonicalTitles[i]}
	}
	return c
}

// storedTask is the persisted shape: [{title, isCompleted}, ...].
type storedTask struct {
	Title       string `json:"title,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
}

// Tracker loads and mutates the per-date checklist.
type Tracker struct {
	store kv.Store
}

func NewTracker(store kv.Store) *Tracker {
	return &Tracker{store: store}
}

// Load returns the checklist persisted for dateKey. When none exists, or the
// stored payload cannot be decoded, a fresh checklist is persisted and returned.
func (t *Tracker) Load(dateKey string) (Checklist, error) {
	c, found := t.Peek(dateKey)
	if found {
		return c, nil
	}
	return t.Reset(dateKey)
}

// Peek reads the checklist for dateKey without writing. found is false when a
// fresh checklist was substituted.
func (t *Tracker) Peek(dateKey string) (c Checklist, found bool) {
	key := ChecklistKey(dateKey)

	var stored []storedTask
	ok, err := kv.GetJSON(t.store, key, &stored)
	if err != nil {
		slog.Warn("failed to read checklist, using a fresh one", "error", err, "key", key)
		return freshChecklist(dateKey), false
	}
	if !ok {
		return freshChecklist(dateKey), false
	}

	// Short lists are padded and long ones truncated; missing titles fall back by slot.
	c = freshChecklist(dateKey)
	for i := 0; i < len(stored) && i < TaskCount; i++ {
		if stored[i].Title != "" {
			c.Tasks[i].Title = stored[i].Title
		}
		c.Tasks[i].IsCompleted = stored[i].IsCompleted
	}
	return c, true
}

// Reset persists and returns a fresh, all-incomplete checklist for dateKey.
func (t *Tracker) Reset(dateKey string) (Checklist, error) {
	c := freshChecklist(dateKey)
	err := t.save(c)
	if err != nil {
		return c, err
	}
	return c, nil
}

// Toggle flips the task at index and persists the list. justCompleted is true
// only when the toggle moved the checklist from incomplete to complete.
func (t *Tracker) Toggle(c Checklist, index int) (next Checklist, justCompleted bool, err error) {
	if index < 0 || index >= TaskCount {
		return c, false, fmt.Errorf("%w: %d", ErrInvalidTaskIndex, index)
	}

	wasComplete := c.AllComplete()
	c.Tasks[index].IsCompleted = !c.Tasks[index].IsCompleted

	err = t.save(c)
	if err != nil {
		return c, false, err
	}

	return c, !wasComplete && c.AllComplete(), nil
}

func (t *Tracker) save(c Checklist) error {
	stored := make([]storedTask, TaskCount)
	for i, task := range c.Tasks {
		stored[i] = storedTask{Title: task.Title, IsCompleted: task.IsCompleted}
	}

	err := kv.SetJSON(t.store, ChecklistKey(c.Date), stored)
	if err != nil {
		return fmt.Errorf("failed to save checklist: %w", err)
	}
	return nil
}
