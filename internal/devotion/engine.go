package devotion

import (
	"fmt"
	"time"

	"github.com/templui/dailybible/internal/kv"
)

// Phase of today's checklist.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseIncomplete    Phase = "incomplete"
	PhaseComplete      Phase = "complete"
)

// State is an immutable snapshot of the engine for one date.
type State struct {
	Date           string `json:"date"`
	DisplayDate    string `json:"displayDate"`
	Weekday        int    `json:"weekday"`
	Year           int    `json:"year"`
	Week           int    `json:"week"`
	Theme          Theme  `json:"theme"`
	Devotion       Record `json:"devotion"`
	Tasks          []Task `json:"tasks"`
	CompletedCount int    `json:"completedCount"`
	AllComplete    bool   `json:"allComplete"`
	CompletedDays  []int  `json:"completedDays"`
	Phase          Phase  `json:"phase"`
	JustCompleted  bool   `json:"justCompleted"`
}

// Engine combines content selection, the daily checklist and the weekly
// ledger over one device's store. It is not safe for concurrent use; callers
// serialize access per store.
type Engine struct {
	catalog *Catalog
	store   kv.Store
	tracker *Tracker
	ledger  *LedgerBook
}

func NewEngine(catalog *Catalog, store kv.Store) *Engine {
	return &Engine{
		catalog: catalog,
		store:   store,
		tracker: NewTracker(store),
		ledger:  NewLedgerBook(store),
	}
}

// Open runs the week rollover check and loads today's checklist.
// now must already be in the device's location.
func (e *Engine) Open(now time.Time) (State, error) {
	checklist, ledger, err := e.open(now)
	if err != nil {
		return State{}, err
	}
	return e.snapshot(now, checklist, ledger, true, false), nil
}

// Toggle flips task index of today's checklist. The weekday is recorded in the
// ledger only on the incomplete to complete edge.
func (e *Engine) Toggle(now time.Time, index int) (State, error) {
	if index < 0 || index >= TaskCount {
		return State{}, fmt.Errorf("%w: %d", ErrInvalidTaskIndex, index)
	}

	checklist, ledger, err := e.open(now)
	if err != nil {
		return State{}, err
	}

	checklist, justCompleted, err := e.tracker.Toggle(checklist, index)
	if err != nil {
		return State{}, err
	}

	err = kv.SetJSON(e.store, keyCompletedTaskCount, checklist.CompletedCount())
	if err != nil {
		return State{}, fmt.Errorf("failed to save completed task count: %w", err)
	}

	if justCompleted {
		ledger, err = e.ledger.RecordIfComplete(now, true)
		if err != nil {
			return State{}, err
		}
	}

	return e.snapshot(now, checklist, ledger, true, justCompleted), nil
}

// Peek returns the state Open would produce, without writing anything.
func (e *Engine) Peek(now time.Time) State {
	ledger := e.ledger.View(now)

	var (
		checklist Checklist
		found     bool
	)
	if e.ledger.Current().matches(now) {
		checklist, found = e.tracker.Peek(DateKey(now))
	} else {
		checklist = freshChecklist(DateKey(now))
	}
	return e.snapshot(now, checklist, ledger, found, false)
}

func (e *Engine) open(now time.Time) (Checklist, Ledger, error) {
	dateKey := DateKey(now)

	ledger, rolled, err := e.ledger.CheckRollover(now)
	if err != nil {
		return Checklist{}, Ledger{}, err
	}

	var checklist Checklist
	if rolled {
		checklist, err = e.tracker.Reset(dateKey)
	} else {
		checklist, err = e.tracker.Load(dateKey)
	}
	if err != nil {
		return Checklist{}, Ledger{}, err
	}

	// Keep the derived count in step with the checklist that is now current
	err = kv.SetJSON(e.store, keyCompletedTaskCount, checklist.CompletedCount())
	if err != nil {
		return Checklist{}, Ledger{}, fmt.Errorf("failed to save completed task count: %w", err)
	}

	return checklist, ledger, nil
}

func (e *Engine) snapshot(now time.Time, c Checklist, l Ledger, loaded, justCompleted bool) State {
	year, week := Week(now)

	phase := PhaseUninitialized
	if loaded {
		phase = PhaseIncomplete
		if c.AllComplete() {
			phase = PhaseComplete
		}
	}

	days := make([]int, len(l.CompletedDays))
	copy(days, l.CompletedDays)

	return State{
		Date:           c.Date,
		DisplayDate:    FormatLong(now),
		Weekday:        Weekday(now),
		Year:           year,
		Week:           week,
		Theme:          e.catalog.Theme(now.Month()),
		Devotion:       e.catalog.Select(now),
		Tasks:          c.Tasks[:],
		CompletedCount: c.CompletedCount(),
		AllComplete:    c.AllComplete(),
		CompletedDays:  days,
		Phase:          phase,
		JustCompleted:  justCompleted,
	}
}
