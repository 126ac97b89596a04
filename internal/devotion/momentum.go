package devotion

import "time"

// Momentum lists the days of a month whose checklist was fully completed.
type Momentum struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	MonthName     string `json:"monthName"`
	DaysInMonth   int    `json:"daysInMonth"`
	CompletedDays []int  `json:"completedDays"`
}

func (m Momentum) Count() int {
	return len(m.CompletedDays)
}

// Momentum reads the month of now. It never writes.
func (e *Engine) Momentum(now time.Time) Momentum {
	m := Momentum{
		Year:          now.Year(),
		Month:         int(now.Month()),
		MonthName:     now.Month().String(),
		DaysInMonth:   DaysInMonth(now),
		CompletedDays: []int{},
	}

	for day := 1; day <= m.DaysInMonth; day++ {
		date := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
		c, found := e.tracker.Peek(DateKey(date))
		if found && c.AllComplete() {
			m.CompletedDays = append(m.CompletedDays, day)
		}
	}

	return m
}
