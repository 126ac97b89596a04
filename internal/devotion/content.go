package devotion

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/devotions.yaml
var catalogYAML []byte

// Record is a single day's verse, reference and task.
type Record struct {
	Month     int    `yaml:"month" json:"month"`
	Day       int    `yaml:"day" json:"day"`
	Verse     string `yaml:"verse" json:"verse"`
	Reference string `yaml:"reference" json:"reference"`
	Task      string `yaml:"task" json:"task"`
}

// Fallback content shown when the catalog has no entry for a date (Feb 29, impossible dates).
const (
	FallbackVerse     = "Trust in the Lord with all your heart and lean not on your own understanding."
	FallbackReference = "Proverbs 3:5-6"
	FallbackTask      = "Write down 3 areas where you're struggling to trust God."
)

const unknownTheme = "Unknown Theme"

// Theme is the devotional theme of a month, e.g. {Month: "January", Title: "New Beginnings"}.
type Theme struct {
	Month string `json:"month"`
	Title string `json:"title"`
}

// String joins the theme like the header of the home screen: "January – New Beginnings".
func (t Theme) String() string {
	if t.Title == "" {
		return t.Month
	}
	return t.Month + " – " + t.Title
}

type monthDay struct {
	month int
	day   int
}

// Catalog is the static devotion table. It is loaded once and never mutated.
type Catalog struct {
	records map[monthDay]Record
	themes  map[int]string
}

type catalogFile struct {
	Themes    map[int]string `yaml:"themes"`
	Devotions []Record       `yaml:"devotions"`
}

// LoadCatalog decodes the embedded devotion table.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// MustLoadCatalog is LoadCatalog for package initialization paths.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes a devotion table in the embedded YAML format.
// Duplicate (month, day) entries and out-of-range months/days are rejected.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode devotion catalog: %w", err)
	}

	c := &Catalog{
		records: make(map[monthDay]Record, len(file.Devotions)),
		themes:  make(map[int]string, len(file.Themes)),
	}

	for month, theme := range file.Themes {
		if month < 1 || month > 12 {
			return nil, fmt.Errorf("invalid theme month: %d", month)
		}
		c.themes[month] = theme
	}

	for _, r := range file.Devotions {
		if r.Month < 1 || r.Month > 12 || r.Day < 1 || r.Day > 31 {
			return nil, fmt.Errorf("invalid devotion date: %d/%d", r.Month, r.Day)
		}
		key := monthDay{r.Month, r.Day}
		if _, exists := c.records[key]; exists {
			return nil, fmt.Errorf("duplicate devotion for %d/%d", r.Month, r.Day)
		}
		c.records[key] = r
	}

	return c, nil
}

// Len returns the number of records in the table.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Select returns the record for the month and day of date.
func (c *Catalog) Select(date time.Time) Record {
	return c.SelectMonthDay(int(date.Month()), date.Day())
}

// SelectMonthDay returns the record for (month, day). When there is no entry the
// fallback record is returned, stamped with the requested month and day.
func (c *Catalog) SelectMonthDay(month, day int) Record {
	r, ok := c.records[monthDay{month, day}]
	if ok {
		return r
	}
	return Record{
		Month:     month,
		Day:       day,
		Verse:     FallbackVerse,
		Reference: FallbackReference,
		Task:      FallbackTask,
	}
}

// Has reports whether the table holds an entry for (month, day).
func (c *Catalog) Has(month, day int) bool {
	_, ok := c.records[monthDay{month, day}]
	return ok
}

// Theme returns the theme of the given month.
func (c *Catalog) Theme(month time.Month) Theme {
	raw, ok := c.themes[int(month)]
	if !ok {
		return Theme{Month: month.String(), Title: unknownTheme}
	}
	name, title, found := strings.Cut(raw, " – ")
	if !found {
		return Theme{Month: month.String(), Title: raw}
	}
	return Theme{Month: name, Title: title}
}

// Missing lists the calendar days of a non-leap year that have no entry.
func (c *Catalog) Missing() []time.Time {
	var missing []time.Time
	// 2025 is not a leap year
	day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == 2025 {
		if !c.Has(int(day.Month()), day.Day()) {
			missing = append(missing, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return missing
}
