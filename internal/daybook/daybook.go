// Package daybook applies the planning pipelines to days kept in the store.
package daybook

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chris/daycontrol/internal/db"
	"github.com/chris/daycontrol/internal/planner"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Book struct {
	db  *db.DB
	loc *time.Location
	now func() time.Time
}

func New(database *db.DB, loc *time.Location) *Book {
	if loc == nil {
		loc = time.Local
	}
	return &Book{db: database, loc: loc, now: time.Now}
}

// Today returns the current date in the book's timezone.
func (b *Book) Today() string {
	return b.now().In(b.loc).Format(dateLayout)
}

// Now returns the current time in the book's timezone.
func (b *Book) Now() time.Time {
	return b.now().In(b.loc)
}

// ResolveDate defaults an empty date to today and checks the format.
func (b *Book) ResolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return b.Today(), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	return date, nil
}

// Start records the start-of-day inputs, replacing anything stored for date.
func (b *Book) Start(date string, s planner.State) (*db.Day, error) {
	date, err := b.ResolveDate(date)
	if err != nil {
		return nil, err
	}
	day := db.Day{Date: date, State: s.Clone()}
	if err := b.db.SaveDay(day); err != nil {
		return nil, err
	}
	log.Printf("daybook: started %s with %d task(s), energy %d", date, len(s.Tasks), s.EnergyLevel)
	return b.db.GetDay(date)
}

// Morning runs the morning pipeline on the stored day. Re-planning clears a
// previous evening review since it no longer matches the selection.
func (b *Book) Morning(date string) (*db.Day, error) {
	day, err := b.load(date)
	if err != nil {
		return nil, err
	}
	day.State = planner.Morning(day.State)
	day.MorningAt = db.Now()
	day.EveningAt = ""
	return b.save(day, planner.MorningPipeline())
}

// Evening runs the evening pipeline on the stored day. An unplanned day is
// still reviewed; it scores 0.
func (b *Book) Evening(date string) (*db.Day, error) {
	day, err := b.load(date)
	if err != nil {
		return nil, err
	}
	if !day.Planned() {
		log.Printf("daybook: reviewing %s without a morning plan", day.Date)
	}
	day.State = planner.Evening(day.State)
	day.EveningAt = db.Now()
	return b.save(day, planner.EveningPipeline())
}

// Complete records a finished task.
func (b *Book) Complete(date, task string) (*db.Day, error) {
	date, err := b.ResolveDate(date)
	if err != nil {
		return nil, err
	}
	return b.db.AddCompleted(date, strings.TrimSpace(task))
}

// Distract records a distraction.
func (b *Book) Distract(date, text string) (*db.Day, error) {
	date, err := b.ResolveDate(date)
	if err != nil {
		return nil, err
	}
	return b.db.AddDistraction(date, strings.TrimSpace(text))
}

// Get returns the stored day, or nil if nothing was recorded.
func (b *Book) Get(date string) (*db.Day, error) {
	date, err := b.ResolveDate(date)
	if err != nil {
		return nil, err
	}
	return b.db.GetDay(date)
}

// Recent lists the latest days, newest first.
func (b *Book) Recent(limit int) ([]db.Day, error) {
	return b.db.ListDays(limit)
}

func (b *Book) load(date string) (*db.Day, error) {
	date, err := b.ResolveDate(date)
	if err != nil {
		return nil, err
	}
	day, err := b.db.GetDay(date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, fmt.Errorf("no day recorded for %s", date)
	}
	return day, nil
}

func (b *Book) save(day *db.Day, p *planner.Pipeline) (*db.Day, error) {
	day.RunID = uuid.NewString()
	if err := b.db.SaveDay(*day); err != nil {
		return nil, err
	}
	log.Printf("daybook: %s %s run %s [%s] score=%d", day.Date, p.Name(), day.RunID,
		strings.Join(p.Names(), " -> "), day.Score)
	return day, nil
}
