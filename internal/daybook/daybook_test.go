package daybook

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chris/daycontrol/internal/db"
	"github.com/chris/daycontrol/internal/planner"
)

func newTestBook(t *testing.T) *Book {
	t.Helper()
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	b := New(d, time.UTC)
	b.now = func() time.Time { return time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC) }
	return b
}

func startDay(t *testing.T, b *Book, energy int, tasks ...string) {
	t.Helper()
	s, err := planner.NewState(energy, 7, tasks)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if _, err := b.Start("", s); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func TestToday(t *testing.T) {
	b := newTestBook(t)
	if got := b.Today(); got != "2026-03-02" {
		t.Errorf("expected 2026-03-02, got %s", got)
	}
}

func TestResolveDate(t *testing.T) {
	b := newTestBook(t)
	if got, _ := b.ResolveDate(" "); got != "2026-03-02" {
		t.Errorf("expected today for blank date, got %q", got)
	}
	if got, err := b.ResolveDate("2026-01-31"); err != nil || got != "2026-01-31" {
		t.Errorf("unexpected (%q, %v)", got, err)
	}
	if _, err := b.ResolveDate("03/02/2026"); err == nil {
		t.Error("expected error for wrong format")
	}
}

func TestMorningThenEvening(t *testing.T) {
	b := newTestBook(t)
	startDay(t, b, 8, "A", "B", "C", "D", "E")

	day, err := b.Morning("")
	if err != nil {
		t.Fatalf("Morning: %v", err)
	}
	if !reflect.DeepEqual(day.SelectedTasks, []string{"A", "B", "C"}) {
		t.Errorf("unexpected selection: %v", day.SelectedTasks)
	}
	if day.Suggestion != "Focus deeply on: A, B, C" || !day.Planned() || day.RunID == "" {
		t.Errorf("unexpected morning day: %+v", day)
	}
	morningRun := day.RunID

	b.Complete("", "A")
	b.Complete("", "B")
	b.Distract("", "phone")

	day, err = b.Evening("")
	if err != nil {
		t.Fatalf("Evening: %v", err)
	}
	if day.Score != 67 || day.Suggestion != planner.SuggestMaintain {
		t.Errorf("expected 67/maintain, got %d/%q", day.Score, day.Suggestion)
	}
	if !day.Reviewed() || day.RunID == morningRun {
		t.Errorf("expected a new reviewed run, got %+v", day)
	}

	stored, _ := b.Get("2026-03-02")
	if stored.Score != 67 || !reflect.DeepEqual(stored.Distractions, []string{"phone"}) {
		t.Errorf("stored day mismatch: %+v", stored)
	}
}

func TestEvening_Unplanned(t *testing.T) {
	b := newTestBook(t)
	startDay(t, b, 8, "A")

	day, err := b.Evening("")
	if err != nil {
		t.Fatalf("Evening: %v", err)
	}
	if day.Score != 0 || day.Suggestion != planner.SuggestReduce {
		t.Errorf("expected 0/reduce, got %d/%q", day.Score, day.Suggestion)
	}
}

func TestMorning_ReplanClearsReview(t *testing.T) {
	b := newTestBook(t)
	startDay(t, b, 3, "A", "B", "C")
	b.Morning("")
	b.Evening("")

	day, err := b.Morning("")
	if err != nil {
		t.Fatalf("Morning: %v", err)
	}
	if day.Reviewed() {
		t.Error("re-planning should clear the evening review")
	}
}

func TestMissingDay(t *testing.T) {
	b := newTestBook(t)
	for name, fn := range map[string]func(string) (*db.Day, error){
		"morning": b.Morning,
		"evening": b.Evening,
	} {
		if _, err := fn(""); err == nil || !strings.Contains(err.Error(), "no day recorded") {
			t.Errorf("%s: expected missing day error, got %v", name, err)
		}
	}
	if got, err := b.Get(""); err != nil || got != nil {
		t.Errorf("expected (nil, nil), got (%+v, %v)", got, err)
	}
}

func TestStart_DoesNotAliasCaller(t *testing.T) {
	b := newTestBook(t)
	tasks := []string{"A", "B"}
	s, _ := planner.NewState(8, 7, tasks)
	day, err := b.Start("2026-03-05", s)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	day.Tasks[0] = "changed"
	if s.Tasks[0] != "A" {
		t.Error("caller state modified")
	}
}

func TestRecent(t *testing.T) {
	b := newTestBook(t)
	s, _ := planner.NewState(5, 7, []string{"A"})
	b.Start("2026-03-01", s)
	b.Start("2026-03-02", s)

	days, err := b.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(days) != 2 || days[0].Date != "2026-03-02" {
		t.Errorf("unexpected days: %+v", days)
	}
}
