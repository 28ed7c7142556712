package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chris/daycontrol/internal/daybook"
	"github.com/chris/daycontrol/internal/db"
)

const testDate = "2026-03-02"

func newTestBook(t *testing.T) *daybook.Book {
	t.Helper()
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return daybook.New(d, time.UTC)
}

func TestCmdMorning_Flags(t *testing.T) {
	book := newTestBook(t)
	var out bytes.Buffer
	err := cmdMorning(&out, book, []string{"-date", testDate, "-energy", "4", "-sleep", "5.5", "-tasks", "api, gym, ,mail"})
	if err != nil {
		t.Fatalf("morning: %v", err)
	}
	got := out.String()
	for _, want := range []string{"2026-03-02 plan (energy 4, 5.5 hours sleep)", "1. api", "2. gym", "Focus deeply on: api, gym"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "mail") {
		t.Errorf("low energy should select two tasks:\n%s", got)
	}
}

func TestCmdMorning_File(t *testing.T) {
	book := newTestBook(t)
	path := filepath.Join(t.TempDir(), "day.yaml")
	os.WriteFile(path, []byte("energy_level: 8\nsleep_hours: 7\ntasks: [A, B, C, D]\n"), 0644)

	var out bytes.Buffer
	if err := cmdMorning(&out, book, []string{"-file", path, "-date", testDate}); err != nil {
		t.Fatalf("morning: %v", err)
	}
	if !strings.Contains(out.String(), "Focus deeply on: A, B, C\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestCmdMorning_Errors(t *testing.T) {
	book := newTestBook(t)
	tests := [][]string{
		{"-date", testDate},
		{"-date", testDate, "-tasks", "a"},
		{"-date", testDate, "-bogus"},
		{"-file", "/does/not/exist.yaml"},
		{"-date", "tomorrow", "-energy", "5", "-sleep", "7"},
	}
	for _, args := range tests {
		if err := cmdMorning(&bytes.Buffer{}, book, args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestFullDayCommands(t *testing.T) {
	book := newTestBook(t)
	var out bytes.Buffer
	if err := cmdMorning(&out, book, []string{"-date", testDate, "-energy", "8", "-sleep", "7", "-tasks", "A,B,C,D"}); err != nil {
		t.Fatalf("morning: %v", err)
	}

	out.Reset()
	if err := cmdDone(&out, book, []string{"-date", testDate, "A"}); err != nil {
		t.Fatalf("done: %v", err)
	}
	if !strings.Contains(out.String(), `completed "A" (1 done today)`) {
		t.Errorf("unexpected done output %q", out.String())
	}
	cmdDone(&out, book, []string{"-date", testDate, "B"})

	out.Reset()
	if err := cmdDistract(&out, book, []string{"-date", testDate, "slack", "pings"}); err != nil {
		t.Fatalf("distract: %v", err)
	}
	if out.String() != "logged (1 distraction today)\n" {
		t.Errorf("unexpected distract output %q", out.String())
	}

	out.Reset()
	if err := cmdEvening(&out, book, []string{"-date", testDate}); err != nil {
		t.Fatalf("evening: %v", err)
	}
	want := "2026-03-02 score: 67% (2 of 3 selected)\n1 distraction logged\nMaintain pace but reduce distractions.\n"
	if out.String() != want {
		t.Errorf("evening output:\n%q\nwant:\n%q", out.String(), want)
	}

	day, _ := book.Get(testDate)
	if !reflect.DeepEqual(day.Distractions, []string{"slack pings"}) {
		t.Errorf("unexpected distractions %v", day.Distractions)
	}

	out.Reset()
	if err := cmdShow(&out, book, []string{"-date", testDate}); err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"tasks: A, B, C, D", "selected: A, B, C", "completed: A, B", "score 67%"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := cmdShow(&out, book, []string{"-n", "5"}); err != nil {
		t.Fatalf("show -n: %v", err)
	}
	if !strings.HasPrefix(out.String(), "2026-03-02  score 67%  2/3 done") {
		t.Errorf("unexpected summary %q", out.String())
	}
}

func TestCmdDone_RequiresTask(t *testing.T) {
	book := newTestBook(t)
	if err := cmdDone(&bytes.Buffer{}, book, []string{"-date", testDate}); err == nil {
		t.Error("expected error without a task")
	}
	if err := cmdDistract(&bytes.Buffer{}, book, nil); err == nil {
		t.Error("expected error without a description")
	}
}

func TestCmdShow_Empty(t *testing.T) {
	book := newTestBook(t)
	var out bytes.Buffer
	cmdShow(&out, book, []string{"-date", testDate})
	if out.String() != "no day recorded for 2026-03-02\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	out.Reset()
	cmdShow(&out, book, []string{"-n", "3"})
	if out.String() != "no days recorded\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSplitTasks(t *testing.T) {
	if got := splitTasks(" a, b ,,c "); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("unexpected tasks %v", got)
	}
	if got := splitTasks(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
