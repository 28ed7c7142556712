package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chris/daycontrol/internal/daybook"
	"github.com/chris/daycontrol/internal/db"
	"github.com/chris/daycontrol/internal/planner"
	"github.com/dustin/go-humanize"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func cmdMorning(out io.Writer, book *daybook.Book, args []string) error {
	fs := newFlagSet("morning")
	file := fs.String("file", "", "YAML day file with energy_level, sleep_hours and tasks")
	date := fs.String("date", "", "Date (YYYY-MM-DD, default today)")
	energy := fs.Int("energy", 0, "Energy level, 1-10")
	sleep := fs.Float64("sleep", 0, "Hours slept")
	tasks := fs.String("tasks", "", "Comma-separated tasks, highest priority first")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("morning: %w", err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch {
	case *file != "":
		s, err := planner.LoadDayFile(*file)
		if err != nil {
			return err
		}
		if _, err := book.Start(*date, s); err != nil {
			return err
		}
	case set["energy"] || set["sleep"] || set["tasks"]:
		if !set["energy"] || !set["sleep"] {
			return errors.New("morning: -energy and -sleep are required with -tasks")
		}
		s, err := planner.NewState(*energy, *sleep, splitTasks(*tasks))
		if err != nil {
			return err
		}
		if _, err := book.Start(*date, s); err != nil {
			return err
		}
	}

	day, err := book.Morning(*date)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s plan (energy %d, %s hours sleep)\n", day.Date, day.EnergyLevel, humanize.Ftoa(day.SleepHours))
	for i, t := range day.SelectedTasks {
		fmt.Fprintf(out, "  %d. %s\n", i+1, t)
	}
	fmt.Fprintln(out, day.Suggestion)
	return nil
}

func cmdEvening(out io.Writer, book *daybook.Book, args []string) error {
	fs := newFlagSet("evening")
	date := fs.String("date", "", "Date (YYYY-MM-DD, default today)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("evening: %w", err)
	}

	day, err := book.Evening(*date)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s score: %d%% (%d of %d selected)\n", day.Date, day.Score,
		len(day.CompletedTasks), len(day.SelectedTasks))
	if n := len(day.Distractions); n > 0 {
		fmt.Fprintf(out, "%d %s logged\n", n, plural(n, "distraction", "distractions"))
	}
	fmt.Fprintln(out, day.Suggestion)
	return nil
}

func cmdDone(out io.Writer, book *daybook.Book, args []string) error {
	fs := newFlagSet("done")
	date := fs.String("date", "", "Date (YYYY-MM-DD, default today)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("done: %w", err)
	}
	task := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if task == "" {
		return errors.New("done: task is required")
	}

	day, err := book.Complete(*date, task)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "completed %q (%s done today)\n", task, humanize.Comma(int64(len(day.CompletedTasks))))
	return nil
}

func cmdDistract(out io.Writer, book *daybook.Book, args []string) error {
	fs := newFlagSet("distract")
	date := fs.String("date", "", "Date (YYYY-MM-DD, default today)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("distract: %w", err)
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return errors.New("distract: description is required")
	}

	day, err := book.Distract(*date, text)
	if err != nil {
		return err
	}
	n := len(day.Distractions)
	fmt.Fprintf(out, "logged (%d %s today)\n", n, plural(n, "distraction", "distractions"))
	return nil
}

func cmdShow(out io.Writer, book *daybook.Book, args []string) error {
	fs := newFlagSet("show")
	date := fs.String("date", "", "Date (YYYY-MM-DD, default today)")
	n := fs.Int("n", 0, "List the last n days instead")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("show: %w", err)
	}

	if *n > 0 {
		days, err := book.Recent(*n)
		if err != nil {
			return err
		}
		if len(days) == 0 {
			fmt.Fprintln(out, "no days recorded")
			return nil
		}
		for _, d := range days {
			fmt.Fprintln(out, summaryLine(d))
		}
		return nil
	}

	day, err := book.Get(*date)
	if err != nil {
		return err
	}
	if day == nil {
		resolved, _ := book.ResolveDate(*date)
		fmt.Fprintf(out, "no day recorded for %s\n", resolved)
		return nil
	}
	writeDay(out, day)
	return nil
}

func summaryLine(d db.Day) string {
	status := "recorded"
	switch {
	case d.Reviewed():
		status = fmt.Sprintf("score %d%%", d.Score)
	case d.Planned():
		status = "planned"
	}
	line := fmt.Sprintf("%s  %-10s %d/%d done", d.Date, status, len(d.CompletedTasks), len(d.SelectedTasks))
	if t, ok := db.ParseTime(d.UpdatedAt); ok {
		line += "  updated " + humanize.Time(t)
	}
	return line
}

func writeDay(out io.Writer, d *db.Day) {
	fmt.Fprintf(out, "%s  energy %d, %s hours sleep\n", d.Date, d.EnergyLevel, humanize.Ftoa(d.SleepHours))
	writeList(out, "tasks", d.Tasks)
	writeList(out, "selected", d.SelectedTasks)
	writeList(out, "completed", d.CompletedTasks)
	writeList(out, "distractions", d.Distractions)
	if t, ok := db.ParseTime(d.MorningAt); ok {
		fmt.Fprintf(out, "planned %s\n", humanize.Time(t))
	}
	if t, ok := db.ParseTime(d.EveningAt); ok {
		fmt.Fprintf(out, "reviewed %s, score %d%%\n", humanize.Time(t), d.Score)
	}
	if d.Suggestion != "" {
		fmt.Fprintln(out, d.Suggestion)
	}
}

func writeList(out io.Writer, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(out, "%s: none\n", label)
		return
	}
	fmt.Fprintf(out, "%s: %s\n", label, strings.Join(items, ", "))
}

// splitTasks splits a comma-separated list, dropping blank entries.
func splitTasks(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
