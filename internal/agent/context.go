package agent

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chris/daycontrol/internal/db"
	"github.com/dustin/go-humanize"
)

// Check-in phases, stored in check_ins.phase.
const (
	PhaseMorning = "morning"
	PhaseEvening = "evening"
)

// BuildCheckInPrompt creates a prompt asking the model to phrase the result of
// a scheduled pipeline run for the user.
func BuildCheckInPrompt(database *db.DB, phase string, day *db.Day, now time.Time) (string, error) {
	if day == nil {
		return "", fmt.Errorf("building %s check-in: no day", phase)
	}
	dayJSON, _ := json.MarshalIndent(day, "", "  ") // Day marshal cannot fail

	var b strings.Builder
	fmt.Fprintf(&b, "It's time for the %s check-in for %s.\n\n## Day\n", phase, day.Date)
	b.Write(dayJSON)

	if t, ok := db.ParseTime(day.MorningAt); ok {
		fmt.Fprintf(&b, "\n\nPlanned %s.", humanize.RelTime(t, now, "ago", "from now"))
	}

	last, err := database.GetLastCheckIn()
	if err != nil {
		log.Printf("warning: getting last check-in: %v", err)
	}
	b.WriteString("\n\n## Last Check-In\n")
	if last != nil {
		when := last.CreatedAt
		if t, ok := db.ParseTime(last.CreatedAt); ok {
			when = humanize.RelTime(t, now, "ago", "from now")
		}
		fmt.Fprintf(&b, "(%s, %s): %s", last.Phase, when, last.Message)
	} else {
		b.WriteString("This is the first check-in.")
	}

	switch phase {
	case PhaseMorning:
		b.WriteString("\n\nGreet the user and present today's focus tasks in order. Repeat the suggestion exactly. Keep it short.")
	default:
		fmt.Fprintf(&b, "\n\nReport today's score (%d%%) and which selected tasks were finished. Repeat the suggestion exactly. Mention distractions if any were logged. Keep it short.", day.Score)
	}

	return b.String(), nil
}
