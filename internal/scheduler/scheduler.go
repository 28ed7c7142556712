package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/chris/daycontrol/internal/agent"
	"github.com/chris/daycontrol/internal/daybook"
	"github.com/chris/daycontrol/internal/db"
	"github.com/robfig/cron/v3"
)

const agentTimeout = 2 * time.Minute

type Scheduler struct {
	cron       *cron.Cron
	book       *daybook.Book
	db         *db.DB
	agent      *agent.Agent
	webhookURL string
	dmSend     func(userID, content string) error
}

// New creates a scheduler. ag may be nil, in which case the raw pipeline
// output is delivered.
func New(book *daybook.Book, database *db.DB, ag *agent.Agent, webhookURL string, dmSend func(userID, content string) error) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(book.Now().Location())),
		book:       book,
		db:         database,
		agent:      ag,
		webhookURL: webhookURL,
		dmSend:     dmSend,
	}
}

// Start registers the morning and evening jobs and starts the cron runner.
func (s *Scheduler) Start(morningCron, eveningCron string) error {
	if _, err := s.cron.AddFunc(morningCron, s.runMorning); err != nil {
		return fmt.Errorf("invalid morning cron %q: %w", morningCron, err)
	}
	if _, err := s.cron.AddFunc(eveningCron, s.runEvening); err != nil {
		return fmt.Errorf("invalid evening cron %q: %w", eveningCron, err)
	}
	s.cron.Start()
	log.Printf("scheduler started (morning %q, evening %q)", morningCron, eveningCron)
	return nil
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runMorning() {
	day, err := s.book.Get("")
	if err != nil {
		log.Printf("scheduler[morning]: loading day: %v", err)
		return
	}
	if day == nil {
		log.Printf("scheduler[morning]: no day recorded for %s, skipping", s.book.Today())
		return
	}
	if day.Planned() {
		log.Printf("scheduler[morning]: %s already planned, skipping", day.Date)
		return
	}
	day, err = s.book.Morning(day.Date)
	if err != nil {
		log.Printf("scheduler[morning]: %v", err)
		return
	}
	s.announce(agent.PhaseMorning, day, day.Suggestion)
}

func (s *Scheduler) runEvening() {
	day, err := s.book.Get("")
	if err != nil {
		log.Printf("scheduler[evening]: loading day: %v", err)
		return
	}
	if day == nil {
		log.Printf("scheduler[evening]: no day recorded for %s, skipping", s.book.Today())
		return
	}
	if day.Reviewed() {
		log.Printf("scheduler[evening]: %s already reviewed, skipping", day.Date)
		return
	}
	day, err = s.book.Evening(day.Date)
	if err != nil {
		log.Printf("scheduler[evening]: %v", err)
		return
	}
	s.announce(agent.PhaseEvening, day, fmt.Sprintf("Score: %d%%. %s", day.Score, day.Suggestion))
}

// announce phrases the pipeline result through the agent when one is
// configured, records the check-in, and delivers it.
func (s *Scheduler) announce(phase string, day *db.Day, fallback string) {
	label := "scheduler[" + phase + "]"
	message := fallback

	if s.agent != nil {
		if reply, err := s.phrase(phase, day); err != nil {
			log.Printf("%s: agent error, sending raw result: %v", label, err)
		} else if reply != "" {
			message = reply
		}
	}

	if _, err := s.db.CreateCheckIn(phase, day.Date, message); err != nil {
		log.Printf("%s: storing check-in: %v", label, err)
	}
	s.deliver(label, message)
	log.Printf("%s: completed for %s", label, day.Date)
}

func (s *Scheduler) phrase(phase string, day *db.Day) (string, error) {
	prompt, err := agent.BuildCheckInPrompt(s.db, phase, day, s.book.Now())
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), agentTimeout)
	defer cancel()
	reply, _, err := s.agent.Run(ctx, nil, prompt)
	return reply, err
}

func (s *Scheduler) deliver(label, content string) {
	// Try DM first
	if s.dmSend != nil {
		userID, err := s.db.GetNote("discord_user_id")
		if err == nil && userID != "" {
			if err := s.dmSend(userID, content); err != nil {
				log.Printf("%s: DM send failed: %v", label, err)
			} else {
				return
			}
		}
	}
	// Fall back to webhook
	if s.webhookURL != "" {
		if err := postWebhook(s.webhookURL, content); err != nil {
			log.Printf("%s: webhook failed: %v", label, err)
		}
		return
	}
	log.Printf("%s: no delivery method available (no DM user and no webhook)", label)
}

func postWebhook(url, content string) error {
	body, _ := json.Marshal(map[string]string{"content": content}) // map[string]string marshal cannot fail
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
