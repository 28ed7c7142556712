package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chris/daycontrol/internal/agent"
	"github.com/chris/daycontrol/internal/daybook"
	"github.com/chris/daycontrol/internal/db"
	"github.com/chris/daycontrol/internal/llm"
	"github.com/chris/daycontrol/internal/planner"
)

// webhookRecorder is a test Discord webhook endpoint.
type webhookRecorder struct {
	mu       sync.Mutex
	messages []string
	status   int
}

func (w *webhookRecorder) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	var payload map[string]string
	json.NewDecoder(r.Body).Decode(&payload)
	w.mu.Lock()
	w.messages = append(w.messages, payload["content"])
	w.mu.Unlock()
	if w.status != 0 {
		rw.WriteHeader(w.status)
	}
}

func (w *webhookRecorder) got() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.messages...)
}

type fixedClient struct {
	reply string
	err   error
}

func (c fixedClient) Chat(context.Context, string, []llm.Message, []llm.Tool) (*llm.Response, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Response{Content: c.reply}, nil
}

func setup(t *testing.T, client llm.Client) (*Scheduler, *db.DB, *webhookRecorder) {
	t.Helper()
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	hook := &webhookRecorder{}
	srv := httptest.NewServer(hook)
	t.Cleanup(srv.Close)

	book := daybook.New(d, time.UTC)
	var ag *agent.Agent
	if client != nil {
		ag = agent.New(d, book, client, 24000)
	}
	return New(book, d, ag, srv.URL, nil), d, hook
}

func startToday(t *testing.T, s *Scheduler, tasks ...string) {
	t.Helper()
	st, err := planner.NewState(8, 7, tasks)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if _, err := s.book.Start("", st); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func TestRunMorning_DeliversPlan(t *testing.T) {
	s, d, hook := setup(t, nil)
	startToday(t, s, "A", "B", "C", "D")

	s.runMorning()

	msgs := hook.got()
	if len(msgs) != 1 || msgs[0] != "Focus deeply on: A, B, C" {
		t.Fatalf("unexpected webhook messages: %q", msgs)
	}
	last, err := d.GetLastCheckIn()
	if err != nil || last == nil {
		t.Fatalf("expected a check-in, got (%v, %v)", last, err)
	}
	if last.Phase != agent.PhaseMorning || last.Message != msgs[0] {
		t.Errorf("unexpected check-in %+v", last)
	}

	// A planned day is not planned again.
	s.runMorning()
	if n := len(hook.got()); n != 1 {
		t.Errorf("expected no second delivery, got %d", n)
	}
}

func TestRunMorning_NoDay(t *testing.T) {
	s, d, hook := setup(t, nil)
	s.runMorning()
	if len(hook.got()) != 0 {
		t.Error("expected nothing delivered without a recorded day")
	}
	if last, _ := d.GetLastCheckIn(); last != nil {
		t.Errorf("unexpected check-in %+v", last)
	}
}

func TestRunEvening_DeliversScore(t *testing.T) {
	s, _, hook := setup(t, nil)
	startToday(t, s, "A", "B")
	s.runMorning()
	s.book.Complete("", "A")
	s.book.Complete("", "B")

	s.runEvening()
	msgs := hook.got()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 deliveries, got %q", msgs)
	}
	if want := "Score: 100%. " + planner.SuggestIncrease; msgs[1] != want {
		t.Errorf("expected %q, got %q", want, msgs[1])
	}

	s.runEvening()
	if n := len(hook.got()); n != 2 {
		t.Errorf("expected reviewed day to be skipped, got %d deliveries", n)
	}
}

func TestAnnounce_UsesAgentReply(t *testing.T) {
	s, _, hook := setup(t, fixedClient{reply: "Good morning! Focus deeply on: A"})
	startToday(t, s, "A")
	s.runMorning()
	if msgs := hook.got(); len(msgs) != 1 || !strings.HasPrefix(msgs[0], "Good morning!") {
		t.Errorf("expected agent reply, got %q", msgs)
	}
}

func TestAnnounce_FallsBackOnAgentError(t *testing.T) {
	s, _, hook := setup(t, fixedClient{err: errors.New("overloaded")})
	startToday(t, s, "A")
	s.runMorning()
	if msgs := hook.got(); len(msgs) != 1 || msgs[0] != "Focus deeply on: A" {
		t.Errorf("expected raw suggestion, got %q", msgs)
	}
}

func TestDeliver_PrefersDM(t *testing.T) {
	s, d, hook := setup(t, nil)
	var dmUser, dmContent string
	s.dmSend = func(userID, content string) error {
		dmUser, dmContent = userID, content
		return nil
	}

	// Without a known user the webhook is used.
	s.deliver("test", "first")
	if dmContent != "" || len(hook.got()) != 1 {
		t.Fatalf("expected webhook delivery, got dm=%q webhook=%q", dmContent, hook.got())
	}

	d.SetNote("discord_user_id", "u123")
	s.deliver("test", "second")
	if dmUser != "u123" || dmContent != "second" {
		t.Errorf("expected DM to u123, got %q %q", dmUser, dmContent)
	}
	if len(hook.got()) != 1 {
		t.Error("webhook should not be used when DM succeeds")
	}

	s.dmSend = func(string, string) error { return errors.New("blocked") }
	s.deliver("test", "third")
	if msgs := hook.got(); len(msgs) != 2 || msgs[1] != "third" {
		t.Errorf("expected webhook fallback after DM failure, got %q", msgs)
	}
}

func TestPostWebhook_Status(t *testing.T) {
	srv := httptest.NewServer(&webhookRecorder{status: http.StatusTooManyRequests})
	defer srv.Close()
	if err := postWebhook(srv.URL, "hi"); err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestStart_InvalidCron(t *testing.T) {
	s, _, _ := setup(t, nil)
	if err := s.Start("not a cron", "0 21 * * *"); err == nil {
		t.Error("expected error for invalid morning cron")
	}
	if err := s.Start("0 8 * * *", "61 * * * *"); err == nil {
		t.Error("expected error for invalid evening cron")
	}
}

func TestStartStop(t *testing.T) {
	s, _, _ := setup(t, nil)
	if err := s.Start("0 8 * * *", "0 21 * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if n := len(s.cron.Entries()); n != 2 {
		t.Errorf("expected 2 cron entries, got %d", n)
	}
	s.Stop()
}
