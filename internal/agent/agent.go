package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/chris/daycontrol/internal/daybook"
	"github.com/chris/daycontrol/internal/db"
	"github.com/chris/daycontrol/internal/llm"
	"github.com/chris/daycontrol/internal/planner"
)

const (
	maxToolRounds      = 10
	maxToolResultChars = 1500
	minMessageBudget   = 1000
)

type Agent struct {
	db               *db.DB
	book             *daybook.Book
	client           llm.Client
	MaxContextTokens int
}

func New(database *db.DB, book *daybook.Book, client llm.Client, maxContextTokens int) *Agent {
	return &Agent{db: database, book: book, client: client, MaxContextTokens: maxContextTokens}
}

// Run takes a user message, runs the tool-calling loop, and returns the final
// text response along with the updated history.
func (a *Agent) Run(ctx context.Context, history []llm.Message, userMessage string) (string, []llm.Message, error) {
	messages := make([]llm.Message, len(history), len(history)+1)
	copy(messages, history)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})

	system := llm.SystemPrompt(a.book.Now())
	budget := a.MaxContextTokens - llm.EstimateTokens(system) - llm.EstimateToolsTokens(llm.AgentTools)
	if budget < minMessageBudget {
		budget = minMessageBudget
	}

	for i := 0; i < maxToolRounds; i++ {
		window := llm.TrimMessages(llm.TruncateToolResults(messages, maxToolResultChars), budget)
		if len(window) < len(messages) {
			log.Printf("agent: context trimmed %d -> %d messages", len(messages), len(window))
		}
		resp, err := a.client.Chat(ctx, system, window, llm.AgentTools)
		if err != nil {
			return "", nil, fmt.Errorf("llm chat: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
			return resp.Content, messages, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			result, failed := a.executeTool(tc.Name, tc.Params)
			log.Printf("agent: tool %s -> %s", tc.Name, truncate(result, 200))
			messages = append(messages, llm.Message{
				Role:       llm.RoleUser,
				Content:    result,
				ToolCallID: tc.ID,
				IsError:    failed,
			})
		}
	}

	return "I hit the maximum number of tool calls. Here's what I have so far.", messages, nil
}

// executeTool runs one tool and returns its JSON result and whether it failed.
func (a *Agent) executeTool(name string, params map[string]any) (string, bool) {
	var result any
	var err error

	date, _ := getString(params, "date")

	switch name {
	case "get_time":
		now := a.book.Now()
		result = map[string]any{
			"local": now.Format("2006-01-02T15:04:05Z07:00"),
			"utc":   now.UTC().Format("2006-01-02T15:04:05Z"),
			"date":  now.Format("2006-01-02"),
			"day":   now.Weekday().String(),
		}

	case "get_day":
		var day *db.Day
		day, err = a.book.Get(date)
		if err == nil && day == nil {
			result = map[string]any{"day": nil, "message": "no day recorded for this date"}
		} else if err == nil {
			result = day
		}

	case "start_day":
		var s planner.State
		s, err = stateFromParams(params)
		if err == nil {
			var day *db.Day
			day, err = a.book.Start(date, s)
			if err == nil {
				result = map[string]any{"date": day.Date, "status": "recorded", "tasks": day.Tasks}
			}
		}

	case "plan_morning":
		var day *db.Day
		day, err = a.book.Morning(date)
		if err == nil {
			result = map[string]any{
				"date":           day.Date,
				"selected_tasks": day.SelectedTasks,
				"suggestion":     day.Suggestion,
			}
		}

	case "complete_task":
		task, _ := getString(params, "task")
		var day *db.Day
		day, err = a.book.Complete(date, task)
		if err == nil {
			result = map[string]any{"status": "completed", "completed_tasks": day.CompletedTasks}
		}

	case "log_distraction":
		text, _ := getString(params, "distraction")
		var day *db.Day
		day, err = a.book.Distract(date, text)
		if err == nil {
			result = map[string]any{"status": "logged", "distractions": day.Distractions}
		}

	case "review_evening":
		var day *db.Day
		day, err = a.book.Evening(date)
		if err == nil {
			result = map[string]any{
				"date":            day.Date,
				"score":           day.Score,
				"suggestion":      day.Suggestion,
				"selected_tasks":  day.SelectedTasks,
				"completed_tasks": day.CompletedTasks,
				"distractions":    day.Distractions,
			}
		}

	case "list_days":
		limit, _ := getInt(params, "limit")
		var days []db.Day
		days, err = a.book.Recent(int(limit))
		if err == nil {
			summaries := make([]map[string]any, 0, len(days))
			for _, d := range days {
				summaries = append(summaries, map[string]any{
					"date":       d.Date,
					"planned":    d.Planned(),
					"reviewed":   d.Reviewed(),
					"score":      d.Score,
					"suggestion": d.Suggestion,
					"selected":   len(d.SelectedTasks),
					"completed":  len(d.CompletedTasks),
				})
			}
			result = summaries
		}

	case "get_note":
		key, _ := getString(params, "key")
		var val string
		val, err = a.db.GetNote(key)
		if err == nil && val == "" {
			result = map[string]any{"value": nil, "message": "no note found for this key"}
		} else if err == nil {
			result = map[string]any{"value": val}
		}

	case "set_note":
		key, _ := getString(params, "key")
		value, _ := getString(params, "value")
		err = a.db.SetNote(key, value)
		if err == nil {
			result = map[string]any{"status": "saved"}
		}

	default:
		err = fmt.Errorf("unknown tool: %s", name)
	}

	if err != nil {
		result = map[string]any{"error": err.Error()}
	}

	b, _ := json.Marshal(result) // results are maps, slices, or db.Day; marshal cannot fail
	return string(b), err != nil
}

// stateFromParams builds the start-of-day state from start_day arguments.
func stateFromParams(params map[string]any) (planner.State, error) {
	energy, ok := getInt(params, "energy_level")
	if !ok {
		return planner.State{}, fmt.Errorf("energy_level must be an integer")
	}
	sleep, ok := getFloat(params, "sleep_hours")
	if !ok {
		return planner.State{}, fmt.Errorf("sleep_hours must be a number")
	}
	tasks, _ := getStrings(params, "tasks")
	return planner.NewState(int(energy), sleep, tasks)
}

// Param extraction helpers. LLMs send numbers as float64 in JSON.
func getInt(params map[string]any, key string) (int64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func getFloat(params map[string]any, key string) (float64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func getString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// getStrings accepts a JSON array of strings, skipping blank entries.
func getStrings(params map[string]any, key string) ([]string, bool) {
	v, ok := params[key]
	if !ok {
		return nil, false
	}
	var out []string
	switch arr := v.(type) {
	case []any:
		for _, item := range arr {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range arr {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	default:
		return nil, false
	}
	return out, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
