package llm

import (
	"strings"
	"testing"
)

func TestTrimMessages_UnderBudget(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	}
	if got := TrimMessages(msgs, 100000); len(got) != 2 {
		t.Errorf("expected 2 messages unchanged, got %d", len(got))
	}
}

func TestTrimMessages_Empty(t *testing.T) {
	if got := TrimMessages(nil, 100); len(got) != 0 {
		t.Errorf("expected 0 messages, got %d", len(got))
	}
}

func TestTrimMessages_DropsOldestFirst(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "energy 7, slept 8h, tasks: api, gym"},
		{Role: RoleAssistant, Content: "Focus deeply on: api, gym"},
		{Role: RoleUser, Content: "finished the api"},
		{Role: RoleAssistant, Content: "Marked api as done."},
		{Role: RoleUser, Content: "how did I do?"},
		{Role: RoleAssistant, Content: "Score 50."},
	}

	got := TrimMessages(msgs, EstimateMessagesTokens(msgs[2:]))
	if len(got) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(got))
	}
	if got[0].Content != "finished the api" {
		t.Errorf("expected oldest pair dropped, first message is %q", got[0].Content)
	}
	if got[len(got)-1].Content != "Score 50." {
		t.Errorf("expected newest message kept, got %q", got[len(got)-1].Content)
	}
}

func TestTrimMessages_KeepsToolCallsWithResults(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "old question"},
		{Role: RoleAssistant, Content: "old answer"},
		{Role: RoleUser, Content: "what's my plan?"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "get_day", Params: map[string]any{}}}},
		{Role: RoleUser, Content: `{"selected_tasks":["api"]}`, ToolCallID: "call_1"},
		{Role: RoleAssistant, Content: "Focus on the api."},
	}

	// One token short of keeping the tool exchange: the whole exchange must go.
	budget := EstimateMessagesTokens(msgs[3:]) - 1
	got := TrimMessages(msgs, budget)

	if len(got) != 1 || got[0].Content != "Focus on the api." {
		t.Fatalf("expected only the final answer, got %+v", got)
	}
	for _, m := range got {
		if m.IsToolResult() {
			t.Error("tool result kept without its call")
		}
	}
}

func TestTrimMessages_AlwaysKeepsLastTurn(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "earlier"},
		{Role: RoleUser, Content: strings.Repeat("x", 10000)},
	}
	got := TrimMessages(msgs, 1)
	if len(got) != 1 || got[0].Content != msgs[1].Content {
		t.Errorf("expected only the last turn, got %d messages", len(got))
	}
}

func TestSplitTurns(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "c1", Name: "complete_task"},
			{ID: "c2", Name: "review_evening"},
		}},
		{Role: RoleUser, Content: `{}`, ToolCallID: "c1"},
		{Role: RoleUser, Content: `{}`, ToolCallID: "c2"},
		{Role: RoleAssistant, Content: "a2"},
	}

	turns := splitTurns(msgs)
	if len(turns) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(turns))
	}
	if turns[3].start != 3 || turns[4].start != 6 {
		t.Errorf("unexpected turn starts: %d, %d", turns[3].start, turns[4].start)
	}
	want := EstimateMessagesTokens(msgs[3:6])
	if turns[3].tokens != want {
		t.Errorf("tool turn tokens = %d, want %d", turns[3].tokens, want)
	}
}

// --- TruncateToolResults ---

func TestTruncateToolResults(t *testing.T) {
	long := strings.Repeat("a", 2000)
	msgs := []Message{
		{Role: RoleUser, Content: long},
		{Role: RoleUser, Content: long, ToolCallID: "c1"},
		{Role: RoleUser, Content: "short", ToolCallID: "c2"},
	}
	got := TruncateToolResults(msgs, 1500)

	if got[0].Content != long {
		t.Error("plain user message should not be truncated")
	}
	if want := strings.Repeat("a", 1500) + TruncatedSuffix; got[1].Content != want {
		t.Errorf("expected truncated result, got %d chars", len(got[1].Content))
	}
	if got[2].Content != "short" {
		t.Errorf("short result changed: %q", got[2].Content)
	}
	if msgs[1].Content != long {
		t.Error("input slice was modified")
	}
}
