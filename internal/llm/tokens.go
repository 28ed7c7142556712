package llm

import "encoding/json"

// Rough budgeting figures: ~4 characters per token for English text plus a
// small fixed cost for each message and tool frame.
const (
	charsPerToken   = 4
	messageOverhead = 4
	callOverhead    = 4
	toolOverhead    = 10
)

// EstimateTokens returns a rough token count for a string, rounding up.
func EstimateTokens(s string) int {
	return (len(s) + charsPerToken - 1) / charsPerToken
}

func estimateJSON(v any) int {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return EstimateTokens(string(b))
}

// EstimateMessageTokens counts content, tool calls and framing for one message.
func EstimateMessageTokens(m Message) int {
	n := messageOverhead + EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		n += callOverhead + EstimateTokens(tc.Name) + estimateJSON(tc.Params)
	}
	if m.IsToolResult() {
		n += EstimateTokens(m.ToolCallID) + 2
	}
	return n
}

// EstimateMessagesTokens sums EstimateMessageTokens over messages.
func EstimateMessagesTokens(messages []Message) int {
	n := 0
	for _, m := range messages {
		n += EstimateMessageTokens(m)
	}
	return n
}

// EstimateToolsTokens counts tool definitions, which are sent with every request.
func EstimateToolsTokens(tools []Tool) int {
	n := 0
	for _, t := range tools {
		n += toolOverhead + EstimateTokens(t.Name) + EstimateTokens(t.Description) + estimateJSON(t.Parameters)
	}
	return n
}
