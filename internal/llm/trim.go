package llm

// TruncatedSuffix marks a tool result that was cut to save context.
const TruncatedSuffix = "... [TRUNCATED TO SAVE TOKENS]"

// TrimMessages drops the oldest conversation turns until the history fits in
// maxTokens. A turn is a plain message, or an assistant tool-call message
// together with the tool results that answer it; turns are never split. The
// newest turn is always kept, even when it alone exceeds the budget.
func TrimMessages(messages []Message, maxTokens int) []Message {
	if len(messages) == 0 {
		return messages
	}
	turns := splitTurns(messages)

	used := 0
	keepFrom := len(turns) - 1
	for i := len(turns) - 1; i >= 0; i-- {
		used += turns[i].tokens
		if used > maxTokens && i < len(turns)-1 {
			break
		}
		keepFrom = i
	}
	if keepFrom == 0 {
		return messages
	}
	return messages[turns[keepFrom].start:]
}

// TruncateToolResults returns a copy of messages with every tool result longer
// than max bytes cut down and suffixed with TruncatedSuffix.
func TruncateToolResults(messages []Message, max int) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	for i, m := range out {
		if m.IsToolResult() && len(m.Content) > max {
			out[i].Content = m.Content[:max] + TruncatedSuffix
		}
	}
	return out
}

type turn struct {
	start  int // index of the turn's first message
	tokens int
}

func splitTurns(messages []Message) []turn {
	var turns []turn
	for i := 0; i < len(messages); {
		t := turn{start: i, tokens: EstimateMessageTokens(messages[i])}
		opensCalls := messages[i].Role == RoleAssistant && len(messages[i].ToolCalls) > 0
		i++
		if opensCalls {
			for i < len(messages) && messages[i].IsToolResult() {
				t.tokens += EstimateMessageTokens(messages[i])
				i++
			}
		}
		turns = append(turns, t)
	}
	return turns
}
