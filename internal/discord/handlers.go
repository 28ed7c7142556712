package discord

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/daycontrol/internal/llm"
)

const maxMessageLen = 2000

// histories holds per-channel conversation history, capped to the agent's
// context budget.
type histories struct {
	mu        sync.Mutex
	byChannel map[string][]llm.Message
	maxTokens int
}

func newHistories(maxTokens int) *histories {
	return &histories{byChannel: make(map[string][]llm.Message), maxTokens: maxTokens}
}

func (h *histories) get(channelID string) []llm.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.byChannel[channelID]
}

func (h *histories) set(channelID string, messages []llm.Message) {
	messages = llm.TrimMessages(messages, h.maxTokens)
	h.mu.Lock()
	h.byChannel[channelID] = messages
	h.mu.Unlock()
}

func (h *histories) reset(channelID string) {
	h.mu.Lock()
	delete(h.byChannel, channelID)
	h.mu.Unlock()
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author.ID == s.State.User.ID {
		return
	}

	// Only respond to DMs or when mentioned
	isDM := m.GuildID == ""
	isMentioned := false
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}
	if !isDM && !isMentioned {
		return
	}

	// Remember who to DM for scheduled check-ins.
	if isDM {
		if err := b.db.SetNote("discord_user_id", m.Author.ID); err != nil {
			log.Printf("discord: saving user id: %v", err)
		}
	}

	content := strings.TrimSpace(stripMention(m.Content, s.State.User.ID))
	if content == "" {
		return
	}
	if strings.EqualFold(content, "reset") {
		b.history.reset(m.ChannelID)
		s.ChannelMessageSend(m.ChannelID, "Conversation cleared.")
		return
	}

	s.ChannelTyping(m.ChannelID)

	reply, newHistory, err := b.agent.Run(context.Background(), b.history.get(m.ChannelID), content)
	if err != nil {
		log.Printf("agent error: %v", err)
		s.ChannelMessageSend(m.ChannelID, "Something went wrong. Try again?")
		return
	}
	b.history.set(m.ChannelID, newHistory)

	for _, chunk := range splitMessage(reply, maxMessageLen) {
		s.ChannelMessageSend(m.ChannelID, chunk)
	}
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	s = strings.ReplaceAll(s, "<@!"+userID+">", "")
	return s
}

// splitMessage breaks s into chunks of at most maxLen bytes, preferring to
// cut after a newline.
func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end > len(s) {
			end = len(s)
		}
		if idx := strings.LastIndex(s[:end], "\n"); idx > 0 && end < len(s) {
			end = idx + 1
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
