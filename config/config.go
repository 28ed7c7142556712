package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LLMProvider      string // anthropic, openai, groq, ollama
	AnthropicKey     string // API key (X-Api-Key header)
	AnthropicToken   string // OAuth token (Authorization: Bearer header)
	OpenAIKey        string
	GroqKey          string
	LLMModel         string
	OllamaBaseURL    string
	DiscordToken     string
	DiscordWebhook   string
	DatabasePath     string
	MorningCron      string
	EveningCron      string
	MaxContextTokens int
	Location         *time.Location
}

// ConfigDir is where the installed service keeps its environment file.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".daycontrol")
}

// ConfigFile is the installed service's environment file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config")
}

// Load reads ./.env and then ~/.daycontrol/config. Variables already set in
// the environment win over both files.
func Load() *Config {
	_ = godotenv.Load()             // ignore error if no .env
	_ = godotenv.Load(ConfigFile()) // ignore error if not installed

	return &Config{
		LLMProvider:      envOr("LLM_PROVIDER", "anthropic"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken:   os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		GroqKey:          os.Getenv("GROQ_API_KEY"),
		LLMModel:         os.Getenv("LLM_MODEL"),
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		DiscordToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordWebhook:   os.Getenv("DISCORD_WEBHOOK_URL"),
		DatabasePath:     envOr("DATABASE_PATH", "./daycontrol.db"),
		MorningCron:      envOr("MORNING_CRON", "0 8 * * *"),
		EveningCron:      envOr("EVENING_CRON", "0 21 * * *"),
		MaxContextTokens: envInt("MAX_CONTEXT_TOKENS", 24000),
		Location:         envLocation("TIMEZONE"),
	}
}

// APIKey returns the key matching the configured provider.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIKey
	case "groq":
		return c.GroqKey
	default:
		return c.AnthropicKey
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envLocation(key string) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
