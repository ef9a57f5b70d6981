package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port             int
	NatsURL          string
	NatsToken        string
	LogLevel         string
	APIToken         string
	SentimentBackend string
	AnthropicAPIKey  string
	AnthropicModel   string
	ScorerWorkers    int
	MaxUploadBytes   int
	SlackBotToken    string
	SlackChannel     string
}

func Load() Config {
	return Config{
		Port:             envInt("VIBECHECK_PORT", 8760),
		NatsURL:          envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:        envStr("NATS_TOKEN", ""),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		APIToken:         envStr("VIBECHECK_API_TOKEN", ""),
		SentimentBackend: envStr("SENTIMENT_BACKEND", "vader"),
		AnthropicAPIKey:  envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   envStr("VIBECHECK_MODEL", "claude-sonnet-4-20250514"),
		ScorerWorkers:    envInt("SCORER_WORKERS", 4),
		MaxUploadBytes:   envInt("MAX_UPLOAD_BYTES", 20<<20),
		SlackBotToken:    envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:     envStr("SLACK_CHANNEL", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
