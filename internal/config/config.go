package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int
	NatsURL          string
	NatsToken        string
	DatabaseURL      string
	LogLevel         string
	AnthropicAPIKey  string
	AnthropicModel   string
	LLMTimeout       time.Duration
	WeightsPath      string
	SlackBotToken    string
	SlackChannel     string
	APIToken         string
	BatchConcurrency int
}

func Load() Config {
	return Config{
		Port:             envInt("CLAIMSIGHT_PORT", 8760),
		NatsURL:          envStr("NATS_URL", ""),
		NatsToken:        envStr("NATS_TOKEN", ""),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		AnthropicAPIKey:  envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   envStr("CLAIMSIGHT_MODEL", "claude-sonnet-4-20250514"),
		LLMTimeout:       envDuration("LLM_TIMEOUT", 10*time.Second),
		WeightsPath:      envStr("PREDICTOR_WEIGHTS_PATH", ""),
		SlackBotToken:    envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:     envStr("SLACK_RISK_CHANNEL", ""),
		APIToken:         envStr("CLAIMSIGHT_API_TOKEN", ""),
		BatchConcurrency: envInt("BATCH_CONCURRENCY", 4),
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
