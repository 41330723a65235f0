package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	DatabaseURL string
	LogLevel    string

	NatsURL   string
	NatsToken string

	AnthropicAPIKey string
	AnthropicModel  string

	VoiceAPIKey        string
	VoiceBaseURL       string
	VoicePhoneNumberID string
	VoiceWebhookSecret string

	// One assistant per call stage. Stage N's assistant answers the customer's
	// Nth call, so routing a customer forward means reassigning the phone number.
	AssistantStage1 string
	AssistantStage2 string
	AssistantStage3 string
	AssistantStage4 string

	APIToken string

	ChecklistPath string
	PriorityPath  string

	SweepInterval   time.Duration
	RefreshDebounce time.Duration
}

func Load() Config {
	// Best-effort: local dev keeps credentials in a .env file.
	_ = godotenv.Load()

	return Config{
		Port:        envInt("CONCIERGE_PORT", 8760),
		DatabaseURL: envStr("DATABASE_URL", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),

		NatsURL:   envStr("NATS_URL", ""),
		NatsToken: envStr("NATS_TOKEN", ""),

		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("CONCIERGE_MODEL", "claude-sonnet-4-20250514"),

		VoiceAPIKey:        envStr("VOICE_API_KEY", ""),
		VoiceBaseURL:       envStr("VOICE_BASE_URL", "https://api.vapi.ai"),
		VoicePhoneNumberID: envStr("VOICE_PHONE_NUMBER_ID", ""),
		VoiceWebhookSecret: envStr("VOICE_WEBHOOK_SECRET", ""),

		AssistantStage1: envStr("ASSISTANT_STAGE_1", ""),
		AssistantStage2: envStr("ASSISTANT_STAGE_2", ""),
		AssistantStage3: envStr("ASSISTANT_STAGE_3", ""),
		AssistantStage4: envStr("ASSISTANT_STAGE_4", ""),

		APIToken: envStr("CONCIERGE_API_TOKEN", ""),

		ChecklistPath: envStr("CHECKLIST_PATH", ""),
		PriorityPath:  envStr("PRIORITY_PATH", ""),

		SweepInterval:   envDuration("SWEEP_INTERVAL", 5*time.Minute),
		RefreshDebounce: envDuration("REFRESH_DEBOUNCE", 10*time.Minute),
	}
}

// AssistantForStage returns the configured assistant ID for a call stage.
func (c Config) AssistantForStage(stage int) string {
	switch stage {
	case 1:
		return c.AssistantStage1
	case 2:
		return c.AssistantStage2
	case 3:
		return c.AssistantStage3
	case 4:
		return c.AssistantStage4
	}
	return ""
}

// StageForAssistant is the inverse lookup, used to pin a call-end event to the
// stage whose assistant handled it.
func (c Config) StageForAssistant(assistantID string) int {
	if assistantID == "" {
		return 0
	}
	for stage := 1; stage <= 4; stage++ {
		if c.AssistantForStage(stage) == assistantID {
			return stage
		}
	}
	return 0
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
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
