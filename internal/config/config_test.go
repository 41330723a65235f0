package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8760 {
		t.Errorf("expected default port 8760, got %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.VoiceBaseURL != "https://api.vapi.ai" {
		t.Errorf("unexpected voice base URL %q", cfg.VoiceBaseURL)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("expected 5m sweep interval, got %s", cfg.SweepInterval)
	}
	if cfg.RefreshDebounce != 10*time.Minute {
		t.Errorf("expected 10m refresh debounce, got %s", cfg.RefreshDebounce)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONCIERGE_PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("ASSISTANT_STAGE_2", "asst-brand")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("unexpected database URL %q", cfg.DatabaseURL)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("expected 30s sweep interval, got %s", cfg.SweepInterval)
	}
	if cfg.AssistantStage2 != "asst-brand" {
		t.Errorf("unexpected stage 2 assistant %q", cfg.AssistantStage2)
	}
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("CONCIERGE_PORT", "not-a-number")
	t.Setenv("SWEEP_INTERVAL", "soon")

	cfg := Load()

	if cfg.Port != 8760 {
		t.Errorf("bad port value should fall back to 8760, got %d", cfg.Port)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("bad interval should fall back to 5m, got %s", cfg.SweepInterval)
	}
}

func TestAssistantStageLookups(t *testing.T) {
	cfg := Config{
		AssistantStage1: "asst-1",
		AssistantStage2: "asst-2",
		AssistantStage3: "asst-3",
		AssistantStage4: "asst-4",
	}

	for stage := 1; stage <= 4; stage++ {
		id := cfg.AssistantForStage(stage)
		if id == "" {
			t.Fatalf("no assistant for stage %d", stage)
		}
		if got := cfg.StageForAssistant(id); got != stage {
			t.Errorf("StageForAssistant(%q) = %d, want %d", id, got, stage)
		}
	}

	if cfg.AssistantForStage(5) != "" {
		t.Error("out-of-range stage should have no assistant")
	}
	if cfg.StageForAssistant("") != 0 {
		t.Error("empty assistant ID should map to stage 0")
	}
	if cfg.StageForAssistant("asst-unknown") != 0 {
		t.Error("unknown assistant ID should map to stage 0")
	}
}
