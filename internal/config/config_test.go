package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ROLLCALL_PORT", "LOG_LEVEL", "ROLLCALL_CONFIG", "MATCH_THRESHOLD", "DEFAULT_YEAR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8760 {
		t.Errorf("expected default port 8760, got %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.MatchThreshold != 0.85 {
		t.Errorf("expected default threshold 0.85, got %v", cfg.MatchThreshold)
	}
	if cfg.DefaultYear != 2025 {
		t.Errorf("expected default year 2025, got %d", cfg.DefaultYear)
	}
	if len(cfg.Rules.SeniorityHints) == 0 {
		t.Error("expected built-in seniority hints")
	}
	if cfg.Rules.SpeakerMaxLen != 20 {
		t.Errorf("expected speaker max len 20, got %d", cfg.Rules.SpeakerMaxLen)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("ROLLCALL_PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MATCH_THRESHOLD", "0.86")
	t.Setenv("DEFAULT_YEAR", "2024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.MatchThreshold != 0.86 {
		t.Errorf("expected threshold 0.86, got %v", cfg.MatchThreshold)
	}
	if cfg.DefaultYear != 2024 {
		t.Errorf("expected year 2024, got %d", cfg.DefaultYear)
	}
}

func TestLoad_RulesFileOverridesNamedSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := []byte("seniority_hints:\n  - 0~3年\n  - 實習生\nspeaker_max_len: 30\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROLLCALL_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Rules.SeniorityHints) != 2 || cfg.Rules.SeniorityHints[0] != "0~3年" {
		t.Errorf("seniority hints not overridden: %v", cfg.Rules.SeniorityHints)
	}
	if cfg.Rules.SpeakerMaxLen != 30 {
		t.Errorf("speaker max len not overridden: %d", cfg.Rules.SpeakerMaxLen)
	}
	// Sections the file did not name keep their defaults.
	if len(cfg.Rules.NoticePatterns) == 0 {
		t.Error("notice patterns lost their defaults")
	}
	if len(cfg.Rules.DateColumns) == 0 {
		t.Error("date columns lost their defaults")
	}
}

func TestLoad_BadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROLLCALL_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed rules file")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("ROLLCALL_PORT", "notanumber")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8760 {
		t.Errorf("expected default port on invalid value, got %d", cfg.Port)
	}
}
