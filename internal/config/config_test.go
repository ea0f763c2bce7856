package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestConfigNew_Defaults(t *testing.T) {
	for _, key := range []string{"DRY_AI_SERVER", "DRY_AI_TOKEN", "DRY_AI_VERBOSE", "DRY_AI_TIMEOUT", "DRY_AI_READ_RETRIES", "DRY_AI_LOG_LEVEL"} {
		_ = os.Unsetenv(key)
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.ServerURL != "https://dry.ai" || cfg.Timeout != 30*time.Second || cfg.ReadRetries != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.VerboseEnabled() {
		t.Fatalf("verbose should default off")
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Fatalf("unexpected default level: %v", cfg.Level())
	}
}

func TestConfigNew_EnvOverride(t *testing.T) {
	_ = os.Setenv("DRY_AI_SERVER", "https://staging.dry.ai")
	_ = os.Setenv("DRY_AI_TIMEOUT", "5s")
	_ = os.Setenv("DRY_AI_READ_RETRIES", "2")
	defer func() {
		_ = os.Unsetenv("DRY_AI_SERVER")
		_ = os.Unsetenv("DRY_AI_TIMEOUT")
		_ = os.Unsetenv("DRY_AI_READ_RETRIES")
	}()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.ServerURL != "https://staging.dry.ai" || cfg.Timeout != 5*time.Second || cfg.ReadRetries != 2 {
		t.Fatalf("env override failed: %+v", cfg)
	}
}

func TestConfigVerboseEnabled(t *testing.T) {
	cases := map[string]bool{
		"true": true, "1": true, "yes": true, "YES": true,
		"": false, "false": false, "0": false, "on": false,
	}
	for in, want := range cases {
		cfg := &Config{Verbose: in}
		if got := cfg.VerboseEnabled(); got != want {
			t.Fatalf("VerboseEnabled(%q): got=%v want=%v", in, got, want)
		}
	}
}

func TestConfigLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"DEBUG": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"junk":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		if got := cfg.Level(); got != want {
			t.Fatalf("Level(%q): got=%v want=%v", in, got, want)
		}
	}
}

func TestConfigClientOptions(t *testing.T) {
	cfg := &Config{ServerURL: "https://dry.ai", Timeout: 10 * time.Second, Token: "tok"}
	if got := len(cfg.ClientOptions()); got != 6 {
		t.Fatalf("option count unexpected: %d", got)
	}
	bare := &Config{ServerURL: "https://dry.ai", Timeout: 10 * time.Second}
	if got := len(bare.ClientOptions()); got != 5 {
		t.Fatalf("option count unexpected: %d", got)
	}
}
