package configparser

import (
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Host string        `env:"TESTCFG_SERVER_HOST" default:"localhost"`
		Port int           `env:"TESTCFG_SERVER_PORT" default:"8080"`
		TTL  time.Duration `env:"TESTCFG_SERVER_TTL" default:"15m"`
	}
	Debug bool `env:"TESTCFG_DEBUG" default:"false"`
}

func TestParseEnv_Defaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Fatalf("defaults not applied: %+v", cfg.Server)
	}
	if cfg.Server.TTL != 15*time.Minute {
		t.Fatalf("duration default not applied: %v", cfg.Server.TTL)
	}
}

func TestParseEnv_EnvOverridesDefault(t *testing.T) {
	t.Setenv("TESTCFG_SERVER_PORT", "9191")
	t.Setenv("TESTCFG_DEBUG", "true")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Fatalf("env var should override default, got %d", cfg.Server.Port)
	}
	if !cfg.Debug {
		t.Fatalf("bool env var not applied")
	}
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(cfg); err == nil {
		t.Fatalf("expected error for non-pointer argument")
	}
}
