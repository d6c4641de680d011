package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvServerPort, "")
	t.Setenv(EnvStoreBackend, "")
	t.Setenv(EnvCacheGamesTTL, "")
	t.Setenv(EnvGitHubRetries, "")

	cfg := Load()
	if cfg.ServerPort != DefaultServerPort {
		t.Fatalf("unexpected port: %s", cfg.ServerPort)
	}
	if cfg.Store.Backend != DefaultStoreBackend {
		t.Fatalf("unexpected backend: %s", cfg.Store.Backend)
	}
	if cfg.Cache.GamesTTL != DefaultGamesTTL {
		t.Fatalf("unexpected games TTL: %s", cfg.Cache.GamesTTL)
	}
	if cfg.Store.GitHub.MaxRetries != DefaultGitHubRetries {
		t.Fatalf("unexpected retries: %d", cfg.Store.GitHub.MaxRetries)
	}
	if cfg.ReloadInterval != DefaultReloadInterval {
		t.Fatalf("unexpected reload interval: %s", cfg.ReloadInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvServerPort, "9090")
	t.Setenv(EnvStoreBackend, "local")
	t.Setenv(EnvGitHubRepo, "league/records")
	t.Setenv(EnvCacheGamesTTL, "90s")
	t.Setenv(EnvCachePerLeagueLimit, "7")
	t.Setenv(EnvReloadInterval, "1m")

	cfg := Load()
	if cfg.ServerPort != "9090" {
		t.Fatalf("unexpected port: %s", cfg.ServerPort)
	}
	if cfg.Store.Backend != "local" {
		t.Fatalf("unexpected backend: %s", cfg.Store.Backend)
	}
	if cfg.Store.GitHub.Repo != "league/records" {
		t.Fatalf("unexpected repo: %s", cfg.Store.GitHub.Repo)
	}
	if cfg.Cache.GamesTTL != 90*time.Second {
		t.Fatalf("unexpected games TTL: %s", cfg.Cache.GamesTTL)
	}
	if cfg.Cache.PerLeagueLimit != 7 {
		t.Fatalf("unexpected per-league limit: %d", cfg.Cache.PerLeagueLimit)
	}
	if cfg.ReloadInterval != time.Minute {
		t.Fatalf("unexpected reload interval: %s", cfg.ReloadInterval)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv(EnvCacheGamesTTL, "soon")
	t.Setenv(EnvCacheWithoutStatsTTL, "-10s")
	t.Setenv(EnvGitHubRetries, "-1")
	t.Setenv(EnvCacheGlobalLimit, "lots")

	cfg := Load()
	if cfg.Cache.GamesTTL != DefaultGamesTTL {
		t.Fatalf("bad duration must fall back, got %s", cfg.Cache.GamesTTL)
	}
	if cfg.Cache.WithoutStatsTTL != DefaultWithoutStatsTTL {
		t.Fatalf("negative duration must fall back, got %s", cfg.Cache.WithoutStatsTTL)
	}
	if cfg.Store.GitHub.MaxRetries != DefaultGitHubRetries {
		t.Fatalf("negative retries must fall back, got %d", cfg.Store.GitHub.MaxRetries)
	}
	if cfg.Cache.GlobalLimit != DefaultGlobalLimit {
		t.Fatalf("bad int must fall back, got %d", cfg.Cache.GlobalLimit)
	}
}

func TestBoolEnvOrDefault(t *testing.T) {
	t.Setenv(EnvMetricsEnabled, "true")
	if !boolEnvOrDefault(EnvMetricsEnabled, false) {
		t.Fatalf("expected true")
	}
	t.Setenv(EnvMetricsEnabled, "nope")
	if boolEnvOrDefault(EnvMetricsEnabled, false) {
		t.Fatalf("unparseable value must fall back")
	}
}
