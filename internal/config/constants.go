package config

import "time"

// Environment variable names.
const (
	EnvServerPort = "SERVER_PORT"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFormat  = "LOG_FORMAT"
	EnvAdminToken = "ADMIN_TOKEN"

	EnvStoreBackend = "STORE_BACKEND"
	EnvDataDir      = "DATA_DIR"

	EnvGitHubToken   = "GITHUB_TOKEN"
	EnvGitHubRepo    = "GITHUB_REPO"
	EnvGitHubBranch  = "GITHUB_BRANCH"
	EnvGitHubBaseURL = "GITHUB_API_BASE_URL"
	EnvGitHubTimeout = "GITHUB_TIMEOUT"
	EnvGitHubRetries = "GITHUB_MAX_RETRIES"

	EnvCacheGamesTTL        = "CACHE_GAMES_TTL"
	EnvCacheWithoutStatsTTL = "CACHE_WITHOUT_STATS_TTL"
	EnvCachePerLeagueLimit  = "CACHE_PER_LEAGUE_LIMIT"
	EnvCacheGlobalLimit     = "CACHE_GLOBAL_LIMIT"

	EnvReloadInterval = "RELOAD_INTERVAL"

	EnvMetricsEnabled      = "METRICS_ENABLED"
	EnvMetricsOTLPEndpoint = "METRICS_OTLP_ENDPOINT"
)

// Defaults applied when the environment leaves a knob unset.
const (
	DefaultServerPort = "8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"

	DefaultStoreBackend = "github"
	DefaultDataDir      = "data"

	DefaultGitHubBranch  = "main"
	DefaultGitHubBaseURL = "https://api.github.com"
	DefaultGitHubTimeout = 15 * time.Second
	DefaultGitHubRetries = 3

	DefaultGamesTTL        = 60 * time.Second
	DefaultWithoutStatsTTL = 30 * time.Second
	DefaultPerLeagueLimit  = 5
	DefaultGlobalLimit     = 10

	DefaultReloadInterval = 5 * time.Minute
)
