package config

import "time"

// Config is the full runtime configuration, read once at startup.
type Config struct {
	ServerPort string
	LogLevel   string
	LogFormat  string
	AdminToken string

	Store   StoreConfig
	Cache   CacheConfig
	Metrics MetricsConfig

	ReloadInterval time.Duration
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend string
	DataDir string
	GitHub  GitHubConfig
}

// GitHubConfig holds credentials and tuning for the GitHub-backed store.
type GitHubConfig struct {
	Token      string
	Repo       string
	Branch     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// CacheConfig holds the TTLs and listing caps for the read-through cache.
type CacheConfig struct {
	GamesTTL        time.Duration
	WithoutStatsTTL time.Duration
	PerLeagueLimit  int
	GlobalLimit     int
}

// Load assembles the configuration from the environment.
func Load() Config {
	return Config{
		ServerPort: envOrDefault(EnvServerPort, DefaultServerPort),
		LogLevel:   envOrDefault(EnvLogLevel, DefaultLogLevel),
		LogFormat:  envOrDefault(EnvLogFormat, DefaultLogFormat),
		AdminToken: envOrDefault(EnvAdminToken, ""),
		Store: StoreConfig{
			Backend: envOrDefault(EnvStoreBackend, DefaultStoreBackend),
			DataDir: envOrDefault(EnvDataDir, DefaultDataDir),
			GitHub: GitHubConfig{
				Token:      envOrDefault(EnvGitHubToken, ""),
				Repo:       envOrDefault(EnvGitHubRepo, ""),
				Branch:     envOrDefault(EnvGitHubBranch, DefaultGitHubBranch),
				BaseURL:    envOrDefault(EnvGitHubBaseURL, DefaultGitHubBaseURL),
				Timeout:    durationEnvOrDefault(EnvGitHubTimeout, DefaultGitHubTimeout),
				MaxRetries: intEnvOrDefault(EnvGitHubRetries, DefaultGitHubRetries),
			},
		},
		Cache: CacheConfig{
			GamesTTL:        durationEnvOrDefault(EnvCacheGamesTTL, DefaultGamesTTL),
			WithoutStatsTTL: durationEnvOrDefault(EnvCacheWithoutStatsTTL, DefaultWithoutStatsTTL),
			PerLeagueLimit:  intEnvOrDefault(EnvCachePerLeagueLimit, DefaultPerLeagueLimit),
			GlobalLimit:     intEnvOrDefault(EnvCacheGlobalLimit, DefaultGlobalLimit),
		},
		Metrics:        loadMetrics(),
		ReloadInterval: durationEnvOrDefault(EnvReloadInterval, DefaultReloadInterval),
	}
}
