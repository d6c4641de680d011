package githubstore

import "time"

const (
	defaultBaseURL     = "https://api.github.com"
	defaultBranch      = "main"
	defaultHTTPTimeout = 15 * time.Second
	defaultMaxRetries  = 3

	acceptHeader     = "application/vnd.github+json"
	apiVersionHeader = "2022-11-28"
)
