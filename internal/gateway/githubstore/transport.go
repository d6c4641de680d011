package githubstore

import (
	"net/http"
	"strings"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

func resolveBranch(branch string) string {
	if branch == "" {
		return defaultBranch
	}
	return branch
}

func resolveMaxRetries(n int) int {
	if n <= 0 {
		return defaultMaxRetries
	}
	return n
}
