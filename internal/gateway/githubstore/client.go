// Package githubstore implements the record store over the GitHub
// contents API. Every document lives as a file in a configured
// repository branch; writes are commits.
package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/gateway"
	"league-admin-service/internal/logging"
)

// Config controls how the client reaches the GitHub API.
type Config struct {
	BaseURL    string
	Token      string
	Repo       string
	Branch     string
	HTTPClient *http.Client
	MaxRetries int
	Logger     *slog.Logger
}

// Client talks to one repository through the contents API.
type Client struct {
	baseURL    string
	token      string
	repo       string
	branch     string
	httpClient httpDoer
	maxRetries int
	logger     *slog.Logger
}

// NewClient constructs a store client for cfg.Repo ("owner/name").
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		token:      cfg.Token,
		repo:       cfg.Repo,
		branch:     resolveBranch(cfg.Branch),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		maxRetries: resolveMaxRetries(cfg.MaxRetries),
		logger:     cfg.Logger,
	}
}

type contentItem struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s",
		c.baseURL, c.repo, path, url.QueryEscape(c.branch))
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersionHeader)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// doWithRetry executes build() per attempt so each retry carries a fresh
// request body. 5xx and 429 responses and transport errors are retried,
// everything else returns immediately.
func (c *Client) doWithRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)

	var resp *http.Response
	operation := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}
		c.setHeaders(req)

		r, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
			body, _ := io.ReadAll(io.LimitReader(r.Body, 512))
			r.Body.Close()
			return fmt.Errorf("githubstore: status %d: %s", r.StatusCode, strings.TrimSpace(string(body)))
		}
		resp = r
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) getFile(ctx context.Context, path string) (contentItem, error) {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(path), nil)
	})
	if err != nil {
		return contentItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return contentItem{}, fmt.Errorf("githubstore: %s: %w", path, gateway.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return contentItem{}, unexpectedStatus(path, resp)
	}

	var item contentItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return contentItem{}, fmt.Errorf("githubstore: decode %s: %w", path, err)
	}
	return item, nil
}

func (c *Client) listDir(ctx context.Context, path string) ([]contentItem, error) {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(path), nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("githubstore: %s: %w", path, gateway.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(path, resp)
	}

	var items []contentItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("githubstore: decode %s: %w", path, err)
	}
	return items, nil
}

// putFile commits payload at path. The current blob sha is looked up
// first so updates do not clobber a file created since the last read.
func (c *Client) putFile(ctx context.Context, path string, payload []byte, message string) error {
	sha := ""
	existing, err := c.getFile(ctx, path)
	switch {
	case err == nil:
		sha = existing.SHA
	case gateway.IsNotFound(err):
	default:
		return err
	}

	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(payload),
		"branch":  c.branch,
	}
	if sha != "" {
		body["sha"] = sha
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(encoded))
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return unexpectedStatus(path, resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func unexpectedStatus(path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("githubstore: %s: unexpected status %d: %s",
		path, resp.StatusCode, strings.TrimSpace(string(body)))
}

func decodeContent(item contentItem) ([]byte, error) {
	// The API wraps base64 payloads in newlines.
	cleaned := strings.ReplaceAll(item.Content, "\n", "")
	return base64.StdEncoding.DecodeString(cleaned)
}

func (c *Client) readJSON(ctx context.Context, path string, out any) error {
	item, err := c.getFile(ctx, path)
	if err != nil {
		return err
	}
	raw, err := decodeContent(item)
	if err != nil {
		return fmt.Errorf("githubstore: decode content of %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("githubstore: parse %s: %w", path, err)
	}
	return nil
}

func marshalDocument(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ListGames fetches every game document under the games directory.
// Records whose content cannot be fetched or parsed come back with a nil
// Data so callers can still see the occupied numbers.
func (c *Client) ListGames(ctx context.Context) ([]gateway.GameRecord, error) {
	items, err := c.listDir(ctx, gateway.GamesDir)
	if err != nil {
		if gateway.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	records := make([]gateway.GameRecord, 0, len(items))
	for _, item := range items {
		number, ok := gateway.ExtractGameNumber(item.Name)
		if !ok || item.Type != "file" {
			continue
		}
		record := gateway.GameRecord{FileName: item.Name, Number: number, Path: item.Path}
		file, err := c.getFile(ctx, item.Path)
		if err != nil {
			logging.Warn(c.logger, "fetching game document failed, listing name only",
				logging.FieldGame, number, "error", err)
			records = append(records, record)
			continue
		}
		if raw, err := decodeContent(file); err == nil {
			var doc domain.GameDocument
			if json.Unmarshal(raw, &doc) == nil {
				record.Data = &doc
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func (c *Client) ReadGame(ctx context.Context, number int) (gateway.GameRecord, error) {
	path := gateway.GamePath(number)
	var doc domain.GameDocument
	if err := c.readJSON(ctx, path, &doc); err != nil {
		return gateway.GameRecord{}, err
	}
	return gateway.GameRecord{
		FileName: gateway.GameFileName(number),
		Number:   number,
		Path:     path,
		Data:     &doc,
	}, nil
}

// ListStatisticsImages returns the file names in the results directory.
// A missing directory means no statistics have been uploaded yet.
func (c *Client) ListStatisticsImages(ctx context.Context) ([]string, error) {
	items, err := c.listDir(ctx, gateway.ImagesDir)
	if err != nil {
		if gateway.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type == "file" {
			names = append(names, item.Name)
		}
	}
	return names, nil
}

func (c *Client) ReadTeams(ctx context.Context) ([]domain.Team, error) {
	var teams []domain.Team
	if err := c.readJSON(ctx, gateway.TeamsPath, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) ReadVenues(ctx context.Context) ([]string, error) {
	var venues []string
	if err := c.readJSON(ctx, gateway.VenuesPath, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (c *Client) ReadSchedule(ctx context.Context) (domain.Schedule, error) {
	var schedule domain.Schedule
	if err := c.readJSON(ctx, gateway.SchedulePath, &schedule); err != nil {
		return domain.Schedule{}, err
	}
	return schedule, nil
}

func (c *Client) ReadLeaguesConfig(ctx context.Context) (map[string]domain.LeagueConfig, error) {
	cfg := make(map[string]domain.LeagueConfig)
	if err := c.readJSON(ctx, gateway.ConfigPath, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Client) WriteSchedule(ctx context.Context, schedule domain.Schedule, message string) error {
	payload, err := marshalDocument(schedule)
	if err != nil {
		return err
	}
	return c.putFile(ctx, gateway.SchedulePath, payload, message)
}

func (c *Client) WriteVenues(ctx context.Context, venues []string, message string) error {
	payload, err := marshalDocument(venues)
	if err != nil {
		return err
	}
	return c.putFile(ctx, gateway.VenuesPath, payload, message)
}

func (c *Client) WriteGame(ctx context.Context, number int, doc domain.GameDocument, message string) error {
	payload, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	return c.putFile(ctx, gateway.GamePath(number), payload, message)
}

func (c *Client) WriteStatisticsImage(ctx context.Context, number int, ext string, payload []byte, message string) error {
	return c.putFile(ctx, gateway.ImagePath(number, ext), payload, message)
}

// NextGameNumber is one past the highest occupied number, never reusing
// gaps left by deleted files.
func (c *Client) NextGameNumber(ctx context.Context) (int, error) {
	items, err := c.listDir(ctx, gateway.GamesDir)
	if err != nil {
		if gateway.IsNotFound(err) {
			return 1, nil
		}
		return 0, err
	}
	max := 0
	for _, item := range items {
		if n, ok := gateway.ExtractGameNumber(item.Name); ok && n > max {
			max = n
		}
	}
	return max + 1, nil
}

var _ gateway.RecordStore = (*Client)(nil)
