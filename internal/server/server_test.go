package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"league-admin-service/internal/cache"
	"league-admin-service/internal/config"
	"league-admin-service/internal/league"
	"league-admin-service/internal/poller"
	"league-admin-service/internal/session"
	"league-admin-service/internal/staging"
	"league-admin-service/internal/testutil"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		ServerPort: "0",
		Store: config.StoreConfig{
			Backend: "local",
			DataDir: t.TempDir(),
		},
		Cache: config.CacheConfig{
			GamesTTL:        time.Minute,
			WithoutStatsTTL: 30 * time.Second,
			PerLeagueLimit:  5,
			GlobalLimit:     10,
		},
		ReloadInterval: time.Minute,
	}
}

func newTestSession(t *testing.T, store *testutil.StubStore) *session.Session {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	games := cache.NewGames(cache.NewStore(nil), store, config.CacheConfig{
		GamesTTL:        time.Minute,
		WithoutStatsTTL: 30 * time.Second,
		PerLeagueLimit:  5,
		GlobalLimit:     10,
	}, nil, logger)
	resolver := league.NewResolver(store, logger)
	return session.New(store, staging.NewQueue(logger), games, resolver, nil, logger)
}

func TestBuildStoreLocalBackend(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	cfg := config.StoreConfig{Backend: "local", DataDir: t.TempDir()}

	store := buildStore(cfg, logger, nil)
	ctx := context.Background()

	if err := store.WriteVenues(ctx, []string{"Main Court"}, "Add venue"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	venues, err := store.ReadVenues(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(venues) != 1 || venues[0] != "Main Court" {
		t.Fatalf("unexpected venues: %v", venues)
	}
}

func TestBuildStoreGitHubWithoutRepoFallsBackToLocal(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	cfg := config.StoreConfig{Backend: "github", DataDir: t.TempDir()}

	store := buildStore(cfg, logger, nil)
	if err := store.WriteVenues(context.Background(), []string{"Main Court"}, "Add venue"); err != nil {
		t.Fatalf("expected local operation, got %v", err)
	}
	if !strings.Contains(buf.String(), "without a repo") {
		t.Fatalf("missing fallback warning: %s", buf.String())
	}
}

func TestBuildStoreUnknownBackendFallsBackToLocal(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	cfg := config.StoreConfig{Backend: "carrier-pigeon", DataDir: t.TempDir()}

	store := buildStore(cfg, logger, nil)
	if err := store.WriteVenues(context.Background(), []string{"Main Court"}, "Add venue"); err != nil {
		t.Fatalf("expected local operation, got %v", err)
	}
	if !strings.Contains(buf.String(), "unknown store backend") {
		t.Fatalf("missing fallback warning: %s", buf.String())
	}
}

func TestBuildHTTPServerRoutesAndTokenGate(t *testing.T) {
	store := testutil.NewStubStore()
	store.Venues = []string{"Main Court"}
	sess := newTestSession(t, store)
	logger, _ := testutil.NewBufferLogger()

	cfg := testConfig(t)
	cfg.AdminToken = "secret"
	srv := buildHTTPServer(cfg, sess, nil, nil, logger, nil)
	h := srv.Handler()

	if rr := testutil.Serve(h, http.MethodGet, "/health", nil); rr.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rr.Code)
	}
	if rr := testutil.Serve(h, http.MethodGet, "/venues", nil); rr.Code != http.StatusOK {
		t.Fatalf("venues: expected 200, got %d", rr.Code)
	}
	if rr := testutil.Serve(h, http.MethodPost, "/venues", strings.NewReader(`{"name":"East Gym"}`)); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected the token gate, got %d", rr.Code)
	}
}

type fakeHTTPServer struct {
	shutdowns chan struct{}
}

func (f *fakeHTTPServer) ListenAndServe() error { return http.ErrServerClosed }
func (f *fakeHTTPServer) Shutdown(ctx context.Context) error {
	close(f.shutdowns)
	return nil
}
func (f *fakeHTTPServer) Addr() string          { return ":0" }
func (f *fakeHTTPServer) Handler() http.Handler { return nil }

type fakePoller struct {
	started bool
	stopped bool
}

func (f *fakePoller) Start(ctx context.Context)      { f.started = true }
func (f *fakePoller) Stop(ctx context.Context) error { f.stopped = true; return nil }
func (f *fakePoller) Status() poller.Status          { return poller.Status{} }

func TestRunShutsDownGracefully(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	httpSrv := &fakeHTTPServer{shutdowns: make(chan struct{})}
	plr := &fakePoller{}
	srv := newServerWithDeps(testConfig(t), logger, nil, httpSrv, plr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after cancellation")
	}

	select {
	case <-httpSrv.shutdowns:
	default:
		t.Fatalf("http server not shut down")
	}
	if !plr.started || !plr.stopped {
		t.Fatalf("poller lifecycle not driven: started=%v stopped=%v", plr.started, plr.stopped)
	}
}
