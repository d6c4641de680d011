package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"league-admin-service/internal/config"
	"league-admin-service/internal/domain"
	"league-admin-service/internal/gateway"
	"league-admin-service/internal/logging"
)

const (
	keyAllGames        = "games:all"
	keyWithStats       = "games:with-stats"
	prefixWithoutStats = "games:without-stats:"
)

// Game is one played game as served from the cache.
type Game struct {
	Number        int
	Doc           domain.GameDocument
	HasStatistics bool
}

// Recorder receives one observation per cache lookup.
type Recorder interface {
	RecordCacheLookup(ctx context.Context, view string, hit bool)
}

// Source is the slice of the record store the game views read from.
type Source interface {
	ListGames(ctx context.Context) ([]gateway.GameRecord, error)
	ReadGame(ctx context.Context, number int) (gateway.GameRecord, error)
	ListStatisticsImages(ctx context.Context) ([]string, error)
}

// Games serves the game listings read-through: each view refreshes from
// the source when its cached entry ages out, falls back to the stale
// entry when the source fails, and reports ErrUnavailable only when
// neither is possible.
type Games struct {
	store    *Store
	source   Source
	cfg      config.CacheConfig
	recorder Recorder
	logger   *slog.Logger
}

// NewGames wires the game views over store and source.
func NewGames(store *Store, source Source, cfg config.CacheConfig, recorder Recorder, logger *slog.Logger) *Games {
	return &Games{store: store, source: source, cfg: cfg, recorder: recorder, logger: logger}
}

func withoutStatsKey(league string) string {
	if league == "" {
		return prefixWithoutStats + "all"
	}
	return prefixWithoutStats + league
}

func copyGames(in []Game) []Game {
	out := make([]Game, len(in))
	copy(out, in)
	return out
}

func (g *Games) record(ctx context.Context, view string, hit bool) {
	if g.recorder != nil {
		g.recorder.RecordCacheLookup(ctx, view, hit)
	}
}

// loadAll pulls every game and the statistics inventory from the source
// and joins them by game number. Records whose JSON did not parse are
// dropped from the views.
func (g *Games) loadAll(ctx context.Context) ([]Game, error) {
	records, err := g.source.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	images, err := g.source.ListStatisticsImages(ctx)
	if err != nil {
		return nil, err
	}

	withImage := make(map[int]bool, len(images))
	for _, name := range images {
		if n, ok := gateway.ExtractImageNumber(name); ok {
			withImage[n] = true
		}
	}

	games := make([]Game, 0, len(records))
	for _, r := range records {
		if r.Data == nil {
			logging.Warn(g.logger, "skipping unparseable game document",
				logging.FieldGame, r.Number)
			continue
		}
		games = append(games, Game{Number: r.Number, Doc: *r.Data, HasStatistics: withImage[r.Number]})
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Number < games[j].Number })
	return games, nil
}

// fetch serves one view: fresh cache entry, else refresh, else stale.
func (g *Games) fetch(ctx context.Context, key, view string, ttl time.Duration, filter func([]Game) []Game) ([]Game, error) {
	if v, ok := g.store.Get(key, ttl); ok {
		g.record(ctx, view, true)
		return copyGames(v.([]Game)), nil
	}
	g.record(ctx, view, false)

	all, err := g.loadAll(ctx)
	if err != nil {
		if stale, ok := g.store.GetStale(key); ok {
			logging.Warn(g.logger, "serving stale cache entry after refresh failure",
				"view", view, "error", err)
			return copyGames(stale.([]Game)), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	games := filter(all)
	g.store.Put(key, games)
	return copyGames(games), nil
}

// All lists every parseable game.
func (g *Games) All(ctx context.Context) ([]Game, error) {
	return g.fetch(ctx, keyAllGames, "all", g.cfg.GamesTTL, func(all []Game) []Game {
		return all
	})
}

// WithStats lists games that already have a statistics image.
func (g *Games) WithStats(ctx context.Context) ([]Game, error) {
	return g.fetch(ctx, keyWithStats, "with_stats", g.cfg.GamesTTL, func(all []Game) []Game {
		out := make([]Game, 0, len(all))
		for _, game := range all {
			if game.HasStatistics {
				out = append(out, game)
			}
		}
		return out
	})
}

// WithoutStats lists games still missing a statistics image, newest
// first so freshly recorded games surface ahead of old stragglers. A
// non-empty league narrows the view to that league and caps it at the
// per-league limit; the global view uses the global cap.
func (g *Games) WithoutStats(ctx context.Context, league string) ([]Game, error) {
	limit := g.cfg.GlobalLimit
	if league != "" {
		limit = g.cfg.PerLeagueLimit
	}
	return g.fetch(ctx, withoutStatsKey(league), "without_stats", g.cfg.WithoutStatsTTL, func(all []Game) []Game {
		out := make([]Game, 0, limit)
		for i := len(all) - 1; i >= 0; i-- {
			game := all[i]
			if game.HasStatistics {
				continue
			}
			if league != "" && game.Doc.LeagueName() != league {
				continue
			}
			out = append(out, game)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return out
	})
}

// ByNumber returns one game, served from the all-games view when
// possible. A game recorded since the view was cached is read directly
// from the source.
func (g *Games) ByNumber(ctx context.Context, number int) (Game, error) {
	all, err := g.All(ctx)
	if err != nil {
		return Game{}, err
	}
	for _, game := range all {
		if game.Number == number {
			return game, nil
		}
	}

	record, err := g.source.ReadGame(ctx, number)
	if err != nil {
		return Game{}, err
	}
	if record.Data == nil {
		return Game{}, fmt.Errorf("game %d: unparseable document", number)
	}
	game := Game{Number: record.Number, Doc: *record.Data}
	if images, err := g.source.ListStatisticsImages(ctx); err == nil {
		for _, name := range images {
			if n, ok := gateway.ExtractImageNumber(name); ok && n == number {
				game.HasStatistics = true
			}
		}
	}
	return game, nil
}

// MarkStatisticsAdded patches the cached views in place after an image
// upload, instead of invalidating them. The patch keeps each entry's
// original expiry and is idempotent.
func (g *Games) MarkStatisticsAdded(number int) {
	var patched *Game

	g.store.Mutate(keyAllGames, func(value any) any {
		games := copyGames(value.([]Game))
		for i := range games {
			if games[i].Number == number {
				games[i].HasStatistics = true
				p := games[i]
				patched = &p
			}
		}
		return games
	})

	if patched == nil {
		// Without an all-games entry there is nothing to copy into the
		// with-stats view; drop it so the next read refetches.
		g.store.Invalidate(keyWithStats)
	} else {
		g.store.Mutate(keyWithStats, func(value any) any {
			games := copyGames(value.([]Game))
			for _, game := range games {
				if game.Number == number {
					return games
				}
			}
			games = append(games, *patched)
			sort.Slice(games, func(i, j int) bool { return games[i].Number < games[j].Number })
			return games
		})
	}

	for _, key := range g.store.Keys(prefixWithoutStats) {
		g.store.Mutate(key, func(value any) any {
			games := value.([]Game)
			out := make([]Game, 0, len(games))
			for _, game := range games {
				if game.Number != number {
					out = append(out, game)
				}
			}
			return out
		})
	}
}

// Reset drops every cached game view.
func (g *Games) Reset() {
	g.store.InvalidateAll("games:")
}
