package fetch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/config"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/database"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

// SnapshotStore caches fetched source data. *database.DB implements it.
type SnapshotStore interface {
	GetSnapshot(name string, maxAge time.Duration) (*database.Snapshot, error)
	SaveSnapshot(name string, data model.RawData) error
}

// Fetcher gathers the biography and recent headlines for a politician.
type Fetcher struct {
	wiki   *WikipediaClient
	news   *NewsAPIClient
	feeds  *FeedSearcher
	store  SnapshotStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewFetcher builds a Fetcher from the sources section of cfg. store may be
// nil, in which case nothing is cached.
func NewFetcher(cfg *config.Config, store SnapshotStore, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fetcher{logger: logger}

	src := cfg.Sources
	if src.Wikipedia.Enabled {
		f.wiki = NewWikipediaClient(src.Wikipedia.BaseURL, src.Wikipedia.UserAgent, logger)
	}

	apiCfg := src.APIs.NewsAPI
	if apiCfg.Enabled {
		f.news = NewNewsAPIClient(apiCfg.BaseURL, config.Credential(apiCfg.APIKeyEnv), apiCfg.PageSize, logger)
	}

	if src.Feeds.Enabled {
		f.feeds = NewFeedSearcher(src.Feeds.SearchURL, apiCfg.PageSize, src.Wikipedia.UserAgent, logger)
	}

	if cfg.Cache.Enabled && store != nil {
		f.store = store
		f.ttl = cfg.Cache.TTL
	}
	return f
}

// GetData returns the source data for name, from the snapshot cache when a
// fresh copy exists. It never fails: unavailable sources degrade to the
// fallback biography and an empty news list.
func (f *Fetcher) GetData(ctx context.Context, name string) model.RawData {
	if f.store != nil {
		snap, err := f.store.GetSnapshot(name, f.ttl)
		if err != nil {
			f.logger.Warn("reading snapshot failed", zap.String("name", name), zap.Error(err))
		} else if snap != nil {
			f.logger.Debug("using cached snapshot", zap.String("name", name), zap.Time("fetched_at", snap.FetchedAt))
			return snap.Data
		}
	}
	return f.Refresh(ctx, name)
}

// Refresh fetches name from the network, bypassing the cache read. A result
// with real content is written back to the cache.
func (f *Fetcher) Refresh(ctx context.Context, name string) model.RawData {
	name = strings.TrimSpace(name)
	f.logger.Info("fetching data", zap.String("name", name))

	var (
		bio      model.BiographyRecord
		fromWiki bool
		news     []model.NewsItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bio, fromWiki = f.biography(gctx, name)
		return nil
	})
	g.Go(func() error {
		news = f.headlines(gctx, name)
		return nil
	})
	_ = g.Wait()

	if news == nil {
		news = []model.NewsItem{}
	}
	data := model.RawData{Wikipedia: bio, News: news}

	f.logger.Info("data summary",
		zap.String("name", name),
		zap.Bool("wikipedia", fromWiki),
		zap.Int("news", len(news)),
	)

	if f.store != nil && (fromWiki || len(news) > 0) {
		if err := f.store.SaveSnapshot(name, data); err != nil {
			f.logger.Warn("saving snapshot failed", zap.String("name", name), zap.Error(err))
		}
	}
	return data
}

// biography tries the REST summary, then the article page, then the
// fallback table. The bool reports whether Wikipedia supplied the text.
func (f *Fetcher) biography(ctx context.Context, name string) (model.BiographyRecord, bool) {
	if f.wiki != nil {
		bio := f.wiki.Summary(ctx, name)
		if bio.Extract == "" {
			bio = f.wiki.Article(ctx, name)
		}
		if bio.Extract != "" {
			if bio.Title == "" {
				bio.Title = name
			}
			return bio, true
		}
	}
	f.logger.Info("using fallback biography", zap.String("name", name))
	return FallbackBiography(name), false
}

func (f *Fetcher) headlines(ctx context.Context, name string) []model.NewsItem {
	if f.news != nil && f.news.IsConfigured() {
		return f.news.Search(ctx, name)
	}
	if f.feeds != nil {
		return f.feeds.Search(ctx, name)
	}
	return []model.NewsItem{}
}
