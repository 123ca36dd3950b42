package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

// FeedSearcher finds headlines through an RSS search endpoint such as
// Google News. SearchURL contains one %s for the query-escaped name.
type FeedSearcher struct {
	SearchURL string
	Limit     int
	UserAgent string
	client    *http.Client
	logger    *zap.Logger
}

// NewFeedSearcher creates a FeedSearcher returning at most limit items.
func NewFeedSearcher(searchURL string, limit int, userAgent string, logger *zap.Logger) *FeedSearcher {
	if limit <= 0 {
		limit = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedSearcher{
		SearchURL: searchURL,
		Limit:     limit,
		UserAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

// Search parses the search feed for name. Failures are logged and yield an
// empty list.
func (f *FeedSearcher) Search(ctx context.Context, name string) []model.NewsItem {
	if f.SearchURL == "" {
		return []model.NewsItem{}
	}
	feedURL := fmt.Sprintf(f.SearchURL, url.QueryEscape(strings.TrimSpace(name)))

	parser := gofeed.NewParser()
	parser.Client = f.client
	if f.UserAgent != "" {
		parser.UserAgent = f.UserAgent
	}

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		f.logger.Warn("failed to parse news feed", zap.String("url", feedURL), zap.Error(err))
		return []model.NewsItem{}
	}

	items := make([]model.NewsItem, 0, f.Limit)
	for _, item := range feed.Items {
		if len(items) >= f.Limit {
			break
		}
		if entry, ok := parseItem(item); ok {
			items = append(items, entry)
		}
	}

	f.logger.Info("news articles fetched", zap.String("source", "rss"), zap.String("name", name), zap.Int("count", len(items)))
	return items
}

func parseItem(item *gofeed.Item) (model.NewsItem, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" || title == removedTitle {
		return model.NewsItem{}, false
	}

	var publishedAt string
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if item.UpdatedParsed != nil {
		publishedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	description := item.Description
	if description == "" {
		description = item.Content
	}

	return model.NewsItem{
		Title:       title,
		Description: stripHTML(description),
		PublishedAt: publishedAt,
	}, true
}

func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	return strings.Join(strings.Fields(s), " ")
}
