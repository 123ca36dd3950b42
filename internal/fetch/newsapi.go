package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

const (
	defaultNewsAPIBaseURL = "https://newsapi.org/v2"
	removedTitle          = "[Removed]"
)

// NewsAPIClient searches NewsAPI for headlines mentioning a name.
type NewsAPIClient struct {
	BaseURL  string
	PageSize int
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

// NewNewsAPIClient creates a NewsAPI client. An empty apiKey leaves the
// client unconfigured.
func NewNewsAPIClient(baseURL, apiKey string, pageSize int, logger *zap.Logger) *NewsAPIClient {
	if baseURL == "" {
		baseURL = defaultNewsAPIBaseURL
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	if pageSize > 100 {
		pageSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsAPIClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		PageSize: pageSize,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// IsConfigured returns whether the API key is available.
func (c *NewsAPIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Search returns the most recent headlines for name. Failures are logged and
// yield an empty list.
func (c *NewsAPIClient) Search(ctx context.Context, name string) []model.NewsItem {
	if !c.IsConfigured() {
		c.logger.Debug("NewsAPI not configured, skipping news fetch")
		return []model.NewsItem{}
	}

	params := url.Values{
		"q":        {name},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(c.PageSize)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		c.logger.Warn("NewsAPI request error", zap.Error(err))
		return []model.NewsItem{}
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("NewsAPI error", zap.Error(err))
		return []model.NewsItem{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("NewsAPI HTTP error", zap.Int("status", resp.StatusCode))
		return []model.NewsItem{}
	}

	var result struct {
		Status   string `json:"status"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("NewsAPI decode error", zap.Error(err))
		return []model.NewsItem{}
	}
	if result.Status != "" && result.Status != "ok" {
		c.logger.Warn("NewsAPI status", zap.String("status", result.Status))
		return []model.NewsItem{}
	}

	items := make([]model.NewsItem, 0, len(result.Articles))
	for _, a := range result.Articles {
		title := strings.TrimSpace(a.Title)
		if title == "" || title == removedTitle {
			continue
		}
		items = append(items, model.NewsItem{
			Title:       title,
			Description: strings.TrimSpace(a.Description),
			PublishedAt: a.PublishedAt,
		})
		if len(items) >= c.PageSize {
			break
		}
	}

	c.logger.Info("news articles fetched", zap.String("source", "newsapi"), zap.String("name", name), zap.Int("count", len(items)))
	return items
}
