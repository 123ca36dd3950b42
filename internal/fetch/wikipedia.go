package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

const (
	wikipediaTimeout   = 10 * time.Second
	maxArticleBytes    = 4 << 20
	fallbackSentences  = 5
	defaultWikiBaseURL = "https://en.wikipedia.org"
)

var sentenceEnd = regexp.MustCompile(`[.!?](?:\s+|$)`)

// WikipediaClient looks up biography summaries.
type WikipediaClient struct {
	BaseURL   string
	UserAgent string
	client    *http.Client
	logger    *zap.Logger
}

// NewWikipediaClient creates a Wikipedia client for baseURL.
func NewWikipediaClient(baseURL, userAgent string, logger *zap.Logger) *WikipediaClient {
	if baseURL == "" {
		baseURL = defaultWikiBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WikipediaClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		client: &http.Client{
			Timeout: wikipediaTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		logger: logger,
	}
}

// pageTitle converts a name into a path-escaped article title.
func pageTitle(name string) string {
	return url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// Summary fetches the REST page summary for name. Failures are logged and
// yield an empty record.
func (c *WikipediaClient) Summary(ctx context.Context, name string) model.BiographyRecord {
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", c.BaseURL, pageTitle(name))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		c.logger.Warn("wikipedia summary failed", zap.String("name", name), zap.Error(err))
		return model.BiographyRecord{}
	}

	var result struct {
		Title   string `json:"title"`
		Extract string `json:"extract"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Warn("wikipedia summary decode failed", zap.String("name", name), zap.Error(err))
		return model.BiographyRecord{}
	}

	c.logger.Debug("wikipedia summary fetched", zap.String("name", name), zap.Int("chars", len(result.Extract)))
	return model.BiographyRecord{
		Title:   strings.TrimSpace(result.Title),
		Extract: strings.TrimSpace(result.Extract),
	}
}

// Article fetches the full article page and keeps the first few sentences of
// its readable text.
func (c *WikipediaClient) Article(ctx context.Context, name string) model.BiographyRecord {
	pageURL := fmt.Sprintf("%s/wiki/%s", c.BaseURL, pageTitle(name))

	body, err := c.get(ctx, pageURL)
	if err != nil {
		c.logger.Warn("wikipedia article failed", zap.String("name", name), zap.Error(err))
		return model.BiographyRecord{}
	}

	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		c.logger.Warn("no readable content", zap.String("url", pageURL), zap.Error(err))
		return model.BiographyRecord{}
	}

	extract := leadSentences(article.TextContent, fallbackSentences)
	if extract == "" {
		return model.BiographyRecord{}
	}
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = strings.TrimSpace(name)
	}
	return model.BiographyRecord{Title: title, Extract: extract}
}

func (c *WikipediaClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
}

// leadSentences returns the first n sentences of text with whitespace
// collapsed.
func leadSentences(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	locs := sentenceEnd.FindAllStringIndex(text, n)
	if len(locs) < n {
		return text
	}
	return strings.TrimSpace(text[:locs[n-1][1]])
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.code, http.StatusText(e.code))
}
