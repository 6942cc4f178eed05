// Package cms is a read-only client for the headless CMS holding articles
// and tags.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"

	"melonworks-site/pkg/logx"
	"melonworks-site/pkg/models"
)

// ErrNotFound is returned when the requested content does not exist.
var ErrNotFound = errors.New("content not found")

// APIKeyHeader authenticates requests to the CMS.
const APIKeyHeader = "X-MICROCMS-API-KEY"

// Endpoints of the content schema.
const (
	articleEndpoint = "article"
	tagsEndpoint    = "tags"
)

// Client reads content from the CMS REST API. Responses are never cached.
type Client struct {
	log     *slog.Logger
	rq      *requester.Requester
	baseURL string
}

// NewClient makes a client for the API rooted at baseURL, e.g.
// "https://example.microcms.io".
func NewClient(lg *slog.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	rq := requester.New(
		http.Client{Timeout: timeout},
		middleware.Header(APIKeyHeader, apiKey),
		logx.LoggingRoundTripper(lg, logx.RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{APIKeyHeader},
		}),
	)

	return &Client{
		log:     lg,
		rq:      rq,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ListArticles returns the articles matching the query.
func (c *Client) ListArticles(ctx context.Context, q ArticleQuery) ([]models.Article, error) {
	var resp listResponse[articleDTO]
	if err := c.get(ctx, articleEndpoint, q.Values(), &resp); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	res := make([]models.Article, 0, len(resp.Contents))
	for _, dto := range resp.Contents {
		res = append(res, dto.model())
	}
	return res, nil
}

// GetArticle returns a single article by its id.
func (c *Client) GetArticle(ctx context.Context, id string) (models.Article, error) {
	if id == "" {
		return models.Article{}, ErrNotFound
	}

	var dto articleDTO
	if err := c.get(ctx, articleEndpoint+"/"+url.PathEscape(id), nil, &dto); err != nil {
		return models.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return dto.model(), nil
}

// ListTags returns up to limit tags in CMS order.
func (c *Client) ListTags(ctx context.Context, limit int) ([]models.Tag, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp listResponse[models.Tag]
	if err := c.get(ctx, tagsEndpoint, q, &resp); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return resp.Contents, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	u := c.baseURL + "/api/v1/" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.rq.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.WarnContext(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
