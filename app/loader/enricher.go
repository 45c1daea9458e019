package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/medium-cards/app/feed"
)

// Enricher fills in the body of items that arrived without content by
// extracting the readable part of the article page.
type Enricher struct {
	httpClient       *http.Client
	contentExtractor *feed.ContentExtractor
	userAgent        string
	timeout          time.Duration
}

func NewEnricher(httpClient *http.Client, contentExtractor *feed.ContentExtractor, userAgent string, timeout time.Duration) *Enricher {
	return &Enricher{
		httpClient:       httpClient,
		contentExtractor: contentExtractor,
		userAgent:        userAgent,
		timeout:          timeout,
	}
}

// Run updates items in place. Items that already have text are skipped and
// failures leave the item untouched.
func (e *Enricher) Run(ctx context.Context, items []feed.Item) {
	successCount := 0
	errorCount := 0

	for i := range items {
		item := &items[i]
		if feed.PlainText(item.Content) != "" || item.Link == "" {
			continue
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		content, err := e.extract(ctx, item.Link)
		if err != nil {
			slog.Warn("Failed to extract content for item", "url", item.Link, "error", err)
			errorCount++
			continue
		}

		item.Content = content
		if item.Thumbnail == "" {
			item.Thumbnail = feed.FirstImage(content)
		}
		successCount++
	}

	if successCount+errorCount > 0 {
		slog.Debug("Content extraction finished", "success", successCount, "errors", errorCount)
	}
}

func (e *Enricher) extract(ctx context.Context, link string) (string, error) {
	data, err := e.fetchArticle(ctx, link)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article content: %w", err)
	}
	return e.contentExtractor.Run(data, link)
}

func (e *Enricher) fetchArticle(ctx context.Context, link string) ([]byte, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
