package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lysyi3m/medium-cards/app/feed"
)

const maxBodySize = 10 << 20

// Method turns a feed URL into items through one relay.
type Method interface {
	Name() string
	Fetch(ctx context.Context, feedURL string) ([]feed.Item, error)
}

type HTTPMethod struct {
	config     Config
	httpClient *http.Client
	parser     *feed.Parser
	userAgent  string
	timeout    time.Duration
}

func NewHTTPMethod(config Config, httpClient *http.Client, parser *feed.Parser, userAgent string, timeout time.Duration) *HTTPMethod {
	return &HTTPMethod{
		config:     config,
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (m *HTTPMethod) Name() string {
	return m.config.Name
}

// RequestURL substitutes the escaped feed URL into the relay template.
func (m *HTTPMethod) RequestURL(feedURL string) string {
	return strings.ReplaceAll(m.config.URL, URLPlaceholder, url.QueryEscape(feedURL))
}

func (m *HTTPMethod) Fetch(ctx context.Context, feedURL string) ([]feed.Item, error) {
	data, err := m.fetch(ctx, m.RequestURL(feedURL))
	if err != nil {
		return nil, err
	}

	switch m.config.Kind {
	case KindJSONItems:
		return m.decodeItems(data)
	case KindJSONBody:
		body, err := m.decodeBody(data)
		if err != nil {
			return nil, err
		}
		return m.parser.Run([]byte(body))
	case KindRaw:
		return m.parser.Run(data)
	default:
		return nil, fmt.Errorf("unsupported proxy kind: %s", m.config.Kind)
	}
}

func (m *HTTPMethod) fetch(ctx context.Context, requestURL string) ([]byte, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if m.userAgent != "" {
		req.Header.Set("User-Agent", m.userAgent)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (m *HTTPMethod) decodeEnvelope(data []byte) (map[string]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode JSON response: %w", err)
	}

	if m.config.StatusField != "" {
		var status string
		if raw, ok := envelope[m.config.StatusField]; ok {
			_ = json.Unmarshal(raw, &status)
		}
		if status != m.config.StatusValue {
			return nil, fmt.Errorf("unexpected %s %q", m.config.StatusField, status)
		}
	}

	return envelope, nil
}

func (m *HTTPMethod) decodeItems(data []byte) ([]feed.Item, error) {
	envelope, err := m.decodeEnvelope(data)
	if err != nil {
		return nil, err
	}

	raw, ok := envelope[m.field("items")]
	if !ok || string(raw) == "null" {
		return nil, fmt.Errorf("response has no %q field", m.field("items"))
	}

	return feed.DecodeItems(raw)
}

func (m *HTTPMethod) decodeBody(data []byte) (string, error) {
	envelope, err := m.decodeEnvelope(data)
	if err != nil {
		return "", err
	}

	raw, ok := envelope[m.field("contents")]
	if !ok {
		return "", fmt.Errorf("response has no %q field", m.field("contents"))
	}

	var body string
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("field %q is not a string: %w", m.field("contents"), err)
	}

	return body, nil
}

func (m *HTTPMethod) field(fallback string) string {
	if m.config.Field != "" {
		return m.config.Field
	}
	return fallback
}
