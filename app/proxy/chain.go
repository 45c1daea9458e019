package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/medium-cards/app/feed"
)

var (
	ErrAllMethodsFailed = errors.New("all proxy methods failed")
	ErrNoItems          = errors.New("feed has no items")
)

// Chain tries its methods in order and keeps the first non-empty result.
type Chain struct {
	methods []Method
}

func NewChain(methods ...Method) *Chain {
	return &Chain{methods: methods}
}

func (c *Chain) Methods() []Method {
	return c.methods
}

func (c *Chain) Len() int {
	return len(c.methods)
}

// Run returns the name of the method that succeeded with its items. On
// failure the returned error wraps ErrAllMethodsFailed and each method's
// own error.
func (c *Chain) Run(ctx context.Context, feedURL string) (string, []feed.Item, error) {
	errs := []error{ErrAllMethodsFailed}

	for _, method := range c.methods {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		start := time.Now()
		items, err := method.Fetch(ctx, feedURL)
		if err == nil && len(items) == 0 {
			err = ErrNoItems
		}
		if err != nil {
			slog.Warn("Proxy method failed",
				"proxy", method.Name(),
				"feed_url", feedURL,
				"duration", time.Since(start),
				"error", err)
			errs = append(errs, fmt.Errorf("%s: %w", method.Name(), err))
			continue
		}

		slog.Debug("Proxy method succeeded",
			"proxy", method.Name(),
			"feed_url", feedURL,
			"duration", time.Since(start),
			"items", len(items))
		return method.Name(), items, nil
	}

	return "", nil, errors.Join(errs...)
}
