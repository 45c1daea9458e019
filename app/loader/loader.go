package loader

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/lysyi3m/medium-cards/app/feed"
	"github.com/lysyi3m/medium-cards/app/proxy"
	"github.com/lysyi3m/medium-cards/app/render"
)

const (
	// MaxItems caps the number of rendered cards whatever the configuration.
	MaxItems        = 6
	DefaultFeedHost = "medium.com"
)

type Options struct {
	FeedHost string
	MaxItems int
	Filters  []feed.ConfigFilter
}

// Loader fills a container with article cards for a username, falling back
// to a static card when no relay produces items.
type Loader struct {
	resolver render.Resolver
	chain    *proxy.Chain
	renderer *render.Renderer
	filterer *feed.Filterer
	enricher *Enricher
	opts     Options
}

func NewLoader(resolver render.Resolver, chain *proxy.Chain, renderer *render.Renderer, enricher *Enricher, opts Options) *Loader {
	opts.FeedHost = cmp.Or(opts.FeedHost, DefaultFeedHost)
	if opts.MaxItems <= 0 || opts.MaxItems > MaxItems {
		opts.MaxItems = MaxItems
	}

	return &Loader{
		resolver: resolver,
		chain:    chain,
		renderer: renderer,
		filterer: feed.NewFilterer(),
		enricher: enricher,
		opts:     opts,
	}
}

// FeedURL builds the author feed address for username.
func (l *Loader) FeedURL(username string) string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	return fmt.Sprintf("https://%s/feed/@%s", l.opts.FeedHost, url.PathEscape(username))
}

// Load renders skeletons into the container, then either the cards or the
// fallback card. Failures are logged, never returned.
func (l *Loader) Load(ctx context.Context, username, containerID string) {
	username = strings.TrimSpace(username)
	if username == "" {
		return
	}

	container, ok := l.resolver.Container(containerID)
	if !ok {
		return
	}

	start := time.Now()

	if skeletons, err := l.renderer.Skeletons(); err != nil {
		slog.Error("Skeleton render failed", "container", containerID, "error", err)
	} else {
		container.SetHTML(skeletons)
	}

	items, err := l.Fetch(ctx, username)
	if err != nil {
		slog.Warn("No articles loaded", "username", username, "container", containerID, "error", err)
		l.renderFallback(container)
		return
	}

	markup, cards, err := l.renderer.Cards(items)
	if err != nil {
		slog.Error("Card render failed", "username", username, "container", containerID, "error", err)
		l.renderFallback(container)
		return
	}
	container.SetHTML(markup)

	slog.Info("Articles loaded",
		"username", username,
		"container", containerID,
		"cards", len(cards),
		"duration", time.Since(start))
}

// Fetch runs the relay chain and returns at most MaxItems visible items.
func (l *Loader) Fetch(ctx context.Context, username string) ([]feed.Item, error) {
	feedURL := l.FeedURL(username)

	method, items, err := l.chain.Run(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	items = l.filterer.Visible(l.filterer.Run(items, l.opts.Filters))
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: every item was filtered out", method)
	}

	if len(items) > l.opts.MaxItems {
		items = items[:l.opts.MaxItems]
	}

	if l.enricher != nil {
		l.enricher.Run(ctx, items)
	}

	slog.Debug("Feed fetched", "username", username, "proxy", method, "items", len(items))
	return items, nil
}

func (l *Loader) renderFallback(container render.Container) {
	markup, err := l.renderer.Fallback()
	if err != nil {
		slog.Error("Fallback render failed", "container", container.ID(), "error", err)
		return
	}
	container.SetHTML(markup)
}
