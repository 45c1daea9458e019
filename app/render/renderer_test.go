package render

import (
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/medium-cards/app/feed"
)

func newTestRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	renderer, err := NewRenderer(opts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	return renderer
}

func TestRendererSkeletons(t *testing.T) {
	tests := []struct {
		count    int
		expected int
	}{
		{count: 0, expected: DefaultSkeletonCount},
		{count: 1, expected: 1},
		{count: 5, expected: 5},
	}

	for _, tt := range tests {
		renderer := newTestRenderer(t, Options{SkeletonCount: tt.count})

		markup, err := renderer.Skeletons()
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if got := strings.Count(string(markup), `class="article-card"`); got != tt.expected {
			t.Errorf("SkeletonCount %d: expected %d placeholders, got %d", tt.count, tt.expected, got)
		}
		if !strings.Contains(string(markup), `class="skeleton"`) {
			t.Error("Expected skeleton bars")
		}
	}
}

func TestRendererCards(t *testing.T) {
	oldLocal := time.Local
	time.Local = time.UTC
	defer func() { time.Local = oldLocal }()

	published := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	items := []feed.Item{
		{
			Title:       "Building a Tiny Feed Reader",
			Link:        "https://medium.com/@janedoe/tiny-feed-reader",
			Content:     "<p>" + strings.Repeat("word ", 400) + "</p>",
			PublishedAt: &published,
			Thumbnail:   "https://cdn-images-1.medium.com/cover.png",
		},
		{
			Title:   "No Picture",
			Link:    "https://medium.com/@janedoe/no-picture",
			Content: "<p>Short body.</p>",
		},
	}

	renderer := newTestRenderer(t, Options{})
	markup, cards, err := renderer.Cards(items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	html := string(markup)
	if got := strings.Count(html, `class="article-card"`); got != 2 {
		t.Errorf("Expected 2 cards, got %d", got)
	}
	if got := strings.Count(html, `class="article-thumbnail"`); got != 1 {
		t.Errorf("Expected 1 thumbnail, got %d", got)
	}
	if !strings.Contains(html, `href="https://medium.com/@janedoe/tiny-feed-reader"`) {
		t.Error("Expected card link")
	}
	if !strings.Contains(html, `target="_blank" rel="noopener"`) {
		t.Error("Expected link to open in a new tab")
	}
	if !strings.Contains(html, "Jan 15, 2024") {
		t.Error("Expected formatted date")
	}
	if !strings.Contains(html, "2 min read") {
		t.Error("Expected reading time of 2 minutes for 400 words")
	}
	if !strings.Contains(html, "1 min read") {
		t.Error("Expected minimum reading time of 1 minute")
	}

	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if !strings.HasSuffix(cards[0].Excerpt, feed.Ellipsis) {
		t.Errorf("Expected long excerpt to be truncated, got %q", cards[0].Excerpt)
	}
	if cards[1].Excerpt != "Short body." {
		t.Errorf("Expected short excerpt unchanged, got %q", cards[1].Excerpt)
	}
	if cards[1].Date != "" {
		t.Errorf("Expected no date, got %q", cards[1].Date)
	}
}

func TestRendererCardsEscapesText(t *testing.T) {
	items := []feed.Item{{
		Title:   `<script>alert("x")</script>`,
		Link:    "javascript:alert(1)",
		Content: "<p>safe</p>",
	}}

	renderer := newTestRenderer(t, Options{})
	markup, _, err := renderer.Cards(items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	html := string(markup)
	if strings.Contains(html, "<script>") {
		t.Error("Expected title to be escaped")
	}
	if strings.Contains(html, `href="javascript:`) {
		t.Error("Expected unsafe link to be neutralized")
	}
}

func TestRendererCardsExcerptLength(t *testing.T) {
	items := []feed.Item{{Title: "Long", Link: "https://medium.com/p/1", Content: strings.Repeat("a", 300)}}

	renderer := newTestRenderer(t, Options{ExcerptLength: 180})
	_, cards, err := renderer.Cards(items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	body := strings.TrimSuffix(cards[0].Excerpt, feed.Ellipsis)
	if len(body) != 180 {
		t.Errorf("Expected 180 characters, got %d", len(body))
	}
}

func TestRendererFallback(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "default", url: "", expected: DefaultFallbackURL},
		{name: "custom", url: "https://medium.com/new-story", expected: "https://medium.com/new-story"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := newTestRenderer(t, Options{FallbackURL: tt.url})

			markup, err := renderer.Fallback()
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}

			html := string(markup)
			if !strings.Contains(html, `href="`+tt.expected+`"`) {
				t.Errorf("Expected link to %s, got: %s", tt.expected, html)
			}
			if !strings.Contains(html, `target="_blank"`) {
				t.Error("Expected outbound link to open in a new tab")
			}
			if strings.Contains(html, "article-card") {
				t.Error("Expected no article cards in fallback")
			}
		})
	}
}
