package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lysyi3m/medium-cards/app/feed"
	"github.com/lysyi3m/medium-cards/app/proxy"
	"github.com/lysyi3m/medium-cards/app/render"
)

type stubMethod struct {
	name  string
	items []feed.Item
	err   error
	urls  []string
}

func (s *stubMethod) Name() string {
	return s.name
}

func (s *stubMethod) Fetch(ctx context.Context, feedURL string) ([]feed.Item, error) {
	s.urls = append(s.urls, feedURL)
	if s.err != nil {
		return nil, s.err
	}
	// callers may truncate the slice, hand out a copy
	items := make([]feed.Item, len(s.items))
	copy(items, s.items)
	return items, nil
}

func makeItems(n int) []feed.Item {
	items := make([]feed.Item, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, feed.Item{
			Title:   fmt.Sprintf("Article %d", i),
			Link:    fmt.Sprintf("https://medium.com/@janedoe/article-%d", i),
			Content: fmt.Sprintf("<p>Body of article %d</p>", i),
		})
	}
	return items
}

func newTestLoader(t *testing.T, doc *render.Document, opts Options, methods ...proxy.Method) *Loader {
	t.Helper()
	renderer, err := render.NewRenderer(render.Options{FallbackURL: "https://medium.com/new-story"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	return NewLoader(doc, proxy.NewChain(methods...), renderer, nil, opts)
}

func containerHTML(t *testing.T, doc *render.Document, id string) (string, int) {
	t.Helper()
	element, ok := doc.Element(id)
	if !ok {
		t.Fatalf("Expected element %s", id)
	}
	return string(element.HTML()), element.Writes()
}

func TestFeedURL(t *testing.T) {
	l := newTestLoader(t, render.NewDocument(), Options{})

	tests := []struct {
		username string
		expected string
	}{
		{username: "janedoe", expected: "https://medium.com/feed/@janedoe"},
		{username: "@janedoe", expected: "https://medium.com/feed/@janedoe"},
		{username: "  janedoe ", expected: "https://medium.com/feed/@janedoe"},
		{username: "jane doe", expected: "https://medium.com/feed/@jane%20doe"},
	}

	for _, tt := range tests {
		if got := l.FeedURL(tt.username); got != tt.expected {
			t.Errorf("FeedURL(%q) = %s, want %s", tt.username, got, tt.expected)
		}
	}

	custom := newTestLoader(t, render.NewDocument(), Options{FeedHost: "medium.example.com"})
	if got := custom.FeedURL("janedoe"); got != "https://medium.example.com/feed/@janedoe" {
		t.Errorf("Expected custom host, got %s", got)
	}
}

func TestLoadEmptyUsernameDoesNothing(t *testing.T) {
	doc := render.NewDocument("medium-articles")
	method := &stubMethod{name: "relay", items: makeItems(3)}
	l := newTestLoader(t, doc, Options{}, method)

	for _, username := range []string{"", "   "} {
		l.Load(context.Background(), username, "medium-articles")
	}

	if _, writes := containerHTML(t, doc, "medium-articles"); writes != 0 {
		t.Errorf("Expected no writes, got %d", writes)
	}
	if len(method.urls) != 0 {
		t.Errorf("Expected no fetches, got %d", len(method.urls))
	}
}

func TestLoadMissingContainerDoesNothing(t *testing.T) {
	doc := render.NewDocument("other")
	method := &stubMethod{name: "relay", items: makeItems(3)}
	l := newTestLoader(t, doc, Options{}, method)

	l.Load(context.Background(), "janedoe", "medium-articles")

	if _, writes := containerHTML(t, doc, "other"); writes != 0 {
		t.Errorf("Expected no writes, got %d", writes)
	}
	if len(method.urls) != 0 {
		t.Errorf("Expected no fetches, got %d", len(method.urls))
	}
}

func TestLoadRendersAtMostSixCards(t *testing.T) {
	doc := render.NewDocument("medium-articles")
	method := &stubMethod{name: "relay", items: makeItems(10)}
	l := newTestLoader(t, doc, Options{}, method)

	l.Load(context.Background(), "janedoe", "medium-articles")

	html, writes := containerHTML(t, doc, "medium-articles")
	if got := strings.Count(html, `class="article-card"`); got != MaxItems {
		t.Errorf("Expected %d cards, got %d", MaxItems, got)
	}
	if writes != 2 {
		t.Errorf("Expected skeletons then cards, got %d writes", writes)
	}
	if !strings.Contains(html, "Article 1") || !strings.Contains(html, "Article 6") {
		t.Error("Expected the first six articles in feed order")
	}
	if strings.Contains(html, "Article 7") {
		t.Error("Expected seventh article to be dropped")
	}
	if len(method.urls) != 1 || method.urls[0] != "https://medium.com/feed/@janedoe" {
		t.Errorf("Unexpected feed URLs: %v", method.urls)
	}
}

func TestLoadMaxItemsIsClamped(t *testing.T) {
	tests := []struct {
		maxItems int
		expected int
	}{
		{maxItems: 0, expected: MaxItems},
		{maxItems: 2, expected: 2},
		{maxItems: 50, expected: MaxItems},
	}

	for _, tt := range tests {
		l := newTestLoader(t, render.NewDocument(), Options{MaxItems: tt.maxItems}, &stubMethod{name: "relay", items: makeItems(10)})

		items, err := l.Fetch(context.Background(), "janedoe")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(items) != tt.expected {
			t.Errorf("MaxItems %d: expected %d items, got %d", tt.maxItems, tt.expected, len(items))
		}
	}
}

func TestLoadFallbackWhenAllMethodsFail(t *testing.T) {
	doc := render.NewDocument("medium-articles")
	l := newTestLoader(t, doc, Options{},
		&stubMethod{name: "first", err: errors.New("timeout")},
		&stubMethod{name: "second", err: errors.New("HTTP error: 403 Forbidden")},
	)

	l.Load(context.Background(), "janedoe", "medium-articles")

	html, writes := containerHTML(t, doc, "medium-articles")
	if !strings.Contains(html, `href="https://medium.com/new-story"`) {
		t.Errorf("Expected fallback link, got: %s", html)
	}
	if strings.Contains(html, "article-card") {
		t.Error("Expected no article cards")
	}
	if writes != 2 {
		t.Errorf("Expected skeletons then fallback, got %d writes", writes)
	}
}

func TestLoadFallbackWhenFeedIsEmpty(t *testing.T) {
	doc := render.NewDocument("medium-articles")
	l := newTestLoader(t, doc, Options{}, &stubMethod{name: "relay", items: nil})

	l.Load(context.Background(), "janedoe", "medium-articles")

	html, _ := containerHTML(t, doc, "medium-articles")
	if !strings.Contains(html, "No articles yet") {
		t.Errorf("Expected fallback card, got: %s", html)
	}
}

func TestLoadFailedMethodThenSuccessMatchesSuccessAlone(t *testing.T) {
	items := makeItems(4)

	withFailure := render.NewDocument("medium-articles")
	newTestLoader(t, withFailure, Options{},
		&stubMethod{name: "broken", err: errors.New("connection reset")},
		&stubMethod{name: "working", items: items},
	).Load(context.Background(), "janedoe", "medium-articles")

	alone := render.NewDocument("medium-articles")
	newTestLoader(t, alone, Options{},
		&stubMethod{name: "working", items: items},
	).Load(context.Background(), "janedoe", "medium-articles")

	got, _ := containerHTML(t, withFailure, "medium-articles")
	expected, _ := containerHTML(t, alone, "medium-articles")
	if got != expected {
		t.Errorf("Expected identical markup.\nwith failure: %s\nalone: %s", got, expected)
	}
}

func TestLoadAppliesFilters(t *testing.T) {
	items := makeItems(3)
	items[1].Categories = []string{"baking"}

	l := newTestLoader(t, render.NewDocument(), Options{
		Filters: []feed.ConfigFilter{{Field: "categories", Excludes: []string{"baking"}}},
	}, &stubMethod{name: "relay", items: items})

	got, err := l.Fetch(context.Background(), "janedoe")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(got))
	}
	if got[0].Title != "Article 1" || got[1].Title != "Article 3" {
		t.Errorf("Unexpected items: %s, %s", got[0].Title, got[1].Title)
	}
}

func TestLoadAllFilteredFallsBack(t *testing.T) {
	doc := render.NewDocument("medium-articles")
	l := newTestLoader(t, doc, Options{
		Filters: []feed.ConfigFilter{{Field: "title", Excludes: []string{"Article"}}},
	}, &stubMethod{name: "relay", items: makeItems(3)})

	l.Load(context.Background(), "janedoe", "medium-articles")

	html, _ := containerHTML(t, doc, "medium-articles")
	if !strings.Contains(html, "No articles yet") {
		t.Errorf("Expected fallback card, got: %s", html)
	}
}

func TestLoadThumbnailOnlyWhenPresent(t *testing.T) {
	items := makeItems(2)
	items[0].Thumbnail = "https://cdn-images-1.medium.com/cover.png"

	doc := render.NewDocument("medium-articles")
	newTestLoader(t, doc, Options{}, &stubMethod{name: "relay", items: items}).
		Load(context.Background(), "janedoe", "medium-articles")

	html, _ := containerHTML(t, doc, "medium-articles")
	if got := strings.Count(html, "<img"); got != 1 {
		t.Errorf("Expected 1 image, got %d", got)
	}
	if !strings.Contains(html, `src="https://cdn-images-1.medium.com/cover.png"`) {
		t.Error("Expected thumbnail source")
	}
}
