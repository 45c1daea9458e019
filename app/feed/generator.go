package feed

import (
	"cmp"
	"fmt"
	"time"

	"github.com/gorilla/feeds"
)

// Generator re-syndicates loaded items as RSS 2.0.
type Generator struct {
	excerptLength int
}

func NewGenerator(excerptLength int) *Generator {
	return &Generator{excerptLength: cmp.Or(excerptLength, DefaultExcerptLength)}
}

func (g *Generator) Run(username, profileURL string, items []Item) (string, error) {
	created := time.Now().In(time.Local)
	if len(items) > 0 && items[0].PublishedAt != nil {
		created = *items[0].PublishedAt
	}

	out := &feeds.Feed{
		Title:       fmt.Sprintf("Articles by @%s", username),
		Link:        &feeds.Link{Href: profileURL},
		Description: fmt.Sprintf("Latest articles published by @%s", username),
		Author:      &feeds.Author{Name: username},
		Created:     created,
	}

	for _, item := range items {
		entry := &feeds.Item{
			Id:          item.GUID,
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.Link},
			Description: Excerpt(PlainText(item.Content), g.excerptLength),
		}
		if item.Author != "" {
			entry.Author = &feeds.Author{Name: item.Author}
		}
		if item.PublishedAt != nil {
			entry.Created = *item.PublishedAt
		}
		if item.Thumbnail != "" {
			entry.Enclosure = &feeds.Enclosure{Url: item.Thumbnail, Length: "0", Type: "image/jpeg"}
		}
		out.Items = append(out.Items, entry)
	}

	rss, err := out.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to generate RSS: %w", err)
	}

	return rss, nil
}
