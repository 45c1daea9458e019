package render

import (
	"github.com/lysyi3m/medium-cards/app/feed"
)

// Card holds the display fields computed for one item.
type Card struct {
	Title     string
	Link      string
	Date      string
	Excerpt   string
	ReadTime  int
	Thumbnail string
}

func NewCard(item feed.Item, excerptLength int) Card {
	text := feed.PlainText(item.Content)

	return Card{
		Title:     item.Title,
		Link:      item.Link,
		Date:      feed.FormatDate(item.PublishedAt),
		Excerpt:   feed.Excerpt(text, excerptLength),
		ReadTime:  feed.ReadingTime(text),
		Thumbnail: item.Thumbnail,
	}
}
