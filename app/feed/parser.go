package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw RSS, Atom or JSON Feed markup into normalized items.
func (p *Parser) Run(data []byte) ([]Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("feed body is empty")
	}

	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		items = append(items, p.normalizeItem(item))
	}

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	// Medium keeps the permalink as link text; some proxies drop it and
	// leave only the guid.
	link := strings.TrimSpace(item.Link)
	if link == "" && len(item.Links) > 0 {
		link = strings.TrimSpace(item.Links[0])
	}
	guid := strings.TrimSpace(item.GUID)

	normalized := Item{
		GUID:        cmp.Or(guid, link),
		Title:       strings.TrimSpace(item.Title),
		Link:        cmp.Or(link, guid),
		Description: item.Description,
		Content:     cmp.Or(item.Content, item.Description),
		Author:      p.extractAuthor(item),
	}

	if item.PublishedParsed != nil {
		published := *item.PublishedParsed
		normalized.PublishedAt = &published
	} else if item.UpdatedParsed != nil {
		updated := *item.UpdatedParsed
		normalized.PublishedAt = &updated
	}

	if item.Categories != nil {
		normalized.Categories = item.Categories
	}

	normalized.Thumbnail = p.extractThumbnail(item)
	if normalized.Thumbnail == "" {
		normalized.Thumbnail = FirstImage(normalized.Content)
	}

	return normalized
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	for _, author := range item.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			return strings.TrimSpace(author.Name)
		}
	}
	if item.Author != nil {
		return strings.TrimSpace(cmp.Or(item.Author.Name, item.Author.Email))
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		return strings.TrimSpace(item.DublinCoreExt.Creator[0])
	}
	return ""
}

// extractThumbnail looks at the dedicated image fields only. Scanning the
// body is left to the caller.
func (p *Parser) extractThumbnail(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	if url := mediaURL(item.Extensions); url != "" {
		return url
	}

	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.URL == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(enclosure.Type), "image/") {
			return enclosure.URL
		}
	}

	return ""
}

func mediaURL(extensions ext.Extensions) string {
	media, ok := extensions["media"]
	if !ok {
		return ""
	}

	for _, name := range []string{"thumbnail", "content"} {
		for _, e := range media[name] {
			if url := e.Attrs["url"]; url != "" {
				if name == "content" && !isImageMedia(e.Attrs) {
					continue
				}
				return url
			}
		}
	}

	return ""
}

func isImageMedia(attrs map[string]string) bool {
	if medium := attrs["medium"]; medium != "" {
		return medium == "image"
	}
	if t := attrs["type"]; t != "" {
		return strings.HasPrefix(strings.ToLower(t), "image/")
	}
	return true
}
