package feed

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
)

// jsonItem is the pre-parsed item shape returned by feed-to-JSON relays
// such as rss2json.
type jsonItem struct {
	Title       string          `json:"title"`
	PubDate     string          `json:"pubDate"`
	Link        string          `json:"link"`
	GUID        string          `json:"guid"`
	Author      string          `json:"author"`
	Thumbnail   string          `json:"thumbnail"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	Categories  []string        `json:"categories"`
	Enclosure   json.RawMessage `json:"enclosure"`
}

type jsonEnclosure struct {
	Link string `json:"link"`
	Type string `json:"type"`
}

// DecodeItems converts a JSON array of pre-parsed items.
func DecodeItems(raw json.RawMessage) ([]Item, error) {
	var decoded []jsonItem
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode item list: %w", err)
	}

	items := make([]Item, 0, len(decoded))
	for _, d := range decoded {
		items = append(items, d.normalize())
	}
	return items, nil
}

func (d jsonItem) normalize() Item {
	link := strings.TrimSpace(d.Link)
	guid := strings.TrimSpace(d.GUID)
	content := cmp.Or(d.Content, d.Description)

	item := Item{
		GUID:        cmp.Or(guid, link),
		Title:       strings.TrimSpace(d.Title),
		Link:        cmp.Or(link, guid),
		Description: d.Description,
		Content:     content,
		PublishedAt: ParseDate(d.PubDate),
		Author:      strings.TrimSpace(d.Author),
		Categories:  d.Categories,
		Thumbnail:   strings.TrimSpace(d.Thumbnail),
	}

	if item.Thumbnail == "" {
		item.Thumbnail = d.enclosureImage()
	}
	if item.Thumbnail == "" {
		item.Thumbnail = FirstImage(content)
	}

	return item
}

// rss2json sends the enclosure as an empty array when there is none.
func (d jsonItem) enclosureImage() string {
	if len(d.Enclosure) == 0 || d.Enclosure[0] != '{' {
		return ""
	}
	var enc jsonEnclosure
	if err := json.Unmarshal(d.Enclosure, &enc); err != nil {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(enc.Type), "image/") {
		return enc.Link
	}
	return ""
}
