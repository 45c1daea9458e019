package feed

import (
	"html"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultExcerptLength = 160
	WordsPerMinute       = 200
	Ellipsis             = "…"
	DateLayout           = "Jan 2, 2006"
)

var htmlStripper = newStripper()

func newStripper() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// PlainText removes markup and entities and collapses whitespace.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	s = htmlStripper.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// Excerpt returns at most limit characters of text, followed by an ellipsis
// when anything was cut.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLength
	}

	runes := []rune(norm.NFC.String(text))
	if len(runes) <= limit {
		return string(runes)
	}

	cut := strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
	return cut + Ellipsis
}

// ReadingTime estimates minutes to read text, never less than one.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Round(float64(words) / WordsPerMinute))
	return max(1, minutes)
}

// FormatDate renders t as "Jan 2, 2006"; nil yields an empty string.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(DateLayout)
}

// ParseDate accepts the assorted layouts proxies use for pubDate. Missing or
// unparseable values return nil.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// FirstImage returns the src of the first <img> in an HTML fragment.
func FirstImage(content string) string {
	if !strings.Contains(strings.ToLower(content), "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var src string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// skip tracking pixels
		if s.AttrOr("width", "") == "1" && s.AttrOr("height", "") == "1" {
			return true
		}
		if v, ok := s.Attr("src"); ok && strings.TrimSpace(v) != "" {
			src = strings.TrimSpace(v)
			return false
		}
		return true
	})

	return src
}
