package render

import (
	"bytes"
	"cmp"
	"embed"
	"fmt"
	"html/template"

	"github.com/lysyi3m/medium-cards/app/feed"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	DefaultSkeletonCount = 3
	DefaultFallbackURL   = "https://medium.com"
)

type Options struct {
	SkeletonCount int
	ExcerptLength int
	FallbackURL   string
}

type Renderer struct {
	tmpl *template.Template
	opts Options
}

func NewRenderer(opts Options) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	opts.SkeletonCount = cmp.Or(opts.SkeletonCount, DefaultSkeletonCount)
	opts.ExcerptLength = cmp.Or(opts.ExcerptLength, feed.DefaultExcerptLength)
	opts.FallbackURL = cmp.Or(opts.FallbackURL, DefaultFallbackURL)

	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

func (r *Renderer) Skeletons() (template.HTML, error) {
	return r.execute("skeleton", make([]struct{}, r.opts.SkeletonCount))
}

// Cards renders one card per item. Callers truncate the list.
func (r *Renderer) Cards(items []feed.Item) (template.HTML, []Card, error) {
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, NewCard(item, r.opts.ExcerptLength))
	}

	markup, err := r.execute("cards", cards)
	if err != nil {
		return "", nil, err
	}
	return markup, cards, nil
}

func (r *Renderer) Fallback() (template.HTML, error) {
	return r.execute("fallback", struct{ URL string }{URL: r.opts.FallbackURL})
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
