package proxy

import (
	"github.com/lysyi3m/medium-cards/app/feed"
)

// Kind selects how a relay's response body is decoded.
type Kind string

const (
	// KindJSONItems is a JSON object holding a pre-parsed item list (rss2json).
	KindJSONItems Kind = "json_items"
	// KindJSONBody is a JSON object holding the raw feed body in one field (allorigins).
	KindJSONBody Kind = "json_body"
	// KindRaw is the feed markup passed through untouched.
	KindRaw Kind = "raw"
)

// URLPlaceholder is replaced by the query-escaped feed URL.
const URLPlaceholder = "{url}"

type Config struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Kind        Kind   `yaml:"kind"`
	Field       string `yaml:"field"`        // JSON field holding items or body
	StatusField string `yaml:"status_field"` // optional JSON field that must equal StatusValue
	StatusValue string `yaml:"status_value"`
	Disabled    bool   `yaml:"disabled"`
}

// File is the on-disk loader configuration.
type File struct {
	Proxies []Config            `yaml:"proxies"`
	Filters []feed.ConfigFilter `yaml:"filters"`
}

// DefaultConfigs is the relay chain used when no file is present.
func DefaultConfigs() []Config {
	return []Config{
		{
			Name:        "rss2json",
			URL:         "https://api.rss2json.com/v1/api.json?rss_url={url}",
			Kind:        KindJSONItems,
			Field:       "items",
			StatusField: "status",
			StatusValue: "ok",
		},
		{
			Name:  "allorigins",
			URL:   "https://api.allorigins.win/get?url={url}",
			Kind:  KindJSONBody,
			Field: "contents",
		},
		{
			Name: "codetabs",
			URL:  "https://api.codetabs.com/v1/proxy?quest={url}",
			Kind: KindRaw,
		},
		{
			Name: "corsproxy",
			URL:  "https://corsproxy.io/?url={url}",
			Kind: KindRaw,
		},
	}
}
