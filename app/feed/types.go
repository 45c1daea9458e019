package feed

import (
	"time"
)

// Feed processing types

type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string     // content:encoded when present, otherwise the description
	PublishedAt *time.Time // nil when the source date is missing or unparseable
	Author      string
	Categories  []string
	Thumbnail   string

	IsFiltered   bool
	FilterReason string
}

// Configuration types

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
