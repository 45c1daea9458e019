package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP service
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`

	// Loader configuration
	ProxiesFile    string `long:"proxies-file" env:"PROXIES_FILE" default:"./proxies.yml" description:"YAML file with the ordered proxy chain and item filters"`
	FeedHost       string `long:"feed-host" env:"FEED_HOST" default:"medium.com" description:"Host serving /feed/@<username>"`
	ContainerID    string `long:"container-id" env:"CONTAINER_ID" default:"medium-articles" description:"Default container id for rendered cards"`
	FallbackURL    string `long:"fallback-url" env:"FALLBACK_URL" default:"https://medium.com" description:"Outbound link on the fallback card"`
	MaxItems       int    `long:"max-items" env:"MAX_ITEMS" default:"6" description:"Number of cards to render (at most 6)"`
	SkeletonCount  int    `long:"skeleton-count" env:"SKELETON_COUNT" default:"3" description:"Number of placeholder cards shown while loading"`
	ExcerptLength  int    `long:"excerpt-length" env:"EXCERPT_LENGTH" default:"160" description:"Maximum excerpt length in characters"`
	Timeout        int    `long:"timeout" env:"TIMEOUT" default:"15" description:"Per-request timeout in seconds"`
	ExtractContent bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Extract article content for items that arrive without a body"`

	// One-shot rendering
	Username string `long:"username" env:"MEDIUM_USERNAME" description:"Medium username to render"`
	Once     bool   `long:"once" description:"Render the cards for --username to stdout and exit"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Medium Cards/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for card dates (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:           raw.Port,
		ProxiesFile:    raw.ProxiesFile,
		FeedHost:       raw.FeedHost,
		ContainerID:    raw.ContainerID,
		FallbackURL:    raw.FallbackURL,
		MaxItems:       raw.MaxItems,
		SkeletonCount:  raw.SkeletonCount,
		ExcerptLength:  raw.ExcerptLength,
		Timeout:        raw.Timeout,
		ExtractContent: raw.ExtractContent,
		Username:       raw.Username,
		Once:           raw.Once,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func (c *Cfg) validate() error {
	if c.MaxItems < 1 || c.MaxItems > 6 {
		return fmt.Errorf("max items must be between 1 and 6, got %d", c.MaxItems)
	}
	if c.SkeletonCount < 1 {
		return fmt.Errorf("skeleton count must be positive")
	}
	if c.ExcerptLength < 1 {
		return fmt.Errorf("excerpt length must be positive")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.Once && c.Username == "" {
		return fmt.Errorf("--once requires --username")
	}
	return nil
}

func (c *Cfg) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			slog.Debug("Timezone configured", "timezone", timezone)
		}
	}
	return nil
}
