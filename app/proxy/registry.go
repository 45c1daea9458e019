package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/medium-cards/app/feed"
	"gopkg.in/yaml.v3"
)

// Registry holds the ordered relay configuration and item filters, read
// from a YAML file or taken from DefaultConfigs.
type Registry struct {
	path    string
	configs []Config
	filters []feed.ConfigFilter
	mu      sync.RWMutex
}

func NewRegistry(path string) *Registry {
	return &Registry{
		path:    path,
		configs: DefaultConfigs(),
	}
}

func (r *Registry) Run() error {
	if r.path == "" {
		return nil
	}

	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		slog.Debug("Proxy config not found, using defaults", "path", r.path)
		return nil
	}

	file, err := r.parseFile(r.path)
	if err != nil {
		return err
	}

	if err := r.validate(file); err != nil {
		return fmt.Errorf("invalid config %s: %w", r.path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(file.Proxies) > 0 {
		r.configs = file.Proxies
	}
	r.filters = file.Filters

	slog.Debug("Proxy config loaded", "path", r.path, "proxies", len(r.configs), "filters", len(r.filters))
	return nil
}

// Configs returns every configured relay in chain order.
func (r *Registry) Configs() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configsCopy := make([]Config, len(r.configs))
	copy(configsCopy, r.configs)
	return configsCopy
}

func (r *Registry) EnabledConfigs() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enabled := make([]Config, 0, len(r.configs))
	for _, c := range r.configs {
		if !c.Disabled {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

func (r *Registry) Filters() []feed.ConfigFilter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filters
}

// Chain builds HTTP methods for every enabled relay.
func (r *Registry) Chain(httpClient *http.Client, parser *feed.Parser, userAgent string, timeout time.Duration) *Chain {
	configs := r.EnabledConfigs()
	methods := make([]Method, 0, len(configs))
	for _, c := range configs {
		methods = append(methods, NewHTTPMethod(c, httpClient, parser, userAgent, timeout))
	}
	return NewChain(methods...)
}

func (r *Registry) parseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range file.Proxies {
		applyDefaults(&file.Proxies[i])
	}

	return &file, nil
}

func applyDefaults(c *Config) {
	if c.Kind == "" {
		c.Kind = KindRaw
	}
	if c.Field == "" {
		switch c.Kind {
		case KindJSONItems:
			c.Field = "items"
		case KindJSONBody:
			c.Field = "contents"
		}
	}
}

func (r *Registry) validate(file *File) error {
	seen := make(map[string]bool, len(file.Proxies))

	for i, c := range file.Proxies {
		if c.Name == "" {
			return fmt.Errorf("proxy at index %d: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate proxy name: %s", c.Name)
		}
		seen[c.Name] = true

		if c.URL == "" {
			return fmt.Errorf("proxy %s: url is required", c.Name)
		}
		if !strings.Contains(c.URL, URLPlaceholder) {
			return fmt.Errorf("proxy %s: url must contain %s", c.Name, URLPlaceholder)
		}

		switch c.Kind {
		case KindJSONItems, KindJSONBody, KindRaw:
		default:
			return fmt.Errorf("proxy %s: invalid kind %q", c.Name, c.Kind)
		}

		if c.StatusValue != "" && c.StatusField == "" {
			return fmt.Errorf("proxy %s: status_value requires status_field", c.Name)
		}
	}

	for i, filter := range file.Filters {
		if !feed.FilterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
