// Package config loads the image chooser settings from YAML with
// IMAGECHOOSER_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-imagechooser/pkg/images"
	"github.com/goliatone/go-imagechooser/pkg/media"
	"github.com/goliatone/go-imagechooser/pkg/urls"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IMAGECHOOSER_"

// DefaultPreviewFilter is the chooser preview rendition.
const DefaultPreviewFilter = "max-165x165"

// Template engines selectable through template_engine.
const (
	EnginePongo2     = "pongo2"
	EngineGoTemplate = "go-template"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds the settings shared by the library facade and the CLI.
type Config struct {
	StaticURL     string            `yaml:"static_url"`
	MediaURL      string            `yaml:"media_url"`
	Version       string            `yaml:"version"`
	Secret        string            `yaml:"secret"`
	Locale        string            `yaml:"locale"`
	Theme         string            `yaml:"theme"`
	ThemeVariant  string            `yaml:"theme_variant"`
	AdminPrefix   string            `yaml:"admin_prefix"`
	Routes        map[string]string `yaml:"routes"`
	PreviewFilter string            `yaml:"preview_filter"`
	LogLevel      string            `yaml:"log_level"`
	Catalog       string            `yaml:"catalog"`
	Translations  string            `yaml:"translations"`

	// TemplateEngine picks the chooser renderer; "" means pongo2.
	TemplateEngine string `yaml:"template_engine"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		StaticURL:      media.DefaultStaticURL,
		MediaURL:       images.DefaultMediaURL,
		Locale:         "en",
		AdminPrefix:    urls.DefaultAdminPrefix,
		PreviewFilter:  DefaultPreviewFilter,
		LogLevel:       "info",
		TemplateEngine: EnginePongo2,
	}
}

// Load decodes YAML over Default. Unknown keys are rejected.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// LoadFile reads path. An empty path yields Default.
func LoadFile(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envBinding struct {
	key    string
	target *string
}

func (c *Config) bindings() []envBinding {
	return []envBinding{
		{"STATIC_URL", &c.StaticURL},
		{"MEDIA_URL", &c.MediaURL},
		{"VERSION", &c.Version},
		{"SECRET", &c.Secret},
		{"LOCALE", &c.Locale},
		{"THEME", &c.Theme},
		{"THEME_VARIANT", &c.ThemeVariant},
		{"ADMIN_PREFIX", &c.AdminPrefix},
		{"PREVIEW_FILTER", &c.PreviewFilter},
		{"LOG_LEVEL", &c.LogLevel},
		{"CATALOG", &c.Catalog},
		{"TRANSLATIONS", &c.Translations},
		{"TEMPLATE_ENGINE", &c.TemplateEngine},
	}
}

// ApplyEnv overrides fields from IMAGECHOOSER_* variables. Empty variables
// keep the current value. lookup defaults to os.LookupEnv.
func (c *Config) ApplyEnv(lookup LookupFunc, logger zerolog.Logger) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, binding := range c.bindings() {
		key := EnvPrefix + binding.key
		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		event := logger.Debug().Str("key", key).Str("source", "environment")
		if binding.key == "SECRET" {
			event = event.Bool("sensitive", true)
		} else {
			event = event.Str("value", value)
		}
		event.Msg("using environment variable")
		*binding.target = strings.TrimSpace(value)
	}
}

// Validate checks URLs, the preview filter, the log level, the template
// engine and route patterns.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.StaticURL) == "" {
		problems = append(problems, "static_url is required")
	}
	if strings.TrimSpace(c.MediaURL) == "" {
		problems = append(problems, "media_url is required")
	}
	if _, err := images.ParseFilterSpec(c.PreviewFilter); err != nil {
		problems = append(problems, fmt.Sprintf("preview_filter: %v", err))
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			problems = append(problems, fmt.Sprintf("log_level %q is not a level", c.LogLevel))
		}
	}
	switch strings.TrimSpace(c.TemplateEngine) {
	case "", EnginePongo2, EngineGoTemplate:
	default:
		problems = append(problems, fmt.Sprintf("template_engine %q is not one of %s, %s", c.TemplateEngine, EnginePongo2, EngineGoTemplate))
	}
	if _, err := c.RouteTable(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// RouteTable returns the default admin routes under AdminPrefix with Routes
// applied on top.
func (c Config) RouteTable() (*urls.Routes, error) {
	routes := urls.DefaultRoutes(c.AdminPrefix)
	names := make([]string, 0, len(c.Routes))
	for name := range c.Routes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := routes.Register(name, c.Routes[name]); err != nil {
			return nil, fmt.Errorf("routes.%s: %w", name, err)
		}
	}
	return routes, nil
}

// StaticResolver builds the versioned static resolver.
func (c Config) StaticResolver() *media.Static {
	return media.NewStatic(c.StaticURL, media.WithVersion(c.Version), media.WithSecret(c.Secret))
}
