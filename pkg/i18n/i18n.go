package i18n

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingTranslator is reported when text is resolved without a translator.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
	// ErrMissingTranslation is returned by Catalog for unknown keys.
	ErrMissingTranslation = errors.New("i18n: translation not found")
)

// Translator resolves message keys for a locale. Widget texts use their
// source string as key, gettext style.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a lookup fails.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Text translates key, falling back to onMissing (or the source text) when the
// translator is absent or fails.
func Text(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	if strings.TrimSpace(key) == "" {
		return ""
	}
	if onMissing == nil {
		onMissing = MissingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	msg, err := t.Translate(locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(locale, key, args, err)
	}
	return msg
}

// MissingTranslationDefault returns the key, formatted with args when present.
func MissingTranslationDefault(_ string, key string, args []any, _ error) string {
	return format(key, args)
}

// Catalog is an in-memory Translator keyed by locale then message key.
// Regional locales ("pt-BR") fall back to their base language ("pt").
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{messages: make(map[string]map[string]string)}
}

// Add merges messages into locale, replacing existing keys.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = normalizeLocale(locale)
	if locale == "" || len(messages) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.messages[locale]
	if !ok {
		bucket = make(map[string]string, len(messages))
		c.messages[locale] = bucket
	}
	for key, value := range messages {
		bucket[key] = value
	}
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil {
		return "", ErrMissingTranslator
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range localeChain(locale) {
		if msg, ok := c.messages[candidate][key]; ok && msg != "" {
			return format(msg, args), nil
		}
	}
	return "", fmt.Errorf("%w: %s/%q", ErrMissingTranslation, locale, key)
}

// Locales lists the locales with at least one message.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	return out
}

// LoadCatalog parses a YAML document of the form
//
//	es:
//	  Choose an image: Elegir una imagen
func LoadCatalog(r io.Reader) (*Catalog, error) {
	catalog := NewCatalog()
	if err := catalog.load(r, "catalog"); err != nil {
		return nil, err
	}
	return catalog, nil
}

// LoadCatalogFS reads every *.yaml/*.yml file at the root of fsys.
func LoadCatalogFS(fsys fs.FS) (*Catalog, error) {
	catalog := NewCatalog()
	if fsys == nil {
		return catalog, nil
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("i18n: read dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		file, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("i18n: open %s: %w", name, err)
		}
		err = catalog.load(file, name)
		file.Close()
		if err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func (c *Catalog) load(r io.Reader, source string) error {
	var doc map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("i18n: decode %s: %w", source, err)
	}
	for locale, messages := range doc {
		c.Add(locale, messages)
	}
	return nil
}

func localeChain(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return nil
	}
	chain := []string{locale}
	if idx := strings.IndexByte(locale, '-'); idx > 0 {
		chain = append(chain, locale[:idx])
	}
	return chain
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
	if idx := strings.IndexByte(locale, '-'); idx > 0 {
		return strings.ToLower(locale[:idx]) + "-" + strings.ToUpper(locale[idx+1:])
	}
	return strings.ToLower(locale)
}

func format(msg string, args []any) string {
	if len(args) == 0 || !strings.Contains(msg, "%") {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
