package urls

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Route names the image chooser resolves.
const (
	RouteImageChooser = "wagtailimages:chooser"
	RouteImageChosen  = "wagtailimages:image_chosen"
	RouteImageEdit    = "wagtailimages:edit"
)

// DefaultAdminPrefix roots the default admin routes.
const DefaultAdminPrefix = "/admin/"

// ErrNoReverseMatch reports an unknown route name or a parameter mismatch.
var ErrNoReverseMatch = errors.New("urls: no reverse match")

// Reverser resolves a named route to a URL path. Positional args fill the
// route's {param} placeholders in order.
type Reverser interface {
	Reverse(name string, args ...string) (string, error)
}

// Routes is an in-memory named route table.
type Routes struct {
	mu       sync.RWMutex
	patterns map[string]string
}

// NewRoutes returns an empty table.
func NewRoutes() *Routes {
	return &Routes{patterns: make(map[string]string)}
}

// DefaultRoutes returns the admin image routes mounted under prefix.
func DefaultRoutes(prefix string) *Routes {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultAdminPrefix
	}
	prefix = "/" + strings.Trim(prefix, "/") + "/"
	if prefix == "//" {
		prefix = "/"
	}

	routes := NewRoutes()
	routes.MustRegister(RouteImageChooser, prefix+"images/chooser/")
	routes.MustRegister(RouteImageChosen, prefix+"images/chooser/{id}/")
	routes.MustRegister(RouteImageEdit, prefix+"images/{id}/")
	return routes
}

// Register adds or replaces a named pattern.
func (r *Routes) Register(name, pattern string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("urls: route name is required")
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return fmt.Errorf("urls: pattern for %q is empty", name)
	}
	if _, err := placeholders(pattern); err != nil {
		return fmt.Errorf("urls: route %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns[name] = pattern
	return nil
}

// MustRegister panics when Register fails.
func (r *Routes) MustRegister(name, pattern string) {
	if err := r.Register(name, pattern); err != nil {
		panic(err)
	}
}

// Reverse implements Reverser. Arguments are path-escaped.
func (r *Routes) Reverse(name string, args ...string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: %q", ErrNoReverseMatch, name)
	}
	r.mu.RLock()
	pattern, ok := r.patterns[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoReverseMatch, name)
	}

	params, err := placeholders(pattern)
	if err != nil {
		return "", err
	}
	if len(params) != len(args) {
		return "", fmt.Errorf("%w: %q expects %d argument(s), got %d", ErrNoReverseMatch, name, len(params), len(args))
	}

	out := pattern
	for idx, param := range params {
		if strings.TrimSpace(args[idx]) == "" {
			return "", fmt.Errorf("%w: %q argument %q is empty", ErrNoReverseMatch, name, param)
		}
		out = strings.Replace(out, "{"+param+"}", url.PathEscape(args[idx]), 1)
	}
	return out, nil
}

// Names returns the registered route names, sorted.
func (r *Routes) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func placeholders(pattern string) ([]string, error) {
	var params []string
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, fmt.Errorf("unbalanced braces in %q", pattern)
			}
			return params, nil
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("unbalanced braces in %q", pattern)
		}
		param := rest[open+1 : open+closing]
		if strings.TrimSpace(param) == "" || strings.ContainsAny(param, "{/") {
			return nil, fmt.Errorf("invalid placeholder in %q", pattern)
		}
		params = append(params, param)
		rest = rest[open+closing+1:]
	}
}
