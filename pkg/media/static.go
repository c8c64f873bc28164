package media

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// DefaultStaticURL is used when no static prefix is configured.
const DefaultStaticURL = "/static/"

// StaticOption configures a Static resolver.
type StaticOption func(*Static)

// WithVersion sets the release identifier mixed into the cache-busting hash.
// An empty version disables the ?v= suffix.
func WithVersion(version string) StaticOption {
	return func(s *Static) {
		s.version = strings.TrimSpace(version)
	}
}

// WithSecret mixes a deployment secret into the hash so the release version
// cannot be read back from asset URLs.
func WithSecret(secret string) StaticOption {
	return func(s *Static) {
		s.secret = secret
	}
}

// Static resolves static asset paths against a URL prefix and appends a
// version hash for cache busting.
type Static struct {
	prefix  string
	version string
	secret  string
	hash    string
}

// NewStatic builds a resolver rooted at prefix (DefaultStaticURL when empty).
func NewStatic(prefix string, opts ...StaticOption) *Static {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultStaticURL
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	s := &Static{prefix: prefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.version != "" {
		sum := sha1.Sum([]byte(s.version + s.secret))
		s.hash = hex.EncodeToString(sum[:])[:8]
	}
	return s
}

// Prefix returns the normalised URL prefix.
func (s *Static) Prefix() string {
	if s == nil {
		return DefaultStaticURL
	}
	return s.prefix
}

// Hash returns the version hash, or "" when versioning is disabled.
func (s *Static) Hash() string {
	if s == nil {
		return ""
	}
	return s.hash
}

// URL joins path onto the static prefix. Absolute URLs and rooted paths are
// returned untouched.
func (s *Static) URL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || isAbsolute(path) {
		return path
	}
	return s.Prefix() + strings.TrimLeft(path, "/")
}

// Versioned returns URL(path) with ?v=<hash> appended. URLs that already
// carry a query string are left alone so other cache-busting schemes keep
// working.
func (s *Static) Versioned(path string) string {
	base := s.URL(path)
	if base == "" || s.Hash() == "" || strings.Contains(base, "?") {
		return base
	}
	return base + "?v=" + s.hash
}

// VersionedMedia builds a Media value with every JS and CSS path versioned.
func (s *Static) VersionedMedia(js []string, css []string) Media {
	out := Media{}
	for _, path := range css {
		out.CSS = appendUnique(out.CSS, s.Versioned(path))
	}
	for _, path := range js {
		out.JS = appendUnique(out.JS, s.Versioned(path))
	}
	return out
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "/") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://")
}
