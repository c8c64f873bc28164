package media

import (
	"html"
	"slices"
	"strings"
)

// Media lists the stylesheets and scripts a widget or adapter needs on the
// page. Paths are final URLs (already resolved through Static).
type Media struct {
	CSS []string `json:"css,omitempty"`
	JS  []string `json:"js,omitempty"`
}

// Merge combines m with others, keeping first-seen order and dropping
// duplicate or empty entries.
func (m Media) Merge(others ...Media) Media {
	out := Media{
		CSS: appendUnique(nil, m.CSS...),
		JS:  appendUnique(nil, m.JS...),
	}
	for _, other := range others {
		out.CSS = appendUnique(out.CSS, other.CSS...)
		out.JS = appendUnique(out.JS, other.JS...)
	}
	return out
}

// IsZero reports whether the media declares no assets.
func (m Media) IsZero() bool {
	return len(m.CSS) == 0 && len(m.JS) == 0
}

// Clone returns a copy that does not share backing arrays with m.
func (m Media) Clone() Media {
	return Media{CSS: slices.Clone(m.CSS), JS: slices.Clone(m.JS)}
}

// RenderJS returns one script tag per JS entry.
func (m Media) RenderJS() string {
	tags := make([]string, 0, len(m.JS))
	for _, src := range m.JS {
		tags = append(tags, `<script src="`+html.EscapeString(src)+`"></script>`)
	}
	return strings.Join(tags, "\n")
}

// RenderCSS returns one stylesheet link per CSS entry.
func (m Media) RenderCSS() string {
	tags := make([]string, 0, len(m.CSS))
	for _, href := range m.CSS {
		tags = append(tags, `<link href="`+html.EscapeString(href)+`" media="all" rel="stylesheet">`)
	}
	return strings.Join(tags, "\n")
}

// Render returns the stylesheet links followed by the script tags.
func (m Media) Render() string {
	css, js := m.RenderCSS(), m.RenderJS()
	switch {
	case css == "":
		return js
	case js == "":
		return css
	}
	return css + "\n" + js
}

func appendUnique(dst []string, values ...string) []string {
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || slices.Contains(dst, value) {
			continue
		}
		dst = append(dst, value)
	}
	return dst
}
