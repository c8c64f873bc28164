package icons

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// Icon renders the sprite reference used by admin widgets:
//
//	<svg class="icon icon-image" aria-hidden="true"><use href="#icon-image"></use></svg>
//
// Names are restricted to lowercase letters, digits and dashes; anything else
// renders as "".
func Icon(name string, classnames ...string) string {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return ""
	}

	classes := []string{"icon", "icon-" + name}
	for _, extra := range classnames {
		classes = append(classes, strings.Fields(extra)...)
	}

	var builder strings.Builder
	builder.WriteString(`<svg class="`)
	builder.WriteString(html.EscapeString(strings.Join(classes, " ")))
	builder.WriteString(`" aria-hidden="true"><use href="#icon-`)
	builder.WriteString(name)
	builder.WriteString(`"></use></svg>`)
	return Sanitize(builder.String())
}

// Sanitize strips anything from raw SVG markup that is not part of the icon
// allowlist.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("svg", "g", "path", "use", "title", "desc")

		policy.AllowAttrs(
			"xmlns", "width", "height", "fill", "stroke", "aria-hidden",
			"role", "focusable", "class",
		).OnElements("svg")
		policy.AllowAttrs("href", "xlink:href").OnElements("use")
		policy.AllowAttrs("d", "fill", "stroke", "class").OnElements("path")
		policy.AllowAttrs("id", "class").OnElements("g")

		iconPolicy = policy
	})
	return iconPolicy
}
