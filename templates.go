package imagechooser

import (
	"io/fs"

	"github.com/goliatone/go-imagechooser/pkg/chooser"
)

// EmbeddedTemplates exposes the built-in chooser templates so callers can
// reuse or extend them without importing the chooser package directly.
func EmbeddedTemplates() fs.FS {
	return chooser.TemplatesFS()
}
