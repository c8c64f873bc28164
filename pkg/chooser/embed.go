package chooser

import (
	"embed"
	"io/fs"
)

//go:embed templates/chooser/*.tpl templates/images/*.tpl
var embeddedTemplates embed.FS

// Template names resolved against TemplatesFS.
const (
	BaseChooserTemplate  = "chooser/chooser.tpl"
	ImageChooserTemplate = "images/image_chooser.tpl"
)

// TemplatesFS exposes the built-in chooser templates rooted so that template
// names match BaseChooserTemplate and ImageChooserTemplate.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
