package imagechooser

import (
	"embed"
	"io/fs"
)

//go:embed static/wagtailimages/js/*.js
var embeddedStaticAssets embed.FS

// StaticAssetsFS exposes the chooser scripts referenced by the widget media,
// rooted so paths match the static names (wagtailimages/js/...).
//
// Typical mount:
//
//	r.Handle("/static/*",
//	  http.StripPrefix("/static/",
//	    http.FileServerFS(imagechooser.StaticAssetsFS()),
//	  ),
//	)
func StaticAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedStaticAssets, "static")
	if err != nil {
		return embeddedStaticAssets
	}
	return sub
}
