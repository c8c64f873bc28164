package chooser

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-imagechooser/pkg/media"
	"github.com/goliatone/go-imagechooser/pkg/telepath"
)

// ImageChooserConstructor is the client-side constructor for image choosers.
const ImageChooserConstructor = "wagtail.images.widgets.ImageChooser"

// AssetResolver maps a static path such as ImageChooserTelepathJS to the URL
// pages load it from. Choosers implement it through their theme and static
// settings.
type AssetResolver interface {
	AssetURL(path string) string
}

type staticAssets struct {
	static *media.Static
}

func (s staticAssets) AssetURL(path string) string {
	return s.static.Versioned(path)
}

// StaticAssets resolves paths as versioned static URLs, ignoring themes.
func StaticAssets(static *media.Static) AssetResolver {
	if static == nil {
		static = media.NewStatic(media.DefaultStaticURL)
	}
	return staticAssets{static: static}
}

// ImageChooserAdapter packs an AdminImageChooser as
// [rendered HTML, label id] for the telepath client.
type ImageChooserAdapter struct {
	assets AssetResolver

	once  sync.Once
	media media.Media
}

var _ telepath.Adapter = (*ImageChooserAdapter)(nil)

// NewImageChooserAdapter resolves its script through assets. Pass the chooser
// itself so theme asset overrides apply; nil falls back to default static
// URLs.
func NewImageChooserAdapter(assets AssetResolver) *ImageChooserAdapter {
	if assets == nil {
		assets = StaticAssets(nil)
	}
	return &ImageChooserAdapter{assets: assets}
}

// JSConstructor implements telepath.Adapter.
func (a *ImageChooserAdapter) JSConstructor() string {
	return ImageChooserConstructor
}

// JSArgs renders the widget with placeholder name and id and no value.
func (a *ImageChooserAdapter) JSArgs(_ context.Context, obj any) ([]any, error) {
	widget, ok := obj.(*AdminImageChooser)
	if !ok || widget == nil {
		return nil, fmt.Errorf("chooser: image chooser adapter cannot pack %T", obj)
	}
	out, err := widget.RenderHTML(telepath.NamePlaceholder, nil, map[string]string{"id": telepath.IDPlaceholder})
	if err != nil {
		return nil, err
	}
	return []any{out, widget.IDForLabel(telepath.IDPlaceholder)}, nil
}

// Media implements telepath.Adapter. The result is computed once.
func (a *ImageChooserAdapter) Media() media.Media {
	a.once.Do(func() {
		a.media = media.Media{}.Merge(media.Media{JS: []string{a.assets.AssetURL(ImageChooserTelepathJS)}})
	})
	return a.media.Clone()
}

// RegisterAdapters registers the image chooser adapter, resolving its script
// through assets, and the generic widget adapter used by other choosers.
func RegisterAdapters(registry *telepath.Registry, assets AssetResolver) error {
	if registry == nil {
		return fmt.Errorf("chooser: telepath registry required")
	}
	if err := registry.Register(NewImageChooserAdapter(assets), (*AdminImageChooser)(nil)); err != nil {
		return fmt.Errorf("chooser: register image chooser adapter: %w", err)
	}
	if err := registry.Register(telepath.WidgetAdapter{}, (*telepath.Widget)(nil)); err != nil {
		return fmt.Errorf("chooser: register widget adapter: %w", err)
	}
	return nil
}
