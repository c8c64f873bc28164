package chooser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-imagechooser/pkg/images"
	"github.com/goliatone/go-imagechooser/pkg/media"
	"github.com/goliatone/go-imagechooser/pkg/urls"
)

// Static paths of the image chooser scripts.
const (
	ImageChooserModalJS    = "wagtailimages/js/image-chooser-modal.js"
	ImageChooserJS         = "wagtailimages/js/image-chooser.js"
	ImageChooserTelepathJS = "wagtailimages/js/image-chooser-telepath.js"
)

// AdminImageChooser is the admin widget for picking an image. The chosen
// image is previewed through a rendition.
type AdminImageChooser struct {
	*BaseChooser[images.Image]

	renditions *images.Renditions
	preview    images.FilterSpec
}

// NewAdminImageChooser builds an image chooser backed by repo.
func NewAdminImageChooser(repo images.Repository, opts ...Option) (*AdminImageChooser, error) {
	if repo == nil {
		return nil, errors.New("chooser: image repository required")
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	preview, err := images.ParseFilterSpec(cfg.previewFilter)
	if err != nil {
		return nil, fmt.Errorf("chooser: preview filter: %w", err)
	}

	base, err := newBaseChooser(Model[images.Image]{
		Lookup: repo,
		ID:     func(img images.Image) string { return img.ID },
		Title:  func(img images.Image) string { return img.Title },
		IsNotFound: func(err error) bool {
			return errors.Is(err, images.ErrImageNotFound)
		},
	}, cfg)
	if err != nil {
		return nil, err
	}
	base.ChooseOneText = "Choose an image"
	base.ChooseAnotherText = "Change image"
	base.LinkToChosenText = "Edit this image"
	base.TemplateName = ImageChooserTemplate
	base.ThemePartial = PartialImageChooser
	base.ChooserURLName = urls.RouteImageChooser
	base.Icon = "image"
	base.Classname = "image-chooser"

	chooser := &AdminImageChooser{
		BaseChooser: base,
		renditions:  cfg.renditions,
		preview:     preview,
	}
	base.SetHooks(Hooks[images.Image]{
		ValueDataFromInstance: chooser.GetValueDataFromInstance,
		Context:               chooser.GetContext,
		JSInit:                chooser.RenderJSInit,
		Media:                 chooser.Media,
	})
	return chooser, nil
}

// GetValueDataFromInstance adds the title and the preview rendition to the
// base value data. Unreadable originals preview the not-found placeholder.
func (c *AdminImageChooser) GetValueDataFromInstance(ctx context.Context, image images.Image) (ValueData, error) {
	data := c.BaseValueDataFromInstance(image)
	rendition, err := c.renditions.GetOrNotFound(ctx, image, c.preview)
	if err != nil {
		return nil, fmt.Errorf("chooser: preview rendition for image %q: %w", image.ID, err)
	}
	data["title"] = image.Title
	data["preview"] = map[string]any{
		"url":    rendition.URL,
		"width":  rendition.Width,
		"height": rendition.Height,
	}
	return data, nil
}

// GetContext extends the base context with title and preview.
func (c *AdminImageChooser) GetContext(name string, data ValueData, attrs map[string]string) (map[string]any, error) {
	view, err := c.BaseContext(name, data, attrs)
	if err != nil {
		return nil, err
	}
	preview := data.Map("preview")
	if preview == nil {
		preview = map[string]any{}
	}
	view["title"] = data.String("title")
	view["preview"] = preview
	return view, nil
}

// RenderJSInit returns createImageChooser(<id>); with id JSON-encoded.
func (c *AdminImageChooser) RenderJSInit(id, _ string, _ ValueData) string {
	encoded, err := json.Marshal(id)
	if err != nil {
		return ""
	}
	return "createImageChooser(" + string(encoded) + ");"
}

// Media returns the modal and widget scripts.
func (c *AdminImageChooser) Media() media.Media {
	return c.AssetMedia(ImageChooserModalJS, ImageChooserJS)
}
