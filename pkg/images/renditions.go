package images

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMediaURL prefixes rendition and placeholder URLs.
const DefaultMediaURL = "/media/"

// NotFoundFile is the placeholder file name used when a source image cannot
// be read.
const NotFoundFile = "not-found"

// ErrSourceImageIO marks a rendition failure caused by an unreadable source
// file. GetOrNotFound turns it into a placeholder.
var ErrSourceImageIO = errors.New("images: source image could not be read")

// Rendition is a generated variant of an image.
type Rendition struct {
	ImageID    string `json:"image_id"`
	FilterSpec string `json:"filter_spec"`
	URL        string `json:"url"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	NotFound   bool   `json:"not_found,omitempty"`
}

// RenditionSource produces renditions. Implementations wrap ErrSourceImageIO
// when the original file is missing or unreadable.
type RenditionSource interface {
	Rendition(ctx context.Context, image Image, spec FilterSpec) (Rendition, error)
}

// URLRenditionSource derives rendition URLs and sizes from the filter spec.
// It never touches pixels; a separate pipeline is expected to serve the
// files at the computed URLs.
type URLRenditionSource struct {
	mediaURL string
}

// NewURLRenditionSource builds a source rooted at mediaURL.
func NewURLRenditionSource(mediaURL string) *URLRenditionSource {
	return &URLRenditionSource{mediaURL: normalizeMediaURL(mediaURL)}
}

// Rendition implements RenditionSource. The URL follows
// <media>images/<stem>.<spec>.<ext>, with "|" in the spec replaced by ".".
func (s *URLRenditionSource) Rendition(ctx context.Context, image Image, spec FilterSpec) (Rendition, error) {
	if err := ctx.Err(); err != nil {
		return Rendition{}, err
	}
	if spec.IsZero() {
		return Rendition{}, fmt.Errorf("images: rendition for %q: filter spec is required", image.ID)
	}
	name := image.Filename()
	if name == "" || name == "." || name == "/" || image.Width <= 0 || image.Height <= 0 {
		return Rendition{}, fmt.Errorf("%w: image %q has no readable file", ErrSourceImageIO, image.ID)
	}

	ext := strings.TrimPrefix(path.Ext(name), ".")
	stem := strings.TrimSuffix(name, path.Ext(name))
	if format := spec.Format(); format != "" {
		ext = outputFormats[format]
	}
	if ext == "" {
		return Rendition{}, fmt.Errorf("%w: image %q has no file extension", ErrSourceImageIO, image.ID)
	}

	width, height := spec.Apply(image.Width, image.Height)
	file := stem + "." + strings.ReplaceAll(spec.String(), "|", ".") + "." + ext
	return Rendition{
		ImageID:    image.ID,
		FilterSpec: spec.String(),
		URL:        s.mediaURL + "images/" + file,
		Width:      width,
		Height:     height,
	}, nil
}

// Option configures Renditions.
type Option func(*Renditions)

// WithSource swaps the rendition source.
func WithSource(source RenditionSource) Option {
	return func(r *Renditions) {
		if source != nil {
			r.source = source
		}
	}
}

// WithMediaURL sets the prefix used for placeholder URLs (and for the default
// source when none is supplied).
func WithMediaURL(mediaURL string) Option {
	return func(r *Renditions) {
		r.mediaURL = normalizeMediaURL(mediaURL)
	}
}

// WithLogger attaches a logger for placeholder fallbacks.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Renditions) {
		r.logger = logger
	}
}

// Renditions fetches renditions with a not-found fallback.
type Renditions struct {
	source   RenditionSource
	mediaURL string
	logger   zerolog.Logger
}

// NewRenditions applies opts; without WithSource a URLRenditionSource rooted at
// the media URL is used.
func NewRenditions(opts ...Option) *Renditions {
	r := &Renditions{mediaURL: DefaultMediaURL, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.source == nil {
		r.source = NewURLRenditionSource(r.mediaURL)
	}
	return r
}

// GetOrNotFound returns the rendition for image, or a zero-sized placeholder
// pointing at <media>not-found when the source file cannot be read. Other
// errors are returned unchanged.
func (r *Renditions) GetOrNotFound(ctx context.Context, image Image, spec FilterSpec) (Rendition, error) {
	rendition, err := r.source.Rendition(ctx, image, spec)
	if err == nil {
		return rendition, nil
	}
	if !errors.Is(err, ErrSourceImageIO) {
		return Rendition{}, err
	}
	r.logger.Warn().
		Err(err).
		Str("image_id", image.ID).
		Str("filter_spec", spec.String()).
		Msg("rendition source missing, using placeholder")
	return r.NotFound(image, spec), nil
}

// NotFound builds the placeholder rendition.
func (r *Renditions) NotFound(image Image, spec FilterSpec) Rendition {
	return Rendition{
		ImageID:    image.ID,
		FilterSpec: spec.String(),
		URL:        r.mediaURL + NotFoundFile,
		NotFound:   true,
	}
}

// GetRenditionOrNotFound is the function form of Renditions.GetOrNotFound.
func GetRenditionOrNotFound(ctx context.Context, source RenditionSource, image Image, spec FilterSpec, mediaURL string) (Rendition, error) {
	return NewRenditions(WithSource(source), WithMediaURL(mediaURL)).GetOrNotFound(ctx, image, spec)
}

func normalizeMediaURL(mediaURL string) string {
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return DefaultMediaURL
	}
	if !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}
	return mediaURL
}
