// Package imagechooser wires the image chooser widget, its telepath adapter
// and their collaborators from a single configuration.
package imagechooser

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	gotemplatepkg "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-imagechooser/pkg/chooser"
	"github.com/goliatone/go-imagechooser/pkg/config"
	"github.com/goliatone/go-imagechooser/pkg/i18n"
	"github.com/goliatone/go-imagechooser/pkg/images"
	"github.com/goliatone/go-imagechooser/pkg/logging"
	"github.com/goliatone/go-imagechooser/pkg/media"
	"github.com/goliatone/go-imagechooser/pkg/render/template/gotemplate"
	"github.com/goliatone/go-imagechooser/pkg/telepath"
	"github.com/goliatone/go-imagechooser/pkg/urls"
)

// Option customises New.
type Option func(*options)

type options struct {
	logger      zerolog.Logger
	translator  i18n.Translator
	selector    theme.ThemeSelector
	templatesFS fs.FS
	source      images.RenditionSource
	extra       []chooser.Option
}

// WithLogger sets the parent logger; components log under their own name.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTranslator overrides the translations loaded from config.
func WithTranslator(translator i18n.Translator) Option {
	return func(o *options) {
		o.translator = translator
	}
}

// WithThemeSelector resolves config.Theme / config.ThemeVariant.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *options) {
		o.selector = selector
	}
}

// WithTemplatesFS replaces the embedded chooser templates.
func WithTemplatesFS(files fs.FS) Option {
	return func(o *options) {
		o.templatesFS = files
	}
}

// WithRenditionSource replaces the URL-only rendition source.
func WithRenditionSource(source images.RenditionSource) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithChooserOptions appends raw chooser options, applied last.
func WithChooserOptions(opts ...chooser.Option) Option {
	return func(o *options) {
		o.extra = append(o.extra, opts...)
	}
}

// Kit bundles a configured image chooser with its collaborators.
type Kit struct {
	Config     config.Config
	Repository images.Repository
	Routes     *urls.Routes
	Static     *media.Static
	Renditions *images.Renditions
	Chooser    *chooser.AdminImageChooser
	Registry   *telepath.Registry

	logger zerolog.Logger
}

// New validates cfg and builds a Kit around repo.
func New(cfg config.Config, repo images.Repository, opts ...Option) (*Kit, error) {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if repo == nil {
		return nil, fmt.Errorf("imagechooser: image repository required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	routes, err := cfg.RouteTable()
	if err != nil {
		return nil, fmt.Errorf("imagechooser: routes: %w", err)
	}
	static := cfg.StaticResolver()

	renditionOpts := []images.Option{
		images.WithMediaURL(cfg.MediaURL),
		images.WithLogger(logging.WithComponent(o.logger, "renditions")),
	}
	if o.source != nil {
		renditionOpts = append(renditionOpts, images.WithSource(o.source))
	}
	renditions := images.NewRenditions(renditionOpts...)

	translator := o.translator
	if translator == nil && strings.TrimSpace(cfg.Translations) != "" {
		catalog, err := i18n.LoadCatalogFS(os.DirFS(cfg.Translations))
		if err != nil {
			return nil, fmt.Errorf("imagechooser: translations: %w", err)
		}
		translator = catalog
	}

	chooserOpts := []chooser.Option{
		chooser.WithReverser(routes),
		chooser.WithStatic(static),
		chooser.WithRenditions(renditions),
		chooser.WithPreviewFilter(cfg.PreviewFilter),
		chooser.WithLogger(logging.WithComponent(o.logger, "chooser")),
	}
	if translator != nil {
		chooserOpts = append(chooserOpts, chooser.WithTranslator(translator, cfg.Locale))
	}
	if o.selector != nil && strings.TrimSpace(cfg.Theme) != "" {
		chooserOpts = append(chooserOpts, chooser.WithThemeSelector(o.selector, cfg.Theme, cfg.ThemeVariant))
	}
	if o.templatesFS != nil {
		chooserOpts = append(chooserOpts, chooser.WithTemplatesFS(o.templatesFS))
	}
	if strings.TrimSpace(cfg.TemplateEngine) == config.EngineGoTemplate {
		files := o.templatesFS
		if files == nil {
			files = chooser.TemplatesFS()
		}
		engine, err := gotemplate.NewGoTemplate(gotemplatepkg.WithFS(files))
		if err != nil {
			return nil, fmt.Errorf("imagechooser: %w", err)
		}
		chooserOpts = append(chooserOpts, chooser.WithTemplateRenderer(engine))
	}
	chooserOpts = append(chooserOpts, o.extra...)

	widget, err := chooser.NewAdminImageChooser(repo, chooserOpts...)
	if err != nil {
		return nil, err
	}

	registry := telepath.NewRegistry()
	if err := chooser.RegisterAdapters(registry, widget); err != nil {
		return nil, err
	}

	return &Kit{
		Config:     cfg,
		Repository: repo,
		Routes:     routes,
		Static:     static,
		Renditions: renditions,
		Chooser:    widget,
		Registry:   registry,
		logger:     o.logger,
	}, nil
}

// LoadRepository opens cfg.Catalog, or returns an empty repository when no
// catalog is configured.
func LoadRepository(cfg config.Config) (*images.MemoryRepository, error) {
	if strings.TrimSpace(cfg.Catalog) == "" {
		return images.NewMemoryRepository()
	}
	return images.LoadCatalogFile(cfg.Catalog)
}

// Render renders the chooser for value, including the JS init script.
func (k *Kit) Render(ctx context.Context, name string, value any, attrs map[string]string) (string, error) {
	return k.Chooser.Render(ctx, name, value, attrs)
}

// Pack serialises value for the telepath client. Widgets inside value are
// packed through the registered adapters.
func (k *Kit) Pack(ctx context.Context, value any) ([]byte, media.Media, error) {
	payload, assets, err := telepath.Marshal(ctx, k.Registry, value)
	if err != nil {
		return nil, media.Media{}, err
	}
	k.logger.Debug().Int("bytes", len(payload)).Int("scripts", len(assets.JS)).Msg("telepath payload packed")
	return payload, assets, nil
}

// Media returns the scripts a page rendering the chooser must include.
func (k *Kit) Media() media.Media {
	return k.Chooser.Media()
}
