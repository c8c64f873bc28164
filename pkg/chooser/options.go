package chooser

import (
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-imagechooser/pkg/i18n"
	"github.com/goliatone/go-imagechooser/pkg/images"
	"github.com/goliatone/go-imagechooser/pkg/media"
	"github.com/goliatone/go-imagechooser/pkg/render/template"
	"github.com/goliatone/go-imagechooser/pkg/render/template/gotemplate"
	"github.com/goliatone/go-imagechooser/pkg/urls"
)

// PreviewFilterSpec is the rendition used for chooser previews.
const PreviewFilterSpec = "max-165x165"

// Option configures a chooser at construction time.
type Option func(*config)

type config struct {
	templates     template.TemplateRenderer
	templatesFS   fs.FS
	reverser      urls.Reverser
	editRoute     string
	static        *media.Static
	translator    i18n.Translator
	locale        string
	onMissing     i18n.MissingTranslationHandler
	logger        zerolog.Logger
	selection     *theme.Selection
	selector      theme.ThemeSelector
	themeName     string
	themeVariant  string
	renditions    *images.Renditions
	previewFilter string
	showEditLink  *bool
	showClearLink *bool

	theme *theme.RendererConfig
}

// WithTemplateRenderer renders chooser templates through renderer instead of
// the embedded pongo2 engine.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.templates = renderer
	}
}

// WithTemplatesFS loads templates from files. Ignored when a renderer is set.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templatesFS = files
	}
}

// WithReverser resolves chooser and edit URLs.
func WithReverser(reverser urls.Reverser) Option {
	return func(cfg *config) {
		cfg.reverser = reverser
	}
}

// WithEditRoute overrides the route name used for edit links.
func WithEditRoute(name string) Option {
	return func(cfg *config) {
		cfg.editRoute = strings.TrimSpace(name)
	}
}

// WithStatic sets the static resolver used for widget media.
func WithStatic(static *media.Static) Option {
	return func(cfg *config) {
		cfg.static = static
	}
}

// WithTranslator translates widget texts for locale.
func WithTranslator(translator i18n.Translator, locale string) Option {
	return func(cfg *config) {
		cfg.translator = translator
		cfg.locale = strings.TrimSpace(locale)
	}
}

// WithMissingTranslationHandler customises what is rendered for texts the
// translator does not know.
func WithMissingTranslationHandler(handler i18n.MissingTranslationHandler) Option {
	return func(cfg *config) {
		cfg.onMissing = handler
	}
}

// WithLogger attaches a logger. Choosers log nothing by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithTheme applies a resolved go-theme selection.
func WithTheme(selection *theme.Selection) Option {
	return func(cfg *config) {
		cfg.selection = selection
	}
}

// WithThemeSelector resolves name/variant through selector during
// construction.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = strings.TrimSpace(name)
		cfg.themeVariant = strings.TrimSpace(variant)
	}
}

// WithRenditions sets the rendition service used for previews.
func WithRenditions(renditions *images.Renditions) Option {
	return func(cfg *config) {
		cfg.renditions = renditions
	}
}

// WithPreviewFilter overrides PreviewFilterSpec.
func WithPreviewFilter(spec string) Option {
	return func(cfg *config) {
		cfg.previewFilter = strings.TrimSpace(spec)
	}
}

// WithShowEditLink toggles the edit action.
func WithShowEditLink(show bool) Option {
	return func(cfg *config) {
		cfg.showEditLink = &show
	}
}

// WithShowClearLink toggles the clear action.
func WithShowClearLink(show bool) Option {
	return func(cfg *config) {
		cfg.showClearLink = &show
	}
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		logger:        zerolog.Nop(),
		onMissing:     i18n.MissingTranslationDefault,
		editRoute:     urls.RouteImageEdit,
		previewFilter: PreviewFilterSpec,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	if cfg.reverser == nil {
		cfg.reverser = urls.DefaultRoutes(urls.DefaultAdminPrefix)
	}
	if cfg.static == nil {
		cfg.static = media.NewStatic(media.DefaultStaticURL)
	}
	if cfg.renditions == nil {
		cfg.renditions = images.NewRenditions(images.WithLogger(cfg.logger))
	}
	if cfg.onMissing == nil {
		cfg.onMissing = i18n.MissingTranslationDefault
	}

	if cfg.selection == nil && cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("chooser: select theme %q: %w", cfg.themeName, err)
		}
		cfg.selection = selection
	}
	cfg.theme = rendererConfig(cfg.selection)

	if cfg.templates == nil {
		files := cfg.templatesFS
		if files == nil {
			files = TemplatesFS()
		}
		engine, err := gotemplate.New(gotemplate.WithFS(files))
		if err != nil {
			return nil, fmt.Errorf("chooser: template engine: %w", err)
		}
		cfg.templates = engine
	}
	return cfg, nil
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
