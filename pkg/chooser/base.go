package chooser

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-imagechooser/pkg/i18n"
	"github.com/goliatone/go-imagechooser/pkg/media"
	"github.com/goliatone/go-imagechooser/pkg/telepath"
	"github.com/goliatone/go-imagechooser/pkg/urls"
)

// ModelLookup fetches the chosen object by id.
type ModelLookup[T any] interface {
	Get(ctx context.Context, id string) (T, error)
}

// Model describes the objects a chooser selects.
type Model[T any] struct {
	Lookup ModelLookup[T]
	// ID returns the primary key written to the hidden input.
	ID func(T) string
	// Title is shown next to the chosen object. Optional.
	Title func(T) string
	// IsNotFound reports lookup errors that mean "no selection".
	IsNotFound func(error) bool
}

// Hooks let a widget embedding BaseChooser replace individual steps. Unset
// hooks fall back to the base behaviour.
type Hooks[T any] struct {
	ValueDataFromInstance func(ctx context.Context, instance T) (ValueData, error)
	Context               func(name string, data ValueData, attrs map[string]string) (map[string]any, error)
	JSInit                func(id, name string, data ValueData) string
	Media                 func() media.Media
}

// BaseChooser renders a chooser for objects of type T.
type BaseChooser[T any] struct {
	ChooseOneText     string
	ChooseAnotherText string
	LinkToChosenText  string
	ClearChoiceText   string
	ShowEditLink      bool
	ShowClearLink     bool
	Icon              string
	Classname         string
	TemplateName      string
	// ThemePartial names the theme template that replaces TemplateName.
	ThemePartial string
	// ChooserURLName is reversed into chooser_url when set.
	ChooserURLName string

	model    Model[T]
	hooks    Hooks[T]
	cfg      *config
	editURLs *urls.EditURLFinder
	logger   zerolog.Logger
}

var _ telepath.Widget = (*BaseChooser[struct{}])(nil)

// NewBaseChooser builds a chooser with the generic texts.
func NewBaseChooser[T any](model Model[T], opts ...Option) (*BaseChooser[T], error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return newBaseChooser(model, cfg)
}

func newBaseChooser[T any](model Model[T], cfg *config) (*BaseChooser[T], error) {
	if model.Lookup == nil {
		return nil, errors.New("chooser: model lookup required")
	}
	if model.ID == nil {
		return nil, errors.New("chooser: model id func required")
	}
	return &BaseChooser[T]{
		ChooseOneText:     "Choose an item",
		ChooseAnotherText: "Choose another item",
		LinkToChosenText:  "Edit this item",
		ClearChoiceText:   "Clear choice",
		ShowEditLink:      boolOr(cfg.showEditLink, true),
		ShowClearLink:     boolOr(cfg.showClearLink, true),
		TemplateName:      BaseChooserTemplate,
		ThemePartial:      PartialChooser,
		model:             model,
		cfg:               cfg,
		editURLs:          urls.NewEditURLFinder(cfg.reverser, cfg.editRoute),
		logger:            cfg.logger,
	}, nil
}

// SetHooks installs overrides for widgets built on top of BaseChooser.
func (b *BaseChooser[T]) SetHooks(hooks Hooks[T]) {
	b.hooks = hooks
}

// GetValueData normalises value into ValueData. value may be nil, an
// instance (or pointer to one), ValueData, or an id. Ids that no longer
// resolve yield nil data.
func (b *BaseChooser[T]) GetValueData(ctx context.Context, value any) (ValueData, error) {
	if value == nil {
		return nil, nil
	}
	if instance, ok := value.(T); ok {
		return b.ValueDataFromInstance(ctx, instance)
	}
	if ptr, ok := value.(*T); ok {
		if ptr == nil {
			return nil, nil
		}
		return b.ValueDataFromInstance(ctx, *ptr)
	}
	if data, ok := value.(ValueData); ok {
		if len(data) == 0 {
			return nil, nil
		}
		return data, nil
	}

	id, ok := idString(value)
	if !ok {
		return nil, fmt.Errorf("chooser: unsupported value type %T", value)
	}
	if id == "" {
		return nil, nil
	}
	instance, err := b.model.Lookup.Get(ctx, id)
	if err != nil {
		if b.model.IsNotFound != nil && b.model.IsNotFound(err) {
			b.logger.Debug().Str("id", id).Msg("chosen object no longer exists")
			return nil, nil
		}
		return nil, fmt.Errorf("chooser: lookup %q: %w", id, err)
	}
	return b.ValueDataFromInstance(ctx, instance)
}

// ValueDataFromInstance converts a chosen object, honouring hooks.
func (b *BaseChooser[T]) ValueDataFromInstance(ctx context.Context, instance T) (ValueData, error) {
	if b.hooks.ValueDataFromInstance != nil {
		return b.hooks.ValueDataFromInstance(ctx, instance)
	}
	return b.BaseValueDataFromInstance(instance), nil
}

// BaseValueDataFromInstance returns id, edit_url and title.
func (b *BaseChooser[T]) BaseValueDataFromInstance(instance T) ValueData {
	id := b.model.ID(instance)
	data := ValueData{
		"id":       id,
		"edit_url": b.editURLs.EditURL(id),
	}
	if b.model.Title != nil {
		data["title"] = b.model.Title(instance)
	}
	return data
}

// GetContext builds the template context, honouring hooks.
func (b *BaseChooser[T]) GetContext(name string, data ValueData, attrs map[string]string) (map[string]any, error) {
	if b.hooks.Context != nil {
		return b.hooks.Context(name, data, attrs)
	}
	return b.BaseContext(name, data, attrs)
}

// BaseContext is the context every chooser template receives.
func (b *BaseChooser[T]) BaseContext(name string, data ValueData, attrs map[string]string) (map[string]any, error) {
	chooserURL := ""
	if b.ChooserURLName != "" {
		resolved, err := b.cfg.reverser.Reverse(b.ChooserURLName)
		if err != nil {
			return nil, fmt.Errorf("chooser: chooser url: %w", err)
		}
		chooserURL = resolved
	}

	view := map[string]any{
		"widget":              b.widgetContext(),
		"original_field_html": b.RenderHiddenInput(name, data.ID(), attrs),
		"attrs":               copyAttrs(attrs),
		"value":               len(data) > 0,
		"display_title":       data.String("title"),
		"edit_url":            data.String("edit_url"),
		"icon":                b.Icon,
		"classname":           b.Classname,
		"chooser_url":         chooserURL,
	}
	if b.cfg.theme != nil {
		view["theme_style"] = cssVarsStyle(b.cfg.theme.CSSVars)
	}
	return view, nil
}

func (b *BaseChooser[T]) widgetContext() map[string]any {
	return map[string]any{
		"choose_one_text":     b.text(b.ChooseOneText),
		"choose_another_text": b.text(b.ChooseAnotherText),
		"link_to_chosen_text": b.text(b.LinkToChosenText),
		"clear_choice_text":   b.text(b.ClearChoiceText),
		"show_edit_link":      b.ShowEditLink,
		"show_clear_link":     b.ShowClearLink,
	}
}

func (b *BaseChooser[T]) text(msg string) string {
	if msg == "" {
		return ""
	}
	return i18n.Text(b.cfg.translator, b.cfg.locale, msg, b.cfg.onMissing)
}

// RenderHiddenInput renders the underlying <input type="hidden">. The value
// attribute is omitted when id is empty.
func (b *BaseChooser[T]) RenderHiddenInput(name, id string, attrs map[string]string) string {
	var sb strings.Builder
	sb.WriteString(`<input type="hidden" name="`)
	sb.WriteString(html.EscapeString(name))
	sb.WriteString(`"`)
	if id != "" {
		sb.WriteString(` value="`)
		sb.WriteString(html.EscapeString(id))
		sb.WriteString(`"`)
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		switch key {
		case "type", "name", "value":
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(" ")
		sb.WriteString(html.EscapeString(key))
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(attrs[key]))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	return sb.String()
}

// RenderHTML renders the widget markup for already-normalised value data.
func (b *BaseChooser[T]) RenderHTML(name string, data ValueData, attrs map[string]string) (string, error) {
	view, err := b.GetContext(name, data, attrs)
	if err != nil {
		return "", err
	}
	templateName := b.templateName()
	out, err := b.cfg.templates.RenderTemplate(templateName, view)
	if err != nil {
		return "", fmt.Errorf("chooser: render %q: %w", templateName, err)
	}
	return out, nil
}

func (b *BaseChooser[T]) templateName() string {
	if b.cfg.theme != nil && b.ThemePartial != "" {
		if partial := strings.TrimSpace(b.cfg.theme.Partials[b.ThemePartial]); partial != "" {
			return partial
		}
	}
	return b.TemplateName
}

// RenderJSInit returns the script initialising the client-side widget, or
// "" when none is needed.
func (b *BaseChooser[T]) RenderJSInit(id, name string, data ValueData) string {
	if b.hooks.JSInit != nil {
		return b.hooks.JSInit(id, name, data)
	}
	return ""
}

// Render renders value under name. attrs["id"] identifies the element; a
// non-empty JS init is appended in a <script> block.
func (b *BaseChooser[T]) Render(ctx context.Context, name string, value any, attrs map[string]string) (string, error) {
	data, err := b.GetValueData(ctx, value)
	if err != nil {
		return "", err
	}
	out, err := b.RenderHTML(name, data, attrs)
	if err != nil {
		return "", err
	}
	b.logger.Debug().
		Str("name", name).
		Bool("chosen", len(data) > 0).
		Msg("chooser rendered")

	js := b.RenderJSInit(attrs["id"], name, data)
	if js == "" {
		return out, nil
	}
	return out + "<script>" + js + "</script>", nil
}

// IDForLabel returns id unchanged.
func (b *BaseChooser[T]) IDForLabel(id string) string {
	return id
}

// ValueFromData reads name from submitted form data. A missing or empty value
// reports ok=false.
func (b *BaseChooser[T]) ValueFromData(form url.Values, name string) (string, bool) {
	value := strings.TrimSpace(form.Get(name))
	if value == "" {
		return "", false
	}
	return value, true
}

// Media returns the widget's static assets.
func (b *BaseChooser[T]) Media() media.Media {
	if b.hooks.Media != nil {
		return b.hooks.Media()
	}
	return media.Media{}
}

// AssetURL resolves path through the theme, falling back to a versioned
// static URL.
func (b *BaseChooser[T]) AssetURL(path string) string {
	return assetURL(b.cfg, path)
}

// AssetMedia resolves js paths with AssetURL.
func (b *BaseChooser[T]) AssetMedia(js ...string) media.Media {
	resolved := make([]string, 0, len(js))
	for _, path := range js {
		resolved = append(resolved, b.AssetURL(path))
	}
	return media.Media{}.Merge(media.Media{JS: resolved})
}

func assetURL(cfg *config, path string) string {
	if cfg.theme != nil && cfg.theme.AssetURL != nil {
		if resolved := cfg.theme.AssetURL(path); resolved != "" {
			return resolved
		}
	}
	return cfg.static.Versioned(path)
}

func copyAttrs(attrs map[string]string) map[string]any {
	out := make(map[string]any, len(attrs))
	for key, value := range attrs {
		out[key] = value
	}
	return out
}

func idString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), true
	}
	return "", false
}
