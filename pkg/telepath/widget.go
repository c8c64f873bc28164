package telepath

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-imagechooser/pkg/media"
)

// Placeholders substituted client-side when a widget template is cloned.
const (
	NamePlaceholder = "__NAME__"
	IDPlaceholder   = "__ID__"
)

// DefaultWidgetConstructor is the client-side constructor for plain widgets.
const DefaultWidgetConstructor = "wagtail.widgets.Widget"

// Widget is the form widget surface WidgetAdapter needs.
type Widget interface {
	Render(ctx context.Context, name string, value any, attrs map[string]string) (string, error)
	IDForLabel(id string) string
}

// WidgetAdapter packs any Widget as [rendered HTML, label id], rendering with
// the __NAME__/__ID__ placeholders and no value.
type WidgetAdapter struct {
	Constructor string
	Assets      media.Media
}

// JSConstructor implements Adapter.
func (a WidgetAdapter) JSConstructor() string {
	if ctor := strings.TrimSpace(a.Constructor); ctor != "" {
		return ctor
	}
	return DefaultWidgetConstructor
}

// JSArgs implements Adapter.
func (a WidgetAdapter) JSArgs(ctx context.Context, obj any) ([]any, error) {
	widget, ok := obj.(Widget)
	if !ok {
		return nil, fmt.Errorf("telepath: %T does not implement Widget", obj)
	}
	html, err := widget.Render(ctx, NamePlaceholder, nil, map[string]string{"id": IDPlaceholder})
	if err != nil {
		return nil, fmt.Errorf("telepath: render widget: %w", err)
	}
	return []any{html, widget.IDForLabel(IDPlaceholder)}, nil
}

// Media implements Adapter.
func (a WidgetAdapter) Media() media.Media {
	return a.Assets.Clone()
}
