package telepath

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-imagechooser/pkg/media"
)

type stubWidget struct {
	label string
}

func (w *stubWidget) Render(_ context.Context, name string, _ any, attrs map[string]string) (string, error) {
	return `<input name="` + name + `" id="` + attrs["id"] + `">`, nil
}

func (w *stubWidget) IDForLabel(id string) string {
	return id + "-" + w.label
}

type point struct{ X, Y int }

type pointAdapter struct{}

func (pointAdapter) JSConstructor() string { return "geo.Point" }

func (pointAdapter) JSArgs(_ context.Context, obj any) ([]any, error) {
	p := obj.(*point)
	return []any{p.X, p.Y}, nil
}

func (pointAdapter) Media() media.Media {
	return media.Media{JS: []string{"/static/geo.js"}}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	reg.MustRegister(pointAdapter{}, (*point)(nil))
	reg.MustRegister(WidgetAdapter{Assets: media.Media{JS: []string{"/static/widgets.js"}}}, (*Widget)(nil))
	return reg
}

func TestPackPrimitivesAndCollections(t *testing.T) {
	jsctx := NewJSContext(newTestRegistry(t))

	got, err := jsctx.Pack(context.Background(), map[string]any{
		"title": "Sunset",
		"size":  []int{165, 110},
		"flags": map[string]bool{"chosen": true},
		"none":  nil,
	})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := map[string]any{
		"title": "Sunset",
		"size":  []any{165, 110},
		"flags": map[string]any{"chosen": true},
		"none":  nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("packed mismatch (-want +got):\n%s", diff)
	}
	if !jsctx.Media().IsZero() {
		t.Fatalf("expected no media for plain values")
	}
}

func TestPackWrapsReservedKeys(t *testing.T) {
	jsctx := NewJSContext(NewRegistry())
	got, err := jsctx.Pack(context.Background(), map[string]string{"_type": "sneaky", "name": "x"})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := map[string]any{"_dict": map[string]any{"_type": "sneaky", "name": "x"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("packed mismatch (-want +got):\n%s", diff)
	}
}

func TestPackAdaptableObjectsAndRefs(t *testing.T) {
	jsctx := NewJSContext(newTestRegistry(t))
	shared := &point{X: 1, Y: 2}

	got, err := jsctx.Pack(context.Background(), []any{shared, &point{X: 3, Y: 4}, shared})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := []any{
		map[string]any{"_type": "geo.Point", "_args": []any{1, 2}, "_id": 0},
		map[string]any{"_type": "geo.Point", "_args": []any{3, 4}},
		map[string]any{"_ref": 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("packed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(media.Media{JS: []string{"/static/geo.js"}}, jsctx.Media()); diff != "" {
		t.Fatalf("media mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalWidgetThroughInterfaceAdapter(t *testing.T) {
	payload, assets, err := Marshal(context.Background(), newTestRegistry(t), &stubWidget{label: "label"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"_type": DefaultWidgetConstructor,
		"_args": []any{`<input name="__NAME__" id="__ID__">`, "__ID__-label"},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if len(assets.JS) != 1 || assets.JS[0] != "/static/widgets.js" {
		t.Fatalf("unexpected media %+v", assets)
	}
}

func TestPackUnknownType(t *testing.T) {
	_, err := NewJSContext(NewRegistry()).Pack(context.Background(), point{X: 1})
	if !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("expected ErrNoAdapter, got %v", err)
	}

	_, err = NewJSContext(NewRegistry()).Pack(context.Background(), map[int]string{1: "a"})
	if !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("expected ErrNoAdapter for int keys, got %v", err)
	}
}
