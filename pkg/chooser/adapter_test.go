package chooser_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-imagechooser/pkg/chooser"
	"github.com/goliatone/go-imagechooser/pkg/media"
	"github.com/goliatone/go-imagechooser/pkg/telepath"
	"github.com/goliatone/go-imagechooser/pkg/testsupport"
)

func TestImageChooserAdapter_JSArgs(t *testing.T) {
	widget := newImageChooser(t)
	adapter := chooser.NewImageChooserAdapter(nil)

	if adapter.JSConstructor() != "wagtail.images.widgets.ImageChooser" {
		t.Fatalf("unexpected constructor %q", adapter.JSConstructor())
	}

	args, err := adapter.JSArgs(testsupport.Context(), widget)
	if err != nil {
		t.Fatalf("js args: %v", err)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}

	html, ok := args[0].(string)
	if !ok {
		t.Fatalf("first arg should be the rendered html, got %T", args[0])
	}
	want, err := widget.RenderHTML("__NAME__", nil, map[string]string{"id": "__ID__"})
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if html != want {
		t.Fatalf("html arg mismatch (-want +got):\n%s", cmp.Diff(want, html))
	}
	for _, fragment := range []string{`id="__ID__-chooser"`, `name="__NAME__"`, " blank"} {
		if !strings.Contains(html, fragment) {
			t.Errorf("html arg missing %q", fragment)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("adapter html must not carry the js init")
	}
	if args[1] != "__ID__" {
		t.Fatalf("second arg should be the label id, got %v", args[1])
	}
}

func TestImageChooserAdapter_RejectsOtherWidgets(t *testing.T) {
	adapter := chooser.NewImageChooserAdapter(nil)
	if _, err := adapter.JSArgs(testsupport.Context(), "not a widget"); err == nil {
		t.Fatalf("expected error for non chooser value")
	}
}

func TestImageChooserAdapter_Media(t *testing.T) {
	static := media.NewStatic("/static/", media.WithVersion("6.0"))
	adapter := chooser.NewImageChooserAdapter(chooser.StaticAssets(static))

	want := media.Media{JS: []string{"/static/wagtailimages/js/image-chooser-telepath.js?v=" + static.Hash()}}
	first := adapter.Media()
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("media mismatch (-want +got):\n%s", diff)
	}

	first.JS[0] = "mutated"
	if diff := cmp.Diff(want, adapter.Media()); diff != "" {
		t.Fatalf("media must not be shared with callers (-want +got):\n%s", diff)
	}
}

func TestRegisterAdapters_PacksImageChooser(t *testing.T) {
	static := media.NewStatic("/static/")
	registry := telepath.NewRegistry()
	if err := chooser.RegisterAdapters(registry, chooser.StaticAssets(static)); err != nil {
		t.Fatalf("register adapters: %v", err)
	}
	widget := newImageChooser(t, chooser.WithStatic(static))

	payload, assets, err := telepath.Marshal(testsupport.Context(), registry, map[string]any{
		"image":  widget,
		"avatar": widget,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var packed, ref map[string]any
	for _, key := range []string{"avatar", "image"} {
		if _, ok := decoded[key]["_type"]; ok {
			packed = decoded[key]
		} else {
			ref = decoded[key]
		}
	}
	if packed == nil || ref == nil {
		t.Fatalf("expected one packed widget and one reference, got %v", decoded)
	}
	if packed["_type"] != chooser.ImageChooserConstructor {
		t.Fatalf("unexpected _type %v", packed["_type"])
	}
	if diff := cmp.Diff(packed["_id"], ref["_ref"]); diff != "" {
		t.Fatalf("reference should point at the packed widget (-id +ref):\n%s", diff)
	}
	args, _ := packed["_args"].([]any)
	if len(args) != 2 || args[1] != "__ID__" {
		t.Fatalf("unexpected args %v", packed["_args"])
	}

	want := media.Media{JS: []string{"/static/wagtailimages/js/image-chooser-telepath.js"}}
	if diff := cmp.Diff(want, assets); diff != "" {
		t.Fatalf("media mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterAdapters_RequiresRegistry(t *testing.T) {
	if err := chooser.RegisterAdapters(nil, nil); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}
