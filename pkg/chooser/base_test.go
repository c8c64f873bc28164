package chooser_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-imagechooser/pkg/chooser"
	"github.com/goliatone/go-imagechooser/pkg/telepath"
	"github.com/goliatone/go-imagechooser/pkg/testsupport"
	"github.com/goliatone/go-imagechooser/pkg/urls"
)

type document struct {
	ID    string
	Title string
}

var errNoDocument = errors.New("document not found")

type documentLookup map[string]document

func (l documentLookup) Get(_ context.Context, id string) (document, error) {
	doc, ok := l[id]
	if !ok {
		return document{}, errNoDocument
	}
	return doc, nil
}

func newDocumentChooser(t *testing.T, opts ...chooser.Option) *chooser.BaseChooser[document] {
	t.Helper()
	routes := urls.NewRoutes()
	routes.MustRegister("documents:edit", "/admin/documents/edit/{id}/")
	routes.MustRegister("documents:chooser", "/admin/documents/chooser/")

	opts = append([]chooser.Option{
		chooser.WithReverser(routes),
		chooser.WithEditRoute("documents:edit"),
	}, opts...)
	widget, err := chooser.NewBaseChooser(chooser.Model[document]{
		Lookup:     documentLookup{"7": {ID: "7", Title: "Annual report"}},
		ID:         func(d document) string { return d.ID },
		Title:      func(d document) string { return d.Title },
		IsNotFound: func(err error) bool { return errors.Is(err, errNoDocument) },
	}, opts...)
	if err != nil {
		t.Fatalf("new base chooser: %v", err)
	}
	widget.ChooserURLName = "documents:chooser"
	widget.Icon = "doc-full"
	return widget
}

func TestBaseChooser_ValueData(t *testing.T) {
	widget := newDocumentChooser(t)

	got, err := widget.GetValueData(testsupport.Context(), "7")
	if err != nil {
		t.Fatalf("value data: %v", err)
	}
	want := chooser.ValueData{"id": "7", "edit_url": "/admin/documents/edit/7/", "title": "Annual report"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value data mismatch (-want +got):\n%s", diff)
	}

	missing, err := widget.GetValueData(testsupport.Context(), "8")
	if err != nil || missing != nil {
		t.Fatalf("missing document should give nil data, got %v, %v", missing, err)
	}
}

func TestBaseChooser_RenderWithoutJSInit(t *testing.T) {
	widget := newDocumentChooser(t)

	out, err := widget.Render(testsupport.Context(), "doc", "7", map[string]string{"id": "id_doc"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`id="id_doc-chooser"`,
		`data-chooser-url="/admin/documents/chooser/"`,
		"icon-doc-full",
		"Choose another item",
		"Edit this item",
		`href="/admin/documents/edit/7/"`,
		`<input type="hidden" name="doc" value="7" id="id_doc">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("base chooser has no js init:\n%s", out)
	}
	if !widget.Media().IsZero() {
		t.Fatalf("base chooser declares no media")
	}
}

func TestBaseChooser_UnknownChooserRoute(t *testing.T) {
	widget := newDocumentChooser(t)
	widget.ChooserURLName = "documents:missing"

	_, err := widget.Render(testsupport.Context(), "doc", nil, map[string]string{"id": "id_doc"})
	if !errors.Is(err, urls.ErrNoReverseMatch) {
		t.Fatalf("expected no reverse match, got %v", err)
	}
}

func TestBaseChooser_HiddenInputEscapesAttributes(t *testing.T) {
	widget := newDocumentChooser(t)

	got := widget.RenderHiddenInput(`doc"x`, `7&8`, map[string]string{
		"id":    "id_doc",
		"class": "a<b",
		"value": "ignored",
	})
	want := `<input type="hidden" name="doc&#34;x" value="7&amp;8" class="a&lt;b" id="id_doc">`
	if got != want {
		t.Fatalf("hidden input mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestBaseChooser_PacksThroughWidgetAdapter(t *testing.T) {
	widget := newDocumentChooser(t)
	registry := telepath.NewRegistry()
	if err := chooser.RegisterAdapters(registry, nil); err != nil {
		t.Fatalf("register adapters: %v", err)
	}

	packed, err := telepath.NewJSContext(registry).Pack(testsupport.Context(), widget)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	node, ok := packed.(map[string]any)
	if !ok {
		t.Fatalf("expected packed object, got %T", packed)
	}
	if node["_type"] != telepath.DefaultWidgetConstructor {
		t.Fatalf("unexpected _type %v", node["_type"])
	}
	args, _ := node["_args"].([]any)
	if len(args) != 2 || args[1] != telepath.IDPlaceholder {
		t.Fatalf("unexpected args %v", node["_args"])
	}
	if html, _ := args[0].(string); !strings.Contains(html, `name="__NAME__"`) {
		t.Fatalf("expected placeholder name in html, got %v", args[0])
	}
}

func TestValueData_Helpers(t *testing.T) {
	data := chooser.ValueData{"id": 12, "preview": map[string]any{"url": "/x"}}
	if data.ID() != "12" {
		t.Fatalf("want id 12, got %q", data.ID())
	}
	if data.Map("preview")["url"] != "/x" {
		t.Fatalf("unexpected preview %v", data.Map("preview"))
	}
	if data.Map("id") != nil {
		t.Fatalf("non map value should give nil")
	}
	clone := data.Clone()
	clone["id"] = "13"
	if data.ID() != "12" {
		t.Fatalf("clone must not alias the original")
	}
	var empty chooser.ValueData
	if empty.ID() != "" || empty.Clone() != nil {
		t.Fatalf("nil value data helpers should be zero")
	}
}
