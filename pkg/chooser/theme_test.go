package chooser_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-imagechooser/pkg/chooser"
	"github.com/goliatone/go-imagechooser/pkg/media"
	"github.com/goliatone/go-imagechooser/pkg/telepath"
	"github.com/goliatone/go-imagechooser/pkg/testsupport"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			"images.chooser": "themes/acme/image_chooser.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"wagtailimages/js/image-chooser-modal.js": "modal.js",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"wagtailimages/js/image-chooser.js": "chooser.dark.js",
					},
				},
			},
		},
	}
}

func themeTemplates() fstest.MapFS {
	return fstest.MapFS{
		"themes/acme/image_chooser.tpl": &fstest.MapFile{
			Data: []byte(`<div class="acme-chooser" style="{{ theme_style }}">{{ title }}|{{ preview.width }}</div>`),
		},
	}
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}

func TestAdminImageChooser_ThemeOverridesTemplateAndAssets(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: acmeManifest(),
	}}
	widget := newImageChooser(t,
		chooser.WithTemplatesFS(themeTemplates()),
		chooser.WithThemeSelector(selector, "acme", "dark"),
	)

	if diff := cmp.Diff([]selectorCall{{name: "acme", variant: "dark"}}, selector.calls, cmp.AllowUnexported(selectorCall{})); diff != "" {
		t.Fatalf("selector calls mismatch (-want +got):\n%s", diff)
	}

	out, err := widget.Render(testsupport.Context(), "image", "1", map[string]string{"id": "id_image"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div class="acme-chooser" style="--brand: #654321">Sunset over the bay|165</div><script>createImageChooser("id_image");</script>`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("themed output mismatch (-want +got):\n%s", diff)
	}

	wantMedia := media.Media{JS: []string{
		"/assets/themes/acme/modal.js",
		"/assets/themes/acme/chooser.dark.js",
	}}
	if diff := cmp.Diff(wantMedia, widget.Media()); diff != "" {
		t.Fatalf("themed media mismatch (-want +got):\n%s", diff)
	}
}

func TestAdminImageChooser_ThemeWithoutOverridesKeepsDefaults(t *testing.T) {
	widget := newImageChooser(t, chooser.WithTheme(&theme.Selection{Theme: "plain"}))

	want := media.Media{JS: []string{
		"/static/wagtailimages/js/image-chooser-modal.js",
		"/static/wagtailimages/js/image-chooser.js",
	}}
	if diff := cmp.Diff(want, widget.Media()); diff != "" {
		t.Fatalf("media mismatch (-want +got):\n%s", diff)
	}

	out, err := widget.Render(testsupport.Context(), "image", "1", map[string]string{"id": "id_image"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out == "" {
		t.Fatalf("expected default template output")
	}
}

func TestAdminImageChooser_ThemeSelectorError(t *testing.T) {
	selector := &stubThemeSelector{err: errors.New("unknown theme")}
	_, err := chooser.NewAdminImageChooser(testsupport.MustRepository(t), chooser.WithThemeSelector(selector, "missing", ""))
	if err == nil {
		t.Fatalf("expected selector error")
	}
}

func TestRegisterAdapters_ResolvesTelepathScriptThroughTheme(t *testing.T) {
	manifest := acmeManifest()
	manifest.Assets.Files[chooser.ImageChooserTelepathJS] = "telepath.js"
	widget := newImageChooser(t,
		chooser.WithTemplatesFS(themeTemplates()),
		chooser.WithTheme(&theme.Selection{Theme: "acme", Manifest: manifest}),
	)

	registry := telepath.NewRegistry()
	if err := chooser.RegisterAdapters(registry, widget); err != nil {
		t.Fatalf("register adapters: %v", err)
	}
	_, assets, err := telepath.Marshal(testsupport.Context(), registry, []any{widget})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := media.Media{JS: []string{"/assets/themes/acme/telepath.js"}}
	if diff := cmp.Diff(want, assets); diff != "" {
		t.Fatalf("adapter media mismatch (-want +got):\n%s", diff)
	}
	if got := widget.AssetURL(chooser.ImageChooserTelepathJS); got != want.JS[0] {
		t.Fatalf("widget and adapter must agree on the script url, widget got %q", got)
	}
}
