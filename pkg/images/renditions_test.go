package images

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestURLRenditionSource(t *testing.T) {
	source := NewURLRenditionSource("https://cdn.example.com/media")
	img := Image{ID: "1", File: "original_images/sunset.jpg", Width: 1200, Height: 800}

	got, err := source.Rendition(context.Background(), img, MustParseFilterSpec("max-165x165"))
	if err != nil {
		t.Fatalf("rendition: %v", err)
	}
	want := Rendition{
		ImageID:    "1",
		FilterSpec: "max-165x165",
		URL:        "https://cdn.example.com/media/images/sunset.max-165x165.jpg",
		Width:      165,
		Height:     110,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rendition mismatch (-want +got):\n%s", diff)
	}

	webp, err := source.Rendition(context.Background(), img, MustParseFilterSpec("width-400|format-webp"))
	if err != nil {
		t.Fatalf("rendition: %v", err)
	}
	if webp.URL != "https://cdn.example.com/media/images/sunset.width-400.format-webp.webp" {
		t.Fatalf("unexpected webp url %q", webp.URL)
	}
}

func TestURLRenditionSourceMissingFile(t *testing.T) {
	source := NewURLRenditionSource("")
	_, err := source.Rendition(context.Background(), Image{ID: "3"}, MustParseFilterSpec("max-165x165"))
	if !errors.Is(err, ErrSourceImageIO) {
		t.Fatalf("expected ErrSourceImageIO, got %v", err)
	}
}

func TestGetOrNotFoundFallsBackToPlaceholder(t *testing.T) {
	var logs bytes.Buffer
	renditions := NewRenditions(
		WithMediaURL("/uploads"),
		WithLogger(zerolog.New(&logs)),
	)

	got, err := renditions.GetOrNotFound(context.Background(), Image{ID: "3", Title: "Missing"}, MustParseFilterSpec("max-165x165"))
	if err != nil {
		t.Fatalf("get or not found: %v", err)
	}
	want := Rendition{
		ImageID:    "3",
		FilterSpec: "max-165x165",
		URL:        "/uploads/not-found",
		NotFound:   true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("placeholder mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "placeholder") {
		t.Fatalf("expected fallback to be logged, got %q", logs.String())
	}
}

type failingSource struct{ err error }

func (s failingSource) Rendition(context.Context, Image, FilterSpec) (Rendition, error) {
	return Rendition{}, s.err
}

func TestGetOrNotFoundPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("storage offline")
	_, err := GetRenditionOrNotFound(context.Background(), failingSource{err: boom}, Image{ID: "1"}, MustParseFilterSpec("original"), "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}

	got, err := GetRenditionOrNotFound(context.Background(), failingSource{err: ErrSourceImageIO}, Image{ID: "1"}, MustParseFilterSpec("original"), "")
	if err != nil {
		t.Fatalf("expected placeholder, got %v", err)
	}
	if got.URL != "/media/not-found" || got.Width != 0 || got.Height != 0 {
		t.Fatalf("unexpected placeholder %+v", got)
	}
}
