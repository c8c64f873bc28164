package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-imagechooser/pkg/images"
)

// SampleImages returns the fixture images shared by chooser and telepath
// tests. Image "3" has no readable original and renders the not-found
// placeholder.
func SampleImages() []images.Image {
	return []images.Image{
		{ID: "1", Title: "Sunset over the bay", File: "original_images/sunset.jpg", Width: 1200, Height: 800},
		{ID: "2", Title: `Portrait "draft" <b>`, File: "original_images/portrait.png", Width: 800, Height: 1200, CollectionID: "people"},
		{ID: "3", Title: "Missing original"},
	}
}

// MustRepository wraps SampleImages in a memory repository.
func MustRepository(t testing.TB) *images.MemoryRepository {
	t.Helper()
	repo, err := images.NewMemoryRepository(SampleImages()...)
	if err != nil {
		t.Fatalf("sample repository: %v", err)
	}
	return repo
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t testing.TB, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
