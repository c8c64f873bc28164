package images

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCatalogFile(t *testing.T) {
	repo, err := LoadCatalogFile(filepath.Join("testdata", "catalog.yaml"))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	all, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 images, got %d", len(all))
	}
	if all[0].ID != "1" || all[1].ID != "2" || all[2].ID != "3" {
		t.Fatalf("expected insertion order, got %v, %v, %v", all[0].ID, all[1].ID, all[2].ID)
	}

	img, err := repo.Get(context.Background(), " 2 ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if img.Title != "Portrait <draft>" || img.CollectionID != "people" || img.Filename() != "portrait.png" {
		t.Fatalf("unexpected image %+v", img)
	}
}

func TestMemoryRepositoryErrors(t *testing.T) {
	repo, err := NewMemoryRepository(Image{ID: "1"})
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if _, err := repo.Get(context.Background(), "9"); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
	if err := repo.Add(Image{ID: "1"}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if err := repo.Add(Image{ID: " "}); err == nil {
		t.Fatalf("expected blank id error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.Get(ctx, "1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestLoadCatalogRejectsDuplicates(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("images:\n  - id: a\n  - id: a\n"))
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	empty, err := LoadCatalog(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty catalog: %v", err)
	}
	if all, _ := empty.List(context.Background()); len(all) != 0 {
		t.Fatalf("expected empty catalog")
	}
}
