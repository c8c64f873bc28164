package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrImageNotFound is returned by repositories for unknown ids.
var ErrImageNotFound = errors.New("images: image not found")

// Image is the chooser's view of a stored image asset.
type Image struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	File         string `json:"file" yaml:"file"`
	Width        int    `json:"width" yaml:"width"`
	Height       int    `json:"height" yaml:"height"`
	CollectionID string `json:"collection_id,omitempty" yaml:"collection_id,omitempty"`
}

// Filename returns the base name of the stored file.
func (i Image) Filename() string {
	if i.File == "" {
		return ""
	}
	return path.Base(i.File)
}

// Repository is the image model lookup used by choosers.
type Repository interface {
	Get(ctx context.Context, id string) (Image, error)
	List(ctx context.Context) ([]Image, error)
}

// MemoryRepository keeps images in insertion order.
type MemoryRepository struct {
	mu     sync.RWMutex
	images map[string]Image
	order  []string
}

// NewMemoryRepository seeds a repository; duplicate or blank ids fail.
func NewMemoryRepository(images ...Image) (*MemoryRepository, error) {
	repo := &MemoryRepository{images: make(map[string]Image, len(images))}
	for _, img := range images {
		if err := repo.Add(img); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// Add stores img. Ids are trimmed and must be unique.
func (r *MemoryRepository) Add(img Image) error {
	img.ID = strings.TrimSpace(img.ID)
	if img.ID == "" {
		return fmt.Errorf("images: image id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.images[img.ID]; exists {
		return fmt.Errorf("images: duplicate image id %q", img.ID)
	}
	r.images[img.ID] = img
	r.order = append(r.order, img.ID)
	return nil
}

// Get implements Repository.
func (r *MemoryRepository) Get(ctx context.Context, id string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.images[strings.TrimSpace(id)]
	if !ok {
		return Image{}, fmt.Errorf("%w: %q", ErrImageNotFound, id)
	}
	return img, nil
}

// List implements Repository.
func (r *MemoryRepository) List(ctx context.Context) ([]Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Image, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.images[id])
	}
	return out, nil
}

type catalogDocument struct {
	Images []Image `yaml:"images"`
}

// LoadCatalog decodes a YAML image catalog:
//
//	images:
//	  - id: "1"
//	    title: Sunset
//	    file: original_images/sunset.jpg
//	    width: 1200
//	    height: 800
func LoadCatalog(r io.Reader) (*MemoryRepository, error) {
	var doc catalogDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("images: decode catalog: %w", err)
	}
	return NewMemoryRepository(doc.Images...)
}

// LoadCatalogFile reads a catalog from disk.
func LoadCatalogFile(path string) (*MemoryRepository, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("images: open catalog: %w", err)
	}
	defer file.Close()
	return LoadCatalog(file)
}
