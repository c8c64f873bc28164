package imagesearch

import (
	"sort"
	"strings"

	"github.com/goliatone/go-imagechooser/pkg/images"
)

// Option is one chooser listing entry.
type Option struct {
	Value        string `json:"value"`
	Label        string `json:"label"`
	CollectionID string `json:"collection_id,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// Query narrows a search. An empty Collection matches every image.
type Query struct {
	Text       string
	Collection string
	Limit      int
}

// Search matches q.Text case-insensitively against title and id. Title
// prefix matches sort first; ties keep repository order.
func Search(list []images.Image, q Query, opts Options) []images.Image {
	limit := clampLimit(q.Limit, opts)
	if limit == 0 {
		return nil
	}
	collection := strings.TrimSpace(q.Collection)
	text := strings.ToLower(strings.TrimSpace(q.Text))

	if text == "" && opts.EmptySearchMode != EmptySearchTop {
		return nil
	}

	matches := make([]matchedImage, 0, len(list))
	for _, img := range list {
		if collection != "" && img.CollectionID != collection {
			continue
		}
		if text == "" {
			matches = append(matches, matchedImage{image: img})
			continue
		}
		title := strings.ToLower(img.Title)
		if !strings.Contains(title, text) && strings.ToLower(img.ID) != text {
			continue
		}
		matches = append(matches, matchedImage{
			image:    img,
			isPrefix: strings.HasPrefix(title, text),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]images.Image, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.image)
	}
	return out
}

func SearchOptions(list []images.Image, q Query, opts Options) []Option {
	results := Search(list, q, opts)
	if len(results) == 0 {
		return nil
	}
	out := make([]Option, 0, len(results))
	for _, img := range results {
		out = append(out, Option{
			Value:        img.ID,
			Label:        img.Title,
			CollectionID: img.CollectionID,
			Width:        img.Width,
			Height:       img.Height,
		})
	}
	return out
}

type matchedImage struct {
	image    images.Image
	isPrefix bool
}
