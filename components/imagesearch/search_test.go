package imagesearch

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-imagechooser/pkg/images"
	"github.com/goliatone/go-imagechooser/pkg/testsupport"
)

func ids(list []images.Image) []string {
	out := make([]string, 0, len(list))
	for _, img := range list {
		out = append(out, img.ID)
	}
	return out
}

func TestSearch_CaseInsensitiveContains(t *testing.T) {
	results := Search(testsupport.SampleImages(), Query{Text: "OR"}, NewOptions())
	if diff := cmp.Diff([]string{"2", "3"}, ids(results)); diff != "" {
		t.Fatalf("unexpected results (-want +got):\n%s", diff)
	}
}

func TestSearch_PrefixBeforeContains(t *testing.T) {
	list := []images.Image{
		{ID: "a", Title: "Big sunset"},
		{ID: "b", Title: "Harbour"},
		{ID: "c", Title: "Sunset"},
	}
	results := Search(list, Query{Text: "sunset"}, NewOptions())
	if diff := cmp.Diff([]string{"c", "a"}, ids(results)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSearch_MatchesExactID(t *testing.T) {
	results := Search(testsupport.SampleImages(), Query{Text: "3"}, NewOptions())
	if diff := cmp.Diff([]string{"3"}, ids(results)); diff != "" {
		t.Fatalf("unexpected results (-want +got):\n%s", diff)
	}
}

func TestSearch_EmptyQueryModes(t *testing.T) {
	list := testsupport.SampleImages()

	top := Search(list, Query{}, NewOptions())
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids(top)); diff != "" {
		t.Fatalf("top mode (-want +got):\n%s", diff)
	}
	if got := Search(list, Query{Text: "  "}, NewOptions(WithEmptySearchMode(EmptySearchNone))); got != nil {
		t.Fatalf("expected no results in none mode, got %#v", got)
	}
}

func TestSearch_CollectionFilter(t *testing.T) {
	results := Search(testsupport.SampleImages(), Query{Collection: "people"}, NewOptions())
	if diff := cmp.Diff([]string{"2"}, ids(results)); diff != "" {
		t.Fatalf("unexpected results (-want +got):\n%s", diff)
	}
}

func TestSearch_LimitClamped(t *testing.T) {
	list := testsupport.SampleImages()
	opts := NewOptions(WithMaxLimit(2))

	if got := Search(list, Query{Limit: 10}, opts); len(got) != 2 {
		t.Fatalf("expected max limit 2, got %d", len(got))
	}
	if got := Search(list, Query{Limit: -1}, opts); got != nil {
		t.Fatalf("expected negative limit to return nothing, got %#v", got)
	}
}

func TestSearchOptions_MapsImages(t *testing.T) {
	got := SearchOptions(testsupport.SampleImages(), Query{Text: "portrait"}, NewOptions())
	want := []Option{{
		Value:        "2",
		Label:        `Portrait "draft" <b>`,
		CollectionID: "people",
		Width:        800,
		Height:       1200,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}
