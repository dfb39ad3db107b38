package models

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestEncodeDecodeForm(t *testing.T) {
	form := PostForm{
		Title:     "Hello World",
		Content:   "# Heading\nbody",
		Category:  "TIL",
		Tags:      []string{"go", "blog"},
		Published: true,
	}

	blob, err := EncodeForm(form)
	if err != nil {
		t.Fatalf("EncodeForm: %v", err)
	}

	got, err := DecodeForm(blob)
	if err != nil {
		t.Fatalf("DecodeForm: %v", err)
	}
	if !reflect.DeepEqual(got, form) {
		t.Errorf("round trip: got %+v, want %+v", got, form)
	}
}

func TestEncodeFormNilTags(t *testing.T) {
	blob, err := EncodeForm(PostForm{Title: "t"})
	if err != nil {
		t.Fatalf("EncodeForm: %v", err)
	}
	want := `{"title":"t","content":"","category":"","tags":[],"published":false}`
	if blob != want {
		t.Errorf("blob: got %s, want %s", blob, want)
	}
}

func TestDecodeFormCorrupt(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "empty", blob: ""},
		{name: "whitespace", blob: "   "},
		{name: "not json", blob: "hello"},
		{name: "truncated object", blob: `{"title":"x"`},
		{name: "json null", blob: "null"},
		{name: "json array", blob: `["title"]`},
		{name: "json string", blob: `"title"`},
		{name: "wrong field type", blob: `{"title":42}`},
		{name: "tags not array", blob: `{"tags":"go"}`},
		{name: "published not bool", blob: `{"published":"yes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeForm(tt.blob)
			if !errors.Is(err, ErrCorruptForm) {
				t.Errorf("DecodeForm(%q) error = %v, want ErrCorruptForm", tt.blob, err)
			}
		})
	}
}

func TestDecodeFormPartialObject(t *testing.T) {
	got, err := DecodeForm(`{"title":"only a title"}`)
	if err != nil {
		t.Fatalf("DecodeForm: %v", err)
	}
	if got.Title != "only a title" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("tags: got %#v, want empty slice", got.Tags)
	}
}

func TestPostFormClone(t *testing.T) {
	f := PostForm{Tags: []string{"a"}}
	c := f.Clone()
	c.Tags[0] = "b"
	if f.Tags[0] != "a" {
		t.Error("Clone shares the tags slice with the original")
	}
}

func TestPostQueryOffset(t *testing.T) {
	tests := []struct {
		page, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 0},
		{2, 10, 10},
		{3, 6, 12},
		{2, 0, 0},
		{math.MaxInt, 3, math.MaxInt},
		{math.MaxInt / 2, 3, math.MaxInt},
	}
	for _, tt := range tests {
		got := PostQuery{Page: tt.page, Limit: tt.limit}.Offset()
		if got != tt.want {
			t.Errorf("Offset(page=%d, limit=%d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}
