package provider

import (
	"context"
	"testing"
)

type fakeProvider struct{ name string }

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Search(context.Context, Query) ([]Candidate, error) {
	return nil, nil
}
func (f *fakeProvider) FetchMetadata(context.Context, string) (*Metadata, error) {
	return nil, ErrNoResult
}

func TestRegistry_Ordered(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"tmdb", "omdb", "local"} {
		if err := r.Register(&fakeProvider{name: name}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	got := r.Ordered("omdb")
	want := []string{"omdb", "tmdb", "local"}
	if len(got) != len(want) {
		t.Fatalf("Ordered returned %d providers, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Name() != want[i] {
			t.Errorf("Ordered[%d] = %s, want %s", i, p.Name(), want[i])
		}
	}

	// unknown primary falls back to registration order
	got = r.Ordered("nope")
	if got[0].Name() != "tmdb" {
		t.Errorf("Ordered with unknown primary starts with %s, want tmdb", got[0].Name())
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeProvider{name: "tmdb"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&fakeProvider{name: "tmdb"}); err == nil {
		t.Error("duplicate Register should fail")
	}
}
