package naming

import "testing"

func TestCleanStackingMarkers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Movie cd1", "Movie"},
		{"Movie CD2", "Movie"},
		{"Movie.cd1", "Movie"},
		{"Movie - disc 1", "Movie"},
		{"Movie disk2", "Movie"},
		{"Movie part1", "Movie"},
		{"Movie pt.2", "Movie"},
		{"Movie dvd1", "Movie"},
		{"Movie (1 of 2)", "Movie"},
		{"Movie 1of2", "Movie"},
		{"Movie cd1 extras", "Movie extras"},
		// Adjacent markers share a separator; both must go in one call.
		{"Movie part2 part3", "Movie"},
		{"Movie cd1 cd2 cd3", "Movie"},
		// No marker: returned unchanged.
		{"Movie", "Movie"},
		{"Apartment 1", "Apartment 1"},
		{"Apollo 13", "Apollo 13"},
		{"Partisan", "Partisan"},
		{"District 9", "District 9"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CleanStackingMarkers(tt.input)
			if got != tt.want {
				t.Errorf("CleanStackingMarkers(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanStackingMarkers_Idempotent(t *testing.T) {
	inputs := []string{
		"Movie cd1", "Movie part2 part3", "Movie (1 of 2)", "Movie", "Apollo 13",
		"Some.Movie.2010.cd1", "disc 1",
	}
	for _, in := range inputs {
		once := CleanStackingMarkers(in)
		twice := CleanStackingMarkers(once)
		if once != twice {
			t.Errorf("CleanStackingMarkers not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestHasStackingMarker(t *testing.T) {
	if !HasStackingMarker("Movie cd1") {
		t.Error("expected marker in 'Movie cd1'")
	}
	if HasStackingMarker("Apollo 13") {
		t.Error("unexpected marker in 'Apollo 13'")
	}
	if got := StackingMarker("Movie - part2.mkv"); got != "part2" {
		t.Errorf("StackingMarker = %q, want %q", got, "part2")
	}
	if got := StackingMarker("Movie"); got != "" {
		t.Errorf("StackingMarker = %q, want empty", got)
	}
}
