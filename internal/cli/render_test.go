package cli

import "testing"

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "family.json", "family"},
		{"", "data/holm.json", "data/holm"},
		{"out.svg", "family.json", "out"},
		{"out.png", "family.json", "out"},
		{"out", "family.json", "out"},
		{"archive.backup", "family.json", "archive.backup"}, // unknown extension kept
	}

	for _, tt := range tests {
		got := basePath(tt.output, tt.input)
		if got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}
