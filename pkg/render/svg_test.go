package render

import (
	"strings"
	"testing"

	"github.com/kintree/kintree/pkg/tree/layout"
)

func testLayout() layout.Layout {
	return layout.Layout{
		Width:  400,
		Height: 200,
		Boxes: []layout.Box{
			{PersonID: 1, Label: "Greta", X: 24, Y: 24, Width: 160, Height: 64},
			{PersonID: 2, Label: "Henrik & Sons <Ltd>", X: 216, Y: 24, Width: 160, Height: 64},
		},
		Lines: []layout.Line{
			{Kind: layout.LineSpouse, X1: 184, Y1: 56, X2: 216, Y2: 56},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testLayout()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400.0 200.0"`) {
		t.Errorf("unexpected SVG header: %s", svg[:80])
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}

	if !strings.Contains(svg, `id="person-1"`) || !strings.Contains(svg, `id="person-2"`) {
		t.Error("missing person rects")
	}
	if !strings.Contains(svg, ">Greta<") {
		t.Error("missing label text")
	}
	if !strings.Contains(svg, `class="conn conn-spouse"`) {
		t.Error("missing spouse connector")
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	svg := string(RenderSVG(testLayout()))

	if strings.Contains(svg, "<Ltd>") {
		t.Error("label markup must be escaped")
	}
	if !strings.Contains(svg, "&amp;") || !strings.Contains(svg, "&lt;") {
		t.Error("expected escaped entities in label")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testLayout(),
		WithTitle("The Larsson family"),
		WithBoxFill("#ffffff"),
		WithSublabel(func(id int) string {
			if id == 1 {
				return "1900 – 1980"
			}
			return ""
		}),
	))

	if !strings.Contains(svg, "<title>The Larsson family</title>") {
		t.Error("missing title element")
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("box fill option not applied")
	}
	if !strings.Contains(svg, "1900 – 1980") {
		t.Error("sublabel for person 1 missing")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 20, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a very long family name indeed", 10, "a very lo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
