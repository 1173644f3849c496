// Package render turns a computed family layout into display artifacts.
//
// The SVG sink draws the boxes and connector lines of a tree layout directly;
// the nodelink subpackage renders the family graph through Graphviz as an
// alternative view.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kintree/kintree/pkg/tree/layout"
)

// Stroke colors per connector kind.
var lineColors = map[string]string{
	layout.LineSpouse: "#b5838d",
	layout.LineDrop:   "#6b705c",
	layout.LineBus:    "#6b705c",
	layout.LineBranch: "#6b705c",
}

type svgRenderer struct {
	title    string
	boxFill  string
	sublabel func(personID int) string
}

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

// WithTitle sets a document title element.
func WithTitle(title string) SVGOption {
	return func(r *svgRenderer) { r.title = title }
}

// WithBoxFill overrides the default box fill color.
func WithBoxFill(color string) SVGOption {
	return func(r *svgRenderer) { r.boxFill = color }
}

// WithSublabel provides a second text line per box (e.g. life dates).
// The function is called with the person ID; an empty result omits the line.
func WithSublabel(fn func(personID int) string) SVGOption {
	return func(r *svgRenderer) { r.sublabel = fn }
}

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{boxFill: "#fdf6ec"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}

	// Lines first so boxes paint over the bus endpoints.
	for _, ln := range l.Lines {
		color := lineColors[ln.Kind]
		if color == "" {
			color = "#6b705c"
		}
		fmt.Fprintf(&buf,
			`  <line class="conn conn-%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
			ln.Kind, ln.X1, ln.Y1, ln.X2, ln.Y2, color)
	}

	for _, b := range l.Boxes {
		fmt.Fprintf(&buf,
			`  <rect id="person-%d" class="person" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="#3d405b" stroke-width="1.5"/>`+"\n",
			b.PersonID, b.X, b.Y, b.Width, b.Height, r.boxFill)

		sub := ""
		if r.sublabel != nil {
			sub = r.sublabel(b.PersonID)
		}
		renderBoxText(&buf, b, sub)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBoxText(buf *bytes.Buffer, b layout.Box, sublabel string) {
	nameY := b.Y + b.Height/2 + 5
	if sublabel != "" {
		nameY = b.Y + b.Height/2 - 4
	}
	fmt.Fprintf(buf,
		`  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#3d405b">%s</text>`+"\n",
		b.CenterX(), nameY, escape(truncate(b.Label, 20)))

	if sublabel != "" {
		fmt.Fprintf(buf,
			`  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="11" fill="#6b705c">%s</text>`+"\n",
			b.CenterX(), b.Y+b.Height/2+14, escape(truncate(sublabel, 26)))
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
