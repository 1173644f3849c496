// Package layout computes 2-D coordinates for a family forest.
//
// Each person gets one rectangular box. Generations are stacked top-down:
// roots (persons with no recorded parent) in row 0, their children one row
// below, and so on. Spouses are placed directly beside the person that
// anchors the couple, subtrees are centered above their children, and sibling
// subtrees are packed left to right. Multiple roots produce a forest packed
// along the x axis.
//
// Besides boxes the layout emits connector line segments for rendering:
// a horizontal spouse link, a vertical drop from a couple to its child bus,
// a horizontal bus spanning the children, and a vertical branch onto each
// child box.
//
// The walk is cycle-safe: a person already placed is never laid out again,
// so malformed relationship data cannot recurse forever.
package layout

import (
	"slices"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/tree"
)

// Line kinds emitted by Compute.
const (
	LineSpouse = "spouse" // horizontal link between partners
	LineDrop   = "drop"   // vertical drop from a couple toward its children
	LineBus    = "bus"    // horizontal bus spanning a child group
	LineBranch = "branch" // vertical branch from the bus onto a child box
)

// Default geometry in user units (pixels in SVG output).
const (
	DefaultBoxWidth  = 160.0
	DefaultBoxHeight = 64.0
	DefaultGapX      = 32.0
	DefaultGapY      = 72.0
	DefaultMargin    = 24.0
)

// Options configures the layout geometry. The zero value is not usable -
// call SetDefaults or start from Options{} and let Compute apply defaults.
type Options struct {
	BoxWidth  float64 `json:"box_width,omitempty"`
	BoxHeight float64 `json:"box_height,omitempty"`
	GapX      float64 `json:"gap_x,omitempty"` // horizontal gap between sibling boxes
	GapY      float64 `json:"gap_y,omitempty"` // vertical gap between generations
	Margin    float64 `json:"margin,omitempty"`
}

// SetDefaults fills unset (zero) fields with the default geometry.
func (o *Options) SetDefaults() {
	if o.BoxWidth == 0 {
		o.BoxWidth = DefaultBoxWidth
	}
	if o.BoxHeight == 0 {
		o.BoxHeight = DefaultBoxHeight
	}
	if o.GapX == 0 {
		o.GapX = DefaultGapX
	}
	if o.GapY == 0 {
		o.GapY = DefaultGapY
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
}

// Box is a positioned person rectangle. X/Y are the top-left corner.
type Box struct {
	PersonID int     `json:"person_id" bson:"person_id"`
	Label    string  `json:"label" bson:"label"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// Bottom returns the y coordinate of the box's lower edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Line is a connector segment between two points.
type Line struct {
	Kind string  `json:"kind" bson:"kind"`
	X1   float64 `json:"x1" bson:"x1"`
	Y1   float64 `json:"y1" bson:"y1"`
	X2   float64 `json:"x2" bson:"x2"`
	Y2   float64 `json:"y2" bson:"y2"`
}

// Layout is the computed arrangement of a family forest.
type Layout struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Boxes  []Box   `json:"boxes" bson:"boxes"`
	Lines  []Line  `json:"lines" bson:"lines"`
}

// Compute lays out the forest derived from the augmented persons.
// Output is deterministic: roots and children are processed in ID order.
func Compute(persons []tree.Person, opts Options) Layout {
	opts.SetDefaults()

	w := &walker{
		opts:    opts,
		index:   tree.Index(persons),
		visited: make(map[int]bool, len(persons)),
	}

	cursorX := opts.Margin
	for _, root := range tree.Roots(persons) {
		if w.visited[root.ID] {
			continue // placed as the spouse of an earlier root
		}
		width := w.subtree(root.ID, cursorX, 0)
		cursorX += width + opts.GapX
	}

	// Anyone not reachable from a root (cyclic parent data) still gets a box
	// in a final overflow row, so no record silently disappears.
	overflowRow := w.maxRow + 1
	for _, p := range persons {
		if !w.visited[p.ID] {
			w.placeBox(p.ID, cursorX, overflowRow)
			cursorX += opts.BoxWidth + opts.GapX
		}
	}

	return w.finish(cursorX)
}

// walker carries the mutable state of one Compute run.
type walker struct {
	opts    Options
	index   map[int]*tree.Person
	visited map[int]bool
	boxes   []Box
	lines   []Line
	maxRow  int
}

// rowY returns the top y coordinate for a generation row.
func (w *walker) rowY(row int) float64 {
	return w.opts.Margin + float64(row)*(w.opts.BoxHeight+w.opts.GapY)
}

func (w *walker) placeBox(personID int, x float64, row int) Box {
	p := w.index[personID]
	b := Box{
		PersonID: personID,
		Label:    p.Name,
		X:        x,
		Y:        w.rowY(row),
		Width:    w.opts.BoxWidth,
		Height:   w.opts.BoxHeight,
	}
	w.visited[personID] = true
	w.boxes = append(w.boxes, b)
	if row > w.maxRow {
		w.maxRow = row
	}
	return b
}

// subtree lays out the person, its unplaced spouses, and its descendants,
// with the subtree's left edge at leftX and the person in the given row.
// Returns the total width consumed.
func (w *walker) subtree(personID int, leftX float64, row int) float64 {
	p := w.index[personID]
	w.visited[personID] = true // reserve before recursing: cycle guard

	// The couple unit: the person plus spouses not yet placed elsewhere.
	unit := []int{personID}
	for _, s := range p.Spouses {
		if !w.visited[s.ID] {
			w.visited[s.ID] = true
			unit = append(unit, s.ID)
		}
	}
	unitWidth := float64(len(unit))*w.opts.BoxWidth + float64(len(unit)-1)*w.opts.GapX

	// Lay out the descendant block first (flush-left) to learn its width.
	// Remember where it starts in the box/line slices so it can be
	// re-centered under a wider couple unit afterwards.
	boxStart := len(w.boxes)
	lineStart := len(w.lines)

	childLeft := leftX
	var childIDs []int
	childrenWidth := 0.0
	for _, c := range w.unitChildren(unit) {
		if w.visited[c.ID] {
			continue // already placed under the other parent or a cycle
		}
		width := w.subtree(c.ID, childLeft, row+1)
		childIDs = append(childIDs, c.ID)
		childLeft += width + w.opts.GapX
		childrenWidth += width + w.opts.GapX
	}
	if childrenWidth > 0 {
		childrenWidth -= w.opts.GapX // no trailing gap
	}

	width := max(unitWidth, childrenWidth)

	// Re-center the descendant block if the couple unit is wider.
	if childrenWidth > 0 && childrenWidth < width {
		w.shift(boxStart, lineStart, (width-childrenWidth)/2)
	}

	// Place the couple unit centered over the subtree.
	unitLeft := leftX + (width-unitWidth)/2
	unitBoxes := make([]Box, len(unit))
	for i, id := range unit {
		x := unitLeft + float64(i)*(w.opts.BoxWidth+w.opts.GapX)
		unitBoxes[i] = w.placeBox(id, x, row)
	}

	childBoxes := make([]Box, len(childIDs))
	for i, id := range childIDs {
		childBoxes[i] = w.boxByID(id)
	}

	w.connectSpouses(unitBoxes)
	w.connectChildren(unitBoxes, childBoxes, row)

	return width
}

// shift moves all boxes appended since boxStart and all lines appended since
// lineStart by dx. Used to re-center a flush-left descendant block.
func (w *walker) shift(boxStart, lineStart int, dx float64) {
	for i := boxStart; i < len(w.boxes); i++ {
		w.boxes[i].X += dx
	}
	for i := lineStart; i < len(w.lines); i++ {
		w.lines[i].X1 += dx
		w.lines[i].X2 += dx
	}
}

// connectSpouses draws a horizontal link between adjacent partner boxes.
func (w *walker) connectSpouses(unit []Box) {
	for i := 1; i < len(unit); i++ {
		y := unit[i].Y + unit[i].Height/2
		w.lines = append(w.lines, Line{
			Kind: LineSpouse,
			X1:   unit[i-1].X + unit[i-1].Width, Y1: y,
			X2: unit[i].X, Y2: y,
		})
	}
}

// connectChildren draws the drop, bus, and branch segments from a couple
// unit to its child boxes.
func (w *walker) connectChildren(unit, children []Box, row int) {
	if len(children) == 0 {
		return
	}

	// Drop anchor: midpoint of the spouse link for a couple, box center for
	// a single parent.
	anchorX := unit[0].CenterX()
	if len(unit) > 1 {
		anchorX = (unit[0].CenterX() + unit[1].CenterX()) / 2
	}
	coupleBottom := unit[0].Bottom()
	anchorY := coupleBottom
	if len(unit) > 1 {
		anchorY = unit[0].Y + unit[0].Height/2 // drop starts on the spouse link
	}

	busY := w.rowY(row+1) - w.opts.GapY/2

	w.lines = append(w.lines, Line{Kind: LineDrop, X1: anchorX, Y1: anchorY, X2: anchorX, Y2: busY})

	minX, maxX := anchorX, anchorX
	for _, c := range children {
		cx := c.CenterX()
		minX = min(minX, cx)
		maxX = max(maxX, cx)
	}
	if minX != maxX {
		w.lines = append(w.lines, Line{Kind: LineBus, X1: minX, Y1: busY, X2: maxX, Y2: busY})
	}

	for _, c := range children {
		w.lines = append(w.lines, Line{Kind: LineBranch, X1: c.CenterX(), Y1: busY, X2: c.CenterX(), Y2: c.Y})
	}
}

// unitChildren merges the children of every couple member, so a child
// recorded only against one partner is still laid out under the couple.
// The merged list is deduplicated and ordered by person ID.
func (w *walker) unitChildren(unit []int) []family.Person {
	var out []family.Person
	seen := make(map[int]bool)
	for _, id := range unit {
		for _, c := range w.index[id].Children {
			if !seen[c.ID] {
				seen[c.ID] = true
				out = append(out, c)
			}
		}
	}
	slices.SortFunc(out, func(a, b family.Person) int { return a.ID - b.ID })
	return out
}

func (w *walker) boxByID(personID int) Box {
	for i := len(w.boxes) - 1; i >= 0; i-- {
		if w.boxes[i].PersonID == personID {
			return w.boxes[i]
		}
	}
	return Box{}
}

// finish computes the frame dimensions and returns the layout.
func (w *walker) finish(cursorX float64) Layout {
	width := w.opts.Margin
	if len(w.boxes) > 0 {
		width = cursorX - w.opts.GapX + w.opts.Margin
	}
	height := w.opts.Margin
	if len(w.boxes) > 0 {
		height = w.rowY(w.maxRow) + w.opts.BoxHeight + w.opts.Margin
	}

	boxes := w.boxes
	if boxes == nil {
		boxes = []Box{}
	}
	lines := w.lines
	if lines == nil {
		lines = []Line{}
	}
	return Layout{Width: width, Height: height, Boxes: boxes, Lines: lines}
}
