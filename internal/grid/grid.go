// Package grid maps between pixel coordinates and timetable grid cells.
package grid

import "math"

const (
	// DefaultCellWidth is the pixel width of one day column.
	DefaultCellWidth = 80
	// DefaultCellHeight is the pixel height of one period row.
	DefaultCellHeight = 30
	// DefaultHeaderWidth is the width of the period label column.
	DefaultHeaderWidth = 120
	// DefaultHeaderHeight is the height of the day label row.
	DefaultHeaderHeight = 40
)

// Geometry holds the pixel layout of a grid.
type Geometry struct {
	CellWidth    float64
	CellHeight   float64
	HeaderWidth  float64 // Period label column, left of the first day
	HeaderHeight float64 // Day label row, above the first period
}

// DefaultGeometry returns the standard 80x30 layout.
func DefaultGeometry() Geometry {
	return Geometry{
		CellWidth:    DefaultCellWidth,
		CellHeight:   DefaultCellHeight,
		HeaderWidth:  DefaultHeaderWidth,
		HeaderHeight: DefaultHeaderHeight,
	}
}

// Rect is a bounding rectangle in pixels.
type Rect struct {
	Top, Left, Bottom, Right float64
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Top: r.Top + dy, Left: r.Left + dx, Bottom: r.Bottom + dy, Right: r.Right + dx}
}

// Transform is a drag translation.
type Transform struct {
	X, Y           float64
	ScaleX, ScaleY float64
}

// Snap rounds t to whole cells and clamps it so the dragged element stays
// inside the data area of the container. A nil rect counts as all zeros.
func (g Geometry) Snap(t Transform, container, dragging *Rect) Transform {
	var c, d Rect
	if container != nil {
		c = *container
	}
	if dragging != nil {
		d = *dragging
	}

	minX := c.Left - d.Left + g.HeaderWidth + 1
	minY := c.Top - d.Top + g.HeaderHeight + 1
	maxX := c.Right - d.Right
	maxY := c.Bottom - d.Bottom

	t.X = math.Min(math.Max(roundTo(t.X, g.CellWidth), minX), maxX)
	t.Y = math.Min(math.Max(roundTo(t.Y, g.CellHeight), minY), maxY)
	return t
}

// Delta converts a net displacement to whole day and period steps.
// Negative displacements floor toward negative infinity.
func (g Geometry) Delta(dx, dy float64) (dayDelta, periodDelta int) {
	return floorDiv(dx, g.CellWidth), floorDiv(dy, g.CellHeight)
}

// EntryRect returns the rectangle of an entry starting at the given
// 0-based day column and 1-based period, spanning length periods.
func (g Geometry) EntryRect(dayIndex, firstPeriod, length int) Rect {
	left := g.HeaderWidth + g.CellWidth*float64(dayIndex) + 1
	top := g.HeaderHeight + g.CellHeight*float64(firstPeriod-1) + 1
	return Rect{
		Top:    top,
		Left:   left,
		Right:  left + g.CellWidth - 1,
		Bottom: top + g.CellHeight*float64(length) - 1,
	}
}

// ContainerRect returns the rectangle of a whole grid with its origin at (0, 0).
func (g Geometry) ContainerRect(days, periods int) Rect {
	return Rect{
		Right:  g.HeaderWidth + g.CellWidth*float64(days),
		Bottom: g.HeaderHeight + g.CellHeight*float64(periods),
	}
}

// CellAt returns the cell under a container-relative point.
// ok is false for points on the headers or outside days x periods.
func (g Geometry) CellAt(x, y float64, days, periods int) (dayIndex, period int, ok bool) {
	if x < g.HeaderWidth || y < g.HeaderHeight {
		return 0, 0, false
	}
	dayIndex = floorDiv(x-g.HeaderWidth, g.CellWidth)
	period = floorDiv(y-g.HeaderHeight, g.CellHeight) + 1
	if dayIndex >= days || period > periods {
		return 0, 0, false
	}
	return dayIndex, period, true
}

func roundTo(v, step float64) float64 {
	if step == 0 {
		return v
	}
	return math.Round(v/step) * step
}

func floorDiv(v, step float64) int {
	if step == 0 {
		return 0
	}
	return int(math.Floor(v / step))
}
