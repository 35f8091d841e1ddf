package tileable

import (
	"github.com/sarchlab/tileablerr/fabric"
)

type chanSpan struct {
	exist    bool
	min, max int
}

// DeviceGridAnnotation records, for a shrunk boundary, where each routing
// channel starts and ends. Without a shrunk boundary every channel spans
// the whole row or column and nothing is forced.
type DeviceGridAnnotation struct {
	shrink bool
	chanx  []chanSpan // per row
	chany  []chanSpan // per column
}

// NewDeviceGridAnnotation scans the grid for the extent of each channel.
// A CHANX row y exists between the outermost columns where the cell below
// or above it is not empty. CHANY is the same over columns.
func NewDeviceGridAnnotation(grid *fabric.Grid, shrinkBoundary bool) *DeviceGridAnnotation {
	a := &DeviceGridAnnotation{
		shrink: shrinkBoundary,
		chanx:  make([]chanSpan, grid.Height()),
		chany:  make([]chanSpan, grid.Width()),
	}

	if !shrinkBoundary {
		return a
	}

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if grid.TypeAt(x, y).IsEmpty() &&
				(y+1 >= grid.Height() || grid.TypeAt(x, y+1).IsEmpty()) {
				continue
			}

			a.chanx[y].extend(x)
		}
	}

	for x := 0; x < grid.Width(); x++ {
		for y := 0; y < grid.Height(); y++ {
			if grid.TypeAt(x, y).IsEmpty() &&
				(x+1 >= grid.Width() || grid.TypeAt(x+1, y).IsEmpty()) {
				continue
			}

			a.chany[x].extend(y)
		}
	}

	return a
}

func (s *chanSpan) extend(v int) {
	if !s.exist {
		s.exist, s.min, s.max = true, v, v
		return
	}

	if v < s.min {
		s.min = v
	}

	if v > s.max {
		s.max = v
	}
}

func (a *DeviceGridAnnotation) span(spans []chanSpan, i int) chanSpan {
	if i < 0 || i >= len(spans) {
		return chanSpan{}
	}

	return spans[i]
}

// IsChanXExist returns true if the CHANX at p lies inside its row extent.
func (a *DeviceGridAnnotation) IsChanXExist(p fabric.Point) bool {
	if !a.shrink {
		return true
	}

	s := a.span(a.chanx, p.Y)

	return s.exist && p.X >= s.min && p.X <= s.max
}

// IsChanXStart returns true if every CHANX track starts at p.
func (a *DeviceGridAnnotation) IsChanXStart(p fabric.Point) bool {
	s := a.span(a.chanx, p.Y)
	return a.shrink && s.exist && p.X == s.min
}

// IsChanXEnd returns true if every CHANX track ends at p.
func (a *DeviceGridAnnotation) IsChanXEnd(p fabric.Point) bool {
	s := a.span(a.chanx, p.Y)
	return a.shrink && s.exist && p.X == s.max
}

// IsChanYExist returns true if the CHANY at p lies inside its column
// extent.
func (a *DeviceGridAnnotation) IsChanYExist(p fabric.Point) bool {
	if !a.shrink {
		return true
	}

	s := a.span(a.chany, p.X)

	return s.exist && p.Y >= s.min && p.Y <= s.max
}

// IsChanYStart returns true if every CHANY track starts at p.
func (a *DeviceGridAnnotation) IsChanYStart(p fabric.Point) bool {
	s := a.span(a.chany, p.X)
	return a.shrink && s.exist && p.Y == s.min
}

// IsChanYEnd returns true if every CHANY track ends at p.
func (a *DeviceGridAnnotation) IsChanYEnd(p fabric.Point) bool {
	s := a.span(a.chany, p.X)
	return a.shrink && s.exist && p.Y == s.max
}

// IsChanXExist returns true if a CHANX runs at p. Without a through
// channel, a CHANX only runs above the top row of a block.
func IsChanXExist(grid *fabric.Grid, p fabric.Point, perimeterCB, throughChannel bool) bool {
	lo, hi := 1, grid.Width()-2
	if perimeterCB {
		lo, hi = 0, grid.Width()-1
	}

	if p.X < lo || p.X > hi || !grid.Contains(p.X, p.Y) {
		return false
	}

	if throughChannel {
		return true
	}

	c := grid.Cell(p.X, p.Y)

	return c.HeightOffset == c.Type.Height-1
}

// IsChanYExist returns true if a CHANY runs at p. Without a through
// channel, a CHANY only runs right of the rightmost column of a block.
func IsChanYExist(grid *fabric.Grid, p fabric.Point, perimeterCB, throughChannel bool) bool {
	lo, hi := 1, grid.Height()-2
	if perimeterCB {
		lo, hi = 0, grid.Height()-1
	}

	if p.Y < lo || p.Y > hi || !grid.Contains(p.X, p.Y) {
		return false
	}

	if throughChannel {
		return true
	}

	c := grid.Cell(p.X, p.Y)

	return c.WidthOffset == c.Type.Width-1
}

func chanXRange(grid *fabric.Grid, perimeterCB bool) (start, end int) {
	if perimeterCB {
		return 0, grid.Width()
	}

	return 1, grid.Width() - 1
}

func chanYRange(grid *fabric.Grid, perimeterCB bool) (start, end int) {
	if perimeterCB {
		return 0, grid.Height()
	}

	return 1, grid.Height() - 1
}

// IsChanXRightToMultiHeightGrid returns true if the CHANX at p starts a
// channel run: it is the first column or its left neighbour is interrupted
// by a tall block.
func IsChanXRightToMultiHeightGrid(grid *fabric.Grid, p fabric.Point, perimeterCB, throughChannel bool) bool {
	start, _ := chanXRange(grid, perimeterCB)
	if p.X == start {
		return true
	}

	if throughChannel {
		return false
	}

	return !IsChanXExist(grid, fabric.Point{X: p.X - 1, Y: p.Y}, perimeterCB, false)
}

// IsChanXLeftToMultiHeightGrid returns true if the CHANX at p ends a
// channel run.
func IsChanXLeftToMultiHeightGrid(grid *fabric.Grid, p fabric.Point, perimeterCB, throughChannel bool) bool {
	_, end := chanXRange(grid, perimeterCB)
	if p.X == end-1 {
		return true
	}

	if throughChannel {
		return false
	}

	return !IsChanXExist(grid, fabric.Point{X: p.X + 1, Y: p.Y}, perimeterCB, false)
}

// IsChanYTopToMultiWidthGrid returns true if the CHANY at p starts a
// channel run.
func IsChanYTopToMultiWidthGrid(grid *fabric.Grid, p fabric.Point, perimeterCB, throughChannel bool) bool {
	start, _ := chanYRange(grid, perimeterCB)
	if p.Y == start {
		return true
	}

	if throughChannel {
		return false
	}

	return !IsChanYExist(grid, fabric.Point{X: p.X, Y: p.Y - 1}, perimeterCB, false)
}

// IsChanYBottomToMultiWidthGrid returns true if the CHANY at p ends a
// channel run.
func IsChanYBottomToMultiWidthGrid(grid *fabric.Grid, p fabric.Point, perimeterCB, throughChannel bool) bool {
	_, end := chanYRange(grid, perimeterCB)
	if p.Y == end-1 {
		return true
	}

	if throughChannel {
		return false
	}

	return !IsChanYExist(grid, fabric.Point{X: p.X, Y: p.Y + 1}, perimeterCB, false)
}

// DetermineIOPinSides returns the sides an I/O block at p exposes its pins
// on. deviceSize is the coordinate of the top-right cell. A block on an
// edge faces the core; a perimeter connection block adds the outer side.
func DetermineIOPinSides(deviceSize, p fabric.Point, perimeterCB bool) []fabric.Side {
	var sides []fabric.Side

	switch {
	case p.Y == deviceSize.Y:
		sides = []fabric.Side{fabric.Bottom, fabric.Top}
	case p.X == deviceSize.X:
		sides = []fabric.Side{fabric.Left, fabric.Right}
	case p.Y == 0:
		sides = []fabric.Side{fabric.Top, fabric.Bottom}
	case p.X == 0:
		sides = []fabric.Side{fabric.Right, fabric.Left}
	default:
		return fabric.Sides[:]
	}

	if !perimeterCB {
		sides = sides[:1]
	}

	return sides
}
