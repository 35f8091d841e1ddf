package fabric

import "fmt"

// Cell is one position of the device grid. Multi-cell tiles fill every
// covered cell with the same type and the offset from the root cell.
type Cell struct {
	Type         *TileType
	WidthOffset  int
	HeightOffset int
}

// IsRoot returns true if the cell is the bottom-left cell of its tile.
func (c Cell) IsRoot() bool {
	return c.WidthOffset == 0 && c.HeightOffset == 0
}

// Grid is the device grid, indexed as cells[y][x].
type Grid struct {
	width  int
	height int
	cells  [][]Cell
}

// NewGrid creates a grid filled with empty cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height}

	g.cells = make([][]Cell, height)
	for y := 0; y < height; y++ {
		g.cells[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			g.cells[y][x] = Cell{Type: EmptyTile}
		}
	}

	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Contains returns true if (x, y) is on the grid.
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Cell returns the cell at (x, y).
func (g *Grid) Cell(x, y int) Cell {
	return g.cells[y][x]
}

// TypeAt returns the tile type at (x, y).
func (g *Grid) TypeAt(x, y int) *TileType {
	return g.cells[y][x].Type
}

// Place puts a tile whose root cell is (x, y). It fails if the tile does
// not fit or overlaps a non-empty cell.
func (g *Grid) Place(x, y int, t *TileType) error {
	if !g.Contains(x, y) || !g.Contains(x+t.Width-1, y+t.Height-1) {
		return fmt.Errorf("tile %s at (%d, %d) does not fit the %dx%d grid",
			t.Name, x, y, g.width, g.height)
	}

	for h := 0; h < t.Height; h++ {
		for w := 0; w < t.Width; w++ {
			if !g.cells[y+h][x+w].Type.IsEmpty() {
				return fmt.Errorf("tile %s at (%d, %d) overlaps %s",
					t.Name, x, y, g.cells[y+h][x+w].Type.Name)
			}
		}
	}

	for h := 0; h < t.Height; h++ {
		for w := 0; w < t.Width; w++ {
			g.cells[y+h][x+w] = Cell{Type: t, WidthOffset: w, HeightOffset: h}
		}
	}

	return nil
}
