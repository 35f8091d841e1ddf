// Package config loads FPGA architecture descriptions and turns them into
// the fabric and builder inputs of a tileable routing-resource graph.
package config

import (
	"fmt"

	"github.com/sarchlab/tileablerr/fabric"
)

type placement struct {
	x, y int
	tile *fabric.TileType
}

// GridBuilder can build device grids.
type GridBuilder struct {
	width, height int
	io            *fabric.TileType
	fill          *fabric.TileType
	placements    []placement
}

// MakeGridBuilder creates a GridBuilder with a 1x1 grid.
func MakeGridBuilder() GridBuilder {
	return GridBuilder{width: 1, height: 1}
}

// WithWidth sets the number of columns, I/O ring included.
func (b GridBuilder) WithWidth(width int) GridBuilder {
	b.width = width
	return b
}

// WithHeight sets the number of rows, I/O ring included.
func (b GridBuilder) WithHeight(height int) GridBuilder {
	b.height = height
	return b
}

// WithIORing surrounds the core with a ring of I/O tiles. The corners stay
// empty.
func (b GridBuilder) WithIORing(io *fabric.TileType) GridBuilder {
	b.io = io
	return b
}

// WithFill sets the 1x1 tile type that fills the unused core cells.
func (b GridBuilder) WithFill(fill *fabric.TileType) GridBuilder {
	b.fill = fill
	return b
}

// WithPlacement places a tile with its root cell at (x, y) before the core
// is filled.
func (b GridBuilder) WithPlacement(x, y int, tile *fabric.TileType) GridBuilder {
	b.placements = append(
		append([]placement(nil), b.placements...),
		placement{x: x, y: y, tile: tile})
	return b
}

// Build creates a device grid.
func (b GridBuilder) Build() (*fabric.Grid, error) {
	if b.width < 1 || b.height < 1 {
		return nil, fmt.Errorf("invalid grid size %dx%d", b.width, b.height)
	}

	grid := fabric.NewGrid(b.width, b.height)

	if b.io != nil {
		if err := b.placeIORing(grid); err != nil {
			return nil, err
		}
	}

	for _, p := range b.placements {
		if err := grid.Place(p.x, p.y, p.tile); err != nil {
			return nil, err
		}
	}

	if b.fill != nil {
		if err := b.fillCore(grid); err != nil {
			return nil, err
		}
	}

	return grid, nil
}

func (b GridBuilder) placeIORing(grid *fabric.Grid) error {
	for x := 1; x < b.width-1; x++ {
		for _, y := range []int{0, b.height - 1} {
			if err := grid.Place(x, y, b.io); err != nil {
				return err
			}
		}
	}

	for y := 1; y < b.height-1; y++ {
		for _, x := range []int{0, b.width - 1} {
			if err := grid.Place(x, y, b.io); err != nil {
				return err
			}
		}
	}

	return nil
}

func (b GridBuilder) fillCore(grid *fabric.Grid) error {
	x0, y0, x1, y1 := 0, 0, b.width, b.height
	if b.io != nil {
		x0, y0, x1, y1 = 1, 1, b.width-1, b.height-1
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !grid.TypeAt(x, y).IsEmpty() {
				continue
			}

			if err := grid.Place(x, y, b.fill); err != nil {
				return err
			}
		}
	}

	return nil
}
