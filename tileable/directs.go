package tileable

import (
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// pinSide returns the only side a pin has a node on at (x, y).
func (b *build) pinSide(d *fabric.Direct, typ rrgraph.NodeType, x, y, pin int) fabric.Side {
	var sides []fabric.Side

	for _, s := range fabric.Sides {
		if b.graph.Lookup().FindNode(x, y, typ, pin, s).IsSome() {
			sides = append(sides, s)
		}
	}

	if len(sides) != 1 {
		panic(rrgraph.Configf("direct "+d.Name,
			"%s pin %d at (%d, %d) is on %d sides, want exactly 1", typ, pin, x, y, len(sides)))
	}

	return sides[0]
}

// buildDirectConnections connects the output pins of the block rooted at
// from to the input pins of the block each direct points at. It returns the
// number of edges cached.
func (b *build) buildDirectConnections(from fabric.Point) int {
	grid := b.cfg.grid
	if !grid.Contains(from.X, from.Y) {
		return 0
	}

	fromCell := grid.Cell(from.X, from.Y)
	if fromCell.Type.IsEmpty() || !fromCell.IsRoot() {
		return 0
	}

	count := 0

	for i := range b.cfg.directs {
		d := &b.cfg.directs[i]
		if fromCell.Type != d.FromTile {
			continue
		}

		to := fabric.Point{X: from.X + d.XOffset, Y: from.Y + d.YOffset}
		if !grid.Contains(to.X, to.Y) {
			continue
		}

		toCell := grid.Cell(to.X, to.Y)
		if toCell.Type != d.ToTile || !toCell.IsRoot() {
			continue
		}

		if to.X >= grid.Width()-1 || to.Y >= grid.Height()-1 {
			continue
		}

		swap := d.FromPinStart > d.FromPinEnd
		lo, hi := d.FromPinStart, d.FromPinEnd
		if swap {
			lo, hi = hi, lo
		}

		for opin := lo; opin <= hi; opin++ {
			ipin, ok := directTargetPin(d, swap, opin-lo)
			if !ok {
				continue
			}

			fromLoc := d.FromTile.PinLocations[opin]
			toLoc := d.ToTile.PinLocations[ipin]

			ox, oy := from.X+fromLoc.WidthOffset, from.Y+fromLoc.HeightOffset
			ix, iy := to.X+toLoc.WidthOffset, to.Y+toLoc.HeightOffset

			opinSide := b.pinSide(d, rrgraph.OPIN, ox, oy, opin)
			ipinSide := b.pinSide(d, rrgraph.IPIN, ix, iy, ipin)

			lookup := b.graph.Lookup()
			src := lookup.FindNode(ox, oy, rrgraph.OPIN, opin, opinSide).MustGet()
			sink := lookup.FindNode(ix, iy, rrgraph.IPIN, ipin, ipinSide).MustGet()

			b.graph.CreateEdgeInCache(src, sink, d.Switch, false)
			count++
		}
	}

	return count
}

// directTargetPin maps the offset-th output pin of a direct to its input
// pin. A descending range on either end reverses the pairing.
func directTargetPin(d *fabric.Direct, swap bool, offset int) (int, bool) {
	var ipin int

	if d.ToPinStart > d.ToPinEnd {
		if swap {
			ipin = d.ToPinEnd + offset
		} else {
			ipin = d.ToPinStart - offset
		}
	} else {
		if swap {
			ipin = d.ToPinEnd - offset
		} else {
			ipin = d.ToPinStart + offset
		}
	}

	if ipin < 0 || ipin >= d.ToTile.NumPins() {
		return 0, false
	}

	return ipin, true
}
