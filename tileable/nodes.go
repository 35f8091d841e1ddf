package tileable

import (
	"github.com/sarchlab/tileablerr/chandetails"
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// crossSection is one channel position and whether every track is forced
// to start or end there.
type crossSection struct {
	p          fabric.Point
	forceStart bool
	forceEnd   bool
}

// chanAxis describes how CHANX and CHANY walk the grid. A line is a row for
// CHANX and a column for CHANY.
type chanAxis struct {
	typ        rrgraph.NodeType
	costStart  int
	numLines   int
	start, end int
	maxSegLen  int
}

func (b *build) chanAxis(typ rrgraph.NodeType) chanAxis {
	w, h := b.cfg.grid.Width(), b.cfg.grid.Height()

	switch typ {
	case rrgraph.ChanX:
		ax := chanAxis{typ: typ, costStart: rrgraph.ChanXCostIndexStart, numLines: h - 1}
		ax.start, ax.end = chanXRange(b.cfg.grid, b.cfg.perimeterCB)
		ax.maxSegLen = w - 2
		if b.cfg.perimeterCB {
			ax.maxSegLen = w
		}

		return ax
	case rrgraph.ChanY:
		ax := chanAxis{
			typ:       typ,
			costStart: rrgraph.ChanXCostIndexStart + len(b.cfg.segments),
			numLines:  w - 1,
		}
		ax.start, ax.end = chanYRange(b.cfg.grid, b.cfg.perimeterCB)
		ax.maxSegLen = h - 2
		if b.cfg.perimeterCB {
			ax.maxSegLen = h
		}

		return ax
	default:
		panic(&rrgraph.InvariantViolation{Msg: typ.String() + " is not a channel type"})
	}
}

func (ax chanAxis) point(line, pos int) fabric.Point {
	if ax.typ == rrgraph.ChanX {
		return fabric.Point{X: pos, Y: line}
	}

	return fabric.Point{X: line, Y: pos}
}

func (b *build) chanExists(typ rrgraph.NodeType, p fabric.Point, through bool) bool {
	if typ == rrgraph.ChanX {
		return IsChanXExist(b.cfg.grid, p, b.cfg.perimeterCB, through)
	}

	return IsChanYExist(b.cfg.grid, p, b.cfg.perimeterCB, through)
}

// crossSections lists the channel positions of one line that carry tracks.
func (b *build) crossSections(ax chanAxis, line int) []crossSection {
	var sections []crossSection

	grid := b.cfg.grid
	perimeter, through, shrink := b.cfg.perimeterCB, b.cfg.throughChannel, b.cfg.shrinkBoundary

	for pos := ax.start; pos < ax.end; pos++ {
		p := ax.point(line, pos)

		if !through && !b.chanExists(ax.typ, p, false) {
			continue
		}

		var annotated, forceStart, forceEnd bool
		if ax.typ == rrgraph.ChanX {
			annotated = b.annot.IsChanXExist(p)
			forceStart = IsChanXRightToMultiHeightGrid(grid, p, perimeter, through) ||
				(shrink && b.annot.IsChanXStart(p))
			forceEnd = IsChanXLeftToMultiHeightGrid(grid, p, perimeter, through) ||
				(shrink && b.annot.IsChanXEnd(p))
		} else {
			annotated = b.annot.IsChanYExist(p)
			forceStart = IsChanYTopToMultiWidthGrid(grid, p, perimeter, through) ||
				(shrink && b.annot.IsChanYStart(p))
			forceEnd = IsChanYBottomToMultiWidthGrid(grid, p, perimeter, through) ||
				(shrink && b.annot.IsChanYEnd(p))
		}

		if shrink && !annotated {
			continue
		}

		sections = append(sections, crossSection{p: p, forceStart: forceStart, forceEnd: forceEnd})
	}

	return sections
}

// gridRoot is the root cell of a non-empty block and the sides its pins
// are built on.
type gridRoot struct {
	p     fabric.Point
	tile  *fabric.TileType
	sides []fabric.Side
}

func (b *build) gridRoots() []gridRoot {
	var roots []gridRoot

	grid := b.cfg.grid
	deviceSize := fabric.Point{X: grid.Width() - 1, Y: grid.Height() - 1}

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c := grid.Cell(x, y)
			if c.Type.IsEmpty() || !c.IsRoot() {
				continue
			}

			p := fabric.Point{X: x, Y: y}
			sides := fabric.Sides[:]
			if c.Type.IsIO {
				sides = DetermineIOPinSides(deviceSize, p, b.cfg.perimeterCB)
			}

			roots = append(roots, gridRoot{p: p, tile: c.Type, sides: sides})
		}
	}

	return roots
}

func (b *build) vibAt(x, y int) *fabric.VIB {
	t := b.cfg.grid.TypeAt(x, y)
	if t.IsEmpty() {
		return nil
	}

	return b.cfg.vibs[t.Name]
}

func pinNodeType(c fabric.PinClassType) rrgraph.NodeType {
	if c == fabric.Driver {
		return rrgraph.OPIN
	}

	return rrgraph.IPIN
}

func classNodeType(c fabric.PinClassType) rrgraph.NodeType {
	if c == fabric.Driver {
		return rrgraph.Source
	}

	return rrgraph.Sink
}

// estimateNodes counts the nodes that createNodes will build, walking the
// grid and the channels the same way.
func (b *build) estimateNodes() map[rrgraph.NodeType]int {
	counts := make(map[rrgraph.NodeType]int)

	for _, r := range b.gridRoots() {
		for _, class := range r.tile.Classes {
			counts[classNodeType(class.Type)]++
		}

		for w := 0; w < r.tile.Width; w++ {
			for h := 0; h < r.tile.Height; h++ {
				for _, side := range r.sides {
					counts[rrgraph.OPIN] += len(r.tile.PinsAt(w, h, side, fabric.Driver))
					counts[rrgraph.IPIN] += len(r.tile.PinsAt(w, h, side, fabric.Receiver))
				}
			}
		}
	}

	for y := 0; y < b.cfg.grid.Height(); y++ {
		for x := 0; x < b.cfg.grid.Width(); x++ {
			if vib := b.vibAt(x, y); vib != nil {
				counts[rrgraph.Mux] += len(vib.FirstStages)
			}
		}
	}

	for _, typ := range []rrgraph.NodeType{rrgraph.ChanX, rrgraph.ChanY} {
		ax := b.chanAxis(typ)
		for line := 0; line < ax.numLines; line++ {
			for _, cs := range b.crossSections(ax, line) {
				d := chandetails.BuildUnidir(b.chanWidth, ax.maxSegLen, cs.forceStart, cs.forceEnd, b.cfg.segments)
				counts[typ] += d.NumStartingTracks(rrgraph.Inc) + d.NumEndingTracks(rrgraph.Dec)
			}
		}
	}

	return counts
}

// createNodes allocates and fills every node of the graph.
func (b *build) createNodes() {
	estimate := b.estimateNodes()

	total := 0
	for _, n := range estimate {
		total += n
	}

	b.graph.ReserveNodes(total)

	b.createGridNodes()
	b.createMuxNodes()
	b.mirrorClassNodes()
	b.createChanNodes(rrgraph.ChanX)
	b.createChanNodes(rrgraph.ChanY)
	b.reverseDecTrackIDs()

	created := make(map[rrgraph.NodeType]int)
	for _, n := range b.graph.Nodes() {
		created[n.Type]++
	}

	for _, typ := range rrgraph.NodeTypes {
		rrgraph.Invariantf(created[typ] == estimate[typ],
			"created %d %s nodes, estimated %d", created[typ], typ, estimate[typ])
	}

	b.stats.NodesByType = created
}

func (b *build) addNode(n rrgraph.Node, sw fabric.SwitchID) rrgraph.NodeID {
	id := b.graph.AddNode(n)
	b.graph.SetDriverSwitch(id, sw)

	return id
}

func (b *build) createGridNodes() {
	lookup := b.graph.Lookup()
	rc := b.graph.FindOrCreateRC(0, 0)

	for _, r := range b.gridRoots() {
		x, y, t := r.p.X, r.p.Y, r.tile

		for _, classType := range []fabric.PinClassType{fabric.Driver, fabric.Receiver} {
			for iclass, class := range t.Classes {
				if class.Type != classType {
					continue
				}

				typ := classNodeType(classType)
				cost := rrgraph.SourceCostIndex
				if typ == rrgraph.Sink {
					cost = rrgraph.SinkCostIndex
				}

				id := b.addNode(rrgraph.Node{
					Type:      typ,
					XLow:      x,
					YLow:      y,
					XHigh:     x + t.Width - 1,
					YHigh:     y + t.Height - 1,
					Ptc:       iclass,
					Capacity:  len(class.Pins),
					CostIndex: cost,
					RCIndex:   rc,
				}, b.cfg.delaylessSwitch)
				lookup.Add(id, x, y, typ, iclass, fabric.Top)
			}
		}

		for _, classType := range []fabric.PinClassType{fabric.Driver, fabric.Receiver} {
			typ := pinNodeType(classType)
			cost, sw := rrgraph.OPINCostIndex, b.cfg.delaylessSwitch
			if typ == rrgraph.IPIN {
				cost, sw = rrgraph.IPINCostIndex, b.cfg.wireToIPINSwitch
			}

			for w := 0; w < t.Width; w++ {
				for h := 0; h < t.Height; h++ {
					for _, side := range r.sides {
						for _, pin := range t.PinsAt(w, h, side, classType) {
							id := b.addNode(rrgraph.Node{
								Type:      typ,
								XLow:      x + w,
								YLow:      y + h,
								XHigh:     x + w,
								YHigh:     y + h,
								Ptc:       pin,
								Capacity:  1,
								CostIndex: cost,
								Side:      side,
								RCIndex:   rc,
							}, sw)
							lookup.Add(id, x+w, y+h, typ, pin, side)
						}
					}
				}
			}
		}
	}
}

func (b *build) createMuxNodes() {
	lookup := b.graph.Lookup()
	rc := b.graph.FindOrCreateRC(0, 0)

	for y := 0; y < b.cfg.grid.Height(); y++ {
		for x := 0; x < b.cfg.grid.Width(); x++ {
			vib := b.vibAt(x, y)
			if vib == nil {
				continue
			}

			for i := range vib.FirstStages {
				id := b.addNode(rrgraph.Node{
					Type:      rrgraph.Mux,
					XLow:      x,
					YLow:      y,
					XHigh:     x,
					YHigh:     y,
					Ptc:       i,
					Capacity:  1,
					CostIndex: rrgraph.MuxCostIndex,
					RCIndex:   rc,
				}, vib.Switch)
				lookup.Add(id, x, y, rrgraph.Mux, i, fabric.Top)
			}
		}
	}
}

// mirrorClassNodes makes the SOURCE and SINK nodes of a block visible from
// every cell it covers.
func (b *build) mirrorClassNodes() {
	grid := b.cfg.grid
	lookup := b.graph.Lookup()

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c := grid.Cell(x, y)
			if c.IsRoot() {
				continue
			}

			root := fabric.Point{X: x - c.WidthOffset, Y: y - c.HeightOffset}
			to := fabric.Point{X: x, Y: y}
			lookup.MirrorNodes(root, to, rrgraph.Source)
			lookup.MirrorNodes(root, to, rrgraph.Sink)
		}
	}
}

func (b *build) createChanNodes(typ rrgraph.NodeType) {
	ax := b.chanAxis(typ)

	for line := 0; line < ax.numLines; line++ {
		var carried []rrgraph.OptNodeID

		for _, cs := range b.crossSections(ax, line) {
			details := chandetails.BuildUnidir(b.chanWidth, ax.maxSegLen, cs.forceStart, cs.forceEnd, b.cfg.segments)

			if carried != nil {
				// Rotate on an unforced cross-section so that every wire
				// group has its regular start.
				regular := chandetails.BuildUnidir(b.chanWidth, ax.maxSegLen, false, false, b.cfg.segments)
				regular.SetNodeIDs(carried)

				if b.chanExists(typ, cs.p, b.cfg.throughChannel) {
					regular.RotateNodeIDs(1, rrgraph.Inc, true)
					regular.RotateNodeIDs(1, rrgraph.Dec, false)
				}

				details.SetNodeIDs(regular.NodeIDs())
			}

			b.loadOneChan(cs.p, ax, details)
			carried = details.NodeIDs()
		}
	}
}

func (b *build) loadOneChan(p fabric.Point, ax chanAxis, d *chandetails.ChanNodeDetails) {
	lookup := b.graph.Lookup()

	for i := 0; i < d.Width(); i++ {
		dir := d.Direction(i)
		seg := b.cfg.segments[d.SegmentID(i)]
		start, end := d.IsStart(i), d.IsEnd(i)

		if (start && dir == rrgraph.Inc) || (end && dir == rrgraph.Dec) {
			sw := seg.OpinSwitch
			if dir == rrgraph.Dec && seg.OpinSwitchDec != fabric.NoSwitch {
				sw = seg.OpinSwitchDec
			}

			id := b.addNode(rrgraph.Node{
				Type:      ax.typ,
				XLow:      p.X,
				YLow:      p.Y,
				XHigh:     p.X,
				YHigh:     p.Y,
				Ptc:       i,
				Capacity:  1,
				CostIndex: ax.costStart + int(d.SegmentID(i)),
				Direction: dir,
			}, sw)
			b.graph.SetNodeRC(id, seg.RMetal, seg.CMetal)
			b.graph.AppendTrackID(id, i)
			lookup.Add(id, p.X, p.Y, ax.typ, i, fabric.Top)
			d.SetNodeID(i, id)
		}

		if (end && dir == rrgraph.Inc) || (start && dir == rrgraph.Dec) {
			id := b.ownedNode(d, i, ax.typ)
			b.graph.SetNodeHigh(id, p.X, p.Y)

			n := b.graph.Node(id)
			if n.XHigh > n.XLow || n.YHigh > n.YLow {
				b.graph.AppendTrackID(id, i)
				lookup.Add(id, p.X, p.Y, ax.typ, i, fabric.Top)
			}

			length := float64(n.Length())
			b.graph.SetNodeRC(id, length*seg.RMetal, length*seg.CMetal)
		}

		if start || end {
			continue
		}

		id := b.ownedNode(d, i, ax.typ)
		b.graph.SetNodeHigh(id, p.X, p.Y)
		b.graph.AppendTrackID(id, i)
		lookup.Add(id, p.X, p.Y, ax.typ, i, fabric.Top)
	}
}

// ownedNode returns the node carried on a track and checks that it is the
// channel node the track belongs to.
func (b *build) ownedNode(d *chandetails.ChanNodeDetails, track int, typ rrgraph.NodeType) rrgraph.NodeID {
	id := d.NodeID(track).MustGet()
	n := b.graph.Node(id)

	rrgraph.Invariantf(n.Type == typ && n.Direction == d.Direction(track),
		"track %d carries node %d of type %s %s, want %s %s",
		track, id, n.Type, n.Direction, typ, d.Direction(track))

	return id
}

func (b *build) reverseDecTrackIDs() {
	for i, n := range b.graph.Nodes() {
		if n.Type.IsChannel() && n.Direction == rrgraph.Dec {
			b.graph.ReverseTrackIDs(rrgraph.NodeID(i))
		}
	}
}
