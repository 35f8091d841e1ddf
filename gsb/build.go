package gsb

import (
	"log/slog"

	"github.com/sarchlab/tileablerr/chandetails"
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// Env holds what the GSB builders read: the graph with its nodes already
// created, the grid and the routing segments.
type Env struct {
	Graph       *rrgraph.Graph
	Grid        *fabric.Grid
	Segments    []fabric.Segment
	ChanWidth   int
	PerimeterCB bool
	Logger      *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}

	return e.Logger
}

type sideLayout struct {
	chanType rrgraph.NodeType
	incPort  PortDirection
	decPort  PortDirection

	// OPINs come from two grid cells, given as offsets from the GSB and
	// the side of the cell they sit on.
	opinCells [2]fabric.Point
	opinSides [2]fabric.Side
}

var sideLayouts = [fabric.NumSides]sideLayout{
	fabric.Top: {
		chanType:  rrgraph.ChanY,
		incPort:   OutPort,
		decPort:   InPort,
		opinCells: [2]fabric.Point{{X: 0, Y: 1}, {X: 1, Y: 1}},
		opinSides: [2]fabric.Side{fabric.Right, fabric.Left},
	},
	fabric.Right: {
		chanType:  rrgraph.ChanX,
		incPort:   OutPort,
		decPort:   InPort,
		opinCells: [2]fabric.Point{{X: 1, Y: 1}, {X: 1, Y: 0}},
		opinSides: [2]fabric.Side{fabric.Bottom, fabric.Top},
	},
	fabric.Bottom: {
		chanType:  rrgraph.ChanY,
		incPort:   InPort,
		decPort:   OutPort,
		opinCells: [2]fabric.Point{{X: 1, Y: 0}, {X: 0, Y: 0}},
		opinSides: [2]fabric.Side{fabric.Left, fabric.Right},
	},
	fabric.Left: {
		chanType:  rrgraph.ChanX,
		incPort:   InPort,
		decPort:   OutPort,
		opinCells: [2]fabric.Point{{X: 0, Y: 1}, {X: 0, Y: 0}},
		opinSides: [2]fabric.Side{fabric.Bottom, fabric.Top},
	},
}

type ipinLayout struct {
	chanSide fabric.Side
	cell     fabric.Point
	gridSide fabric.Side
}

var ipinLayouts = [fabric.NumSides]ipinLayout{
	fabric.Top:    {chanSide: fabric.Left, cell: fabric.Point{X: 0, Y: 1}, gridSide: fabric.Bottom},
	fabric.Right:  {chanSide: fabric.Bottom, cell: fabric.Point{X: 1, Y: 0}, gridSide: fabric.Left},
	fabric.Bottom: {chanSide: fabric.Left, cell: fabric.Point{X: 0, Y: 0}, gridSide: fabric.Top},
	fabric.Left:   {chanSide: fabric.Bottom, cell: fabric.Point{X: 0, Y: 0}, gridSide: fabric.Right},
}

func (e Env) isSideCleared(side fabric.Side, coord fabric.Point) bool {
	switch side {
	case fabric.Top:
		return coord.Y == e.Grid.Height()-1
	case fabric.Right:
		return coord.X == e.Grid.Width()-1
	case fabric.Bottom:
		return !e.PerimeterCB && coord.Y == 0
	case fabric.Left:
		return !e.PerimeterCB && coord.X == 0
	default:
		panic("invalid side")
	}
}

// BuildOneGSB collects the nodes around the switch block at coord.
func BuildOneGSB(env Env, coord fabric.Point) *RRGSB {
	g := &RRGSB{coord: coord}
	lookup := env.Graph.Lookup()

	chanx := chandetails.BuildUnidir(env.ChanWidth, env.Grid.Width()-1, false, false, env.Segments)
	chany := chandetails.BuildUnidir(env.ChanWidth, env.Grid.Height()-1, false, false, env.Segments)

	for _, side := range fabric.Sides {
		layout := sideLayouts[side]
		g.chans[side] = NewRRChan(layout.chanType)

		if env.isSideCleared(side, coord) {
			continue
		}

		details := chanx
		if layout.chanType == rrgraph.ChanY {
			details = chany
		}

		p := g.SideBlockCoordinate(side)
		for i, node := range lookup.FindChannelNodes(p.X, p.Y, layout.chanType) {
			rrgraph.Invariantf(i < details.Width(),
				"%s has %d tracks at %s, wider than %d", layout.chanType, i+1, p, details.Width())

			g.chans[side].AddNode(node, details.SegmentID(i))

			switch env.Graph.Node(node).Direction {
			case rrgraph.Inc:
				g.chanDirs[side] = append(g.chanDirs[side], layout.incPort)
			case rrgraph.Dec:
				g.chanDirs[side] = append(g.chanDirs[side], layout.decPort)
			default:
				rrgraph.Invariantf(false, "channel node %d has no direction", node)
			}
		}

		for k := 0; k < 2; k++ {
			cell := fabric.Point{
				X: coord.X + layout.opinCells[k].X,
				Y: coord.Y + layout.opinCells[k].Y,
			}
			g.opins[side] = append(g.opins[side],
				lookup.FindGridNodes(cell.X, cell.Y, rrgraph.OPIN, layout.opinSides[k])...)
		}
	}

	for _, side := range fabric.Sides {
		layout := ipinLayouts[side]
		if g.ChanWidth(layout.chanSide) == 0 {
			continue
		}

		cell := fabric.Point{X: coord.X + layout.cell.X, Y: coord.Y + layout.cell.Y}
		g.ipins[side] = lookup.FindGridNodes(cell.X, cell.Y, rrgraph.IPIN, layout.gridSide)
	}

	g.muxes = lookup.FindGridNodesAllSides(coord.X, coord.Y, rrgraph.Mux)

	lastX := coord.X == env.Grid.Width()-2
	lastY := coord.Y == env.Grid.Height()-2

	if lastY {
		g.muxes = append(g.muxes, lookup.FindGridNodesAllSides(coord.X, coord.Y+1, rrgraph.Mux)...)
	}

	if lastX {
		g.muxes = append(g.muxes, lookup.FindGridNodesAllSides(coord.X+1, coord.Y, rrgraph.Mux)...)
	}

	if lastX && lastY {
		g.muxes = append(g.muxes, lookup.FindGridNodesAllSides(coord.X+1, coord.Y+1, rrgraph.Mux)...)
	}

	return g
}
