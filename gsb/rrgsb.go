// Package gsb builds general switch blocks (GSBs), the tileable unit of a
// routing-resource graph, and the connectivity inside them.
//
// A GSB at (x, y) sits between four grid cells:
//
//	grid[x][y+1]   chany[x][y+1]   grid[x+1][y+1]
//	chanx[x][y]        GSB         chanx[x+1][y]
//	grid[x][y]     chany[x][y]     grid[x+1][y]
//
// Each side holds a channel, the port direction of every track relative to
// the GSB, the OPINs that drive into the switch block and the IPINs of the
// connection block attached to that side.
package gsb

import (
	"fmt"

	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// PortDirection tells if a track enters or leaves a GSB.
type PortDirection int

const (
	InPort PortDirection = iota
	OutPort
)

func (d PortDirection) String() string {
	switch d {
	case InPort:
		return "IN"
	case OutPort:
		return "OUT"
	default:
		panic("invalid port direction")
	}
}

// RRGSB is the view of the graph around one switch block.
type RRGSB struct {
	coord fabric.Point

	chans    [fabric.NumSides]RRChan
	chanDirs [fabric.NumSides][]PortDirection
	ipins    [fabric.NumSides][]rrgraph.NodeID
	opins    [fabric.NumSides][]rrgraph.NodeID
	muxes    []rrgraph.NodeID
}

// X returns the x coordinate.
func (g *RRGSB) X() int {
	return g.coord.X
}

// Y returns the y coordinate.
func (g *RRGSB) Y() int {
	return g.coord.Y
}

// Coordinate returns (x, y).
func (g *RRGSB) Coordinate() fabric.Point {
	return g.coord
}

func (g *RRGSB) String() string {
	return fmt.Sprintf("GSB%s", g.coord)
}

// SideBlockCoordinate returns the coordinate of the channel attached to a
// side.
func (g *RRGSB) SideBlockCoordinate(side fabric.Side) fabric.Point {
	switch side {
	case fabric.Top:
		return fabric.Point{X: g.coord.X, Y: g.coord.Y + 1}
	case fabric.Right:
		return fabric.Point{X: g.coord.X + 1, Y: g.coord.Y}
	case fabric.Bottom, fabric.Left:
		return g.coord
	default:
		panic("invalid side")
	}
}

// CBChanSide returns the side whose channel feeds the connection block of
// the channel type.
func CBChanSide(typ rrgraph.NodeType) fabric.Side {
	switch typ {
	case rrgraph.ChanX:
		return fabric.Left
	case rrgraph.ChanY:
		return fabric.Bottom
	default:
		panic(&rrgraph.InvariantViolation{Msg: fmt.Sprintf("%s has no connection block", typ)})
	}
}

// CBChanSideOfIPIN returns the side whose channel drives the IPINs stored on
// ipinSide.
func CBChanSideOfIPIN(ipinSide fabric.Side) fabric.Side {
	switch ipinSide {
	case fabric.Top, fabric.Bottom:
		return fabric.Left
	case fabric.Right, fabric.Left:
		return fabric.Bottom
	default:
		panic("invalid side")
	}
}

// Chan returns the channel of a side.
func (g *RRGSB) Chan(side fabric.Side) *RRChan {
	return &g.chans[side]
}

// ChanWidth returns the number of tracks on a side.
func (g *RRGSB) ChanWidth(side fabric.Side) int {
	return g.chans[side].Width()
}

// ChanNode returns the node of a track.
func (g *RRGSB) ChanNode(side fabric.Side, track int) rrgraph.NodeID {
	return g.chans[side].Node(track)
}

// ChanNodeDirection returns the port direction of a track.
func (g *RRGSB) ChanNodeDirection(side fabric.Side, track int) PortDirection {
	return g.chanDirs[side][track]
}

// ChanNodeSegment returns the segment of a track.
func (g *RRGSB) ChanNodeSegment(side fabric.Side, track int) fabric.SegmentID {
	return g.chans[side].Segment(track)
}

// ChanNodeIndex returns the track of a node with the given port direction.
func (g *RRGSB) ChanNodeIndex(side fabric.Side, node rrgraph.NodeID, dir PortDirection) (int, bool) {
	for i := 0; i < g.ChanWidth(side); i++ {
		if g.ChanNode(side, i) == node && g.chanDirs[side][i] == dir {
			return i, true
		}
	}

	return 0, false
}

// IPINs returns the IPINs of a side.
func (g *RRGSB) IPINs(side fabric.Side) []rrgraph.NodeID {
	return g.ipins[side]
}

// OPINs returns the OPINs of a side.
func (g *RRGSB) OPINs(side fabric.Side) []rrgraph.NodeID {
	return g.opins[side]
}

// Muxes returns the MUX nodes of the GSB.
func (g *RRGSB) Muxes() []rrgraph.NodeID {
	return g.muxes
}

// IsOPIN returns true if node is an OPIN of any side.
func (g *RRGSB) IsOPIN(node rrgraph.NodeID) bool {
	for _, s := range fabric.Sides {
		if contains(g.opins[s], node) {
			return true
		}
	}

	return false
}

// IsIPIN returns true if node is an IPIN of any side.
func (g *RRGSB) IsIPIN(node rrgraph.NodeID) bool {
	for _, s := range fabric.Sides {
		if contains(g.ipins[s], node) {
			return true
		}
	}

	return false
}

// IsMux returns true if node is a MUX node of the GSB.
func (g *RRGSB) IsMux(node rrgraph.NodeID) bool {
	return contains(g.muxes, node)
}

// IsChanNode returns true if node is a track of any side.
func (g *RRGSB) IsChanNode(node rrgraph.NodeID) bool {
	for _, s := range fabric.Sides {
		if _, ok := g.chans[s].IndexOf(node); ok {
			return true
		}
	}

	return false
}

func contains(ids []rrgraph.NodeID, node rrgraph.NodeID) bool {
	for _, id := range ids {
		if id == node {
			return true
		}
	}

	return false
}

// IsSBMirrorable returns true if cand has the same switch block as g up to
// a translation: matching channels, matching track status on every track and
// the same number of OPINs per side.
func (g *RRGSB) IsSBMirrorable(graph *rrgraph.Graph, cand *RRGSB) bool {
	for _, s := range fabric.Sides {
		if !g.chans[s].IsMirror(graph, &cand.chans[s]) {
			return false
		}

		for i := 0; i < g.ChanWidth(s); i++ {
			if g.chanDirs[s][i] != cand.chanDirs[s][i] {
				return false
			}

			if TrackStatusOf(graph, g, s, i) != TrackStatusOf(graph, cand, s, i) {
				return false
			}
		}

		if len(g.opins[s]) != len(cand.opins[s]) {
			return false
		}
	}

	return true
}
