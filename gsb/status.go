package gsb

import (
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// TrackStatus tells what a track does at a GSB.
type TrackStatus int

const (
	TrackPass TrackStatus = iota
	TrackStart
	TrackEnd
)

func (s TrackStatus) String() string {
	switch s {
	case TrackPass:
		return "PASS"
	case TrackStart:
		return "START"
	case TrackEnd:
		return "END"
	default:
		panic("invalid track status")
	}
}

// TrackStartPoint returns where a channel node begins in its direction of
// travel.
func TrackStartPoint(n rrgraph.Node) fabric.Point {
	if n.Direction == rrgraph.Dec {
		return n.HighPoint()
	}

	return n.LowPoint()
}

// TrackEndPoint returns where a channel node ends in its direction of
// travel.
func TrackEndPoint(n rrgraph.Node) fabric.Point {
	if n.Direction == rrgraph.Dec {
		return n.LowPoint()
	}

	return n.HighPoint()
}

// TrackStatusOf classifies a track of a GSB side. A track that starts here
// leaves the GSB; a track that ends here enters it.
func TrackStatusOf(graph *rrgraph.Graph, g *RRGSB, side fabric.Side, track int) TrackStatus {
	status := TrackPass
	node := graph.Node(g.ChanNode(side, track))
	p := g.SideBlockCoordinate(side)
	dir := g.ChanNodeDirection(side, track)

	if TrackStartPoint(node) == p && dir == OutPort {
		status = TrackStart
	}

	if TrackEndPoint(node) == p && dir == InPort {
		status = TrackEnd
	}

	return status
}

func populationOffset(graph *rrgraph.Graph, g *RRGSB, side fabric.Side, track int) int {
	node := graph.Node(g.ChanNode(side, track))
	return g.SideBlockCoordinate(side).ManhattanDistance(TrackStartPoint(node))
}

func inPopulation(
	graph *rrgraph.Graph,
	g *RRGSB,
	side fabric.Side,
	track int,
	segments []fabric.Segment,
	cb bool,
) bool {
	offset := populationOffset(graph, g, side, track)
	seg := segments[g.ChanNodeSegment(side, track)]

	bits, kind := seg.SB, "sb"
	if cb {
		bits, kind = seg.CB, "cb"
	}

	if len(bits) == 0 {
		return true
	}

	if offset >= len(bits) {
		panic(rrgraph.Configf(g.String()+" "+side.Name(),
			"segment %s track %d is %d cells from its start, beyond its %d %s population bits",
			seg.Name, track, offset, len(bits), kind))
	}

	return bits[offset]
}

// InCBPopulation returns true if the track has a connection block at this
// GSB. An offset beyond the population bits panics with a ConfigError.
func InCBPopulation(graph *rrgraph.Graph, g *RRGSB, side fabric.Side, track int, segments []fabric.Segment) bool {
	return inPopulation(graph, g, side, track, segments, true)
}

// InSBPopulation returns true if the track has a switch block connection at
// this GSB. An offset beyond the population bits panics with a ConfigError.
func InSBPopulation(graph *rrgraph.Graph, g *RRGSB, side fabric.Side, track int, segments []fabric.Segment) bool {
	return inPopulation(graph, g, side, track, segments, false)
}
