// Package rrgraph holds the routing-resource graph: the node arena, the
// spatial node lookup, edges and the per-node side tables a tileable
// builder fills in.
package rrgraph

import (
	"fmt"

	"github.com/sarchlab/tileablerr/fabric"
)

// NodeID is a handle to a node of a Graph.
type NodeID int

// OptNodeID is a NodeID that may be absent.
type OptNodeID struct {
	id    NodeID
	valid bool
}

// NoNode is the absent OptNodeID.
var NoNode = OptNodeID{}

// SomeNode wraps a present NodeID.
func SomeNode(id NodeID) OptNodeID {
	return OptNodeID{id: id, valid: true}
}

// Get returns the node id and whether it is present.
func (o OptNodeID) Get() (NodeID, bool) {
	return o.id, o.valid
}

// IsSome returns true if a node id is present.
func (o OptNodeID) IsSome() bool {
	return o.valid
}

// MustGet returns the node id and panics with an invariant violation if it
// is absent.
func (o OptNodeID) MustGet() NodeID {
	Invariantf(o.valid, "node id is not set")
	return o.id
}

func (o OptNodeID) String() string {
	if !o.valid {
		return "none"
	}

	return fmt.Sprintf("%d", o.id)
}

// NodeType is the kind of a routing resource.
type NodeType int

const (
	Source NodeType = iota
	Sink
	OPIN
	IPIN
	ChanX
	ChanY
	Mux
)

// NodeTypes lists every node type.
var NodeTypes = []NodeType{Source, Sink, OPIN, IPIN, ChanX, ChanY, Mux}

func (t NodeType) String() string {
	switch t {
	case Source:
		return "SOURCE"
	case Sink:
		return "SINK"
	case OPIN:
		return "OPIN"
	case IPIN:
		return "IPIN"
	case ChanX:
		return "CHANX"
	case ChanY:
		return "CHANY"
	case Mux:
		return "MUX"
	default:
		panic(&InvariantViolation{Msg: fmt.Sprintf("invalid node type %d", int(t))})
	}
}

// IsChannel returns true for CHANX and CHANY.
func (t NodeType) IsChannel() bool {
	return t == ChanX || t == ChanY
}

// IsPin returns true for OPIN and IPIN.
func (t NodeType) IsPin() bool {
	return t == OPIN || t == IPIN
}

// Direction is the signal direction of a channel node.
type Direction int

const (
	NoDirection Direction = iota
	Inc
	Dec
)

func (d Direction) String() string {
	switch d {
	case NoDirection:
		return "NONE"
	case Inc:
		return "INC"
	case Dec:
		return "DEC"
	default:
		panic(&InvariantViolation{Msg: fmt.Sprintf("invalid direction %d", int(d))})
	}
}

// Cost indices of the non-channel node types. Channel nodes use
// ChanXCostIndexStart plus their segment, and CHANY nodes are further
// offset by the number of segments.
const (
	SourceCostIndex     = 0
	SinkCostIndex       = 1
	OPINCostIndex       = 2
	IPINCostIndex       = 3
	MuxCostIndex        = 4
	ChanXCostIndexStart = 5
)

// Node is a routing resource.
type Node struct {
	Type NodeType

	XLow, YLow, XHigh, YHigh int

	// Ptc is the pin, class, track or mux number of the node.
	Ptc       int
	Capacity  int
	CostIndex int

	// Direction is only meaningful for channel nodes.
	Direction Direction

	// Side is only meaningful for pin nodes.
	Side fabric.Side

	RCIndex int
}

// Length returns the number of cells the node spans.
func (n Node) Length() int {
	dx := n.XHigh - n.XLow
	dy := n.YHigh - n.YLow

	if dx > dy {
		return dx + 1
	}

	return dy + 1
}

// LowPoint returns (XLow, YLow).
func (n Node) LowPoint() fabric.Point {
	return fabric.Point{X: n.XLow, Y: n.YLow}
}

// HighPoint returns (XHigh, YHigh).
func (n Node) HighPoint() fabric.Point {
	return fabric.Point{X: n.XHigh, Y: n.YHigh}
}

// RC is the resistance and capacitance of a node.
type RC struct {
	R float64
	C float64
}

// EdgeID is a handle to a built edge.
type EdgeID int

// Edge is a directed connection between two nodes through a switch.
type Edge struct {
	Src          NodeID
	Sink         NodeID
	Switch       fabric.SwitchID
	Configurable bool
}
