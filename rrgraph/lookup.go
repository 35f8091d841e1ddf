package rrgraph

import (
	"github.com/sarchlab/tileablerr/fabric"
)

type lookupKey struct {
	x, y int
	typ  NodeType
	ptc  int
	side fabric.Side
}

type slotKey struct {
	x, y int
	typ  NodeType
}

// NodeLookup finds nodes by coordinate, type, ptc and side. Sides only
// matter for OPIN and IPIN nodes.
type NodeLookup struct {
	nodes  map[lookupKey]NodeID
	maxPtc map[slotKey]int
}

// NewNodeLookup creates an empty lookup.
func NewNodeLookup() *NodeLookup {
	return &NodeLookup{
		nodes:  make(map[lookupKey]NodeID),
		maxPtc: make(map[slotKey]int),
	}
}

func makeKey(x, y int, typ NodeType, ptc int, side fabric.Side) lookupKey {
	if !typ.IsPin() {
		side = fabric.Top
	}

	return lookupKey{x: x, y: y, typ: typ, ptc: ptc, side: side}
}

// Add registers node id at the given slot. A slot holds at most one node.
func (l *NodeLookup) Add(id NodeID, x, y int, typ NodeType, ptc int, side fabric.Side) {
	key := makeKey(x, y, typ, ptc, side)

	if cur, ok := l.nodes[key]; ok {
		Invariantf(cur == id,
			"%s slot (%d, %d) ptc %d side %s held by node %d, cannot add node %d",
			typ, x, y, ptc, side, cur, id)
		return
	}

	l.nodes[key] = id

	sk := slotKey{x: x, y: y, typ: typ}
	if ptc+1 > l.maxPtc[sk] {
		l.maxPtc[sk] = ptc + 1
	}
}

// FindNode returns the node at the given slot.
func (l *NodeLookup) FindNode(x, y int, typ NodeType, ptc int, side fabric.Side) OptNodeID {
	id, ok := l.nodes[makeKey(x, y, typ, ptc, side)]
	if !ok {
		return NoNode
	}

	return SomeNode(id)
}

// FindChannelNodes returns the channel nodes at (x, y) in track order.
func (l *NodeLookup) FindChannelNodes(x, y int, typ NodeType) []NodeID {
	Invariantf(typ.IsChannel(), "%s is not a channel type", typ)

	return l.findAll(x, y, typ, fabric.Top)
}

// FindGridNodes returns the nodes of a grid type at (x, y) in ptc order.
// The side is ignored for non-pin types.
func (l *NodeLookup) FindGridNodes(x, y int, typ NodeType, side fabric.Side) []NodeID {
	return l.findAll(x, y, typ, side)
}

// FindGridNodesAllSides returns the pin nodes at (x, y) on every side, side
// by side.
func (l *NodeLookup) FindGridNodesAllSides(x, y int, typ NodeType) []NodeID {
	if !typ.IsPin() {
		return l.findAll(x, y, typ, fabric.Top)
	}

	var ids []NodeID
	for _, s := range fabric.Sides {
		ids = append(ids, l.findAll(x, y, typ, s)...)
	}

	return ids
}

func (l *NodeLookup) findAll(x, y int, typ NodeType, side fabric.Side) []NodeID {
	n := l.maxPtc[slotKey{x: x, y: y, typ: typ}]

	var ids []NodeID
	for ptc := 0; ptc < n; ptc++ {
		if id, ok := l.nodes[makeKey(x, y, typ, ptc, side)]; ok {
			ids = append(ids, id)
		}
	}

	return ids
}

// MirrorNodes copies every node of the given type registered at from to the
// same slots at to.
func (l *NodeLookup) MirrorNodes(from, to fabric.Point, typ NodeType) {
	n := l.maxPtc[slotKey{x: from.X, y: from.Y, typ: typ}]

	for ptc := 0; ptc < n; ptc++ {
		for _, s := range fabric.Sides {
			id, ok := l.nodes[makeKey(from.X, from.Y, typ, ptc, s)]
			if !ok {
				continue
			}

			l.Add(id, to.X, to.Y, typ, ptc, s)

			if !typ.IsPin() {
				break
			}
		}
	}
}

// Len returns the number of registered slots.
func (l *NodeLookup) Len() int {
	return len(l.nodes)
}

// Slot is a registered lookup entry.
type Slot struct {
	X, Y int
	Type NodeType
	Ptc  int
	Side fabric.Side
	Node NodeID
}

// ForEach calls fn for every registered slot in no particular order.
func (l *NodeLookup) ForEach(fn func(s Slot)) {
	for k, id := range l.nodes {
		fn(Slot{X: k.x, Y: k.y, Type: k.typ, Ptc: k.ptc, Side: k.side, Node: id})
	}
}
