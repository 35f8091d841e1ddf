package gsb

import (
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// RRChan is the ordered list of channel nodes seen at one side of a switch
// block, with the segment of each track.
type RRChan struct {
	typ      rrgraph.NodeType
	nodes    []rrgraph.NodeID
	segments []fabric.SegmentID
}

// NewRRChan creates an empty channel of the given type.
func NewRRChan(typ rrgraph.NodeType) RRChan {
	return RRChan{typ: typ}
}

// AddNode appends a track.
func (c *RRChan) AddNode(node rrgraph.NodeID, seg fabric.SegmentID) {
	c.nodes = append(c.nodes, node)
	c.segments = append(c.segments, seg)
}

// Type returns CHANX or CHANY.
func (c *RRChan) Type() rrgraph.NodeType {
	return c.typ
}

// Width returns the number of tracks.
func (c *RRChan) Width() int {
	return len(c.nodes)
}

// Node returns the node of track i.
func (c *RRChan) Node(i int) rrgraph.NodeID {
	return c.nodes[i]
}

// Segment returns the segment of track i.
func (c *RRChan) Segment(i int) fabric.SegmentID {
	return c.segments[i]
}

// SegmentIDs returns the segments used by the channel in order of first
// appearance.
func (c *RRChan) SegmentIDs() []fabric.SegmentID {
	var ids []fabric.SegmentID

	seen := make(map[fabric.SegmentID]bool)
	for _, s := range c.segments {
		if !seen[s] {
			seen[s] = true
			ids = append(ids, s)
		}
	}

	return ids
}

// NodeIndicesBySegment returns the tracks of one segment.
func (c *RRChan) NodeIndicesBySegment(seg fabric.SegmentID) []int {
	var indices []int

	for i, s := range c.segments {
		if s == seg {
			indices = append(indices, i)
		}
	}

	return indices
}

// IndexOf returns the track of a node.
func (c *RRChan) IndexOf(node rrgraph.NodeID) (int, bool) {
	for i, n := range c.nodes {
		if n == node {
			return i, true
		}
	}

	return 0, false
}

// IsMirror returns true if both channels have the same type and width, and
// every track has the same node type, direction and segment.
func (c *RRChan) IsMirror(g *rrgraph.Graph, other *RRChan) bool {
	if c.typ != other.typ || c.Width() != other.Width() {
		return false
	}

	for i := range c.nodes {
		a, b := g.Node(c.nodes[i]), g.Node(other.nodes[i])

		if a.Type != b.Type || a.Direction != b.Direction {
			return false
		}

		if c.segments[i] != other.segments[i] {
			return false
		}
	}

	return true
}
