// Package verify checks a finished routing-resource graph.
//
// Validate walks the graph once and reports every inconsistency it finds
// instead of stopping at the first one:
//
//   - DANGLING: an edge refers to a node outside the node arena.
//   - SWITCH: a node or an edge uses a switch id that is not in the switch
//     list.
//   - LOOKUP: a lookup slot points at a node of another type, pin, side or
//     outside the node's bounding box.
//   - TRACK: a channel node does not occupy exactly one track per cell of
//     its span, or the lookup disagrees with its track list.
//   - SPATIAL: the rtree over channel nodes disagrees with the lookup.
//
// GenerateReport bundles the issues with node and edge statistics for
// printing.
package verify

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// IssueType classifies an issue.
type IssueType string

const (
	IssueDangling IssueType = "DANGLING"
	IssueSwitch   IssueType = "SWITCH"
	IssueLookup   IssueType = "LOOKUP"
	IssueTrack    IssueType = "TRACK"
	IssueSpatial  IssueType = "SPATIAL"
)

// Issue is a single inconsistency of a graph.
type Issue struct {
	Type    IssueType
	Node    rrgraph.NodeID // -1 if not applicable
	Edge    rrgraph.EdgeID // -1 if not applicable
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Type, i.Message)
}

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("graph validation failed")

// ValidationError carries the issues that made a graph unusable.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrValidation.Error()
	}

	return fmt.Sprintf("%s: %d issues, first: %s",
		ErrValidation, len(e.Issues), e.Issues[0])
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type checker struct {
	g      *rrgraph.Graph
	issues []Issue
}

func (c *checker) nodeIssue(t IssueType, id rrgraph.NodeID, format string, args ...any) {
	c.issues = append(c.issues, Issue{
		Type:    t,
		Node:    id,
		Edge:    -1,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *checker) edgeIssue(t IssueType, id rrgraph.EdgeID, format string, args ...any) {
	c.issues = append(c.issues, Issue{
		Type:    t,
		Node:    -1,
		Edge:    id,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *checker) validSwitch(sw fabric.SwitchID) bool {
	return sw >= 0 && int(sw) < len(c.g.Switches())
}

// Validate returns every issue found in g. An empty result means the graph
// can be used.
func Validate(g *rrgraph.Graph) []Issue {
	c := &checker{g: g}

	c.checkEdges()
	c.checkDriverSwitches()
	c.checkLookup()
	c.checkTracks()
	c.checkSpatial()

	// Lookup walks are unordered.
	sort.SliceStable(c.issues, func(i, j int) bool {
		a, b := c.issues[i], c.issues[j]
		if a.Node != b.Node {
			return a.Node < b.Node
		}

		return a.Message < b.Message
	})

	return c.issues
}

func (c *checker) checkEdges() {
	for i, e := range c.g.Edges() {
		id := rrgraph.EdgeID(i)

		if !c.g.ValidNode(e.Src) || !c.g.ValidNode(e.Sink) {
			c.edgeIssue(IssueDangling, id, "edge %d: %d -> %d refers to a missing node",
				id, e.Src, e.Sink)
			continue
		}

		if !c.validSwitch(e.Switch) {
			c.edgeIssue(IssueSwitch, id, "edge %d: switch %d out of range", id, e.Switch)
		}
	}
}

func (c *checker) checkDriverSwitches() {
	for i := range c.g.Nodes() {
		id := rrgraph.NodeID(i)
		if len(c.g.InEdges(id)) == 0 {
			continue
		}

		if sw := c.g.DriverSwitch(id); !c.validSwitch(sw) {
			c.nodeIssue(IssueSwitch, id, "node %d has fan-in but driver switch %d", id, sw)
		}
	}
}

func inBox(n rrgraph.Node, x, y int) bool {
	return x >= n.XLow && x <= n.XHigh && y >= n.YLow && y <= n.YHigh
}

func (c *checker) checkLookup() {
	c.g.Lookup().ForEach(func(s rrgraph.Slot) {
		if !c.g.ValidNode(s.Node) {
			c.nodeIssue(IssueDangling, s.Node, "%s slot (%d, %d) ptc %d holds missing node %d",
				s.Type, s.X, s.Y, s.Ptc, s.Node)
			return
		}

		n := c.g.Node(s.Node)

		switch {
		case n.Type != s.Type:
			c.nodeIssue(IssueLookup, s.Node, "%s slot (%d, %d) holds %s node %d",
				s.Type, s.X, s.Y, n.Type, s.Node)
		case !inBox(n, s.X, s.Y):
			c.nodeIssue(IssueLookup, s.Node, "%s slot (%d, %d) outside node %d span (%d, %d)-(%d, %d)",
				s.Type, s.X, s.Y, s.Node, n.XLow, n.YLow, n.XHigh, n.YHigh)
		case n.Type.IsPin() && (n.Ptc != s.Ptc || n.Side != s.Side):
			c.nodeIssue(IssueLookup, s.Node, "%s slot pin %d side %s holds pin %d side %s",
				s.Type, s.Ptc, s.Side, n.Ptc, n.Side)
		case !n.Type.IsChannel() && !n.Type.IsPin() && n.Ptc != s.Ptc:
			c.nodeIssue(IssueLookup, s.Node, "%s slot ptc %d holds ptc %d", s.Type, s.Ptc, n.Ptc)
		}
	})
}

// cellsOf lists the cells a channel node spans, from its starting end.
func cellsOf(n rrgraph.Node) []fabric.Point {
	var cells []fabric.Point

	for y := n.YLow; y <= n.YHigh; y++ {
		for x := n.XLow; x <= n.XHigh; x++ {
			cells = append(cells, fabric.Point{X: x, Y: y})
		}
	}

	if n.Direction == rrgraph.Dec {
		for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
			cells[i], cells[j] = cells[j], cells[i]
		}
	}

	return cells
}

func (c *checker) checkTracks() {
	lookup := c.g.Lookup()

	for i, n := range c.g.Nodes() {
		if !n.Type.IsChannel() {
			continue
		}

		id := rrgraph.NodeID(i)
		tracks := c.g.TrackIDs(id)
		cells := cellsOf(n)

		if len(tracks) != len(cells) {
			c.nodeIssue(IssueTrack, id, "%s node %d spans %d cells but has %d track ids",
				n.Type, id, len(cells), len(tracks))
			continue
		}

		for k, p := range cells {
			got := lookup.FindNode(p.X, p.Y, n.Type, tracks[k], fabric.Top)
			if other, ok := got.Get(); !ok || other != id {
				c.nodeIssue(IssueTrack, id, "%s node %d track %d at %s: lookup has %s",
					n.Type, id, tracks[k], p, got)
			}
		}
	}
}

func (c *checker) checkSpatial() {
	idx := rrgraph.NewSpatialIndex(c.g)

	c.g.Lookup().ForEach(func(s rrgraph.Slot) {
		if !s.Type.IsChannel() || !c.g.ValidNode(s.Node) {
			return
		}

		for _, id := range idx.Covering(s.X, s.Y) {
			if id == s.Node {
				return
			}
		}

		c.nodeIssue(IssueSpatial, s.Node, "%s node %d registered at (%d, %d) but not covering it",
			s.Type, s.Node, s.X, s.Y)
	})
}
