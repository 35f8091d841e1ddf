package rrgraph

import (
	"github.com/tidwall/rtree"
)

// SpatialIndex answers which channel nodes cover a grid coordinate.
type SpatialIndex struct {
	tree rtree.RTreeG[NodeID]
}

// NewSpatialIndex indexes the bounding boxes of every channel node of g.
func NewSpatialIndex(g *Graph) *SpatialIndex {
	idx := &SpatialIndex{}

	for i, n := range g.Nodes() {
		if !n.Type.IsChannel() {
			continue
		}

		idx.tree.Insert(
			[2]float64{float64(n.XLow), float64(n.YLow)},
			[2]float64{float64(n.XHigh), float64(n.YHigh)},
			NodeID(i),
		)
	}

	return idx
}

// Len returns the number of indexed nodes.
func (s *SpatialIndex) Len() int {
	return s.tree.Len()
}

// Covering returns the channel nodes whose bounding box contains (x, y).
func (s *SpatialIndex) Covering(x, y int) []NodeID {
	p := [2]float64{float64(x), float64(y)}

	var ids []NodeID
	s.tree.Search(p, p, func(_, _ [2]float64, id NodeID) bool {
		ids = append(ids, id)
		return true
	})

	return ids
}
