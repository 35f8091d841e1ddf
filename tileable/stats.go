package tileable

import (
	"github.com/sarchlab/tileablerr/gsb"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// EdgeKind groups edges by the step that created them.
type EdgeKind string

const (
	EdgeKindSourceOPIN EdgeKind = "source_opin"
	EdgeKindIPINSink   EdgeKind = "ipin_sink"
	EdgeKindGSB        EdgeKind = "gsb"
	EdgeKindVIB        EdgeKind = "vib"
	EdgeKindDirect     EdgeKind = "direct"
)

// Stats summarises a build. Edge counts are cached edges, before duplicates
// are dropped.
type Stats struct {
	NodesByType  map[rrgraph.NodeType]int
	EdgesByKind  map[EdgeKind]int
	Edges        int
	GSBs         int
	UniqueSBs    int
	VIBSkipped   int
	ChannelWidth int
}

// sbClassifier keeps one switch block per mirror class.
type sbClassifier struct {
	graph  *rrgraph.Graph
	unique []*gsb.RRGSB
}

func (c *sbClassifier) add(g *gsb.RRGSB) {
	for _, u := range c.unique {
		if u.IsSBMirrorable(c.graph, g) {
			return
		}
	}

	c.unique = append(c.unique, g)
}
