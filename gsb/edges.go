package gsb

import (
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// BuildEdgesForOneGSB caches the edges of the three maps and returns how
// many were added. Every edge uses the driver switch of its sink.
func BuildEdgesForOneGSB(
	graph *rrgraph.Graph,
	g *RRGSB,
	t2i TrackToIPINMap,
	o2t OPINToTrackMap,
	t2t TrackToTrackMap,
) int {
	count := 0
	connect := func(src, sink rrgraph.NodeID) {
		graph.CreateEdgeInCache(src, sink, graph.DriverSwitch(sink), false)
		count++
	}

	for _, side := range fabric.Sides {
		for i, opin := range g.OPINs(side) {
			if i >= len(o2t[side]) {
				break
			}

			for _, tracks := range o2t[side][i] {
				for _, track := range tracks {
					connect(opin, track)
				}
			}
		}

		// Only the connection block sides own IPIN edges. The other two
		// belong to the neighbouring GSBs.
		if side == CBChanSide(rrgraph.ChanX) || side == CBChanSide(rrgraph.ChanY) {
			for t := 0; t < g.ChanWidth(side) && t < len(t2i[side]); t++ {
				for _, ipin := range t2i[side][t] {
					connect(g.ChanNode(side, t), ipin)
				}
			}
		}

		for t := 0; t < g.ChanWidth(side) && t < len(t2t[side]); t++ {
			for _, track := range t2t[side][t] {
				connect(g.ChanNode(side, t), track)
			}
		}
	}

	return count
}
