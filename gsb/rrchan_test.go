package gsb

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

func chanXNode(xLow, xHigh int, dir rrgraph.Direction) rrgraph.Node {
	return rrgraph.Node{
		Type:      rrgraph.ChanX,
		XLow:      xLow,
		YLow:      1,
		XHigh:     xHigh,
		YHigh:     1,
		Capacity:  1,
		Direction: dir,
	}
}

var _ = Describe("RRChan", func() {
	var (
		g          *rrgraph.Graph
		inc, dec   rrgraph.NodeID
		inc2, dec2 rrgraph.NodeID
		c          RRChan
	)

	BeforeEach(func() {
		g = rrgraph.NewGraph(nil)
		inc = g.AddNode(chanXNode(1, 2, rrgraph.Inc))
		dec = g.AddNode(chanXNode(1, 2, rrgraph.Dec))
		inc2 = g.AddNode(chanXNode(3, 6, rrgraph.Inc))
		dec2 = g.AddNode(chanXNode(3, 6, rrgraph.Dec))

		c = NewRRChan(rrgraph.ChanX)
		c.AddNode(inc, 1)
		c.AddNode(dec, 1)
		c.AddNode(inc2, 0)
		c.AddNode(dec2, 0)
	})

	It("should list segments in order of first appearance", func() {
		Expect(c.Width()).To(Equal(4))
		Expect(c.SegmentIDs()).To(Equal([]fabric.SegmentID{1, 0}))
		Expect(c.NodeIndicesBySegment(0)).To(Equal([]int{2, 3}))
		Expect(c.NodeIndicesBySegment(2)).To(BeEmpty())
	})

	It("should find the track of a node", func() {
		i, ok := c.IndexOf(inc2)
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(2))

		_, ok = c.IndexOf(rrgraph.NodeID(99))
		Expect(ok).To(BeFalse())
	})

	It("should mirror a channel with the same shape", func() {
		other := NewRRChan(rrgraph.ChanX)
		other.AddNode(inc2, 1)
		other.AddNode(dec2, 1)
		other.AddNode(inc, 0)
		other.AddNode(dec, 0)

		Expect(c.IsMirror(g, &other)).To(BeTrue())
	})

	It("should not mirror a channel with another direction order", func() {
		other := NewRRChan(rrgraph.ChanX)
		other.AddNode(dec, 1)
		other.AddNode(inc, 1)
		other.AddNode(inc2, 0)
		other.AddNode(dec2, 0)

		Expect(c.IsMirror(g, &other)).To(BeFalse())
	})

	It("should not mirror a channel of another type or width", func() {
		y := NewRRChan(rrgraph.ChanY)
		short := NewRRChan(rrgraph.ChanX)
		short.AddNode(inc, 1)

		Expect(c.IsMirror(g, &y)).To(BeFalse())
		Expect(c.IsMirror(g, &short)).To(BeFalse())
	})
})

var _ = Describe("Track points", func() {
	It("should start an INC track at its low end", func() {
		n := chanXNode(3, 6, rrgraph.Inc)

		Expect(TrackStartPoint(n)).To(Equal(fabric.Point{X: 3, Y: 1}))
		Expect(TrackEndPoint(n)).To(Equal(fabric.Point{X: 6, Y: 1}))
	})

	It("should start a DEC track at its high end", func() {
		n := chanXNode(3, 6, rrgraph.Dec)

		Expect(TrackStartPoint(n)).To(Equal(fabric.Point{X: 6, Y: 1}))
		Expect(TrackEndPoint(n)).To(Equal(fabric.Point{X: 3, Y: 1}))
	})
})

var _ = Describe("Map helpers", func() {
	DescribeTable("scaledStep",
		func(fc, numTracks, chanWidth, want int) {
			Expect(scaledStep(fc, numTracks, chanWidth)).To(Equal(want))
		},
		Entry("full channel", 2, 4, 4, 2),
		Entry("every track", 4, 4, 4, 1),
		Entry("at least one track", 1, 2, 16, 2),
		Entry("a share of the channel", 4, 4, 8, 2),
		Entry("more than the tracks", 8, 2, 4, 1),
	)

	It("should rotate tracks to the left", func() {
		Expect(rotateLeft([]int{0, 1, 2, 3}, 2)).To(Equal([]int{2, 3, 0, 1}))
		Expect(rotateLeft([]int{0, 1, 2, 3}, 5)).To(Equal([]int{1, 2, 3, 0}))
	})

	It("should not modify the input when rotating", func() {
		tracks := []int{0, 1, 2}
		_ = rotateLeft(tracks, 1)

		Expect(tracks).To(Equal([]int{0, 1, 2}))
	})
})

var _ = Describe("VIB sides", func() {
	DescribeTable("wire directions",
		func(dir byte, in, out fabric.Side) {
			Expect(inboundSide("vib", dir)).To(Equal(in))
			Expect(outboundSide("vib", dir)).To(Equal(out))
		},
		Entry("west", byte('W'), fabric.Right, fabric.Left),
		Entry("east", byte('E'), fabric.Left, fabric.Right),
		Entry("north", byte('N'), fabric.Bottom, fabric.Top),
		Entry("south", byte('S'), fabric.Top, fabric.Bottom),
	)

	It("should reject an unknown direction", func() {
		Expect(func() { inboundSide("vib", 'X') }).
			To(PanicWith(BeAssignableToTypeOf(&rrgraph.ConfigError{})))
	})
})
