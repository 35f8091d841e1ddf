package rrgraph

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tileablerr/fabric"
)

var _ = Describe("Graph", func() {
	var (
		g    *Graph
		a, b NodeID
	)

	BeforeEach(func() {
		g = NewGraph([]fabric.Switch{{Name: "delayless"}, {Name: "mux"}})
		g.ReserveNodes(4)
		a = g.AddNode(Node{Type: ChanX, XLow: 1, YLow: 1, XHigh: 1, YHigh: 1})
		b = g.AddNode(Node{Type: IPIN, XLow: 1, YLow: 1, XHigh: 1, YHigh: 1})
	})

	It("should keep edges in the cache until they are built", func() {
		g.CreateEdgeInCache(a, b, 1, false)
		Expect(g.NumEdges()).To(Equal(0))
		Expect(g.NumCachedEdges()).To(Equal(1))

		Expect(g.BuildEdges(true)).To(Equal(1))
		Expect(g.NumEdges()).To(Equal(1))
		Expect(g.OutEdges(a)).To(HaveLen(1))
		Expect(g.InEdges(b)).To(HaveLen(1))
		Expect(g.Edge(g.OutEdges(a)[0]).Switch).To(Equal(fabric.SwitchID(1)))
	})

	It("should drop duplicated edges when uniquifying", func() {
		g.CreateEdgeInCache(a, b, 1, false)
		g.CreateEdgeInCache(a, b, 1, false)
		Expect(g.BuildEdges(true)).To(Equal(1))

		g.CreateEdgeInCache(a, b, 1, false)
		Expect(g.BuildEdges(true)).To(Equal(0))
		Expect(g.NumEdges()).To(Equal(1))
	})

	It("should keep the first driver switch", func() {
		g.SetDriverSwitch(a, 1)
		g.SetDriverSwitch(a, 1)
		Expect(g.DriverSwitch(a)).To(Equal(fabric.SwitchID(1)))
		Expect(g.DriverSwitch(b)).To(Equal(fabric.NoSwitch))

		Expect(func() { g.SetDriverSwitch(a, 0) }).To(PanicWith(BeAssignableToTypeOf(&InvariantViolation{})))
	})

	It("should deduplicate RC data", func() {
		i := g.FindOrCreateRC(1.5, 2)
		j := g.FindOrCreateRC(0, 0)
		Expect(g.FindOrCreateRC(1.5, 2)).To(Equal(i))
		Expect(j).NotTo(Equal(i))
		Expect(g.RCData()).To(HaveLen(2))
	})

	It("should reverse track ids", func() {
		g.AppendTrackID(a, 3)
		g.AppendTrackID(a, 5)
		g.AppendTrackID(a, 7)
		g.ReverseTrackIDs(a)
		Expect(g.TrackIDs(a)).To(Equal([]int{7, 5, 3}))
	})

	It("should compute node lengths", func() {
		n := Node{Type: ChanX, XLow: 2, XHigh: 5, YLow: 1, YHigh: 1}
		Expect(n.Length()).To(Equal(4))
	})
})

var _ = Describe("NodeLookup", func() {
	var l *NodeLookup

	BeforeEach(func() {
		l = NewNodeLookup()
	})

	It("should find channel nodes in track order", func() {
		l.Add(7, 1, 1, ChanX, 2, fabric.Top)
		l.Add(5, 1, 1, ChanX, 0, fabric.Top)
		l.Add(6, 1, 1, ChanX, 1, fabric.Top)

		Expect(l.FindChannelNodes(1, 1, ChanX)).To(Equal([]NodeID{5, 6, 7}))
		Expect(l.FindChannelNodes(1, 1, ChanY)).To(BeEmpty())
	})

	It("should tell pin sides apart", func() {
		l.Add(1, 0, 0, IPIN, 0, fabric.Top)
		l.Add(2, 0, 0, IPIN, 0, fabric.Right)

		id, ok := l.FindNode(0, 0, IPIN, 0, fabric.Right).Get()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(NodeID(2)))
		Expect(l.FindGridNodesAllSides(0, 0, IPIN)).To(Equal([]NodeID{1, 2}))
		Expect(l.FindNode(0, 0, IPIN, 0, fabric.Left).IsSome()).To(BeFalse())
	})

	It("should ignore sides for non-pin nodes", func() {
		l.Add(3, 2, 2, Source, 1, fabric.Left)
		Expect(l.FindNode(2, 2, Source, 1, fabric.Bottom).IsSome()).To(BeTrue())
	})

	It("should refuse two nodes in one slot", func() {
		l.Add(1, 1, 1, ChanY, 0, fabric.Top)
		l.Add(1, 1, 1, ChanY, 0, fabric.Top)

		Expect(func() { l.Add(2, 1, 1, ChanY, 0, fabric.Top) }).To(Panic())
	})

	It("should mirror nodes to another coordinate", func() {
		l.Add(4, 1, 1, Sink, 0, fabric.Top)
		l.Add(5, 1, 1, Sink, 1, fabric.Top)
		l.MirrorNodes(fabric.Point{X: 1, Y: 1}, fabric.Point{X: 1, Y: 2}, Sink)

		Expect(l.FindGridNodes(1, 2, Sink, fabric.Top)).To(Equal([]NodeID{4, 5}))
	})
})

var _ = Describe("SpatialIndex", func() {
	It("should find the channel nodes covering a point", func() {
		g := NewGraph(nil)
		long := g.AddNode(Node{Type: ChanX, XLow: 1, YLow: 2, XHigh: 4, YHigh: 2})
		short := g.AddNode(Node{Type: ChanX, XLow: 3, YLow: 2, XHigh: 3, YHigh: 2})
		g.AddNode(Node{Type: OPIN, XLow: 3, YLow: 2, XHigh: 3, YHigh: 2})

		idx := NewSpatialIndex(g)
		Expect(idx.Len()).To(Equal(2))
		Expect(idx.Covering(3, 2)).To(ConsistOf(long, short))
		Expect(idx.Covering(2, 2)).To(ConsistOf(long))
		Expect(idx.Covering(2, 3)).To(BeEmpty())
	})
})

var _ = Describe("Errors", func() {
	It("should classify config errors", func() {
		err := error(Configf("gsb (1, 1)", "bad %s", "fs"))
		Expect(errors.Is(err, ErrConfig)).To(BeTrue())
		Expect(errors.Is(err, ErrInvariant)).To(BeFalse())
		Expect(err.Error()).To(ContainSubstring("gsb (1, 1)"))
	})

	It("should recover invariant violations", func() {
		run := func() (err error) {
			defer RecoverBuildError(&err)
			Invariantf(false, "broken %d", 1)
			return nil
		}

		err := run()
		Expect(errors.Is(err, ErrInvariant)).To(BeTrue())
	})

	It("should re-raise unrelated panics", func() {
		run := func() (err error) {
			defer RecoverBuildError(&err)
			panic("boom")
		}

		Expect(func() { _ = run() }).To(PanicWith("boom"))
	})
})
