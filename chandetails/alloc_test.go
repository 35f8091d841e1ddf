package chandetails

import (
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

func lengthOneSegments() []fabric.Segment {
	return []fabric.Segment{{Name: "L1", Length: 1, Frequency: 1}}
}

var _ = Describe("NumTracksPerSegType", func() {
	It("should give every track to a single segment", func() {
		Expect(NumTracksPerSegType(4, lengthOneSegments(), false)).
			To(Equal([]int{4}))
	})

	It("should split evenly between equal frequencies", func() {
		segs := []fabric.Segment{
			{Name: "L1", Length: 1, Frequency: 1},
			{Name: "L4", Length: 4, Frequency: 1},
		}
		Expect(NumTracksPerSegType(8, segs, false)).To(Equal([]int{4, 4}))
	})

	It("should follow the frequency ratio", func() {
		segs := []fabric.Segment{
			{Name: "L2", Length: 2, Frequency: 3},
			{Name: "L4", Length: 4, Frequency: 1},
		}
		Expect(NumTracksPerSegType(8, segs, false)).To(Equal([]int{6, 2}))
	})

	It("should return zeros for an empty channel", func() {
		Expect(NumTracksPerSegType(0, lengthOneSegments(), false)).
			To(Equal([]int{0}))
	})

	It("should conserve the track count", func() {
		parameters := gopter.DefaultTestParameters()
		parameters.MinSuccessfulTests = 200
		properties := gopter.NewProperties(parameters)

		properties.Property("assigned tracks sum to the channel width", prop.ForAll(
			func(width, l1, l2, f1, f2 int) bool {
				segs := []fabric.Segment{
					{Length: l1, Frequency: f1},
					{Length: l2, Frequency: f2},
				}

				sum := 0
				for _, n := range NumTracksPerSegType(width, segs, false) {
					sum += n
				}

				return sum == width
			},
			gen.IntRange(1, 64),
			gen.IntRange(1, 6),
			gen.IntRange(1, 6),
			gen.IntRange(1, 5),
			gen.IntRange(1, 5),
		))

		properties.Property("unidir channels have the corrected width", prop.ForAll(
			func(width, length int) bool {
				segs := []fabric.Segment{{Length: length, Frequency: 1}}
				d := BuildUnidir(width, 8, false, false, segs)

				return d.Width() == UnidirChanWidth(width) &&
					d.Width()%2 == 0
			},
			gen.IntRange(1, 64),
			gen.IntRange(1, 6),
		))

		Expect(properties.Run(gopter.ConsoleReporter(false))).To(BeTrue())
	})
})

var _ = Describe("BuildUnidir", func() {
	It("should round odd widths up", func() {
		Expect(BuildUnidir(5, 4, false, false, lengthOneSegments()).Width()).
			To(Equal(6))
	})

	It("should build nothing for a zero width", func() {
		Expect(BuildUnidir(0, 4, false, false, lengthOneSegments()).Width()).
			To(Equal(0))
	})

	It("should alternate directions and leave ids unset", func() {
		d := BuildUnidir(4, 4, false, false, lengthOneSegments())

		Expect(d.Width()).To(Equal(4))
		for i := 0; i < 4; i++ {
			if i%2 == 0 {
				Expect(d.Direction(i)).To(Equal(rrgraph.Inc))
			} else {
				Expect(d.Direction(i)).To(Equal(rrgraph.Dec))
			}
			Expect(d.IsStart(i)).To(BeTrue())
			Expect(d.IsEnd(i)).To(BeTrue())
			Expect(d.NodeID(i).IsSome()).To(BeFalse())
		}
	})

	It("should stagger long wires", func() {
		segs := []fabric.Segment{{Name: "L4", Length: 4, Frequency: 1}}
		d := BuildUnidir(8, 8, false, false, segs)

		Expect(d.IsStart(0)).To(BeTrue())
		Expect(d.IsEnd(0)).To(BeFalse())
		Expect(d.IsStart(2)).To(BeFalse())
		Expect(d.IsEnd(6)).To(BeTrue())
		Expect(d.NumStartingTracks(rrgraph.Inc)).To(Equal(1))
		Expect(d.NumEndingTracks(rrgraph.Dec)).To(Equal(1))
	})

	It("should use the maximum length for longlines", func() {
		segs := []fabric.Segment{{Name: "global", Length: 1, Frequency: 1, Longline: true}}
		d := BuildUnidir(8, 3, false, false, segs)

		Expect(d.SegmentLength(0)).To(Equal(3))
		Expect(d.NumStartingTracks(rrgraph.Inc)).To(Equal(2))
	})

	It("should force every wire to start at the boundary", func() {
		segs := []fabric.Segment{{Name: "L4", Length: 4, Frequency: 1}}
		d := BuildUnidir(8, 8, true, false, segs)

		Expect(d.NumStartingTracks(rrgraph.Inc)).To(Equal(4))
		Expect(d.NumEndingTracks(rrgraph.Dec)).To(Equal(4))
	})

	It("should force every wire to end at the boundary", func() {
		segs := []fabric.Segment{{Name: "L4", Length: 4, Frequency: 1}}
		d := BuildUnidir(8, 8, false, true, segs)

		Expect(d.NumEndingTracks(rrgraph.Inc)).To(Equal(4))
		Expect(d.NumStartingTracks(rrgraph.Dec)).To(Equal(4))
	})
})
