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

func numberedL4Channel(width int) *ChanNodeDetails {
	segs := []fabric.Segment{{Name: "L4", Length: 4, Frequency: 1}}
	d := BuildUnidir(width, 16, false, false, segs)

	for i := 0; i < d.Width(); i++ {
		d.SetNodeID(i, rrgraph.NodeID(10+i))
	}

	return d
}

func ids(d *ChanNodeDetails) []rrgraph.NodeID {
	out := make([]rrgraph.NodeID, d.Width())
	for i := range out {
		out[i] = d.NodeID(i).MustGet()
	}

	return out
}

var _ = Describe("ChanNodeDetails", func() {
	It("should group the tracks of one wire", func() {
		d := numberedL4Channel(8)

		Expect(d.SegGroup(0)).To(Equal([]int{0, 2, 4, 6}))
		Expect(d.SegGroup(1)).To(Equal([]int{1, 3, 5, 7}))
	})

	It("should stop a group at the next start", func() {
		d := numberedL4Channel(16)

		Expect(d.SegGroup(0)).To(Equal([]int{0, 2, 4, 6}))
		Expect(d.SegGroup(8)).To(Equal([]int{8, 10, 12, 14}))
	})

	It("should rotate one direction only", func() {
		d := numberedL4Channel(8)
		d.RotateNodeIDs(1, rrgraph.Inc, false)

		Expect(ids(d)).To(Equal([]rrgraph.NodeID{12, 11, 14, 13, 16, 15, 10, 17}))
	})

	It("should counter rotate", func() {
		d := numberedL4Channel(8)
		d.RotateNodeIDs(1, rrgraph.Dec, true)

		Expect(ids(d)).To(Equal([]rrgraph.NodeID{10, 17, 12, 11, 14, 13, 16, 15}))
	})

	It("should not rotate length-one wires", func() {
		d := BuildUnidir(4, 4, false, false, lengthOneSegments())
		for i := 0; i < 4; i++ {
			d.SetNodeID(i, rrgraph.NodeID(i))
		}

		d.RotateNodeIDs(1, rrgraph.Inc, true)
		Expect(ids(d)).To(Equal([]rrgraph.NodeID{0, 1, 2, 3}))
	})

	It("should refuse node ids of another width", func() {
		d := numberedL4Channel(8)
		Expect(func() { d.SetNodeIDs(make([]rrgraph.OptNodeID, 3)) }).To(Panic())
	})

	It("should restore the order after a full turn", func() {
		parameters := gopter.DefaultTestParameters()
		properties := gopter.NewProperties(parameters)

		properties.Property("rotating by k then by N-k is the identity", prop.ForAll(
			func(k int, counter bool) bool {
				d := numberedL4Channel(16)
				before := ids(d)

				d.RotateNodeIDs(k, rrgraph.Inc, counter)
				d.RotateNodeIDs(4-k%4, rrgraph.Inc, counter)

				after := ids(d)
				for i := range before {
					if before[i] != after[i] {
						return false
					}
				}

				return true
			},
			gen.IntRange(0, 12),
			gen.Bool(),
		))

		properties.Property("counter rotation undoes rotation", prop.ForAll(
			func(k int) bool {
				d := numberedL4Channel(16)
				before := ids(d)

				d.RotateNodeIDs(k, rrgraph.Dec, false)
				d.RotateNodeIDs(k, rrgraph.Dec, true)

				after := ids(d)
				for i := range before {
					if before[i] != after[i] {
						return false
					}
				}

				return true
			},
			gen.IntRange(0, 12),
		))

		Expect(properties.Run(gopter.ConsoleReporter(false))).To(BeTrue())
	})
})
