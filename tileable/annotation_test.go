package tileable

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tileablerr/fabric"
)

func pt(x, y int) fabric.Point {
	return fabric.Point{X: x, Y: y}
}

var _ = Describe("DeviceGridAnnotation", func() {
	var grid *fabric.Grid

	BeforeEach(func() {
		grid = ioRingGrid(6, ioTile(1), clbTile(1))
	})

	It("should not force anything without a shrunk boundary", func() {
		a := NewDeviceGridAnnotation(grid, false)

		Expect(a.IsChanXExist(pt(0, 5))).To(BeTrue())
		Expect(a.IsChanXStart(pt(1, 1))).To(BeFalse())
		Expect(a.IsChanYEnd(pt(1, 4))).To(BeFalse())
	})

	It("should follow the extent of the non-empty cells", func() {
		a := NewDeviceGridAnnotation(grid, true)

		Expect(a.IsChanXExist(pt(0, 0))).To(BeTrue())
		Expect(a.IsChanXStart(pt(0, 0))).To(BeTrue())
		Expect(a.IsChanXEnd(pt(5, 0))).To(BeTrue())

		Expect(a.IsChanXExist(pt(0, 5))).To(BeFalse())
		Expect(a.IsChanXStart(pt(1, 5))).To(BeTrue())
		Expect(a.IsChanXEnd(pt(4, 5))).To(BeTrue())

		Expect(a.IsChanYExist(pt(5, 0))).To(BeFalse())
		Expect(a.IsChanYStart(pt(5, 1))).To(BeTrue())
		Expect(a.IsChanYEnd(pt(5, 4))).To(BeTrue())
	})

	It("should build a valid graph with a shrunk boundary", func() {
		b, _ := ioRingBuilder()

		res, err := b.WithShrinkBoundary(true).Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Annotation.IsChanXStart(pt(1, 5))).To(BeTrue())
	})
})

var _ = Describe("Channel existence", func() {
	var (
		grid *fabric.Grid
		tall *fabric.TileType
	)

	BeforeEach(func() {
		grid = fabric.NewGrid(6, 6)
		tall = &fabric.TileType{Name: "ram", Width: 1, Height: 2}
		mustPlace(grid, 2, 2, tall)
	})

	It("should keep channels off the fabric edge", func() {
		Expect(IsChanXExist(grid, pt(0, 1), false, false)).To(BeFalse())
		Expect(IsChanXExist(grid, pt(1, 1), false, false)).To(BeTrue())
		Expect(IsChanXExist(grid, pt(5, 1), false, false)).To(BeFalse())
		Expect(IsChanXExist(grid, pt(0, 1), true, false)).To(BeTrue())

		Expect(IsChanYExist(grid, pt(1, 0), false, false)).To(BeFalse())
		Expect(IsChanYExist(grid, pt(1, 4), false, false)).To(BeTrue())
	})

	It("should stop CHANX inside a tall block", func() {
		Expect(IsChanXExist(grid, pt(2, 2), false, false)).To(BeFalse())
		Expect(IsChanXExist(grid, pt(2, 3), false, false)).To(BeTrue())
		Expect(IsChanXExist(grid, pt(2, 2), false, true)).To(BeTrue())
	})

	It("should start and end CHANX around a tall block", func() {
		Expect(IsChanXRightToMultiHeightGrid(grid, pt(3, 2), false, false)).To(BeTrue())
		Expect(IsChanXLeftToMultiHeightGrid(grid, pt(1, 2), false, false)).To(BeTrue())

		Expect(IsChanXRightToMultiHeightGrid(grid, pt(3, 3), false, false)).To(BeFalse())
		Expect(IsChanXRightToMultiHeightGrid(grid, pt(1, 3), false, false)).To(BeTrue())
		Expect(IsChanXLeftToMultiHeightGrid(grid, pt(4, 3), false, false)).To(BeTrue())

		Expect(IsChanXRightToMultiHeightGrid(grid, pt(3, 2), false, true)).To(BeFalse())
	})

	It("should start and end CHANY around a wide block", func() {
		wide := &fabric.TileType{Name: "dsp", Width: 2, Height: 1}
		g := fabric.NewGrid(6, 6)
		mustPlace(g, 2, 2, wide)

		Expect(IsChanYExist(g, pt(2, 2), false, false)).To(BeFalse())
		Expect(IsChanYExist(g, pt(3, 2), false, false)).To(BeTrue())
		Expect(IsChanYTopToMultiWidthGrid(g, pt(2, 3), false, false)).To(BeTrue())
		Expect(IsChanYBottomToMultiWidthGrid(g, pt(2, 1), false, false)).To(BeTrue())
	})

	DescribeTable("I/O pin sides",
		func(p fabric.Point, perimeterCB bool, want []fabric.Side) {
			Expect(DetermineIOPinSides(pt(5, 5), p, perimeterCB)).To(Equal(want))
		},
		Entry("top row", pt(2, 5), false, []fabric.Side{fabric.Bottom}),
		Entry("right column", pt(5, 2), false, []fabric.Side{fabric.Left}),
		Entry("bottom row", pt(2, 0), false, []fabric.Side{fabric.Top}),
		Entry("left column", pt(0, 2), false, []fabric.Side{fabric.Right}),
		Entry("top row with perimeter", pt(2, 5), true, []fabric.Side{fabric.Bottom, fabric.Top}),
		Entry("core", pt(2, 2), false, fabric.Sides[:]),
	)
})
