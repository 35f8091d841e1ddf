package fabric

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Side", func() {
	It("should rotate clockwise", func() {
		Expect(Top.Clockwise()).To(Equal(Right))
		Expect(Right.Clockwise()).To(Equal(Bottom))
		Expect(Bottom.Clockwise()).To(Equal(Left))
		Expect(Left.Clockwise()).To(Equal(Top))
	})

	It("should rotate counterclockwise", func() {
		Expect(Top.CounterClockwise()).To(Equal(Left))
		Expect(Right.CounterClockwise()).To(Equal(Top))
		Expect(Bottom.CounterClockwise()).To(Equal(Right))
		Expect(Left.CounterClockwise()).To(Equal(Bottom))
	})

	It("should find the opposite side", func() {
		for _, s := range Sides {
			Expect(s.Opposite().Opposite()).To(Equal(s))
			Expect(s.Opposite()).NotTo(Equal(s))
		}
		Expect(Top.Opposite()).To(Equal(Bottom))
		Expect(Left.Opposite()).To(Equal(Right))
	})

	It("should panic on an invalid side", func() {
		Expect(func() { _ = Side(7).Name() }).To(Panic())
	})

	It("should parse side names", func() {
		s, err := ParseSide("left")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(Left))

		_, err = ParseSide("up")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Grid", func() {
	var (
		grid *Grid
		big  *TileType
	)

	BeforeEach(func() {
		grid = NewGrid(4, 4)
		big = &TileType{Name: "dsp", Width: 1, Height: 2}
	})

	It("should start empty", func() {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				Expect(grid.TypeAt(x, y).IsEmpty()).To(BeTrue())
			}
		}
	})

	It("should fill every covered cell of a multi-cell tile", func() {
		Expect(grid.Place(1, 1, big)).To(Succeed())

		Expect(grid.Cell(1, 1).IsRoot()).To(BeTrue())
		Expect(grid.Cell(1, 2).Type).To(BeIdenticalTo(big))
		Expect(grid.Cell(1, 2).HeightOffset).To(Equal(1))
		Expect(grid.Cell(1, 2).IsRoot()).To(BeFalse())
	})

	It("should reject overlaps", func() {
		Expect(grid.Place(1, 1, big)).To(Succeed())
		Expect(grid.Place(1, 2, big)).NotTo(Succeed())
	})

	It("should reject tiles that do not fit", func() {
		Expect(grid.Place(3, 3, big)).NotTo(Succeed())
	})
})

var _ = Describe("TileType", func() {
	var clb *TileType

	BeforeEach(func() {
		clb = &TileType{
			Name:   "clb",
			Width:  1,
			Height: 1,
			Classes: []PinClass{
				{Type: Receiver, Pins: []int{0, 1}},
				{Type: Driver, Pins: []int{2}},
			},
			PinClass: []int{0, 0, 1},
			PinLocations: []PinLocation{
				{Sides: []Side{Top}},
				{Sides: []Side{Right, Bottom}},
				{Sides: []Side{Right}},
			},
			Fc: [][]int{{2}, {0}, {1}},
		}
	})

	It("should find pins by side and class type", func() {
		Expect(clb.PinsAt(0, 0, Right, Receiver)).To(Equal([]int{1}))
		Expect(clb.PinsAt(0, 0, Right, Driver)).To(Equal([]int{2}))
		Expect(clb.PinsAt(0, 0, Left, Driver)).To(BeEmpty())
	})

	It("should report zero Fc pins", func() {
		Expect(clb.IsFcZero(0)).To(BeFalse())
		Expect(clb.IsFcZero(1)).To(BeTrue())
		Expect(clb.FcOf(0, 3)).To(Equal(0))
	})
})
