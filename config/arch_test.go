package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

const sampleArch = "../samples/ioring/ioring.yaml"

func sampleYAML() string {
	data, err := os.ReadFile(sampleArch)
	Expect(err).NotTo(HaveOccurred())

	return string(data)
}

func parseEdited(from, to string) (*Arch, error) {
	src := sampleYAML()
	Expect(src).To(ContainSubstring(from))

	return ParseArch([]byte(strings.Replace(src, from, to, 1)))
}

func resolveEdited(from, to string) error {
	arch, err := parseEdited(from, to)
	Expect(err).NotTo(HaveOccurred())

	_, err = arch.Resolve()

	return err
}

var _ = Describe("Arch", func() {
	It("should load the sample architecture", func() {
		arch, err := LoadArchFile(sampleArch)

		Expect(err).NotTo(HaveOccurred())
		Expect(arch.Device.Width).To(Equal(6))
		Expect(arch.Routing.SBType).To(Equal("subset"))
		Expect(arch.Switches).To(HaveLen(3))
		Expect(arch.Tiles[1].Ports[0].Equivalent).To(BeTrue())
	})

	It("should fail on a missing file", func() {
		_, err := LoadArchFile("does-not-exist.yaml")
		Expect(err).To(MatchError(ContainSubstring("reading architecture file")))
	})

	It("should fail on malformed YAML", func() {
		_, err := ParseArch([]byte("device: [1, 2"))
		Expect(err).To(MatchError(ContainSubstring("decoding architecture")))
	})

	DescribeTable("field validation",
		func(from, to, msg string) {
			_, err := parseEdited(from, to)
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("Fs not a multiple of 3", "fs: 3", "fs: 4", "Fs: must be a multiple of 3"),
		Entry("Fs too small", "fs: 3", "fs: 0", "Fs: must be at least 3"),
		Entry("unknown switch block", "sb_type: subset", "sb_type: clos", "SBType: must be one of"),
		Entry("zero channel width", "chan_width: 4", "chan_width: 0", "ChanWidth: must be at least 1"),
		Entry("missing delayless switch", "delayless_switch: delayless", "", "DelaylessSwitch: field is required"),
		Entry("bad population bit", "cb: [1]", "cb: [2]", "must be one of [0 1]"),
		Entry("bad port type", "type: output", "type: inout", "Type: must be one of"),
	)
})

var _ = Describe("Resolve", func() {
	It("should bind the sample architecture", func() {
		arch, err := LoadArchFile(sampleArch)
		Expect(err).NotTo(HaveOccurred())

		dev, err := arch.Resolve()
		Expect(err).NotTo(HaveOccurred())

		Expect(dev.ChanWidth).To(Equal(4))
		Expect(dev.DelaylessSwitch).To(Equal(fabric.SwitchID(0)))
		Expect(dev.WireToIPINSwitch).To(Equal(fabric.SwitchID(1)))
		Expect(dev.SB.Type).To(Equal(fabric.Subset))
		Expect(dev.SB.SubFs).To(Equal(3))

		Expect(dev.Segments).To(HaveLen(1))
		Expect(dev.Segments[0].OpinSwitch).To(Equal(fabric.SwitchID(2)))
		Expect(dev.Segments[0].OpinSwitchDec).To(Equal(fabric.NoSwitch))
		Expect(dev.Segments[0].CB).To(Equal([]bool{true}))

		clb := dev.Tiles["clb"]
		Expect(clb.NumPins()).To(Equal(8))
		Expect(clb.Classes).To(HaveLen(5))
		Expect(clb.Classes[0].Pins).To(Equal([]int{0, 1, 2, 3}))
		Expect(clb.PinLocations[5].Sides).To(Equal([]fabric.Side{fabric.Right}))
		Expect(clb.Fc[0]).To(Equal([]int{2}))
		Expect(clb.Fc[4]).To(Equal([]int{1}))

		Expect(dev.Tiles["io"].IsIO).To(BeTrue())
		Expect(dev.Grid.TypeAt(0, 0).IsEmpty()).To(BeTrue())
		Expect(dev.Grid.TypeAt(3, 0)).To(Equal(dev.Tiles["io"]))
		Expect(dev.Grid.TypeAt(3, 3)).To(Equal(clb))
	})

	It("should build a graph from the device", func() {
		arch, err := LoadArchFile(sampleArch)
		Expect(err).NotTo(HaveOccurred())

		dev, err := arch.Resolve()
		Expect(err).NotTo(HaveOccurred())

		res, err := dev.Builder().
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.ChannelWidth).To(Equal(4))
		Expect(res.Graph.NumEdges()).To(BeNumerically(">", 0))
	})

	DescribeTable("name binding",
		func(from, to, msg string) {
			err := resolveEdited(from, to)

			Expect(errors.Is(err, rrgraph.ErrConfig)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("unknown segment switch", "switch: mux0", "switch: mux9", `unknown switch "mux9"`),
		Entry("unknown fill tile", "fill: clb", "fill: lut", `unknown tile "lut"`),
		Entry("duplicated switch", "- name: mux0", "- name: delayless", `duplicated switch "delayless"`),
		Entry("port offset outside the tile", "fc: 0.25", "fc: 0.25\n        x_offset: 1", "outside a 1x1 tile"),
	)

	It("should check direct pins", func() {
		err := resolveEdited("tiles:", `directs:
  - name: carry
    from_tile: clb
    from_pins: [4, 4]
    to_tile: clb
    to_pins: [0, 8]
    y_offset: 1
    switch: delayless

tiles:`)

		Expect(errors.Is(err, rrgraph.ErrConfig)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("pin 8 not on tile clb")))
	})

	It("should resolve VIB endpoints", func() {
		arch, err := parseEdited("tiles:", `vibs:
  - name: vib0
    tile: clb
    switch: mux0
    first_stages:
      - name: m0
        from: ["pin:4", "seg:L1.E.0"]
    second_stages:
      - from: ["mux:m0"]
        to: ["seg:L1.W.1"]

tiles:`)
		Expect(err).NotTo(HaveOccurred())

		dev, err := arch.Resolve()
		Expect(err).NotTo(HaveOccurred())

		vib := dev.VIBs["clb"]
		Expect(vib.Switch).To(Equal(fabric.SwitchID(2)))
		Expect(vib.FirstStages[0].Froms).To(Equal([]fabric.VIBEndpoint{
			{Kind: fabric.VIBPin, Pin: 4},
			{Kind: fabric.VIBSegment, Segment: 0, SegmentDir: 'E', SegmentIndex: 0},
		}))
		Expect(vib.SecondStages[0].Froms[0].MuxName).To(Equal("m0"))
		Expect(vib.SecondStages[0].Tos[0].SegmentDir).To(Equal(byte('W')))
	})

	DescribeTable("VIB endpoint errors",
		func(endpoint, msg string) {
			err := resolveEdited("tiles:", `vibs:
  - name: vib0
    tile: clb
    switch: mux0
    first_stages:
      - name: m0
        from: ["`+endpoint+`"]

tiles:`)

			Expect(errors.Is(err, rrgraph.ErrConfig)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("no kind", "4", "missing kind prefix"),
		Entry("unknown kind", "wire:4", `unknown kind "wire"`),
		Entry("bad direction", "seg:L1.X.0", "want seg:"),
		Entry("unknown segment", "seg:L4.E.0", `unknown segment "L4"`),
		Entry("unknown mux", "mux:m9", `unknown mux "m9"`),
	)
})

var _ = Describe("absoluteFc", func() {
	DescribeTable("conversions",
		func(value float64, fcType string, width, want int) {
			Expect(absoluteFc(value, fcType, width)).To(Equal(want))
		},
		Entry("fraction", 0.5, "frac", 4, 2),
		Entry("default fraction", 0.25, "", 8, 2),
		Entry("small fraction keeps one track", 0.1, "frac", 4, 1),
		Entry("zero", 0.0, "frac", 4, 0),
		Entry("absolute", 3.0, "abs", 8, 3),
	)
})
