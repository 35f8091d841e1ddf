package gsb_test

import (
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/gsb"
	"github.com/sarchlab/tileablerr/rrgraph"
	"github.com/sarchlab/tileablerr/tileable"
)

func countConnections(m gsb.TrackToTrackMap) int {
	n := 0
	for _, side := range m {
		for _, tos := range side {
			n += len(tos)
		}
	}

	return n
}

var _ = Describe("Track to track map", func() {
	var (
		env  gsb.Env
		core *gsb.RRGSB
	)

	BeforeEach(func() {
		grid := fabric.NewGrid(5, 5)
		segs := []fabric.Segment{{
			Name:          "L1",
			Length:        1,
			Frequency:     1,
			OpinSwitch:    1,
			OpinSwitchDec: fabric.NoSwitch,
		}}

		res, err := tileable.NewBuilder().
			WithGrid(grid).
			WithSegments(segs).
			WithSwitches([]fabric.Switch{{Name: "delayless"}, {Name: "mux0", Buffered: true}}).
			WithChannelWidth(4).
			WithDelaylessSwitch(0).
			WithWireToIPINSwitch(1).
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
			Build()
		Expect(err).NotTo(HaveOccurred())

		env = gsb.Env{
			Graph:     res.Graph,
			Grid:      grid,
			Segments:  segs,
			ChanWidth: res.ChannelWidth,
		}
		core = gsb.BuildOneGSB(env, fabric.Point{X: 2, Y: 2})
	})

	It("should see a full channel on every side of a core GSB", func() {
		for _, side := range fabric.Sides {
			Expect(core.ChanWidth(side)).To(Equal(4))
		}
	})

	It("should end and start every length-1 track", func() {
		for _, side := range fabric.Sides {
			for t := 0; t < core.ChanWidth(side); t++ {
				status := gsb.TrackStatusOf(env.Graph, core, side, t)

				if core.ChanNodeDirection(side, t) == gsb.InPort {
					Expect(status).To(Equal(gsb.TrackEnd))
				} else {
					Expect(status).To(Equal(gsb.TrackStart))
				}
			}
		}
	})

	It("should turn ending tracks without concatenation", func() {
		m, err := gsb.BuildTrackToTrackMap(env, core, gsb.SBParams{
			Type: fabric.Subset, Fs: 3, SubType: fabric.Subset, SubFs: 3,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(countConnections(m)).To(Equal(16))

		for _, side := range fabric.Sides {
			for t, tos := range m[side] {
				if core.ChanNodeDirection(side, t) == gsb.OutPort {
					Expect(tos).To(BeEmpty())
					continue
				}

				Expect(tos).To(HaveLen(2))
				for _, to := range tos {
					_, ok := core.Chan(side.Opposite()).IndexOf(to)
					Expect(ok).To(BeFalse())
				}
			}
		}
	})

	It("should also go straight with concatenation", func() {
		m, err := gsb.BuildTrackToTrackMap(env, core, gsb.SBParams{
			Type: fabric.Subset, Fs: 3, SubType: fabric.Subset, SubFs: 3,
			ConcatWire: true,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(countConnections(m)).To(Equal(24))
	})

	It("should report an invalid Fs", func() {
		_, err := gsb.BuildTrackToTrackMap(env, core, gsb.SBParams{
			Type: fabric.Subset, Fs: 2, SubType: fabric.Subset, SubFs: 3,
		})

		Expect(err).To(MatchError(rrgraph.ErrConfig))
	})

	It("should mirror core GSBs", func() {
		other := gsb.BuildOneGSB(env, fabric.Point{X: 1, Y: 2})

		Expect(core.IsSBMirrorable(env.Graph, other)).To(BeTrue())
	})
})
