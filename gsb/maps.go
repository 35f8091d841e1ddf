package gsb

import (
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// SBParams selects the switch block patterns. Type and Fs connect ending
// tracks to starting tracks; SubType and SubFs connect passing tracks to
// starting tracks.
type SBParams struct {
	Type             fabric.SwitchBlockType
	Fs               int
	SubType          fabric.SwitchBlockType
	SubFs            int
	ConcatWire       bool
	WireOppositeSide bool
}

// TrackToTrackMap lists, per [side][track], the tracks a track drives.
type TrackToTrackMap [fabric.NumSides][][]rrgraph.NodeID

// TrackToIPINMap lists, per [chan side][track], the IPINs a track drives.
type TrackToIPINMap [fabric.NumSides][][]rrgraph.NodeID

// OPINToTrackMap lists, per [opin side][opin][chan side], the tracks an OPIN
// drives.
type OPINToTrackMap [fabric.NumSides][][fabric.NumSides][]rrgraph.NodeID

type trackGroup [fabric.NumSides][]int

// BuildTrackToTrackMap applies the switch block patterns. Ending tracks
// connect to starting tracks with the main pattern. Passing tracks connect
// to starting tracks with the sub pattern.
func BuildTrackToTrackMap(env Env, g *RRGSB, sb SBParams) (m TrackToTrackMap, err error) {
	defer rrgraph.RecoverBuildError(&err)

	var starts, ends, passes trackGroup

	for _, side := range fabric.Sides {
		m[side] = make([][]rrgraph.NodeID, g.ChanWidth(side))

		for t := 0; t < g.ChanWidth(side); t++ {
			if !InSBPopulation(env.Graph, g, side, t, env.Segments) {
				continue
			}

			switch TrackStatusOf(env.Graph, g, side, t) {
			case TrackStart:
				starts[side] = append(starts[side], t)
			case TrackEnd:
				ends[side] = append(ends[side], t)
			case TrackPass:
				if g.ChanNodeDirection(side, t) == InPort {
					passes[side] = append(passes[side], t)
				}
			}
		}
	}

	if err = connectTrackGroups(g, sb.Type, sb.Fs, sb.ConcatWire, &ends, &starts, &m); err != nil {
		return m, err
	}

	err = connectTrackGroups(g, sb.SubType, sb.SubFs, sb.WireOppositeSide, &passes, &starts, &m)

	return m, err
}

func connectTrackGroups(
	g *RRGSB,
	sbType fabric.SwitchBlockType,
	fs int,
	wireOpposite bool,
	from, to *trackGroup,
	m *TrackToTrackMap,
) error {
	for _, fromSide := range fabric.Sides {
		toSides := [3]fabric.Side{
			fromSide.Opposite(),
			fromSide.CounterClockwise(),
			fromSide.Clockwise(),
		}

		for inode, fromTrack := range from[fromSide] {
			for _, toSide := range toSides {
				if len(to[toSide]) == 0 || toSide == fromSide {
					continue
				}

				if !wireOpposite && toSide == fromSide.Opposite() {
					continue
				}

				ids, err := SwitchBlockToTrackIDs(sbType, fs, fromSide, inode, toSide, len(to[toSide]))
				if err != nil {
					return err
				}

				for _, id := range ids {
					toTrack := to[toSide][id]

					rrgraph.Invariantf(g.ChanNodeDirection(fromSide, fromTrack) == InPort,
						"%s track %d on %s drives the switch block but is not an input",
						g, fromTrack, fromSide)
					rrgraph.Invariantf(g.ChanNodeDirection(toSide, toTrack) == OutPort,
						"%s track %d on %s is driven by the switch block but is not an output",
						g, toTrack, toSide)

					node := g.ChanNode(toSide, toTrack)
					if !contains(m[fromSide][fromTrack], node) {
						m[fromSide][fromTrack] = append(m[fromSide][fromTrack], node)
					}
				}
			}
		}
	}

	return nil
}

func scaledStep(fc, numTracks, chanWidth int) int {
	actualFc := (fc*numTracks + chanWidth - 1) / chanWidth
	if actualFc < 1 {
		actualFc = 1
	}

	step := numTracks / actualFc
	if step < 1 {
		step = 1
	}

	return step
}

func rotateLeft(tracks []int, offset int) []int {
	k := offset % len(tracks)

	return append(append([]int{}, tracks[k:]...), tracks[:k]...)
}

// pinTile returns the tile type under a pin node, or nil if the pin has no
// connections to the routing tracks.
func pinTile(env Env, pin rrgraph.Node) *fabric.TileType {
	if !env.Grid.Contains(pin.XLow, pin.YLow) {
		return nil
	}

	t := env.Grid.TypeAt(pin.XLow, pin.YLow)
	if t.IsEmpty() || t.IsFcZero(pin.Ptc) {
		return nil
	}

	return t
}

// BuildTrackToIPINMap connects the tracks of the connection blocks to the
// IPINs. Every IPIN takes tracks in pairs so that both directions are
// reached. The start of each IPIN is rotated to spread the load.
func BuildTrackToIPINMap(env Env, g *RRGSB) (m TrackToIPINMap, err error) {
	defer rrgraph.RecoverBuildError(&err)

	var offsets [fabric.NumSides]int

	for _, ipinSide := range fabric.Sides {
		chanSide := CBChanSideOfIPIN(ipinSide)
		width := g.ChanWidth(chanSide)

		if m[chanSide] == nil {
			m[chanSide] = make([][]rrgraph.NodeID, width)
		}

		for _, ipin := range g.IPINs(ipinSide) {
			pin := env.Graph.Node(ipin)

			tile := pinTile(env, pin)
			if tile == nil {
				continue
			}

			ch := g.Chan(chanSide)
			for _, seg := range ch.SegmentIDs() {
				var tracks []int
				for _, t := range ch.NodeIndicesBySegment(seg) {
					if InCBPopulation(env.Graph, g, chanSide, t, env.Segments) {
						tracks = append(tracks, t)
					}
				}

				rrgraph.Invariantf(len(tracks)%2 == 0,
					"%s has %d connection block tracks of segment %d on %s, not a multiple of 2",
					g, len(tracks), seg, chanSide)

				if len(tracks) == 0 {
					continue
				}

				step := scaledStep(tile.FcOf(pin.Ptc, seg), len(tracks), width)
				tracks = rotateLeft(tracks, offsets[chanSide])

				for i := 0; i < len(tracks); i += 2 * step {
					t := tracks[i%len(tracks)]
					m[chanSide][t%width] = append(m[chanSide][t%width], ipin)
					m[chanSide][(t+1)%width] = append(m[chanSide][(t+1)%width], ipin)
				}
			}

			offsets[chanSide] += 2
		}
	}

	return m, nil
}

// BuildOPINToTrackMap connects the OPINs to the tracks starting at the GSB.
// An OPIN reaches the tracks on its own side, or on every side if
// opin2AllSides is set.
func BuildOPINToTrackMap(env Env, g *RRGSB, opin2AllSides bool) (m OPINToTrackMap, err error) {
	defer rrgraph.RecoverBuildError(&err)

	atBorder := g.X() == env.Grid.Width()-1 || g.Y() == env.Grid.Height()-1

	for _, opinSide := range fabric.Sides {
		opins := g.OPINs(opinSide)
		m[opinSide] = make([][fabric.NumSides][]rrgraph.NodeID, len(opins))
		offset := 0

		for i, opin := range opins {
			pin := env.Graph.Node(opin)

			tile := pinTile(env, pin)
			if tile == nil || atBorder {
				continue
			}

			chanSides := []fabric.Side{opinSide}
			if opin2AllSides {
				chanSides = fabric.Sides[:]
			}

			for _, chanSide := range chanSides {
				m[opinSide][i][chanSide] = opinTracks(env, g, chanSide, tile, pin.Ptc, offset)
			}

			offset++
		}
	}

	return m, nil
}

func opinTracks(env Env, g *RRGSB, chanSide fabric.Side, tile *fabric.TileType, pin, offset int) []rrgraph.NodeID {
	var nodes []rrgraph.NodeID

	ch := g.Chan(chanSide)
	width := ch.Width()

	for _, seg := range ch.SegmentIDs() {
		var tracks []int
		for _, t := range ch.NodeIndicesBySegment(seg) {
			if !InSBPopulation(env.Graph, g, chanSide, t, env.Segments) {
				continue
			}

			if TrackStatusOf(env.Graph, g, chanSide, t) != TrackStart {
				continue
			}

			tracks = append(tracks, t)
		}

		if len(tracks) == 0 {
			continue
		}

		step := scaledStep(tile.FcOf(pin, seg), len(tracks), width)
		tracks = rotateLeft(tracks, offset)

		for i := 0; i < len(tracks); i += step {
			nodes = append(nodes, g.ChanNode(chanSide, tracks[i%len(tracks)]))
		}
	}

	return nodes
}
