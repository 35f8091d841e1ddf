package gsb

import (
	"fmt"

	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// VIBMap lists the multiplexer connections of a VIB, grouped by source in
// the order the sources were first seen.
type VIBMap struct {
	froms []rrgraph.NodeID
	tos   map[rrgraph.NodeID][]rrgraph.NodeID
}

func newVIBMap() *VIBMap {
	return &VIBMap{tos: make(map[rrgraph.NodeID][]rrgraph.NodeID)}
}

func (m *VIBMap) add(from rrgraph.NodeID, tos ...rrgraph.NodeID) {
	if _, ok := m.tos[from]; !ok {
		m.froms = append(m.froms, from)
	}

	m.tos[from] = append(m.tos[from], tos...)
}

// Froms returns the sources in first-seen order.
func (m *VIBMap) Froms() []rrgraph.NodeID {
	return m.froms
}

// Tos returns the sinks of a source.
func (m *VIBMap) Tos(from rrgraph.NodeID) []rrgraph.NodeID {
	return m.tos[from]
}

// NumConnections returns the number of source-sink pairs.
func (m *VIBMap) NumConnections() int {
	n := 0
	for _, tos := range m.tos {
		n += len(tos)
	}

	return n
}

type vibResolver struct {
	env    Env
	gsb    *RRGSB
	vib    *fabric.VIB
	coord  fabric.Point
	where  string
	missed int
}

// BuildVIBMap resolves the multiplexers of a VIB placed at coord. Pins that
// have no node are skipped with a warning; the number skipped is returned.
func BuildVIBMap(env Env, g *RRGSB, vib *fabric.VIB, coord fabric.Point) (m *VIBMap, skipped int, err error) {
	defer rrgraph.RecoverBuildError(&err)

	r := &vibResolver{
		env:   env,
		gsb:   g,
		vib:   vib,
		coord: coord,
		where: fmt.Sprintf("VIB %s at %s", vib.Name, coord),
	}

	m = newVIBMap()

	lookup := env.Graph.Lookup()
	for i, stage := range vib.FirstStages {
		to, ok := lookup.FindNode(coord.X, coord.Y, rrgraph.Mux, i, fabric.Top).Get()
		rrgraph.Invariantf(ok && g.IsMux(to),
			"%s: first stage %s has no MUX node in %s", r.where, stage.Name, g)

		for _, ep := range stage.Froms {
			if from, ok := r.source(ep); ok {
				m.add(from, to)
			}
		}
	}

	for _, stage := range vib.SecondStages {
		var tos, froms []rrgraph.NodeID

		for _, ep := range stage.Tos {
			if to, ok := r.sink(ep); ok {
				tos = append(tos, to)
			}
		}

		for _, ep := range stage.Froms {
			if from, ok := r.source(ep); ok {
				froms = append(froms, from)
			}
		}

		if len(tos) == 0 {
			continue
		}

		for _, from := range froms {
			m.add(from, tos...)
		}
	}

	return m, r.missed, nil
}

func (r *vibResolver) pin(typ rrgraph.NodeType, pin int) (rrgraph.NodeID, bool) {
	lookup := r.env.Graph.Lookup()
	for _, side := range fabric.Sides {
		if id, ok := lookup.FindNode(r.coord.X, r.coord.Y, typ, pin, side).Get(); ok {
			return id, true
		}
	}

	r.env.logger().Warn("VIB pin has no node",
		"vib", r.vib.Name, "coord", r.coord.String(), "type", typ.String(), "pin", pin)
	r.missed++

	return 0, false
}

// segmentTrack returns the track of a segment endpoint. Tracks come in INC
// and DEC pairs; inbound picks the track that enters the GSB from side.
func (r *vibResolver) segmentTrack(ep fabric.VIBEndpoint, side fabric.Side, inbound bool) (int, bool) {
	tracks := r.gsb.Chan(side).NodeIndicesBySegment(ep.Segment)
	if len(tracks) == 0 {
		return 0, false
	}

	lowSide := side == fabric.Left || side == fabric.Bottom

	idx := ep.SegmentIndex * 2
	if lowSide == !inbound {
		idx++
	}

	if idx >= len(tracks) {
		panic(rrgraph.Configf(r.where,
			"segment %d index %d needs track %d but %s has %d on %s",
			ep.Segment, ep.SegmentIndex, idx, r.gsb, len(tracks), side))
	}

	return tracks[idx], true
}

func (r *vibResolver) source(ep fabric.VIBEndpoint) (rrgraph.NodeID, bool) {
	switch ep.Kind {
	case fabric.VIBPin:
		id, ok := r.pin(rrgraph.OPIN, ep.Pin)
		if ok && !r.gsb.IsOPIN(id) {
			panic(rrgraph.Configf(r.where, "OPIN %d of pin %d is not in %s", id, ep.Pin, r.gsb))
		}

		return id, ok
	case fabric.VIBSegment:
		side := inboundSide(r.where, ep.SegmentDir)

		t, ok := r.segmentTrack(ep, side, true)
		if !ok {
			return 0, false
		}

		rrgraph.Invariantf(r.gsb.ChanNodeDirection(side, t) == InPort,
			"%s: track %d on %s of %s is not an input", r.where, t, side, r.gsb)

		return r.gsb.ChanNode(side, t), true
	case fabric.VIBMux:
		i, ok := r.vib.FirstStageIndex(ep.MuxName)
		if !ok {
			panic(rrgraph.Configf(r.where, "unknown first stage %q", ep.MuxName))
		}

		id, ok := r.env.Graph.Lookup().FindNode(r.coord.X, r.coord.Y, rrgraph.Mux, i, fabric.Top).Get()
		if !ok || !r.gsb.IsMux(id) {
			panic(rrgraph.Configf(r.where, "MUX %s is not in %s", ep.MuxName, r.gsb))
		}

		return id, true
	default:
		panic(rrgraph.Configf(r.where, "unknown endpoint kind %d", ep.Kind))
	}
}

func (r *vibResolver) sink(ep fabric.VIBEndpoint) (rrgraph.NodeID, bool) {
	switch ep.Kind {
	case fabric.VIBPin:
		id, ok := r.pin(rrgraph.IPIN, ep.Pin)
		if ok && !r.gsb.IsIPIN(id) {
			panic(rrgraph.Configf(r.where, "IPIN %d of pin %d is not in %s", id, ep.Pin, r.gsb))
		}

		return id, ok
	case fabric.VIBSegment:
		side := outboundSide(r.where, ep.SegmentDir)

		t, ok := r.segmentTrack(ep, side, false)
		if !ok {
			return 0, false
		}

		if TrackStatusOf(r.env.Graph, r.gsb, side, t) != TrackStart {
			panic(rrgraph.Configf(r.where,
				"segment %d index %d does not start at %s", ep.Segment, ep.SegmentIndex, r.gsb))
		}

		rrgraph.Invariantf(r.gsb.ChanNodeDirection(side, t) == OutPort,
			"%s: track %d on %s of %s is not an output", r.where, t, side, r.gsb)

		return r.gsb.ChanNode(side, t), true
	default:
		panic(rrgraph.Configf(r.where, "a second stage cannot drive endpoint kind %d", ep.Kind))
	}
}

// inboundSide maps the travel direction of a wire to the side it enters the
// GSB from. A wire heading west arrives on the right.
func inboundSide(where string, dir byte) fabric.Side {
	switch dir {
	case 'W':
		return fabric.Right
	case 'E':
		return fabric.Left
	case 'N':
		return fabric.Bottom
	case 'S':
		return fabric.Top
	default:
		panic(rrgraph.Configf(where, "invalid segment direction %q", dir))
	}
}

// outboundSide maps the travel direction of a wire to the side it leaves
// the GSB from.
func outboundSide(where string, dir byte) fabric.Side {
	switch dir {
	case 'W':
		return fabric.Left
	case 'E':
		return fabric.Right
	case 'N':
		return fabric.Top
	case 'S':
		return fabric.Bottom
	default:
		panic(rrgraph.Configf(where, "invalid segment direction %q", dir))
	}
}

// BuildEdgesForVIB caches the edges of a VIB map and returns how many were
// added.
func BuildEdgesForVIB(graph *rrgraph.Graph, m *VIBMap) int {
	count := 0

	for _, from := range m.froms {
		for _, to := range m.tos[from] {
			graph.CreateEdgeInCache(from, to, graph.DriverSwitch(to), false)
			count++
		}
	}

	return count
}
