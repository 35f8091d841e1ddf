package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sarchlab/tileablerr/chandetails"
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/gsb"
	"github.com/sarchlab/tileablerr/rrgraph"
	"github.com/sarchlab/tileablerr/tileable"
)

// Device is a resolved architecture: every name has been bound to a tile
// type, switch or segment.
type Device struct {
	Grid     *fabric.Grid
	Tiles    map[string]*fabric.TileType
	Segments []fabric.Segment
	Switches []fabric.Switch
	Directs  []fabric.Direct
	VIBs     map[string]*fabric.VIB

	ChanWidth int
	SB        gsb.SBParams

	DelaylessSwitch  fabric.SwitchID
	WireToIPINSwitch fabric.SwitchID

	PerimeterCB    bool
	ShrinkBoundary bool
	ThroughChannel bool
	OPIN2AllSides  bool
}

// Builder returns a graph builder configured for the device.
func (d *Device) Builder() tileable.Builder {
	return tileable.NewBuilder().
		WithGrid(d.Grid).
		WithSegments(d.Segments).
		WithSwitches(d.Switches).
		WithDirects(d.Directs).
		WithVIBs(d.VIBs).
		WithChannelWidth(d.ChanWidth).
		WithSBParams(d.SB).
		WithDelaylessSwitch(d.DelaylessSwitch).
		WithWireToIPINSwitch(d.WireToIPINSwitch).
		WithPerimeterCB(d.PerimeterCB).
		WithShrinkBoundary(d.ShrinkBoundary).
		WithThroughChannel(d.ThroughChannel).
		WithOPIN2AllSides(d.OPIN2AllSides)
}

type resolver struct {
	arch     *Arch
	device   *Device
	switches map[string]fabric.SwitchID
	segments map[string]fabric.SegmentID
}

// Resolve binds the names of an architecture and builds its grid.
func (a *Arch) Resolve() (*Device, error) {
	r := &resolver{
		arch: a,
		device: &Device{
			Tiles:     make(map[string]*fabric.TileType),
			VIBs:      make(map[string]*fabric.VIB),
			ChanWidth: a.Routing.ChanWidth,
		},
		switches: make(map[string]fabric.SwitchID),
		segments: make(map[string]fabric.SegmentID),
	}

	steps := []func() error{
		r.resolveSwitches,
		r.resolveRouting,
		r.resolveSegments,
		r.resolveTiles,
		r.resolveGrid,
		r.resolveDirects,
		r.resolveVIBs,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return r.device, nil
}

func (r *resolver) switchID(where, name string) (fabric.SwitchID, error) {
	id, ok := r.switches[name]
	if !ok {
		return fabric.NoSwitch, rrgraph.Configf(where, "unknown switch %q", name)
	}

	return id, nil
}

func (r *resolver) resolveSwitches() error {
	for i, s := range r.arch.Switches {
		if _, dup := r.switches[s.Name]; dup {
			return rrgraph.Configf("switches", "duplicated switch %q", s.Name)
		}

		r.switches[s.Name] = fabric.SwitchID(i)
		r.device.Switches = append(r.device.Switches, fabric.Switch{
			Name:     s.Name,
			R:        s.R,
			Cin:      s.Cin,
			Cout:     s.Cout,
			Tdel:     s.Tdel,
			Buffered: s.Buffered,
		})
	}

	return nil
}

func (r *resolver) resolveRouting() error {
	rt := r.arch.Routing

	sbType, err := fabric.ParseSwitchBlockType(rt.SBType)
	if err != nil {
		return rrgraph.Configf("routing", "%v", err)
	}

	subType, subFs := sbType, rt.Fs
	if rt.SubType != "" {
		if subType, err = fabric.ParseSwitchBlockType(rt.SubType); err != nil {
			return rrgraph.Configf("routing", "%v", err)
		}
	}

	if rt.SubFs != 0 {
		subFs = rt.SubFs
	}

	r.device.SB = gsb.SBParams{
		Type:             sbType,
		Fs:               rt.Fs,
		SubType:          subType,
		SubFs:            subFs,
		ConcatWire:       rt.ConcatWire,
		WireOppositeSide: rt.WireOppositeSide,
	}

	r.device.PerimeterCB = rt.PerimeterCB
	r.device.ShrinkBoundary = rt.ShrinkBoundary
	r.device.ThroughChannel = rt.ThroughChannel
	r.device.OPIN2AllSides = rt.OPIN2AllSides

	if r.device.DelaylessSwitch, err = r.switchID("routing", rt.DelaylessSwitch); err != nil {
		return err
	}

	r.device.WireToIPINSwitch, err = r.switchID("routing", rt.WireToIPINSwitch)

	return err
}

func population(bits []int) []bool {
	if len(bits) == 0 {
		return nil
	}

	out := make([]bool, len(bits))
	for i, b := range bits {
		out[i] = b == 1
	}

	return out
}

func (r *resolver) resolveSegments() error {
	for i, s := range r.arch.Segments {
		where := "segment " + s.Name

		if _, dup := r.segments[s.Name]; dup {
			return rrgraph.Configf(where, "duplicated segment")
		}

		r.segments[s.Name] = fabric.SegmentID(i)

		seg := fabric.Segment{
			Name:          s.Name,
			Length:        s.Length,
			Frequency:     s.Frequency,
			Longline:      s.Longline,
			RMetal:        s.RMetal,
			CMetal:        s.CMetal,
			CB:            population(s.CB),
			SB:            population(s.SB),
			OpinSwitchDec: fabric.NoSwitch,
		}

		var err error
		if seg.OpinSwitch, err = r.switchID(where, s.Switch); err != nil {
			return err
		}

		if s.SwitchDec != "" {
			if seg.OpinSwitchDec, err = r.switchID(where, s.SwitchDec); err != nil {
				return err
			}
		}

		r.device.Segments = append(r.device.Segments, seg)
	}

	return nil
}

// absoluteFc converts a connection-block flexibility into a track count.
// Fractions are taken of the corrected channel width and never drop a
// non-zero value to zero.
func absoluteFc(value float64, fcType string, chanWidth int) int {
	if fcType == "abs" {
		return int(value)
	}

	fc := int(math.Round(value * float64(chanWidth)))
	if fc == 0 && value > 0 {
		fc = 1
	}

	return fc
}

func (r *resolver) resolveTiles() error {
	width := chandetails.UnidirChanWidth(r.arch.Routing.ChanWidth)

	for i, ts := range r.arch.Tiles {
		if _, dup := r.device.Tiles[ts.Name]; dup {
			return rrgraph.Configf("tile "+ts.Name, "duplicated tile")
		}

		t := &fabric.TileType{
			Index:  i,
			Name:   ts.Name,
			Width:  max(ts.Width, 1),
			Height: max(ts.Height, 1),
			IsIO:   ts.Name == r.arch.Device.IO,
		}

		for _, ps := range ts.Ports {
			if err := r.addPort(t, ps, width); err != nil {
				return err
			}
		}

		r.device.Tiles[t.Name] = t
	}

	return nil
}

func (r *resolver) addPort(t *fabric.TileType, ps PortSpec, chanWidth int) error {
	where := fmt.Sprintf("tile %s port %s", t.Name, ps.Name)

	if ps.XOffset >= t.Width || ps.YOffset >= t.Height {
		return rrgraph.Configf(where, "offset (%d, %d) outside a %dx%d tile",
			ps.XOffset, ps.YOffset, t.Width, t.Height)
	}

	sides := make([]fabric.Side, len(ps.Sides))
	for i, name := range ps.Sides {
		s, err := fabric.ParseSide(name)
		if err != nil {
			return rrgraph.Configf(where, "%v", err)
		}
		sides[i] = s
	}

	fc := make([]int, len(r.arch.Segments))
	for i, seg := range r.arch.Segments {
		value := ps.Fc
		if v, ok := ps.FcOverride[seg.Name]; ok {
			value = v
		}
		fc[i] = absoluteFc(value, ps.FcType, chanWidth)
	}

	for name := range ps.FcOverride {
		if _, ok := r.segments[name]; !ok {
			return rrgraph.Configf(where, "Fc override for unknown segment %q", name)
		}
	}

	classType := fabric.Receiver
	if ps.Type == "output" {
		classType = fabric.Driver
	}

	first := t.NumPins()
	for k := 0; k < ps.NumPins; k++ {
		pin := first + k

		if ps.Equivalent && k > 0 {
			t.Classes[len(t.Classes)-1].Pins = append(t.Classes[len(t.Classes)-1].Pins, pin)
		} else {
			t.Classes = append(t.Classes, fabric.PinClass{Type: classType, Pins: []int{pin}})
		}
		t.PinClass = append(t.PinClass, len(t.Classes)-1)

		pinSides := sides
		if ps.Spread {
			pinSides = []fabric.Side{sides[k%len(sides)]}
		}

		t.PinLocations = append(t.PinLocations, fabric.PinLocation{
			WidthOffset:  ps.XOffset,
			HeightOffset: ps.YOffset,
			Sides:        pinSides,
		})
		t.Fc = append(t.Fc, fc)
	}

	return nil
}

func (r *resolver) tile(where, name string) (*fabric.TileType, error) {
	t, ok := r.device.Tiles[name]
	if !ok {
		return nil, rrgraph.Configf(where, "unknown tile %q", name)
	}

	return t, nil
}

func (r *resolver) resolveGrid() error {
	ds := r.arch.Device
	b := MakeGridBuilder().WithWidth(ds.Width).WithHeight(ds.Height)

	if ds.IO != "" {
		io, err := r.tile("device", ds.IO)
		if err != nil {
			return err
		}
		b = b.WithIORing(io)
	}

	if ds.Fill != "" {
		fill, err := r.tile("device", ds.Fill)
		if err != nil {
			return err
		}
		b = b.WithFill(fill)
	}

	for _, p := range ds.Placements {
		t, err := r.tile("device", p.Tile)
		if err != nil {
			return err
		}
		b = b.WithPlacement(p.X, p.Y, t)
	}

	grid, err := b.Build()
	if err != nil {
		return rrgraph.Configf("device", "%v", err)
	}

	r.device.Grid = grid

	return nil
}

func (r *resolver) resolveDirects() error {
	for _, ds := range r.arch.Directs {
		where := "direct " + ds.Name

		from, err := r.tile(where, ds.FromTile)
		if err != nil {
			return err
		}

		to, err := r.tile(where, ds.ToTile)
		if err != nil {
			return err
		}

		sw, err := r.switchID(where, ds.Switch)
		if err != nil {
			return err
		}

		for _, p := range ds.FromPins {
			if p < 0 || p >= from.NumPins() {
				return rrgraph.Configf(where, "pin %d not on tile %s", p, from.Name)
			}
		}

		for _, p := range ds.ToPins {
			if p < 0 || p >= to.NumPins() {
				return rrgraph.Configf(where, "pin %d not on tile %s", p, to.Name)
			}
		}

		r.device.Directs = append(r.device.Directs, fabric.Direct{
			Name:         ds.Name,
			FromTile:     from,
			ToTile:       to,
			FromPinStart: ds.FromPins[0],
			FromPinEnd:   ds.FromPins[1],
			ToPinStart:   ds.ToPins[0],
			ToPinEnd:     ds.ToPins[1],
			XOffset:      ds.XOffset,
			YOffset:      ds.YOffset,
			Switch:       sw,
		})
	}

	return nil
}

func (r *resolver) resolveVIBs() error {
	for _, vs := range r.arch.VIBs {
		where := "vib " + vs.Name

		if _, err := r.tile(where, vs.Tile); err != nil {
			return err
		}

		if _, dup := r.device.VIBs[vs.Tile]; dup {
			return rrgraph.Configf(where, "tile %s already has a VIB", vs.Tile)
		}

		sw, err := r.switchID(where, vs.Switch)
		if err != nil {
			return err
		}

		vib := &fabric.VIB{Name: vs.Name, TileName: vs.Tile, Switch: sw}

		for _, fs := range vs.FirstStages {
			vib.FirstStages = append(vib.FirstStages, fabric.VIBFirstStage{Name: fs.Name})
		}

		for i, fs := range vs.FirstStages {
			froms, err := r.endpoints(where, vib, fs.Froms)
			if err != nil {
				return err
			}
			vib.FirstStages[i].Froms = froms
		}

		for _, ss := range vs.SecondStages {
			froms, err := r.endpoints(where, vib, ss.Froms)
			if err != nil {
				return err
			}

			tos, err := r.endpoints(where, vib, ss.Tos)
			if err != nil {
				return err
			}

			vib.SecondStages = append(vib.SecondStages, fabric.VIBSecondStage{
				Name:  ss.Name,
				Froms: froms,
				Tos:   tos,
			})
		}

		r.device.VIBs[vs.Tile] = vib
	}

	return nil
}

func (r *resolver) endpoints(where string, vib *fabric.VIB, names []string) ([]fabric.VIBEndpoint, error) {
	out := make([]fabric.VIBEndpoint, 0, len(names))

	for _, name := range names {
		ep, err := r.endpoint(vib, name)
		if err != nil {
			return nil, rrgraph.Configf(where, "endpoint %q: %v", name, err)
		}
		out = append(out, ep)
	}

	return out, nil
}

func (r *resolver) endpoint(vib *fabric.VIB, name string) (fabric.VIBEndpoint, error) {
	kind, rest, ok := strings.Cut(name, ":")
	if !ok {
		return fabric.VIBEndpoint{}, fmt.Errorf("missing kind prefix")
	}

	switch kind {
	case "pin":
		pin, err := strconv.Atoi(rest)
		if err != nil {
			return fabric.VIBEndpoint{}, err
		}

		return fabric.VIBEndpoint{Kind: fabric.VIBPin, Pin: pin}, nil
	case "seg":
		parts := strings.Split(rest, ".")
		if len(parts) != 3 || len(parts[1]) != 1 || !strings.Contains("WENS", parts[1]) {
			return fabric.VIBEndpoint{}, fmt.Errorf("want seg:<segment>.<W|E|N|S>.<index>")
		}

		seg, ok := r.segments[parts[0]]
		if !ok {
			return fabric.VIBEndpoint{}, fmt.Errorf("unknown segment %q", parts[0])
		}

		index, err := strconv.Atoi(parts[2])
		if err != nil {
			return fabric.VIBEndpoint{}, err
		}

		return fabric.VIBEndpoint{
			Kind:         fabric.VIBSegment,
			Segment:      seg,
			SegmentDir:   parts[1][0],
			SegmentIndex: index,
		}, nil
	case "mux":
		if _, ok := vib.FirstStageIndex(rest); !ok {
			return fabric.VIBEndpoint{}, fmt.Errorf("unknown mux %q", rest)
		}

		return fabric.VIBEndpoint{Kind: fabric.VIBMux, MuxName: rest}, nil
	}

	return fabric.VIBEndpoint{}, fmt.Errorf("unknown kind %q", kind)
}
