// Package tileable builds routing-resource graphs for tileable FPGA fabrics.
//
// A Builder creates every node of the graph from the device grid and the
// routing segments, then walks the general switch blocks of the fabric one
// by one, creating the connection block, switch block, VIB and direct
// connection edges of each before moving to the next.
package tileable

import (
	"log/slog"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/tileablerr/chandetails"
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/gsb"
	"github.com/sarchlab/tileablerr/rrgraph"
	"github.com/sarchlab/tileablerr/verify"
)

// Builder can build routing-resource graphs.
type Builder struct {
	grid     *fabric.Grid
	segments []fabric.Segment
	switches []fabric.Switch
	directs  []fabric.Direct
	vibs     map[string]*fabric.VIB

	chanWidth int
	sb        gsb.SBParams

	delaylessSwitch  fabric.SwitchID
	wireToIPINSwitch fabric.SwitchID

	perimeterCB    bool
	shrinkBoundary bool
	throughChannel bool
	opin2AllSides  bool

	hooks   []sim.Hook
	metrics *Metrics
	logger  *slog.Logger
}

// NewBuilder creates a Builder with subset switch blocks of Fs 3.
func NewBuilder() Builder {
	return Builder{
		sb: gsb.SBParams{
			Type:    fabric.Subset,
			Fs:      3,
			SubType: fabric.Subset,
			SubFs:   3,
		},
		delaylessSwitch:  fabric.NoSwitch,
		wireToIPINSwitch: fabric.NoSwitch,
		logger:           slog.Default(),
	}
}

// WithGrid sets the device grid.
func (b Builder) WithGrid(grid *fabric.Grid) Builder {
	b.grid = grid
	return b
}

// WithSegments sets the routing segments.
func (b Builder) WithSegments(segments []fabric.Segment) Builder {
	b.segments = segments
	return b
}

// WithSwitches sets the switch list. Switch ids index this list.
func (b Builder) WithSwitches(switches []fabric.Switch) Builder {
	b.switches = switches
	return b
}

// WithDirects sets the direct connections between blocks.
func (b Builder) WithDirects(directs []fabric.Direct) Builder {
	b.directs = directs
	return b
}

// WithVIBs sets the VIBs, keyed by the name of the tile type they sit on.
func (b Builder) WithVIBs(vibs map[string]*fabric.VIB) Builder {
	b.vibs = vibs
	return b
}

// WithChannelWidth sets the requested channel width. Odd widths are
// rounded up.
func (b Builder) WithChannelWidth(width int) Builder {
	b.chanWidth = width
	return b
}

// WithSBParams sets the switch block patterns.
func (b Builder) WithSBParams(sb gsb.SBParams) Builder {
	b.sb = sb
	return b
}

// WithDelaylessSwitch sets the switch that drives SOURCE and OPIN nodes.
func (b Builder) WithDelaylessSwitch(sw fabric.SwitchID) Builder {
	b.delaylessSwitch = sw
	return b
}

// WithWireToIPINSwitch sets the switch that drives IPIN nodes.
func (b Builder) WithWireToIPINSwitch(sw fabric.SwitchID) Builder {
	b.wireToIPINSwitch = sw
	return b
}

// WithPerimeterCB adds connection blocks around the fabric.
func (b Builder) WithPerimeterCB(on bool) Builder {
	b.perimeterCB = on
	return b
}

// WithShrinkBoundary removes channels that lead to no block.
func (b Builder) WithShrinkBoundary(on bool) Builder {
	b.shrinkBoundary = on
	return b
}

// WithThroughChannel lets channels cross multi-cell blocks.
func (b Builder) WithThroughChannel(on bool) Builder {
	b.throughChannel = on
	return b
}

// WithOPIN2AllSides connects each OPIN to the channels of every side.
func (b Builder) WithOPIN2AllSides(on bool) Builder {
	b.opin2AllSides = on
	return b
}

// WithHook adds a hook that observes the build.
func (b Builder) WithHook(h sim.Hook) Builder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), h)
	return b
}

// WithMetrics sets where build statistics are published.
func (b Builder) WithMetrics(m *Metrics) Builder {
	b.metrics = m
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Result is a finished graph.
type Result struct {
	Graph        *rrgraph.Graph
	ChannelWidth int
	Annotation   *DeviceGridAnnotation
	Stats        Stats
}

type build struct {
	*sim.HookableBase

	cfg       Builder
	chanWidth int
	graph     *rrgraph.Graph
	annot     *DeviceGridAnnotation
	env       gsb.Env
	stats     Stats
	logger    *slog.Logger
}

// Build creates the graph. Configuration errors and internal invariant
// violations are returned as *rrgraph.ConfigError and
// *rrgraph.InvariantViolation. A graph that fails validation is not
// returned; the error is a *verify.ValidationError.
func (b Builder) Build() (res *Result, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		b.metrics.RecordBuild(status, time.Since(start))
	}()
	defer rrgraph.RecoverBuildError(&err)

	if err := b.validateInputs(); err != nil {
		return nil, err
	}

	bd := b.newBuild()

	if err := bd.run(); err != nil {
		bd.logger.Error("routing-resource graph build failed", "error", err)
		return nil, err
	}

	b.metrics.RecordStats(bd.stats)

	return &Result{
		Graph:        bd.graph,
		ChannelWidth: bd.chanWidth,
		Annotation:   bd.annot,
		Stats:        bd.stats,
	}, nil
}

func (b Builder) newBuild() *build {
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	bd := &build{
		HookableBase: sim.NewHookableBase(),
		cfg:          b,
		chanWidth:    chandetails.UnidirChanWidth(b.chanWidth),
		graph:        rrgraph.NewGraph(b.switches),
		annot:        NewDeviceGridAnnotation(b.grid, b.shrinkBoundary),
		logger:       logger,
	}

	for _, h := range b.hooks {
		bd.AcceptHook(h)
	}

	bd.env = gsb.Env{
		Graph:       bd.graph,
		Grid:        b.grid,
		Segments:    b.segments,
		ChanWidth:   bd.chanWidth,
		PerimeterCB: b.perimeterCB,
		Logger:      logger,
	}

	bd.stats = Stats{
		EdgesByKind:  make(map[EdgeKind]int),
		ChannelWidth: bd.chanWidth,
	}

	return bd
}

func (b Builder) validSwitch(sw fabric.SwitchID) bool {
	return sw >= 0 && int(sw) < len(b.switches)
}

func (b Builder) validateInputs() error {
	if b.grid == nil {
		return rrgraph.Configf("builder", "no device grid")
	}

	if b.grid.Width() < 3 || b.grid.Height() < 3 {
		return rrgraph.Configf("builder", "grid %dx%d is smaller than 3x3",
			b.grid.Width(), b.grid.Height())
	}

	if len(b.segments) == 0 {
		return rrgraph.Configf("builder", "no routing segments")
	}

	if b.chanWidth <= 0 {
		return rrgraph.Configf("builder", "channel width %d is not positive", b.chanWidth)
	}

	if b.sb.Fs%3 != 0 || b.sb.Fs <= 0 {
		return rrgraph.Configf("switch block", "Fs %d is not a positive multiple of 3", b.sb.Fs)
	}

	if b.sb.SubFs%3 != 0 || b.sb.SubFs <= 0 {
		return rrgraph.Configf("switch block", "sub Fs %d is not a positive multiple of 3", b.sb.SubFs)
	}

	if !b.validSwitch(b.delaylessSwitch) {
		return rrgraph.Configf("builder", "delayless switch %d out of range", b.delaylessSwitch)
	}

	if !b.validSwitch(b.wireToIPINSwitch) {
		return rrgraph.Configf("builder", "wire to IPIN switch %d out of range", b.wireToIPINSwitch)
	}

	for _, s := range b.segments {
		if !b.validSwitch(s.OpinSwitch) {
			return rrgraph.Configf("segment "+s.Name, "switch %d out of range", s.OpinSwitch)
		}

		if s.OpinSwitchDec != fabric.NoSwitch && !b.validSwitch(s.OpinSwitchDec) {
			return rrgraph.Configf("segment "+s.Name, "DEC switch %d out of range", s.OpinSwitchDec)
		}
	}

	for _, d := range b.directs {
		if !b.validSwitch(d.Switch) {
			return rrgraph.Configf("direct "+d.Name, "switch %d out of range", d.Switch)
		}

		for _, pin := range []int{d.FromPinStart, d.FromPinEnd} {
			if pin < 0 || pin >= d.FromTile.NumPins() {
				return rrgraph.Configf("direct "+d.Name, "pin %d not on tile %s", pin, d.FromTile.Name)
			}
		}

		for _, pin := range []int{d.ToPinStart, d.ToPinEnd} {
			if pin < 0 || pin >= d.ToTile.NumPins() {
				return rrgraph.Configf("direct "+d.Name, "pin %d not on tile %s", pin, d.ToTile.Name)
			}
		}
	}

	for tile, v := range b.vibs {
		if !b.validSwitch(v.Switch) {
			return rrgraph.Configf("vib "+v.Name, "switch %d out of range", v.Switch)
		}

		if v.TileName != tile {
			return rrgraph.Configf("vib "+v.Name, "registered for tile %s but placed on %s", tile, v.TileName)
		}
	}

	return nil
}

func (bd *build) run() error {
	bd.logger.Info("building routing-resource graph",
		"width", bd.cfg.grid.Width(),
		"height", bd.cfg.grid.Height(),
		"channel_width", bd.chanWidth,
		"segments", len(bd.cfg.segments))

	bd.createNodes()
	bd.InvokeHook(sim.HookCtx{
		Domain: bd,
		Pos:    HookPosNodesCreated,
		Item:   bd.graph,
	})

	if err := bd.buildGSBs(); err != nil {
		return err
	}

	bd.buildClassEdges()
	bd.flush()

	bd.stats.Edges = bd.graph.NumEdges()

	issues := verify.Validate(bd.graph)
	bd.InvokeHook(sim.HookCtx{
		Domain: bd,
		Pos:    HookPosGraphValidated,
		Item:   issues,
	})

	if len(issues) > 0 {
		return &verify.ValidationError{Issues: issues}
	}

	bd.logger.Info("routing-resource graph built",
		"nodes", bd.graph.NumNodes(),
		"edges", bd.stats.Edges,
		"unique_sbs", bd.stats.UniqueSBs)

	return nil
}

func (bd *build) gsbRange() (int, int) {
	w, h := bd.cfg.grid.Width(), bd.cfg.grid.Height()
	if bd.cfg.perimeterCB {
		return w, h
	}

	return w - 1, h - 1
}

func (bd *build) buildGSBs() error {
	classifier := &sbClassifier{graph: bd.graph}
	nx, ny := bd.gsbRange()

	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			coord := fabric.Point{X: x, Y: y}

			g, err := bd.buildOneGSB(coord)
			if err != nil {
				return err
			}

			classifier.add(g)
		}
	}

	bd.stats.UniqueSBs = len(classifier.unique)

	return nil
}

func (bd *build) buildOneGSB(coord fabric.Point) (*gsb.RRGSB, error) {
	g := gsb.BuildOneGSB(bd.env, coord)
	bd.stats.GSBs++
	bd.InvokeHook(sim.HookCtx{
		Domain: bd,
		Pos:    HookPosGSBBuilt,
		Item:   g,
	})

	t2t, err := gsb.BuildTrackToTrackMap(bd.env, g, bd.cfg.sb)
	if err != nil {
		return nil, err
	}

	t2i, err := gsb.BuildTrackToIPINMap(bd.env, g)
	if err != nil {
		return nil, err
	}

	o2t, err := gsb.BuildOPINToTrackMap(bd.env, g, bd.cfg.opin2AllSides)
	if err != nil {
		return nil, err
	}

	n := gsb.BuildEdgesForOneGSB(bd.graph, g, t2i, o2t, t2t)
	bd.stats.EdgesByKind[EdgeKindGSB] += n

	if vib := bd.vibAt(coord.X, coord.Y); vib != nil {
		m, skipped, err := gsb.BuildVIBMap(bd.env, g, vib, coord)
		if err != nil {
			return nil, err
		}

		bd.stats.VIBSkipped += skipped
		bd.stats.EdgesByKind[EdgeKindVIB] += gsb.BuildEdgesForVIB(bd.graph, m)
	}

	bd.stats.EdgesByKind[EdgeKindDirect] += bd.buildDirectConnections(coord)

	added := bd.flush()
	Trace(bd.logger, "GSB built", "gsb", g.String(), "edges", added)

	return g, nil
}

// buildClassEdges connects every OPIN to its SOURCE and every IPIN to its
// SINK.
func (bd *build) buildClassEdges() {
	lookup := bd.graph.Lookup()

	for i, n := range bd.graph.Nodes() {
		if n.Type != rrgraph.OPIN && n.Type != rrgraph.IPIN {
			continue
		}

		pin := rrgraph.NodeID(i)
		tile := bd.cfg.grid.TypeAt(n.XLow, n.YLow)
		class := tile.PinClass[n.Ptc]

		if n.Type == rrgraph.OPIN {
			src, ok := lookup.FindNode(n.XLow, n.YLow, rrgraph.Source, class, fabric.Top).Get()
			rrgraph.Invariantf(ok, "OPIN %d at (%d, %d) has no SOURCE for class %d",
				pin, n.XLow, n.YLow, class)

			bd.graph.CreateEdgeInCache(src, pin, bd.graph.DriverSwitch(pin), false)
			bd.stats.EdgesByKind[EdgeKindSourceOPIN]++

			continue
		}

		sink, ok := lookup.FindNode(n.XLow, n.YLow, rrgraph.Sink, class, fabric.Top).Get()
		rrgraph.Invariantf(ok, "IPIN %d at (%d, %d) has no SINK for class %d",
			pin, n.XLow, n.YLow, class)

		bd.graph.CreateEdgeInCache(pin, sink, bd.graph.DriverSwitch(sink), false)
		bd.stats.EdgesByKind[EdgeKindIPINSink]++
	}
}

func (bd *build) flush() int {
	added := bd.graph.BuildEdges(true)
	bd.InvokeHook(sim.HookCtx{
		Domain: bd,
		Pos:    HookPosEdgesFlushed,
		Item:   added,
	})

	return added
}
