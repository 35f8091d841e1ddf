package rrgraph

import (
	"sort"

	"github.com/sarchlab/tileablerr/fabric"
)

// Graph owns the nodes, edges and node side tables of a routing-resource
// graph.
type Graph struct {
	nodes          []Node
	driverSwitches []fabric.SwitchID
	trackIDs       [][]int

	rcData  []RC
	rcIndex map[RC]int

	edges     []Edge
	edgeCache []Edge
	edgeSet   map[Edge]bool
	outEdges  [][]EdgeID
	inEdges   [][]EdgeID

	switches []fabric.Switch
	lookup   *NodeLookup
}

// NewGraph creates an empty graph that uses the given switches.
func NewGraph(switches []fabric.Switch) *Graph {
	return &Graph{
		rcIndex:  make(map[RC]int),
		edgeSet:  make(map[Edge]bool),
		switches: switches,
		lookup:   NewNodeLookup(),
	}
}

// Lookup returns the spatial node lookup.
func (g *Graph) Lookup() *NodeLookup {
	return g.lookup
}

// Switches returns the switch list.
func (g *Graph) Switches() []fabric.Switch {
	return g.switches
}

// ReserveNodes grows the node arena capacity to n.
func (g *Graph) ReserveNodes(n int) {
	if n <= cap(g.nodes) {
		return
	}

	nodes := make([]Node, len(g.nodes), n)
	copy(nodes, g.nodes)
	g.nodes = nodes

	switches := make([]fabric.SwitchID, len(g.driverSwitches), n)
	copy(switches, g.driverSwitches)
	g.driverSwitches = switches

	tracks := make([][]int, len(g.trackIDs), n)
	copy(tracks, g.trackIDs)
	g.trackIDs = tracks
}

// AddNode appends a node and returns its id.
func (g *Graph) AddNode(n Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.driverSwitches = append(g.driverSwitches, fabric.NoSwitch)
	g.trackIDs = append(g.trackIDs, nil)
	g.outEdges = append(g.outEdges, nil)
	g.inEdges = append(g.inEdges, nil)

	return id
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// ValidNode returns true if id refers to a node of the graph.
func (g *Graph) ValidNode(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Node returns a copy of the node.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

// Nodes returns the node arena. The slice must not be modified.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// SetNodeHigh updates the high corner of a node bounding box.
func (g *Graph) SetNodeHigh(id NodeID, x, y int) {
	g.nodes[id].XHigh = x
	g.nodes[id].YHigh = y
}

// SetNodeRC attaches a deduplicated RC entry to the node.
func (g *Graph) SetNodeRC(id NodeID, r, c float64) {
	g.nodes[id].RCIndex = g.FindOrCreateRC(r, c)
}

// FindOrCreateRC returns the index of the (r, c) entry of the RC table,
// creating it if needed.
func (g *Graph) FindOrCreateRC(r, c float64) int {
	key := RC{R: r, C: c}
	if idx, ok := g.rcIndex[key]; ok {
		return idx
	}

	idx := len(g.rcData)
	g.rcData = append(g.rcData, key)
	g.rcIndex[key] = idx

	return idx
}

// RCData returns the RC table.
func (g *Graph) RCData() []RC {
	return g.rcData
}

// SetDriverSwitch records the switch that drives a node. A node keeps its
// first driver switch for the whole build.
func (g *Graph) SetDriverSwitch(id NodeID, sw fabric.SwitchID) {
	cur := g.driverSwitches[id]
	Invariantf(cur == fabric.NoSwitch || cur == sw,
		"node %d already driven by switch %d, got %d", id, cur, sw)

	g.driverSwitches[id] = sw
}

// DriverSwitch returns the switch that drives the node, or NoSwitch.
func (g *Graph) DriverSwitch(id NodeID) fabric.SwitchID {
	return g.driverSwitches[id]
}

// AppendTrackID records that the node occupies one more track.
func (g *Graph) AppendTrackID(id NodeID, track int) {
	g.trackIDs[id] = append(g.trackIDs[id], track)
}

// TrackIDs returns the tracks a channel node occupies along its span.
func (g *Graph) TrackIDs(id NodeID) []int {
	return g.trackIDs[id]
}

// ReverseTrackIDs reverses the track list of a node.
func (g *Graph) ReverseTrackIDs(id NodeID) {
	t := g.trackIDs[id]
	for i, j := 0, len(t)-1; i < j; i, j = i+1, j-1 {
		t[i], t[j] = t[j], t[i]
	}
}

// CreateEdgeInCache queues an edge. Queued edges become visible after
// BuildEdges.
func (g *Graph) CreateEdgeInCache(src, sink NodeID, sw fabric.SwitchID, configurable bool) {
	Invariantf(g.ValidNode(src) && g.ValidNode(sink),
		"edge %d -> %d refers to a missing node", src, sink)

	g.edgeCache = append(g.edgeCache, Edge{
		Src:          src,
		Sink:         sink,
		Switch:       sw,
		Configurable: configurable,
	})
}

// NumCachedEdges returns the number of edges waiting for BuildEdges.
func (g *Graph) NumCachedEdges() int {
	return len(g.edgeCache)
}

// BuildEdges flushes the edge cache into the graph. With uniquify set, an
// edge identical to an already built one is dropped. It returns the number
// of edges added.
func (g *Graph) BuildEdges(uniquify bool) int {
	cache := g.edgeCache
	g.edgeCache = nil

	sort.SliceStable(cache, func(i, j int) bool {
		if cache[i].Src != cache[j].Src {
			return cache[i].Src < cache[j].Src
		}

		return cache[i].Sink < cache[j].Sink
	})

	added := 0
	for _, e := range cache {
		if uniquify && g.edgeSet[e] {
			continue
		}

		id := EdgeID(len(g.edges))
		g.edges = append(g.edges, e)
		g.edgeSet[e] = true
		g.outEdges[e.Src] = append(g.outEdges[e.Src], id)
		g.inEdges[e.Sink] = append(g.inEdges[e.Sink], id)
		added++
	}

	return added
}

// NumEdges returns the number of built edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Edge returns a built edge.
func (g *Graph) Edge(id EdgeID) Edge {
	return g.edges[id]
}

// Edges returns all built edges. The slice must not be modified.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// OutEdges returns the edges leaving a node.
func (g *Graph) OutEdges(id NodeID) []EdgeID {
	return g.outEdges[id]
}

// InEdges returns the edges entering a node.
func (g *Graph) InEdges(id NodeID) []EdgeID {
	return g.inEdges[id]
}
