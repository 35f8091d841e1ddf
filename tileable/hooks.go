package tileable

import "github.com/sarchlab/akita/v4/sim"

// HookPosNodesCreated marks when every node of the graph has been created.
// The item is the graph.
var HookPosNodesCreated = &sim.HookPos{Name: "RRGraph Nodes Created"}

// HookPosGSBBuilt marks when the nodes around a switch block have been
// collected. The item is the *gsb.RRGSB.
var HookPosGSBBuilt = &sim.HookPos{Name: "RRGraph GSB Built"}

// HookPosEdgesFlushed marks when cached edges are turned into graph edges.
// The item is the number of edges added.
var HookPosEdgesFlushed = &sim.HookPos{Name: "RRGraph Edges Flushed"}

// HookPosGraphValidated marks the end of a build. The item is the list of
// validation issues.
var HookPosGraphValidated = &sim.HookPos{Name: "RRGraph Validated"}
