package verify

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// VerificationReport represents a complete verification report of a graph.
type VerificationReport struct {
	RunID        string
	Name         string
	ChannelWidth int
	NodesByType  map[rrgraph.NodeType]int
	NumNodes     int
	NumEdges     int
	NumSwitches  int
	Issues       []Issue
	BuildErr     error
}

// GenerateReport validates g and returns a report named name. A nil graph
// yields a report that only carries buildErr.
func GenerateReport(name string, g *rrgraph.Graph, chanWidth int, buildErr error) *VerificationReport {
	r := &VerificationReport{
		RunID:        uuid.NewString(),
		Name:         name,
		ChannelWidth: chanWidth,
		NodesByType:  make(map[rrgraph.NodeType]int),
		BuildErr:     buildErr,
	}

	if g == nil {
		return r
	}

	for _, n := range g.Nodes() {
		r.NodesByType[n.Type]++
	}

	r.NumNodes = g.NumNodes()
	r.NumEdges = g.NumEdges()
	r.NumSwitches = len(g.Switches())
	r.Issues = Validate(g)

	return r
}

// OK returns true if the graph was built and has no issues.
func (r *VerificationReport) OK() bool {
	return r.BuildErr == nil && len(r.Issues) == 0
}

// IssuesByType counts the issues of each type.
func (r *VerificationReport) IssuesByType() map[IssueType]int {
	counts := make(map[IssueType]int)
	for _, i := range r.Issues {
		counts[i.Type]++
	}

	return counts
}

// WriteReport writes a formatted report to a writer.
func (r *VerificationReport) WriteReport(w io.Writer) {
	summary := table.NewWriter()
	summary.SetTitle(fmt.Sprintf("RRGraph %s (run %s)", r.Name, r.RunID))
	summary.AppendHeader(table.Row{"Item", "Value"})
	summary.AppendRow(table.Row{"Channel width", r.ChannelWidth})
	summary.AppendRow(table.Row{"Nodes", r.NumNodes})
	summary.AppendRow(table.Row{"Edges", r.NumEdges})
	summary.AppendRow(table.Row{"Switches", r.NumSwitches})

	status := "PASSED"
	if r.BuildErr != nil {
		status = "BUILD FAILED: " + r.BuildErr.Error()
	} else if len(r.Issues) > 0 {
		status = fmt.Sprintf("FAILED: %d issues", len(r.Issues))
	}
	summary.AppendFooter(table.Row{"Result", status})

	fmt.Fprintln(w, summary.Render())
	fmt.Fprintln(w)

	if r.NumNodes > 0 {
		nodes := table.NewWriter()
		nodes.SetTitle("Nodes by type")
		nodes.AppendHeader(table.Row{"Type", "Count"})
		for _, typ := range rrgraph.NodeTypes {
			nodes.AppendRow(table.Row{typ.String(), r.NodesByType[typ]})
		}

		fmt.Fprintln(w, nodes.Render())
		fmt.Fprintln(w)
	}

	if len(r.Issues) == 0 {
		return
	}

	byType := r.IssuesByType()
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	issues := table.NewWriter()
	issues.SetTitle("Issues")
	issues.AppendHeader(table.Row{"Type", "Node", "Edge", "Message"})
	for _, i := range r.Issues {
		issues.AppendRow(table.Row{i.Type, i.Node, i.Edge, i.Message})
	}
	for _, t := range types {
		issues.AppendFooter(table.Row{t, "", "", byType[IssueType(t)]})
	}

	fmt.Fprintln(w, issues.Render())
	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file.
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
