package validation

import (
	"fmt"

	"github.com/meikuraledutech/workflow"
)

// minConnections is the minimum number of distinct neighbours per node type.
var minConnections = map[workflow.NodeType]int{
	workflow.NodeStart:       1,
	workflow.NodeForm:        2,
	workflow.NodeConditional: 3,
	workflow.NodeAPI:         2,
	workflow.NodeEnd:         1,
}

// RequiredConnections returns the minimum degree for a node type.
// Unknown types require 1.
func RequiredConnections(t workflow.NodeType) int {
	if n, ok := minConnections[t]; ok {
		return n
	}
	return 1
}

// Adjacency maps a node ID to the set of its neighbours.
type Adjacency map[string]map[string]struct{}

// Degree returns the number of distinct neighbours of id.
func (a Adjacency) Degree(id string) int {
	return len(a[id])
}

// BuildAdjacency builds the undirected neighbour sets of the graph.
// Self-loops and edges with an unknown endpoint are skipped.
func BuildAdjacency(nodes []workflow.Node, edges []workflow.Edge) Adjacency {
	adj := make(Adjacency, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = make(map[string]struct{})
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		from, ok := adj[e.Source]
		if !ok {
			continue
		}
		to, ok := adj[e.Target]
		if !ok {
			continue
		}
		from[e.Target] = struct{}{}
		to[e.Source] = struct{}{}
	}
	return adj
}

// GraphErrors checks the start/end singleton rule and the minimum degree of
// every node. Singleton errors come first; connectivity errors follow input
// node order.
func (v *Validator) GraphErrors(nodes []workflow.Node, edges []workflow.Edge) []workflow.ValidationError {
	nextID := v.ids()
	build := func(msg, nodeID string) workflow.ValidationError {
		return workflow.ValidationError{
			ID:       nextID("validation"),
			Severity: workflow.SeverityError,
			Message:  msg,
			NodeID:   nodeID,
		}
	}

	errs := []workflow.ValidationError{}

	for _, role := range []struct {
		typ   workflow.NodeType
		label string
	}{
		{workflow.NodeStart, "Start"},
		{workflow.NodeEnd, "End"},
	} {
		var matches []string
		for _, n := range nodes {
			if n.Type == role.typ {
				matches = append(matches, n.ID)
			}
		}
		switch {
		case len(matches) == 0:
			errs = append(errs, build(fmt.Sprintf("Workflow must have one %s block", role.label), ""))
		case len(matches) > 1:
			errs = append(errs, build(fmt.Sprintf("Workflow must have exactly one %s block", role.label), matches[0]))
		}
	}

	adj := BuildAdjacency(nodes, edges)
	for _, n := range nodes {
		degree := adj.Degree(n.ID)
		required := RequiredConnections(n.Type)
		name := workflow.Capitalize(string(n.Type))

		if degree == 0 {
			errs = append(errs, build(name+" Node is not connected", n.ID))
			continue
		}
		if degree < required {
			missing := required - degree
			errs = append(errs, build(
				fmt.Sprintf("%s Node is missing %d %s", name, missing, workflow.Pluralize(missing, "connection", "")),
				n.ID,
			))
		}
	}

	return errs
}
