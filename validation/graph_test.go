package validation

import (
	"strings"
	"testing"

	"github.com/meikuraledutech/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, t workflow.NodeType) workflow.Node {
	return workflow.Node{ID: id, Type: t}
}

func edge(from, to string) workflow.Edge {
	return workflow.Edge{ID: from + "-" + to, Source: from, Target: to}
}

func messages(errs []workflow.ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

func TestGraphErrors_StartEndConnected(t *testing.T) {
	nodes := []workflow.Node{node("s1", workflow.NodeStart), node("e1", workflow.NodeEnd)}
	edges := []workflow.Edge{edge("s1", "e1")}

	assert.Empty(t, GraphErrors(nodes, edges))
}

func TestGraphErrors_StartOnly(t *testing.T) {
	errs := GraphErrors([]workflow.Node{node("s1", workflow.NodeStart)}, nil)

	assert.Equal(t, []string{
		"Workflow must have one End block",
		"Start Node is not connected",
	}, messages(errs))
	assert.Equal(t, "", errs[0].NodeID)
	assert.Equal(t, "s1", errs[1].NodeID)
}

func TestGraphErrors_MissingStart(t *testing.T) {
	errs := GraphErrors([]workflow.Node{node("e1", workflow.NodeEnd)}, nil)

	count := 0
	for _, m := range messages(errs) {
		if strings.Contains(m, "Start block") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestGraphErrors_DuplicateRoles(t *testing.T) {
	nodes := []workflow.Node{
		node("s1", workflow.NodeStart),
		node("s2", workflow.NodeStart),
		node("e1", workflow.NodeEnd),
		node("e2", workflow.NodeEnd),
	}
	edges := []workflow.Edge{edge("s1", "e1"), edge("s2", "e2")}

	errs := GraphErrors(nodes, edges)
	require.Len(t, errs, 2)
	assert.Equal(t, "Workflow must have exactly one Start block", errs[0].Message)
	assert.Equal(t, "s1", errs[0].NodeID)
	assert.Equal(t, "Workflow must have exactly one End block", errs[1].Message)
	assert.Equal(t, "e1", errs[1].NodeID)
}

func TestGraphErrors_MissingConnections(t *testing.T) {
	nodes := []workflow.Node{
		node("s1", workflow.NodeStart),
		node("c1", workflow.NodeConditional),
		node("f1", workflow.NodeForm),
		node("e1", workflow.NodeEnd),
	}
	edges := []workflow.Edge{edge("s1", "c1"), edge("c1", "f1")}

	errs := GraphErrors(nodes, edges)
	assert.Equal(t, []string{
		"Conditional Node is missing 1 connection",
		"Form Node is missing 1 connection",
		"End Node is not connected",
	}, messages(errs))
}

func TestGraphErrors_PluralAndUnknownType(t *testing.T) {
	nodes := []workflow.Node{
		node("s1", workflow.NodeStart),
		node("c1", workflow.NodeConditional),
		node("x1", workflow.NodeType("webhook")),
		node("e1", workflow.NodeEnd),
	}
	edges := []workflow.Edge{edge("s1", "c1"), edge("x1", "e1")}

	errs := GraphErrors(nodes, edges)
	assert.Equal(t, []string{"Conditional Node is missing 2 connections"}, messages(errs))
}

func TestGraphErrors_IgnoresDanglingAndSelfLoops(t *testing.T) {
	nodes := []workflow.Node{node("s1", workflow.NodeStart), node("e1", workflow.NodeEnd)}
	edges := []workflow.Edge{
		edge("s1", "s1"),
		edge("s1", "ghost"),
		edge("ghost", "e1"),
	}

	errs := GraphErrors(nodes, edges)
	assert.Equal(t, []string{
		"Start Node is not connected",
		"End Node is not connected",
	}, messages(errs))
}

func TestGraphErrors_DuplicateEdgesCountOnce(t *testing.T) {
	nodes := []workflow.Node{
		node("s1", workflow.NodeStart),
		node("f1", workflow.NodeForm),
		node("e1", workflow.NodeEnd),
	}
	edges := []workflow.Edge{edge("s1", "f1"), edge("f1", "s1"), edge("s1", "e1")}

	errs := GraphErrors(nodes, edges)
	assert.Equal(t, []string{"Form Node is missing 1 connection"}, messages(errs))
}

func TestGraphErrors_ZeroDegreeNeverMissing(t *testing.T) {
	nodes := []workflow.Node{
		node("s1", workflow.NodeStart),
		node("f1", workflow.NodeForm),
		node("c1", workflow.NodeConditional),
		node("a1", workflow.NodeAPI),
		node("e1", workflow.NodeEnd),
	}

	for _, e := range GraphErrors(nodes, nil) {
		if e.NodeID == "" {
			continue
		}
		assert.Contains(t, e.Message, "is not connected")
		assert.NotContains(t, e.Message, "missing")
	}
}

func TestGraphErrors_SequentialIDs(t *testing.T) {
	nodes := []workflow.Node{node("f1", workflow.NodeForm)}

	first := GraphErrors(nodes, nil)
	second := GraphErrors(nodes, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, "validation-1", first[0].ID)
	assert.Equal(t, "validation-3", first[2].ID)
}

func TestGraphErrors_UUIDs(t *testing.T) {
	v := New(WithUUIDs())
	errs := v.GraphErrors([]workflow.Node{node("f1", workflow.NodeForm)}, nil)

	seen := map[string]bool{}
	for _, e := range errs {
		assert.Regexp(t, `^validation-[0-9a-f-]{36}$`, e.ID)
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
	}
}

func TestRequiredConnections(t *testing.T) {
	assert.Equal(t, 1, RequiredConnections(workflow.NodeStart))
	assert.Equal(t, 2, RequiredConnections(workflow.NodeForm))
	assert.Equal(t, 3, RequiredConnections(workflow.NodeConditional))
	assert.Equal(t, 2, RequiredConnections(workflow.NodeAPI))
	assert.Equal(t, 1, RequiredConnections(workflow.NodeEnd))
	assert.Equal(t, 1, RequiredConnections("other"))
}
