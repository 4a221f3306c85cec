package validation

import (
	"testing"

	"github.com/meikuraledutech/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeErrors_SkipsUnconfiguredAndPassThrough(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "s1", Type: workflow.NodeStart, Data: workflow.RawData(`{"label":"Start"}`)},
		{ID: "f1", Type: workflow.NodeForm},
		{ID: "e1", Type: workflow.NodeEnd},
	}
	assert.Empty(t, NodeErrors(nodes))
}

func TestNodeErrors_ValidNodes(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "f1", Type: workflow.NodeForm, Data: workflow.FormData{
			CustomName: "Signup",
			Fields:     []workflow.FormField{{Name: "email", Label: "Email"}},
		}},
		{ID: "c1", Type: workflow.NodeConditional, Data: workflow.ConditionalData{
			CustomName: "Empty?", FieldToEvaluate: "email", Operator: OperatorIsEmpty,
		}},
		{ID: "a1", Type: workflow.NodeAPI, Data: workflow.APIData{
			CustomName: "Notify", URL: "https://example.com/hook", Method: "post",
		}},
	}
	assert.Empty(t, NodeErrors(nodes))
}

func TestNodeErrors_FormWithoutFields(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "f1", Type: workflow.NodeForm, Data: workflow.FormData{CustomName: "ab"}},
	}

	errs := NodeErrors(nodes)
	require.Contains(t, errs, "f1")
	rec := errs["f1"]
	assert.Equal(t, workflow.FieldErrors{
		CustomName: "Form Name must have a minimum of 3 characters",
		FieldName:  "At least one field is required",
	}, rec.Fields)
	assert.Equal(t, "Form Name must have a minimum of 3 characters", rec.Message)
	assert.Equal(t, workflow.NodeForm, rec.NodeType)
	assert.Equal(t, "node-error-f1-1", rec.ID)
}

func TestNodeErrors_FormCollectsEveryField(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "f1", Type: workflow.NodeForm, Data: workflow.FormData{
			CustomName: "Signup",
			Fields: []workflow.FormField{
				{Name: "first name", Label: "F"},
				{Name: "ok_name", Label: "Good"},
				{Name: "", Label: ""},
			},
		}},
	}

	rec := NodeErrors(nodes)["f1"]
	assert.Equal(t,
		"Field 1 name: Field Name must be alphanumeric only (no spaces) | Field 3 name: Field Name is required",
		rec.Fields.FieldName)
	assert.Equal(t,
		"Field 1 label: Field Label must have a minimum of 2 characters | Field 3 label: Field Label is required",
		rec.Fields.FieldLabel)
	assert.Empty(t, rec.Fields.CustomName)
	assert.Equal(t, rec.Fields.FieldName, rec.Message)
}

func TestNodeErrors_Conditional(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "c1", Type: workflow.NodeConditional, Data: workflow.ConditionalData{CustomName: "x"}},
		{ID: "c2", Type: workflow.NodeConditional, Data: workflow.ConditionalData{
			CustomName: "Check", FieldToEvaluate: "age", Operator: "gt",
		}},
	}

	errs := NodeErrors(nodes)
	require.Len(t, errs, 2)
	assert.Equal(t, workflow.FieldErrors{
		CustomName:      "Condition Name must have a minimum of 3 characters",
		FieldToEvaluate: "Field to Evaluate is required",
		Operator:        "Operator is required",
		Value:           "Value is required",
	}, errs["c1"].Fields)
	assert.Equal(t, workflow.FieldErrors{Value: "Value is required"}, errs["c2"].Fields)
}

func TestNodeErrors_API(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "a1", Type: workflow.NodeAPI, Data: workflow.APIData{
			CustomName: "Hook", URL: "example.com", Method: "FETCH",
		}},
	}

	rec := NodeErrors(nodes)["a1"]
	assert.Equal(t, workflow.FieldErrors{
		URL:    "URL must start with http:// or https://",
		Method: "Method must be GET, POST, PUT, or DELETE",
	}, rec.Fields)
	assert.Equal(t, "URL must start with http:// or https://", rec.Message)
}

func TestNodeErrors_DoesNotMutateInput(t *testing.T) {
	data := workflow.FormData{CustomName: " ab ", Fields: []workflow.FormField{{Name: " x ", Label: " y "}}}
	nodes := []workflow.Node{{ID: "f1", Type: workflow.NodeForm, Data: data}}

	first := NodeErrors(nodes)
	second := NodeErrors(nodes)

	assert.Equal(t, first, second)
	assert.Equal(t, data, nodes[0].Data)
}

func TestValidate_Aggregates(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "s1", Type: workflow.NodeStart},
		{ID: "a1", Type: workflow.NodeAPI, Data: workflow.APIData{CustomName: "Hook", URL: "https://x", Method: "GET"}},
		{ID: "e1", Type: workflow.NodeEnd},
	}
	edges := []workflow.Edge{edge("s1", "a1"), edge("a1", "e1")}

	res := Validate(nodes, edges)
	assert.True(t, res.OK())
	assert.Empty(t, res.GraphErrors)
	assert.Empty(t, res.NodeErrors)

	nodes[1].Data = workflow.APIData{CustomName: "Hook"}
	res = Validate(nodes, edges)
	assert.False(t, res.OK())
	assert.Contains(t, res.NodeErrors, "a1")
}
