package validation

import (
	"fmt"

	"github.com/meikuraledutech/workflow"
)

// recorder accumulates field messages for one node. Several messages for
// the same slot are joined with " | ".
type recorder struct {
	fields workflow.FieldErrors
}

func (r *recorder) add(slot *string, msg string) {
	if msg == "" {
		return
	}
	if *slot == "" {
		*slot = msg
		return
	}
	*slot = *slot + " | " + msg
}

// NodeErrors validates the configuration of every node and returns a record
// for each node with at least one failing field.
//
// Every field of every form entry is checked; failures are collected rather
// than stopping at the first one. Nodes without a payload are skipped as not
// yet configured.
func (v *Validator) NodeErrors(nodes []workflow.Node) map[string]workflow.NodeError {
	nextID := v.ids()
	out := make(map[string]workflow.NodeError)

	for _, n := range nodes {
		fields, ok := checkNode(n)
		if !ok || fields.IsZero() {
			continue
		}
		out[n.ID] = workflow.NodeError{
			ID:       nextID("node-error-" + n.ID),
			NodeID:   n.ID,
			NodeType: n.Type,
			Fields:   fields,
			Message:  fields.Messages()[0],
		}
	}
	return out
}

// checkNode dispatches on the payload variant. ok is false for nodes that
// carry nothing to validate.
func checkNode(n workflow.Node) (workflow.FieldErrors, bool) {
	var r recorder

	switch d := n.Data.(type) {
	case nil, workflow.RawData:
		return r.fields, false

	case workflow.FormData:
		ctx := FieldContext{NodeType: workflow.NodeForm}
		r.add(&r.fields.CustomName, ValidateField(FieldCustomName, d.CustomName, ctx))

		if len(d.Fields) == 0 {
			r.add(&r.fields.FieldName, "At least one field is required")
			break
		}
		for i, f := range d.Fields {
			if msg := ValidateField(FieldFieldName, f.Name, ctx); msg != "" {
				r.add(&r.fields.FieldName, fmt.Sprintf("Field %d name: %s", i+1, msg))
			}
			if msg := ValidateField(FieldFieldLabel, f.Label, ctx); msg != "" {
				r.add(&r.fields.FieldLabel, fmt.Sprintf("Field %d label: %s", i+1, msg))
			}
		}

	case workflow.ConditionalData:
		ctx := FieldContext{NodeType: workflow.NodeConditional}
		r.add(&r.fields.CustomName, ValidateField(FieldCustomName, d.CustomName, ctx))
		r.add(&r.fields.FieldToEvaluate, ValidateField(FieldFieldToEvaluate, d.FieldToEvaluate, ctx))
		r.add(&r.fields.Operator, ValidateField(FieldOperator, d.Operator, ctx))
		ctx.Operator = d.Operator
		r.add(&r.fields.Value, ValidateField(FieldValue, d.Value, ctx))

	case workflow.APIData:
		ctx := FieldContext{NodeType: workflow.NodeAPI}
		r.add(&r.fields.CustomName, ValidateField(FieldCustomName, d.CustomName, ctx))
		r.add(&r.fields.URL, ValidateField(FieldURL, d.URL, ctx))
		r.add(&r.fields.Method, ValidateField(FieldMethod, d.Method, ctx))
	}

	return r.fields, true
}
