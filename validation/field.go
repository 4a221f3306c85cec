package validation

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/meikuraledutech/workflow"
)

// Field names a validated node field.
type Field string

const (
	FieldCustomName      Field = "customName"
	FieldFieldName       Field = "fieldName"
	FieldFieldLabel      Field = "fieldLabel"
	FieldFieldToEvaluate Field = "fieldToEvaluate"
	FieldOperator        Field = "operator"
	FieldValue           Field = "value"
	FieldURL             Field = "url"
	FieldMethod          Field = "method"
)

// OperatorIsEmpty is the conditional operator that needs no comparison value.
const OperatorIsEmpty = "is_empty"

// FieldContext carries what a rule needs to know about the owning node.
type FieldContext struct {
	NodeType workflow.NodeType
	Operator string
}

var (
	fieldNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	urlPattern       = regexp.MustCompile(`^https?://.+`)
	httpMethods      = []string{"GET", "POST", "PUT", "DELETE"}
)

// ValidateField checks a single field value and returns a human-readable
// message, or "" when the value is acceptable. Leading and trailing
// whitespace is ignored. Unknown fields always pass.
func ValidateField(field Field, value string, ctx FieldContext) string {
	v := strings.TrimSpace(value)
	n := utf8.RuneCountInString(v)

	switch field {
	case FieldCustomName:
		label := "Form Name"
		if ctx.NodeType == workflow.NodeConditional {
			label = "Condition Name"
		}
		if v == "" {
			return label + " is required"
		}
		if n < 3 {
			return label + " must have a minimum of 3 characters"
		}

	case FieldFieldName:
		if v == "" {
			return "Field Name is required"
		}
		if !fieldNamePattern.MatchString(v) {
			return "Field Name must be alphanumeric only (no spaces)"
		}
		if n < 2 {
			return "Field Name must have a minimum of 2 characters"
		}

	case FieldFieldLabel:
		if v == "" {
			return "Field Label is required"
		}
		if n < 2 {
			return "Field Label must have a minimum of 2 characters"
		}

	case FieldFieldToEvaluate:
		if ctx.NodeType == workflow.NodeConditional && v == "" {
			return "Field to Evaluate is required"
		}

	case FieldOperator:
		if ctx.NodeType == workflow.NodeConditional && v == "" {
			return "Operator is required"
		}

	case FieldValue:
		if ctx.NodeType == workflow.NodeConditional && ctx.Operator != OperatorIsEmpty && v == "" {
			return "Value is required"
		}

	case FieldURL:
		if ctx.NodeType != workflow.NodeAPI {
			return ""
		}
		if v == "" {
			return "URL is required"
		}
		if !urlPattern.MatchString(v) {
			return "URL must start with http:// or https://"
		}

	case FieldMethod:
		if ctx.NodeType != workflow.NodeAPI {
			return ""
		}
		if v == "" {
			return "Method is required"
		}
		if !slices.Contains(httpMethods, strings.ToUpper(v)) {
			return "Method must be GET, POST, PUT, or DELETE"
		}
	}
	return ""
}
