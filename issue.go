package workflow

// Severity classifies a ValidationError.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationError is a structural problem with the graph. A fresh batch is
// produced on every validation pass.
type ValidationError struct {
	ID       string   `json:"id"`
	Severity Severity `json:"type"`
	Message  string   `json:"message"`
	NodeID   string   `json:"nodeId,omitempty"`
}

// FieldErrors holds one message slot per validated field.
// An empty slot means the field passed.
type FieldErrors struct {
	CustomName      string `json:"customName"`
	URL             string `json:"url"`
	FieldToEvaluate string `json:"fieldToEvaluate"`
	Operator        string `json:"operator"`
	Value           string `json:"value"`
	Method          string `json:"method"`
	FieldName       string `json:"fieldName"`
	FieldLabel      string `json:"fieldLabel"`
}

// Messages returns the non-empty slots in display order.
func (f FieldErrors) Messages() []string {
	var out []string
	for _, m := range []string{
		f.CustomName, f.URL, f.FieldToEvaluate, f.Operator,
		f.Value, f.Method, f.FieldName, f.FieldLabel,
	} {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// IsZero reports whether no slot carries a message.
func (f FieldErrors) IsZero() bool {
	return f == FieldErrors{}
}

// NodeError is the configuration error record of a single node.
// Message repeats the first failing slot for compact display.
type NodeError struct {
	ID       string      `json:"id"`
	NodeID   string      `json:"nodeId"`
	NodeType NodeType    `json:"nodeType"`
	Fields   FieldErrors `json:"error"`
	Message  string      `json:"message"`
}
