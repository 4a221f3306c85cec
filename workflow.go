package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NodeType is the type tag of a node in the editor graph.
type NodeType string

const (
	NodeStart       NodeType = "start"
	NodeForm        NodeType = "form"
	NodeConditional NodeType = "conditional"
	NodeAPI         NodeType = "api"
	NodeEnd         NodeType = "end"
)

// Node represents a vertex in the workflow graph.
// A nil Data means the node has not been configured yet.
type Node struct {
	ID       string    `json:"id"`
	Type     NodeType  `json:"type"`
	Position *Position `json:"position,omitempty"`
	Data     NodeData  `json:"data"`
}

// Position is the canvas location of a node. It is carried through
// persistence untouched.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge represents a connection between two nodes.
// Direction is kept for the editor but ignored by validation.
type Edge struct {
	ID           string `json:"id,omitempty"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// NodeData is the type-specific payload of a node. The set of
// implementations is closed: FormData, ConditionalData, APIData and RawData.
type NodeData interface {
	nodeData()
}

// FormData configures a form node.
type FormData struct {
	CustomName string      `json:"customName"`
	Fields     []FormField `json:"fields"`
}

// FormField is a single input collected by a form node.
type FormField struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// ConditionalData configures a conditional node.
type ConditionalData struct {
	CustomName      string `json:"customName"`
	FieldToEvaluate string `json:"fieldToEvaluate"`
	Operator        string `json:"operator"`
	Value           string `json:"value"`
}

// APIData configures an api node.
type APIData struct {
	CustomName string            `json:"customName"`
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
}

// RawData holds the payload of start, end and unknown node types verbatim.
type RawData json.RawMessage

func (FormData) nodeData()        {}
func (ConditionalData) nodeData() {}
func (APIData) nodeData()         {}
func (RawData) nodeData()         {}

// MarshalJSON emits the raw payload unchanged.
func (r RawData) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("{}"), nil
	}
	return json.RawMessage(r).MarshalJSON()
}

type nodeJSON struct {
	ID       string          `json:"id"`
	Type     NodeType        `json:"type"`
	Position *Position       `json:"position,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// MarshalJSON writes the node in the editor's shape. A nil Data is written as {}.
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{ID: n.ID, Type: n.Type, Position: n.Position, Data: json.RawMessage("{}")}
	if n.Data != nil {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return nil, fmt.Errorf("workflow: marshal node %s data: %w", n.ID, err)
		}
		out.Data = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the data payload into the variant selected by the
// node's type tag.
func (n *Node) UnmarshalJSON(b []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	data, err := decodeNodeData(in.Type, in.Data)
	if err != nil {
		return fmt.Errorf("workflow: node %s: %w", in.ID, err)
	}
	*n = Node{ID: in.ID, Type: in.Type, Position: in.Position, Data: data}
	return nil
}

func decodeNodeData(t NodeType, raw json.RawMessage) (NodeData, error) {
	if isEmptyPayload(raw) {
		return nil, nil
	}
	switch t {
	case NodeForm:
		var d FormData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case NodeConditional:
		var d ConditionalData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case NodeAPI:
		var d APIData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		return RawData(buf.Bytes()), nil
	}
}

// isEmptyPayload reports whether raw is absent, null or an object with no keys.
func isEmptyPayload(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	if trimmed[0] != '{' {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return false
	}
	return len(m) == 0
}
