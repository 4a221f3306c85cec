// Package validation derives structural and configuration errors from a
// workflow graph snapshot.
//
// All functions are pure: they read the graph, never mutate it, and return a
// fresh batch of errors on every call. Error IDs come from an IDFunc scoped
// to a single call, so identical inputs give identical output by default.
package validation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/workflow"
)

// IDFunc returns a new error identifier with the given prefix.
type IDFunc func(prefix string) string

// IDSource creates a fresh IDFunc for each validation pass.
type IDSource func() IDFunc

// Sequential numbers IDs from 1 within a pass: "validation-1", "validation-2", ...
func Sequential() IDFunc {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Random generates collision-resistant IDs from UUIDs.
func Random() IDFunc {
	return func(prefix string) string {
		return prefix + "-" + uuid.NewString()
	}
}

// Validator runs the graph and node checks. The zero value is not usable; use New.
type Validator struct {
	ids IDSource
}

// Option configures a Validator.
type Option func(*Validator)

// WithIDSource overrides how error IDs are generated.
func WithIDSource(src IDSource) Option {
	return func(v *Validator) { v.ids = src }
}

// WithUUIDs makes every error ID globally unique.
func WithUUIDs() Option {
	return WithIDSource(Random)
}

// New returns a Validator. By default error IDs are sequential per pass.
func New(opts ...Option) *Validator {
	v := &Validator{ids: Sequential}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Result is the combined output of one validation pass.
type Result struct {
	GraphErrors []workflow.ValidationError    `json:"graphErrors"`
	NodeErrors  map[string]workflow.NodeError `json:"nodeErrors"`
}

// OK reports whether both error sets are empty; it is the only signal that
// the graph may be persisted.
func (r Result) OK() bool {
	return len(r.GraphErrors) == 0 && len(r.NodeErrors) == 0
}

// Validate runs the graph and node checks.
func (v *Validator) Validate(nodes []workflow.Node, edges []workflow.Edge) Result {
	return Result{
		GraphErrors: v.GraphErrors(nodes, edges),
		NodeErrors:  v.NodeErrors(nodes),
	}
}

var defaultValidator = New()

// Validate runs both checks with sequential IDs.
func Validate(nodes []workflow.Node, edges []workflow.Edge) Result {
	return defaultValidator.Validate(nodes, edges)
}

// GraphErrors runs the structural checks with sequential IDs.
func GraphErrors(nodes []workflow.Node, edges []workflow.Edge) []workflow.ValidationError {
	return defaultValidator.GraphErrors(nodes, edges)
}

// NodeErrors runs the per-node configuration checks with sequential IDs.
func NodeErrors(nodes []workflow.Node) map[string]workflow.NodeError {
	return defaultValidator.NodeErrors(nodes)
}
