// File: voyago/services/assistant/registry.go
package assistant

import (
	"context"
	"fmt"
	"math"

	"github.com/google/generative-ai-go/genai"
)

// ExecutionMode controls whether a capability runs immediately on invocation
// or is withheld until the confirmation gate releases it.
type ExecutionMode string

const (
	ModeAuto  ExecutionMode = "auto"
	ModeGated ExecutionMode = "gated"
)

// ToolFunc is the execution shape shared by auto and gated capabilities.
type ToolFunc func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Capability declares one invocable tool: a parameter schema plus an
// execution mode. Auto capabilities carry their implementation inline; gated
// ones are declared here and implemented in the registry's separate execution
// table, invoked only by the confirmation gate.
type Capability struct {
	Name        string
	Description string
	Schema      *genai.Schema
	Mode        ExecutionMode
	Execute     ToolFunc               // Set for auto capabilities only
	Defaults    map[string]interface{} // Applied before validation, e.g. travelers -> 1
}

// Registry maps capability names to their declarations and gated executors.
type Registry struct {
	caps  map[string]*Capability
	gated map[string]ToolFunc
}

func NewRegistry() *Registry {
	return &Registry{
		caps:  make(map[string]*Capability),
		gated: make(map[string]ToolFunc),
	}
}

// Register adds a capability declaration.
func (r *Registry) Register(c *Capability) {
	r.caps[c.Name] = c
}

// RegisterGated adds a gated capability together with its side-effecting
// executor. The executor is never invoked outside the confirmation gate.
func (r *Registry) RegisterGated(c *Capability, fn ToolFunc) {
	c.Mode = ModeGated
	c.Execute = nil
	r.caps[c.Name] = c
	r.gated[c.Name] = fn
}

// Get returns the capability declaration for name, or nil.
func (r *Registry) Get(name string) *Capability {
	return r.caps[name]
}

// GatedExecutor returns the execution-table entry for a gated capability.
func (r *Registry) GatedExecutor(name string) ToolFunc {
	return r.gated[name]
}

// Declarations returns the function declarations handed to the model.
func (r *Registry) Declarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(r.caps))
	for _, c := range r.caps {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        c.Name,
			Description: c.Description,
			Parameters:  c.Schema,
		})
	}
	return decls
}

// ValidationError is a structured argument rejection. It never carries a
// partial result and no operation runs when it is returned.
type ValidationError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s: %s", e.Tool, e.Field, e.Reason)
}

// ValidateArgs checks args against the capability's parameter schema,
// applying documented defaults first. Arguments are never silently coerced
// beyond those defaults.
func (r *Registry) ValidateArgs(name string, args map[string]interface{}) (map[string]interface{}, error) {
	c := r.Get(name)
	if c == nil {
		return nil, fmt.Errorf("unknown capability %q", name)
	}

	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		out[k] = v
	}
	for k, v := range c.Defaults {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}

	if c.Schema == nil {
		return out, nil
	}

	for _, req := range c.Schema.Required {
		if _, ok := out[req]; !ok {
			return nil, &ValidationError{Tool: name, Field: req, Reason: "required field missing"}
		}
	}

	for field, prop := range c.Schema.Properties {
		val, ok := out[field]
		if !ok {
			continue
		}
		if err := checkType(name, field, prop, val); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func checkType(tool, field string, prop *genai.Schema, val interface{}) error {
	switch prop.Type {
	case genai.TypeString:
		if _, ok := val.(string); !ok {
			return &ValidationError{Tool: tool, Field: field, Reason: "expected a string"}
		}
	case genai.TypeNumber:
		if !isNumber(val) {
			return &ValidationError{Tool: tool, Field: field, Reason: "expected a number"}
		}
	case genai.TypeInteger:
		f, ok := asFloat(val)
		if !ok || f != math.Trunc(f) {
			return &ValidationError{Tool: tool, Field: field, Reason: "expected an integer"}
		}
	case genai.TypeBoolean:
		if _, ok := val.(bool); !ok {
			return &ValidationError{Tool: tool, Field: field, Reason: "expected a boolean"}
		}
	}
	return nil
}

func isNumber(val interface{}) bool {
	_, ok := asFloat(val)
	return ok
}

func asFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
