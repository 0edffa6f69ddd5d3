// Package nodes exposes the prompt nodes to a node-graph host: declarative
// descriptors, argument coercion and invocation.
package nodes

import (
	"context"
)

// Kind is the type of a node input or output socket.
type Kind string

const (
	KindString  Kind = "STRING"
	KindFloat   Kind = "FLOAT"
	KindInt     Kind = "INT"
	KindBoolean Kind = "BOOLEAN"
	KindCombo   Kind = "COMBO"
	KindModel   Kind = "MODEL"
)

// InputSpec describes one input socket or widget.
type InputSpec struct {
	Name      string      `json:"name"`
	Kind      Kind        `json:"type"`
	Required  bool        `json:"required"`
	Multiline bool        `json:"multiline,omitempty"`
	Default   interface{} `json:"default,omitempty"`
	Min       *float64    `json:"min,omitempty"`
	Max       *float64    `json:"max,omitempty"`
	Step      *float64    `json:"step,omitempty"`
	Options   []string    `json:"options,omitempty"`
}

// OutputSpec describes one output socket.
type OutputSpec struct {
	Name string `json:"name"`
	Kind Kind   `json:"type"`
}

// Descriptor is everything the host needs to display and call a node.
type Descriptor struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Category    string       `json:"category"`
	Function    string       `json:"function"`
	Inputs      []InputSpec  `json:"inputs"`
	Outputs     []OutputSpec `json:"outputs"`
}

// Input returns the spec for the named input.
func (d Descriptor) Input(name string) (InputSpec, bool) {
	for _, in := range d.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSpec{}, false
}

// Node is a synchronous, stateless processing unit. Run receives arguments
// already coerced against Descriptor and returns one value per declared
// output, in order.
type Node interface {
	Descriptor() Descriptor
	Run(ctx context.Context, args Args) ([]interface{}, error)
}

func float(v float64) *float64 { return &v }
