package schema

import (
	"fmt"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

// Type selects the notation a schema is parsed from and rendered to.
type Type int

const (
	JSON Type = iota
	HTML
	Key
	AttributeBased
	VisualLayerBreakdown
	CompositionalGrid
	ArtisticReference
)

// notation groups schema types that share a parser and a renderer.
type notation struct {
	parse  func(t Type, text string) (Value, error)
	render func(t Type, v Value) (string, error)
}

var typeNames = [...]string{
	JSON:                 "JSON",
	HTML:                 "HTML",
	Key:                  "Key",
	AttributeBased:       "Attribute-Based",
	VisualLayerBreakdown: "Visual Layer Breakdown",
	CompositionalGrid:    "Compositional Grid",
	ArtisticReference:    "Artistic Reference",
}

// Types returns every supported schema type in display order.
func Types() []Type {
	out := make([]Type, len(typeNames))
	for i := range typeNames {
		out[i] = Type(i)
	}
	return out
}

// Names returns the display names of every supported schema type.
func Names() []string {
	out := make([]string, len(typeNames))
	copy(out, typeNames[:])
	return out
}

// ParseType maps a display name such as "Attribute-Based" to its Type.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, apperrors.NewUnsupportedSchemaType(name)
}

// Valid reports whether t is one of the supported schema types.
func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(typeNames)
}

// String returns the display name.
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func (t Type) notation() (notation, error) {
	switch t {
	case JSON, VisualLayerBreakdown, CompositionalGrid, ArtisticReference:
		return notation{parse: parseStructured, render: renderStructured}, nil
	case HTML:
		return notation{parse: parseLiteral, render: renderHTML}, nil
	case Key:
		return notation{parse: parseLiteral, render: renderKey}, nil
	case AttributeBased:
		return notation{parse: parseLines, render: renderLines}, nil
	}
	return notation{}, apperrors.NewUnsupportedSchemaType(t.String())
}

// ParseCustom parses user supplied schema text according to t.
func ParseCustom(text string, t Type) (Value, error) {
	n, err := t.notation()
	if err != nil {
		return nil, err
	}
	return n.parse(t, text)
}

// Render formats v in the notation of t.
func Render(v Value, t Type) (string, error) {
	n, err := t.notation()
	if err != nil {
		return "", err
	}
	return n.render(t, v)
}
