package nodes

import (
	"encoding/json"
	"fmt"
	"math"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

// Args maps input names to values. After Coerce every present value has the
// Go type of its Kind: string, float64, int, bool, string (combo) or string
// (model name).
type Args map[string]interface{}

func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a Args) Float(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

func (a Args) Int(name string) int {
	i, _ := a[name].(int)
	return i
}

func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Has reports whether an optional input was supplied.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Coerce validates raw against the descriptor's inputs the way the host does
// before calling a node. Defaults are applied, numbers are clamped to their
// range and snapped to their step. Inputs the descriptor does not declare are
// dropped.
func Coerce(d Descriptor, raw Args) (Args, error) {
	out := make(Args, len(d.Inputs))
	for _, in := range d.Inputs {
		v, ok := raw[in.Name]
		if !ok || v == nil {
			if in.Default != nil {
				v = in.Default
			} else if in.Required {
				return nil, apperrors.NewInvalidInput(in.Name, "required input missing")
			} else {
				continue
			}
		}
		coerced, err := coerceValue(in, v)
		if err != nil {
			return nil, err
		}
		out[in.Name] = coerced
	}
	return out, nil
}

func coerceValue(in InputSpec, v interface{}) (interface{}, error) {
	switch in.Kind {
	case KindString, KindModel:
		s, ok := v.(string)
		if !ok {
			return nil, apperrors.NewInvalidInput(in.Name, fmt.Sprintf("expected a string, got %T", v))
		}
		return s, nil

	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, apperrors.NewInvalidInput(in.Name, fmt.Sprintf("expected a boolean, got %T", v))
		}
		return b, nil

	case KindCombo:
		s, ok := v.(string)
		if !ok {
			return nil, apperrors.NewInvalidInput(in.Name, fmt.Sprintf("expected one of %v, got %T", in.Options, v))
		}
		for _, opt := range in.Options {
			if opt == s {
				return s, nil
			}
		}
		return nil, apperrors.NewInvalidInput(in.Name, fmt.Sprintf("%q is not one of %v", s, in.Options))

	case KindFloat:
		f, err := toFloat(in.Name, v)
		if err != nil {
			return nil, err
		}
		return snap(in, f), nil

	case KindInt:
		f, err := toFloat(in.Name, v)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, apperrors.NewInvalidInput(in.Name, fmt.Sprintf("expected an integer, got %v", f))
		}
		return int(snap(in, f)), nil
	}
	return nil, apperrors.NewInvalidInput(in.Name, fmt.Sprintf("unknown input kind %q", in.Kind))
}

func toFloat(name string, v interface{}) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, apperrors.NewInvalidInput(name, fmt.Sprintf("expected a number, got %q", n.String()))
		}
		f = parsed
	default:
		return 0, apperrors.NewInvalidInput(name, fmt.Sprintf("expected a number, got %T", v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, apperrors.NewInvalidInput(name, "expected a finite number")
	}
	return f, nil
}

// snap clamps f to [Min, Max] and rounds it to the nearest Step counted from
// Min (or zero). The result is rounded to ten decimals so that 0.1 steps come
// out as the literal the host would display.
func snap(in InputSpec, f float64) float64 {
	if in.Min != nil && f < *in.Min {
		f = *in.Min
	}
	if in.Max != nil && f > *in.Max {
		f = *in.Max
	}
	if in.Step != nil && *in.Step > 0 {
		step := *in.Step
		base := 0.0
		if in.Min != nil {
			base = *in.Min
		}
		f = base + math.Round((f-base)/step)*step
		if in.Max != nil && f > *in.Max+1e-9 {
			f -= step
		}
	}
	return math.Round(f*1e10) / 1e10
}
