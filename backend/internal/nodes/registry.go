package nodes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/logger"
)

// Outputs holds a node's results under their declared names, in declared
// order.
type Outputs struct {
	names  []string
	values map[string]interface{}
}

func newOutputs(specs []OutputSpec, values []interface{}) (*Outputs, error) {
	if len(values) != len(specs) {
		return nil, fmt.Errorf("node returned %d outputs, declared %d", len(values), len(specs))
	}
	o := &Outputs{
		names:  make([]string, len(specs)),
		values: make(map[string]interface{}, len(specs)),
	}
	for i, spec := range specs {
		o.names[i] = spec.Name
		o.values[spec.Name] = values[i]
	}
	return o, nil
}

// Names returns output names in declared order.
func (o *Outputs) Names() []string {
	return append([]string(nil), o.names...)
}

// Get returns the named output. Absent optional outputs are nil.
func (o *Outputs) Get(name string) (interface{}, bool) {
	v, ok := o.values[name]
	return v, ok
}

// MarshalJSON writes the outputs as an object whose keys follow declared
// order.
func (o *Outputs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[name])
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Registry holds the nodes a host can call.
type Registry struct {
	mu     sync.RWMutex
	nodes  map[string]Node
	order  []string
	logger *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:  make(map[string]Node),
		logger: logger.Named("nodes"),
	}
}

// Register adds a node under its descriptor name.
func (r *Registry) Register(n Node) error {
	d := n.Descriptor()
	if d.Name == "" {
		return fmt.Errorf("node descriptor has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[d.Name]; exists {
		return fmt.Errorf("node %s already registered", d.Name)
	}
	r.nodes[d.Name] = n
	r.order = append(r.order, d.Name)

	r.logger.Info("Node registered",
		zap.String("node", d.Name),
		zap.String("category", d.Category),
		zap.Int("inputs", len(d.Inputs)),
		zap.Int("outputs", len(d.Outputs)),
	)
	return nil
}

// Get returns the named node.
func (r *Registry) Get(name string) (Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[name]
	if !ok {
		return nil, apperrors.NewNodeNotFound(name)
	}
	return n, nil
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.nodes[name].Descriptor())
	}
	return out
}

// Invoke coerces raw against the node's descriptor and runs it.
func (r *Registry) Invoke(ctx context.Context, name string, raw Args) (*Outputs, error) {
	n, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	d := n.Descriptor()

	args, err := Coerce(d, raw)
	if err != nil {
		r.logger.Debug("Rejected node arguments", zap.String("node", name), zap.Error(err))
		return nil, err
	}

	start := time.Now()
	values, err := n.Run(ctx, args)
	if err != nil {
		r.logger.Warn("Node failed",
			zap.String("node", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	outputs, err := newOutputs(d.Outputs, values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	r.logger.Debug("Node invoked",
		zap.String("node", name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return outputs, nil
}
