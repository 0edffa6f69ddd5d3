// Package models holds the named model handles the token counter resolves.
package models

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/tokenizer"
	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/logger"
)

// Spec declares one model handle in the models file.
type Spec struct {
	Name               string `yaml:"name"`
	Tokenizer          string `yaml:"tokenizer,omitempty"`
	SecondaryTokenizer string `yaml:"secondary_tokenizer,omitempty"`
}

// File is the models file layout.
type File struct {
	Models []Spec `yaml:"models"`
}

// Parse decodes a models file and checks that names are present and unique.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse models file: %w", err)
	}
	seen := make(map[string]bool, len(f.Models))
	for i, m := range f.Models {
		if m.Name == "" {
			return nil, apperrors.NewConfigValidationFailed("models", fmt.Sprintf("entry %d has no name", i))
		}
		if seen[m.Name] {
			return nil, apperrors.NewConfigValidationFailed("models", fmt.Sprintf("duplicate model %q", m.Name))
		}
		seen[m.Name] = true
	}
	return &f, nil
}

// LoadFile reads a models file. An empty path or a missing file yields no
// models.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Get().Warn("Models file not found, no model handles declared", zap.String("path", path))
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read models file: %w", err)
	}
	return Parse(data)
}

// Handle is a loaded model. It exposes whichever tokenizers it was declared
// with and loaded successfully.
type Handle struct {
	name      string
	primary   tokenizer.Tokenizer
	secondary tokenizer.Tokenizer
}

// Bare returns a handle that exposes no tokenizers.
func Bare(name string) *Handle {
	return &Handle{name: name}
}

func (h *Handle) Name() string { return h.name }

func (h *Handle) PrimaryTokenizer() (tokenizer.Tokenizer, bool) {
	return h.primary, h.primary != nil
}

func (h *Handle) SecondaryTokenizer() (tokenizer.Tokenizer, bool) {
	return h.secondary, h.secondary != nil
}

// Registry resolves model names to handles.
type Registry struct {
	handles map[string]*Handle
	logger  *zap.Logger
}

// NewRegistry loads the tokenizers each spec declares through source. A
// tokenizer that fails to load is logged and left off the handle.
func NewRegistry(specs []Spec, source tokenizer.Source) *Registry {
	r := &Registry{
		handles: make(map[string]*Handle, len(specs)),
		logger:  logger.Named("models"),
	}
	for _, spec := range specs {
		h := Bare(spec.Name)
		h.primary = r.load(spec.Name, "primary", spec.Tokenizer, source)
		h.secondary = r.load(spec.Name, "secondary", spec.SecondaryTokenizer, source)
		r.handles[spec.Name] = h

		r.logger.Info("Model handle registered",
			zap.String("model", spec.Name),
			zap.Bool("primary_tokenizer", h.primary != nil),
			zap.Bool("secondary_tokenizer", h.secondary != nil),
		)
	}
	return r
}

func (r *Registry) load(model, role, name string, source tokenizer.Source) tokenizer.Tokenizer {
	if name == "" || source == nil {
		return nil
	}
	tok, err := source.Load(name)
	if err != nil {
		r.logger.Warn("Model tokenizer unavailable, counts will use the fallback",
			zap.String("model", model),
			zap.String("role", role),
			zap.String("tokenizer", name),
			zap.Error(err),
		)
		return nil
	}
	return tok
}

// Resolve returns the handle for name. The empty name resolves to a bare
// handle.
func (r *Registry) Resolve(name string) (*Handle, error) {
	if name == "" {
		return Bare(""), nil
	}
	h, ok := r.handles[name]
	if !ok {
		return nil, apperrors.NewInvalidInput("model", fmt.Sprintf("unknown model %q", name))
	}
	return h, nil
}

// ResolveModel is Resolve for callers that only need the tokenizer view of
// a handle.
func (r *Registry) ResolveModel(name string) (tokenizer.Model, error) {
	h, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Names returns the registered model names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
