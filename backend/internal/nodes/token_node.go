package nodes

import (
	"context"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/tokenizer"
)

const TokenCounterName = "TokenCounter"

// ModelResolver maps a model name from the graph to a handle.
type ModelResolver interface {
	ResolveModel(name string) (tokenizer.Model, error)
}

// ModelResolverFunc adapts a function to ModelResolver.
type ModelResolverFunc func(name string) (tokenizer.Model, error)

func (f ModelResolverFunc) ResolveModel(name string) (tokenizer.Model, error) { return f(name) }

// TokenCountNode reports how many tokens a text costs for the primary and,
// optionally, secondary text encoder of a model.
type TokenCountNode struct {
	counter *tokenizer.Counter
	models  ModelResolver
}

func NewTokenCountNode(counter *tokenizer.Counter, models ModelResolver) *TokenCountNode {
	return &TokenCountNode{counter: counter, models: models}
}

func (n *TokenCountNode) Descriptor() Descriptor {
	return Descriptor{
		Name:        TokenCounterName,
		DisplayName: "Token Counter",
		Category:    "utils",
		Function:    "count_tokens",
		Inputs: []InputSpec{
			{Name: "text", Kind: KindString, Required: true, Multiline: true},
			{Name: "model", Kind: KindModel, Required: true},
			{Name: "use_clip", Kind: KindBoolean, Default: false},
		},
		Outputs: []OutputSpec{
			{Name: "t5_token_count", Kind: KindInt},
			{Name: "clip_token_count", Kind: KindInt},
		},
	}
}

func (n *TokenCountNode) Run(_ context.Context, args Args) ([]interface{}, error) {
	model, err := n.models.ResolveModel(args.String("model"))
	if err != nil {
		return nil, err
	}
	counts, err := n.counter.Count(args.String("text"), model, args.Bool("use_clip"))
	if err != nil {
		return nil, err
	}
	var secondary interface{}
	if counts.Secondary != nil {
		secondary = *counts.Secondary
	}
	return []interface{}{counts.Primary, secondary}, nil
}
