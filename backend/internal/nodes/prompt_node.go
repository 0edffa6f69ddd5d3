package nodes

import (
	"context"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/promptgen"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/schema"
)

const PromptJSONName = "PromptJSON"

// PromptSchemaNode turns a prompt into a system/user prompt pair that asks an
// LLM for a structured description in the chosen schema notation.
type PromptSchemaNode struct {
	generator *promptgen.Generator
}

func NewPromptSchemaNode(g *promptgen.Generator) *PromptSchemaNode {
	return &PromptSchemaNode{generator: g}
}

func (n *PromptSchemaNode) Descriptor() Descriptor {
	return Descriptor{
		Name:        PromptJSONName,
		DisplayName: "Prompt JSON",
		Category:    "prompt_converters",
		Function:    "process",
		Inputs: []InputSpec{
			{Name: "prompt", Kind: KindString, Required: true, Multiline: true},
			{Name: "negative_prompt", Kind: KindString, Required: true, Multiline: true},
			{Name: "complexity", Kind: KindFloat, Required: true, Default: 0.5, Min: float(0.1), Max: float(1.0), Step: float(0.1)},
			{Name: "llm_prompt_type", Kind: KindCombo, Required: true, Options: promptgen.StyleNames()},
			{Name: "schema_type", Kind: KindCombo, Required: true, Options: schema.Names()},
			{Name: "enhance_prompt", Kind: KindBoolean, Required: true, Default: false},
			{Name: "custom_schema", Kind: KindString, Multiline: true},
		},
		Outputs: []OutputSpec{
			{Name: "system_prompt", Kind: KindString},
			{Name: "user_prompt", Kind: KindString},
			{Name: "negative_passthru", Kind: KindString},
			{Name: "schema", Kind: KindString},
		},
	}
}

func (n *PromptSchemaNode) Run(_ context.Context, args Args) ([]interface{}, error) {
	req, err := RequestFromArgs(args)
	if err != nil {
		return nil, err
	}
	res, err := n.generator.Process(req)
	if err != nil {
		return nil, err
	}
	return []interface{}{res.SystemPrompt, res.UserPrompt, res.NegativePrompt, res.Schema}, nil
}

// RequestFromArgs builds a generation request from coerced PromptJSON
// arguments.
func RequestFromArgs(args Args) (promptgen.Request, error) {
	style, err := promptgen.ParseStyle(args.String("llm_prompt_type"))
	if err != nil {
		return promptgen.Request{}, err
	}
	typ, err := schema.ParseType(args.String("schema_type"))
	if err != nil {
		return promptgen.Request{}, err
	}
	return promptgen.Request{
		Prompt:         args.String("prompt"),
		NegativePrompt: args.String("negative_prompt"),
		Complexity:     args.Float("complexity"),
		Style:          style,
		SchemaType:     typ,
		Enhance:        args.Bool("enhance_prompt"),
		CustomSchema:   args.String("custom_schema"),
	}, nil
}
