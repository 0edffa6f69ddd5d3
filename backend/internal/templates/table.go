// Package templates holds the compiled-in prompt data used by the prompt
// schema node: per schema type system prompt text, default schema skeletons and
// worked examples at three complexity tiers.
package templates

import (
	"fmt"
	"strings"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/schema"
	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

// Tier is a complexity bucket used only for worked examples.
type Tier int

const (
	Low Tier = iota
	Medium
	High
)

// Tiers returns the example tiers from least to most detailed.
func Tiers() []Tier {
	return []Tier{Low, Medium, High}
}

type tierPrompt struct {
	name           string
	prompt         string
	negativePrompt string
	complexity     float64
}

var tierPrompts = [...]tierPrompt{
	Low:    {"low", "A cat", "dogs, human elements", 0.1},
	Medium: {"medium", "A bustling city street at night", "daytime, rural elements", 0.5},
	High:   {"high", "A fantastical underwater civilization with merpeople and futuristic technology", "land animals, surface world elements", 1.0},
}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierPrompts) {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierPrompts[t].name
}

// Prompt returns the canned prompt, negative prompt and complexity of the tier.
func (t Tier) Prompt() (prompt, negativePrompt string, complexity float64) {
	p := tierPrompts[t]
	return p.prompt, p.negativePrompt, p.complexity
}

// SystemPromptBase returns the instructional preamble for a schema type.
func SystemPromptBase(t schema.Type) (string, error) {
	if !t.Valid() {
		return "", apperrors.NewUnsupportedSchemaType(t.String())
	}
	return "You are an AI assistant specialized in generating detailed image descriptions based on user prompts. " +
		"Your task is to take the user's input and create a structured, detailed description that can be used for image generation. " +
		"Use the provided " + t.String() + " schema to organize the information, and adjust the level of detail based on the complexity value given. " +
		"The user will provide both a positive prompt describing what should be in the image and a negative prompt describing what should NOT be in the image. " +
		"Ensure that your description does not include any elements mentioned in the negative prompt.  Lastly you will reply ONLY with the answer, no preamble or summary is needed.", nil
}

// DefaultSchema returns a fresh copy of the default skeleton for a schema type.
func DefaultSchema(t schema.Type) (schema.Value, error) {
	v, ok := defaultSchemas[t]
	if !ok {
		return nil, apperrors.NewUnsupportedSchemaType(t.String())
	}
	return schema.Clone(v), nil
}

// Example returns a complete worked example for a schema type and tier.
func Example(t schema.Type, tier Tier) (string, error) {
	outputs, ok := exampleOutputs[t]
	if !ok {
		return "", apperrors.NewUnsupportedSchemaType(t.String())
	}
	if tier < Low || tier > High {
		return "", fmt.Errorf("unknown example tier %d", int(tier))
	}

	prompt, negative, complexity := tier.Prompt()
	var b strings.Builder
	b.WriteString("Prompt: " + prompt + "\n")
	b.WriteString("Negative prompt: " + negative + "\n")
	b.WriteString("Complexity: " + FormatComplexity(complexity) + "\n\n")
	b.WriteString("Output:\n")
	b.WriteString(outputs[tier])
	return b.String(), nil
}

// FormatComplexity prints a complexity value with at least one decimal place,
// so 1 is shown as "1.0" and 0.5 as "0.5".
func FormatComplexity(c float64) string {
	return schema.FormatFloat(c)
}
