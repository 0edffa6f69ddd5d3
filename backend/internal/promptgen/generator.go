package promptgen

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/schema"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/templates"
	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/logger"
)

// Style selects how many worked examples go into the system prompt.
type Style int

const (
	OneShot Style = iota
	FewShot
)

var styleNames = [...]string{OneShot: "One Shot", FewShot: "Few Shot"}

// StyleNames returns the display names of every prompt style.
func StyleNames() []string {
	return styleNames[:]
}

// ParseStyle maps "One Shot" or "Few Shot" to a Style.
func ParseStyle(name string) (Style, error) {
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	return 0, apperrors.NewInvalidInput("llm_prompt_type", fmt.Sprintf("unknown prompt style %q", name))
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

const (
	elaborateCapability = "You are encouraged to create additional details not explicitly mentioned in the original prompt, while maintaining consistency with the given information. Use the complexity value to determine the level of detail and elaboration in your response."
	strictClause        = "Strictly use only the information provided in the original prompt. Do not add any details or elements not explicitly mentioned."

	oneShotIntro = "Here's an example of how to structure your response:"
	fewShotIntro = "Here are a few examples of how to structure your response for different complexity levels:"
)

// Request carries the inputs of one prompt schema invocation.
type Request struct {
	Prompt         string
	NegativePrompt string
	Complexity     float64
	Style          Style
	SchemaType     schema.Type
	Enhance        bool
	CustomSchema   string
}

// Result carries the four node outputs.
type Result struct {
	SystemPrompt   string `json:"system_prompt"`
	UserPrompt     string `json:"user_prompt"`
	NegativePrompt string `json:"negative_passthru"`
	Schema         string `json:"schema"`
}

// Generator builds system/user prompt pairs for a downstream language model.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new prompt generator
func NewGenerator() *Generator {
	return &Generator{
		logger: logger.Named("promptgen"),
	}
}

// Process resolves the schema, renders it and builds both prompts. The only
// error is an unsupported schema type; a bad custom schema falls back to the
// default skeleton.
func (g *Generator) Process(req Request) (*Result, error) {
	g.logger.Info("Generating prompts",
		zap.String("schema_type", req.SchemaType.String()),
		zap.String("style", req.Style.String()),
		zap.Bool("enhance", req.Enhance),
		zap.Bool("custom_schema", req.CustomSchema != ""),
	)

	systemPrompt, err := g.SystemPrompt(req.Style, req.SchemaType, req.Enhance)
	if err != nil {
		return nil, err
	}

	value, err := g.ResolveSchema(req.CustomSchema, req.SchemaType)
	if err != nil {
		return nil, err
	}

	rendered, err := schema.Render(value, req.SchemaType)
	if err != nil {
		return nil, fmt.Errorf("render %s schema: %w", req.SchemaType, err)
	}

	return &Result{
		SystemPrompt:   systemPrompt,
		UserPrompt:     UserPrompt(req, rendered),
		NegativePrompt: req.NegativePrompt,
		Schema:         rendered,
	}, nil
}

// ResolveSchema parses a custom schema, or returns the default skeleton when
// the custom schema is blank or cannot be parsed.
func (g *Generator) ResolveSchema(custom string, t schema.Type) (schema.Value, error) {
	if !t.Valid() {
		return nil, apperrors.NewUnsupportedSchemaType(t.String())
	}
	if strings.TrimSpace(custom) == "" {
		return templates.DefaultSchema(t)
	}

	v, err := schema.ParseCustom(custom, t)
	if err == nil {
		return v, nil
	}

	g.logger.Error("Invalid custom schema, using default",
		zap.String("schema_type", t.String()),
		zap.Error(err),
	)
	return templates.DefaultSchema(t)
}

// SystemPrompt builds the instructional system prompt with worked examples.
func (g *Generator) SystemPrompt(style Style, t schema.Type, enhance bool) (string, error) {
	base, err := templates.SystemPromptBase(t)
	if err != nil {
		return "", err
	}

	if enhance {
		base += "\n" + elaborateCapability
	} else {
		base += "\n" + strictClause
	}

	if style == OneShot {
		example, err := templates.Example(t, templates.Medium)
		if err != nil {
			return "", err
		}
		return base + "\n\n" + oneShotIntro + "\n\n" + example, nil
	}

	examples := make([]string, 0, len(templates.Tiers()))
	for _, tier := range templates.Tiers() {
		example, err := templates.Example(t, tier)
		if err != nil {
			return "", err
		}
		examples = append(examples, example)
	}
	return base + "\n\n" + fewShotIntro + "\n\n" + strings.Join(examples, "\n\n"), nil
}

// EnhancementInstruction tells the downstream model whether to elaborate.
func EnhancementInstruction(enhance bool, complexity float64) string {
	if !enhance {
		return strictClause
	}
	return "\nEnhance the prompt with additional details not explicitly mentioned, while maintaining consistency with the given information. \n" +
		"Use the complexity value of " + templates.FormatComplexity(complexity) + " to determine the level of detail and elaboration in your response. \n" +
		"Higher complexity should result in more detailed and nuanced descriptions.\n"
}

// UserPrompt interpolates the request and the rendered schema into the user
// prompt template.
func UserPrompt(req Request, renderedSchema string) string {
	name := req.SchemaType.String()

	var b strings.Builder
	b.WriteString("Generate a detailed image description based on the following prompt: \"" + req.Prompt + "\"\n\n")
	b.WriteString("Negative prompt (elements to avoid): \"" + req.NegativePrompt + "\"\n\n")
	b.WriteString(EnhancementInstruction(req.Enhance, req.Complexity) + "\n\n")
	b.WriteString("Use the following " + name + " schema to structure your response. Replace the placeholders with appropriate, detailed content:\n")
	b.WriteString(renderedSchema + "\n\n")
	b.WriteString("Ensure that your response adheres strictly to this schema, providing detailed and creative content for each field. Make sure to avoid including any elements mentioned in the negative prompt.\n\n")
	b.WriteString("Your response should be a valid " + name + " structure that follows the provided schema.")
	return b.String()
}
