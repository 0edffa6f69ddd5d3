// Package tokenizer counts tokens for text against the tokenizers a model
// exposes, falling back to well-known pretrained tokenizers found in the local
// HuggingFace cache.
package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/logger"
)

// Tokenizer encodes text into token ids.
type Tokenizer interface {
	Encode(text string) ([]int, error)
}

// Model is a loaded model handle. It may additionally implement
// PrimaryTokenizerProvider and/or SecondaryTokenizerProvider.
type Model interface {
	Name() string
}

// PrimaryTokenizerProvider is implemented by models that carry their own
// primary (T5-style) tokenizer.
type PrimaryTokenizerProvider interface {
	PrimaryTokenizer() (Tokenizer, bool)
}

// SecondaryTokenizerProvider is implemented by models that carry their own
// secondary (CLIP-style) tokenizer.
type SecondaryTokenizerProvider interface {
	SecondaryTokenizer() (Tokenizer, bool)
}

// Source loads tokenizers by name.
type Source interface {
	Load(name string) (Tokenizer, error)
}

// Counts holds the result of one count. Secondary is nil unless requested.
type Counts struct {
	Primary   int  `json:"primary"`
	Secondary *int `json:"secondary"`
}

// Counter reports token counts for text.
type Counter struct {
	source        Source
	primaryName   string
	secondaryName string
	logger        *zap.Logger
}

// NewCounter creates a counter that falls back to the named tokenizers when a
// model does not expose its own.
func NewCounter(source Source, primaryName, secondaryName string) *Counter {
	return &Counter{
		source:        source,
		primaryName:   primaryName,
		secondaryName: secondaryName,
		logger:        logger.Named("tokenizer"),
	}
}

// Count encodes text with the primary tokenizer and, when useSecondary is
// set, with the secondary tokenizer as well.
func (c *Counter) Count(text string, model Model, useSecondary bool) (*Counts, error) {
	if !utf8.ValidString(text) {
		return nil, apperrors.NewInvalidInput("text", "input text must be a string")
	}

	primary, err := c.primaryTokenizer(model)
	if err != nil {
		return nil, err
	}
	n, err := encodeCount(primary, text)
	if err != nil {
		return nil, fmt.Errorf("primary tokenizer: %w", err)
	}
	counts := &Counts{Primary: n}

	if useSecondary {
		secondary, err := c.secondaryTokenizer(model)
		if err != nil {
			return nil, err
		}
		m, err := encodeCount(secondary, text)
		if err != nil {
			return nil, fmt.Errorf("secondary tokenizer: %w", err)
		}
		counts.Secondary = &m
	}

	c.logger.Debug("Counted tokens",
		zap.String("model", modelName(model)),
		zap.Int("primary", counts.Primary),
		zap.Bool("secondary", counts.Secondary != nil),
	)
	return counts, nil
}

func (c *Counter) primaryTokenizer(model Model) (Tokenizer, error) {
	if p, ok := model.(PrimaryTokenizerProvider); ok {
		if tok, ok := p.PrimaryTokenizer(); ok && tok != nil {
			return tok, nil
		}
	}
	c.logger.Debug("Model exposes no primary tokenizer, using fallback",
		zap.String("model", modelName(model)),
		zap.String("fallback", c.primaryName),
	)
	return c.source.Load(c.primaryName)
}

func (c *Counter) secondaryTokenizer(model Model) (Tokenizer, error) {
	if p, ok := model.(SecondaryTokenizerProvider); ok {
		if tok, ok := p.SecondaryTokenizer(); ok && tok != nil {
			return tok, nil
		}
	}
	c.logger.Debug("Model exposes no secondary tokenizer, using fallback",
		zap.String("model", modelName(model)),
		zap.String("fallback", c.secondaryName),
	)
	return c.source.Load(c.secondaryName)
}

func encodeCount(tok Tokenizer, text string) (int, error) {
	ids, err := tok.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func modelName(model Model) string {
	if model == nil {
		return ""
	}
	return model.Name()
}
