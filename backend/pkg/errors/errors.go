package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeSchema represents schema parsing and rendering errors
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeTokenizer represents tokenizer resolution errors
	ErrorTypeTokenizer ErrorType = "tokenizer"
	// ErrorTypeInput represents node input validation errors
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeNode represents node registry errors
	ErrorTypeNode ErrorType = "node"
	// ErrorTypeLLM represents downstream LLM errors
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error category. Promoted to every typed error that
// embeds *BaseError.
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Schema Errors

// ErrSchemaParse is returned when a custom schema cannot be parsed for its schema type
type ErrSchemaParse struct {
	*BaseError
	SchemaType string
}

func NewSchemaParseError(schemaType, reason string, err error) *ErrSchemaParse {
	return &ErrSchemaParse{
		BaseError:  NewBaseError(ErrorTypeSchema, fmt.Sprintf("invalid custom %s schema: %s", schemaType, reason), err),
		SchemaType: schemaType,
	}
}

// ErrUnsupportedSchemaType is returned for a schema type outside the supported set
type ErrUnsupportedSchemaType struct {
	*BaseError
	SchemaType string
}

func NewUnsupportedSchemaType(schemaType string) *ErrUnsupportedSchemaType {
	return &ErrUnsupportedSchemaType{
		BaseError:  NewBaseError(ErrorTypeSchema, fmt.Sprintf("unsupported schema type: %s", schemaType), nil),
		SchemaType: schemaType,
	}
}

// ErrSchemaShapeMismatch is returned when a schema value cannot be rendered by a schema type
type ErrSchemaShapeMismatch struct {
	*BaseError
	SchemaType string
	Shape      string
}

func NewSchemaShapeMismatch(schemaType, shape string) *ErrSchemaShapeMismatch {
	return &ErrSchemaShapeMismatch{
		BaseError:  NewBaseError(ErrorTypeSchema, fmt.Sprintf("%s schema cannot render a %s value", schemaType, shape), nil),
		SchemaType: schemaType,
		Shape:      shape,
	}
}

// Input Errors

// ErrInvalidInput is returned when a node input does not satisfy its descriptor
type ErrInvalidInput struct {
	*BaseError
	Field  string
	Reason string
}

func NewInvalidInput(field, reason string) *ErrInvalidInput {
	return &ErrInvalidInput{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("invalid input %q: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Tokenizer Errors

// ErrTokenizerUnavailable is returned when a tokenizer cannot be resolved locally
type ErrTokenizerUnavailable struct {
	*BaseError
	Name string
}

func NewTokenizerUnavailable(name string, err error) *ErrTokenizerUnavailable {
	return &ErrTokenizerUnavailable{
		BaseError: NewBaseError(ErrorTypeTokenizer, fmt.Sprintf("tokenizer not available locally: %s", name), err),
		Name:      name,
	}
}

// Node Errors

// ErrNodeNotFound is returned when a requested node is not registered
type ErrNodeNotFound struct {
	*BaseError
	Node string
}

func NewNodeNotFound(node string) *ErrNodeNotFound {
	return &ErrNodeNotFound{
		BaseError: NewBaseError(ErrorTypeNode, fmt.Sprintf("node not found: %s", node), nil),
		Node:      node,
	}
}

// LLM Errors

// ErrLLMNoResponse is returned when the LLM returns no choices
var ErrLLMNoResponse = NewBaseError(ErrorTypeLLM, "no response from LLM", nil)

// ErrLLMRequestFailed is returned when the LLM request fails after retries
type ErrLLMRequestFailed struct {
	*BaseError
	Model    string
	Attempts int
}

func NewLLMRequestFailed(model string, attempts int, err error) *ErrLLMRequestFailed {
	return &ErrLLMRequestFailed{
		BaseError: NewBaseError(ErrorTypeLLM, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type categorized interface {
	Category() ErrorType
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if c, ok := err.(categorized); ok && c.Category() == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// TypeOf returns the category of the first categorized error in the chain
func TypeOf(err error) (ErrorType, bool) {
	var c categorized
	if stderrors.As(err, &c) {
		return c.Category(), true
	}
	return "", false
}
