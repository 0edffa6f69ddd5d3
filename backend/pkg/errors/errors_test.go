package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsErrorType_WrappedTypedError(t *testing.T) {
	err := fmt.Errorf("count tokens: %w", NewTokenizerUnavailable("t5-xxl", nil))

	if !IsErrorType(err, ErrorTypeTokenizer) {
		t.Fatalf("expected tokenizer error type, got %v", err)
	}
	if IsErrorType(err, ErrorTypeInput) {
		t.Error("did not expect input error type")
	}

	var unavailable *ErrTokenizerUnavailable
	if !stderrors.As(err, &unavailable) {
		t.Fatal("expected errors.As to find ErrTokenizerUnavailable")
	}
	if unavailable.Name != "t5-xxl" {
		t.Errorf("expected name t5-xxl, got %s", unavailable.Name)
	}
}

func TestBaseError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := NewSchemaParseError("JSON", "syntax error", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected schema parse error to wrap its cause")
	}
	want := "[schema] invalid custom JSON schema: syntax error: unexpected end of JSON input"
	if err.Error() != want {
		t.Errorf("unexpected message:\n got: %s\nwant: %s", err.Error(), want)
	}
}

func TestTypeOf(t *testing.T) {
	if typ, ok := TypeOf(NewNodeNotFound("Missing")); !ok || typ != ErrorTypeNode {
		t.Errorf("expected node type, got %q (%v)", typ, ok)
	}
	if _, ok := TypeOf(stderrors.New("plain")); ok {
		t.Error("plain errors have no category")
	}
	if !IsErrorType(ErrLLMNoResponse, ErrorTypeLLM) {
		t.Error("sentinel should carry llm type")
	}
}
