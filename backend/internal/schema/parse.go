package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

// parseStructured decodes a JSON object keeping the key order of the source.
func parseStructured(t Type, text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, apperrors.NewSchemaParseError(t.String(), "malformed JSON", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("extra data after offset %d", dec.InputOffset())
		}
		return nil, apperrors.NewSchemaParseError(t.String(), "malformed JSON", err)
	}
	if _, ok := v.(Map); !ok {
		return nil, apperrors.NewSchemaParseError(t.String(), "schema must be a JSON object", nil)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch tv := tok.(type) {
	case json.Delim:
		switch tv {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(tv))
	case string:
		return Text(tv), nil
	case json.Number:
		return Raw(numberToken(tv)), nil
	case bool:
		if tv {
			return Raw("true"), nil
		}
		return Raw("false"), nil
	case nil:
		return Raw("null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	m := Map{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		// A repeated key keeps its first position and its last value.
		m = m.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	l := List{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return l, nil
}

// parseLiteral keeps pre-formatted HTML or Key text as is.
func parseLiteral(t Type, text string) (Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperrors.NewSchemaParseError(t.String(), "schema is empty", nil)
	}
	return Text(trimmed), nil
}

// parseLines splits attribute text into one entry per line.
func parseLines(t Type, text string) (Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperrors.NewSchemaParseError(t.String(), "schema is empty", nil)
	}
	return Lines(strings.Split(trimmed, "\n")...), nil
}

// numberToken reprints a JSON number the way a decode and re-encode round
// trip does: integers keep their digits, anything with a fraction or exponent
// becomes a float.
func numberToken(n json.Number) string {
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0"
		}
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(f, 0) {
		return lit
	}
	return FormatFloat(f)
}

// FormatFloat prints f as its shortest round-trip repr with at least one
// decimal place: 1 is "1.0", 1e5 is "100000.0", 1e16 is "1e+16". Infinities
// print as "Infinity" and "-Infinity".
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
