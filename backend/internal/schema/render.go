package schema

import (
	"fmt"
	"strings"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

const jsonIndent = "  "

func renderStructured(_ Type, v Value) (string, error) {
	var b strings.Builder
	writeJSON(&b, v, 0)
	return b.String(), nil
}

func renderHTML(t Type, v Value) (string, error) {
	switch tv := v.(type) {
	case Text:
		return string(tv), nil
	case Map:
		return formatTags(tv, ""), nil
	}
	return "", apperrors.NewSchemaShapeMismatch(t.String(), shapeOf(v))
}

func renderKey(t Type, v Value) (string, error) {
	switch tv := v.(type) {
	case Text:
		return string(tv), nil
	case Map:
		return formatPaths(tv, ""), nil
	}
	return "", apperrors.NewSchemaShapeMismatch(t.String(), shapeOf(v))
}

func renderLines(t Type, v Value) (string, error) {
	switch tv := v.(type) {
	case Text:
		return string(tv), nil
	case List:
		out := make([]string, len(tv))
		for i, item := range tv {
			line, ok := item.(Text)
			if !ok {
				return "", apperrors.NewSchemaShapeMismatch(t.String(), "list of "+shapeOf(item))
			}
			out[i] = string(line)
		}
		return strings.Join(out, "\n"), nil
	}
	return "", apperrors.NewSchemaShapeMismatch(t.String(), shapeOf(v))
}

func placeholder(key string) string {
	return "[appropriate " + key + "]"
}

// formatTags renders a mapping as nested <key></key> pairs. Nested blocks are
// joined as single entries so an empty nested mapping leaves a blank line.
func formatTags(m Map, indent string) string {
	out := make([]string, 0, len(m))
	wrap := func(key string, inner Map) {
		out = append(out, indent+"<"+key+">", formatTags(inner, indent+"  "), indent+"</"+key+">")
	}
	leaf := func(key string) {
		out = append(out, indent+"<"+key+">"+placeholder(key)+"</"+key+">")
	}

	for _, f := range m {
		switch v := f.Value.(type) {
		case Map:
			wrap(f.Key, v)
		case List:
			for _, item := range v {
				if inner, ok := item.(Map); ok {
					wrap(f.Key, inner)
				} else {
					leaf(f.Key)
				}
			}
		default:
			leaf(f.Key)
		}
	}
	return strings.Join(out, "\n")
}

// formatPaths renders a mapping as "a.b[0].c: [appropriate c]" lines.
func formatPaths(m Map, prefix string) string {
	out := make([]string, 0, len(m))
	for _, f := range m {
		switch v := f.Value.(type) {
		case Map:
			out = append(out, formatPaths(v, prefix+f.Key+"."))
		case List:
			for i, item := range v {
				if inner, ok := item.(Map); ok {
					out = append(out, formatPaths(inner, fmt.Sprintf("%s%s[%d].", prefix, f.Key, i)))
				} else {
					out = append(out, fmt.Sprintf("%s%s[%d]: %s", prefix, f.Key, i, placeholder(f.Key)))
				}
			}
		default:
			out = append(out, prefix+f.Key+": "+placeholder(f.Key))
		}
	}
	return strings.Join(out, "\n")
}

// writeJSON pretty prints v with two-space indentation, ": " after keys and
// non-ASCII characters escaped, the layout prompt authors expect to see.
func writeJSON(b *strings.Builder, v Value, level int) {
	switch tv := v.(type) {
	case Map:
		if len(tv) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{")
		for i, f := range tv {
			if i > 0 {
				b.WriteString(",")
			}
			newline(b, level+1)
			writeString(b, f.Key)
			b.WriteString(": ")
			writeJSON(b, f.Value, level+1)
		}
		newline(b, level)
		b.WriteString("}")
	case List:
		if len(tv) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[")
		for i, item := range tv {
			if i > 0 {
				b.WriteString(",")
			}
			newline(b, level+1)
			writeJSON(b, item, level+1)
		}
		newline(b, level)
		b.WriteString("]")
	case Text:
		writeString(b, string(tv))
	case Raw:
		b.WriteString(string(tv))
	default:
		b.WriteString("null")
	}
}

func newline(b *strings.Builder, level int) {
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(jsonIndent, level))
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				b.WriteRune(r)
			case r < 0x10000:
				fmt.Fprintf(b, `\u%04x`, r)
			default:
				r -= 0x10000
				fmt.Fprintf(b, `\u%04x\u%04x`, 0xd800+(r>>10), 0xdc00+(r&0x3ff))
			}
		}
	}
	b.WriteByte('"')
}

func shapeOf(v Value) string {
	if v == nil {
		return "null"
	}
	return v.shape()
}
