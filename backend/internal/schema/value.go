package schema

// Value is a schema document node: Text, Raw, List or Map.
type Value interface {
	shape() string
}

// Text is a string scalar. For the HTML and Key schema types a top-level Text
// holds an already formatted schema and is emitted verbatim.
type Text string

// Raw is a non-string scalar kept as a JSON token (number, true, false or
// null). Non-integer numbers are normalised by FormatFloat.
type Raw string

// List is an ordered sequence of values.
type List []Value

// Field is one key/value pair of a Map.
type Field struct {
	Key   string
	Value Value
}

// Map is an ordered mapping. Keys are unique and keep insertion order.
type Map []Field

func (Text) shape() string { return "text" }
func (Raw) shape() string  { return "scalar" }
func (List) shape() string { return "list" }
func (Map) shape() string  { return "mapping" }

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key in place, or appends a new field.
func (m Map) Set(key string, v Value) Map {
	for i := range m {
		if m[i].Key == key {
			m[i].Value = v
			return m
		}
	}
	return append(m, Field{Key: key, Value: v})
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, f := range m {
		keys[i] = f.Key
	}
	return keys
}

// Lines builds a List of Text from plain strings.
func Lines(lines ...string) List {
	l := make(List, len(lines))
	for i, s := range lines {
		l[i] = Text(s)
	}
	return l
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch t := v.(type) {
	case List:
		out := make(List, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	case Map:
		out := make(Map, len(t))
		for i, f := range t {
			out[i] = Field{Key: f.Key, Value: Clone(f.Value)}
		}
		return out
	default:
		return v
	}
}
