package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Field is one key/value pair of an Input.
type Field struct {
	Name  string
	Value any
}

// Input is a decoded JSON object that keeps its key order. A nil Value means
// the key was present with a JSON null.
type Input struct {
	fields []Field
}

// NewInput builds an Input from fields. A repeated name replaces the earlier
// value but keeps its position.
func NewInput(fields ...Field) Input {
	var in Input
	for _, f := range fields {
		in.Set(f.Name, f.Value)
	}
	return in
}

// Get returns the value stored under name.
func (in Input) Get(name string) (any, bool) {
	for _, f := range in.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set stores value under name.
func (in *Input) Set(name string, value any) {
	for i := range in.fields {
		if in.fields[i].Name == name {
			in.fields[i].Value = value
			return
		}
	}
	in.fields = append(in.fields, Field{Name: name, Value: value})
}

// Fields returns the pairs in input order.
func (in Input) Fields() []Field {
	return append([]Field(nil), in.fields...)
}

func (in Input) Len() int { return len(in.fields) }

// MarshalJSON writes the object with its keys in input order.
func (in Input) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range in.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrNotObject is returned by DecodeObject when the payload is valid JSON but
// not an object.
var ErrNotObject = errors.New("request body must be a JSON object")

// DecodeObject reads one JSON object from r. An empty body decodes to an empty
// Input. Numbers are kept as json.Number.
func DecodeObject(r io.Reader) (Input, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return Input{}, nil
	}
	if err != nil {
		return Input{}, fmt.Errorf("DecodeObject: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Input{}, ErrNotObject
	}

	var in Input
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Input{}, fmt.Errorf("DecodeObject key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Input{}, fmt.Errorf("DecodeObject: unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return Input{}, fmt.Errorf("DecodeObject %q: %w", key, err)
		}
		in.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Input{}, fmt.Errorf("DecodeObject close: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Input{}, errors.New("DecodeObject: trailing data after object")
	}
	return in, nil
}

// ToNumber coerces v to a finite number. JSON numbers, Go numeric types and
// numeric strings qualify; everything else does not.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// WithDefaults returns a copy of in where every absent or null field that
// declares a Default holds that default.
func WithDefaults(rules RuleSet, in Input) Input {
	out := NewInput(in.fields...)
	for _, r := range rules {
		if r.Default == nil {
			continue
		}
		if v, ok := out.Get(r.Field); !ok || v == nil {
			out.Set(r.Field, r.Default)
		}
	}
	return out
}
