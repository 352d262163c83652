package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotObject is returned when text parses as JSON but is not an object.
var ErrNotObject = errors.New("not a JSON object")

// ParseObject parses text as a single JSON object. Numbers are kept as
// [json.Number] so large integer claims survive a round trip unchanged.
func ParseObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrNotObject
	}
	// Trailing garbage after the object is a syntax error, not silence.
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return nil, ErrNotObject
	}
	return obj, nil
}

// ParseObjectBytes is ParseObject over a raw byte slice.
func ParseObjectBytes(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrNotObject
	}
	return obj, nil
}

// Pretty renders an object as deterministic two-space-indented JSON. Keys are
// emitted in sorted order, so equal objects always render to equal text.
func Pretty(obj map[string]any) (string, error) {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
