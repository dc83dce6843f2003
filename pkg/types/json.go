package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// decodeJSON walks the token stream of a valid JSON document so that object
// keys keep their source order. A repeated key keeps its first position and
// takes the last value.
func decodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return Undefined, fmt.Errorf("decode document: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Undefined, fmt.Errorf("decode document: trailing data after JSON value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Undefined, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewOrderedMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Undefined, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Undefined, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Undefined, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Undefined, err
			}
			return NewObject(m), nil
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Undefined, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil {
				return Undefined, err
			}
			return NewArray(items), nil
		}
		return Undefined, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return NewString(t), nil
	case json.Number:
		// Out-of-range literals such as 1e400 come back as ±Inf with
		// ErrRange, which is the JSON.parse result.
		f, _ := strconv.ParseFloat(t.String(), 64)
		return NewNumber(f), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return Null, nil
	}
	return Undefined, fmt.Errorf("unexpected token %v", tok)
}
