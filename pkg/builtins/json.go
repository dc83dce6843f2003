package builtins

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/lemonberrylabs/asteval/pkg/types"
)

// registerJSON registers JSON.stringify and JSON.parse.
func (r *Registry) registerJSON() {
	r.Register("JSON.stringify", jsonStringify)
	r.Register("JSON.parse", jsonParse)
}

// jsonStringify supports the value and space arguments; a replacer is
// ignored.
func jsonStringify(args []types.Value) (types.Value, error) {
	v := arg(args, 0)
	if v.Type() == types.TypeUndefined || v.Type() == types.TypeFunction {
		return types.Undefined, nil
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return types.Undefined, err
	}

	indent := ""
	switch space := arg(args, 2); space.Type() {
	case types.TypeNumber:
		// Clamp before converting so Infinity and NaN stay well defined.
		if f := math.Min(10, space.AsNumber()); f >= 1 {
			indent = strings.Repeat(" ", int(f))
		}
	case types.TypeString:
		indent = space.AsString()
		if r := []rune(indent); len(r) > 10 {
			indent = string(r[:10])
		}
	}
	if indent != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", indent); err != nil {
			return types.Undefined, err
		}
		b = buf.Bytes()
	}
	return types.NewString(string(b)), nil
}

func jsonParse(args []types.Value) (types.Value, error) {
	text := []byte(types.ToString(arg(args, 0)))
	if !json.Valid(text) {
		return types.Undefined, fmt.Errorf("SyntaxError: JSON.parse: invalid JSON input")
	}
	return types.DecodeDocument(text)
}
