package builtins

import (
	"math"
	"regexp"
	"strconv"

	"github.com/lemonberrylabs/asteval/pkg/types"
)

var floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// registerGlobals registers global constants and conversion functions.
func (r *Registry) registerGlobals() {
	r.RegisterValue("undefined", types.Undefined)
	r.RegisterValue("NaN", types.NewNumber(math.NaN()))
	r.RegisterValue("Infinity", types.NewNumber(math.Inf(1)))
	r.Register("Number", toNumber)
	r.Register("String", toString)
	r.Register("Boolean", toBoolean)
	r.Register("parseInt", parseInt)
	r.Register("parseFloat", parseFloat)
	r.Register("isNaN", isNaN)
	r.Register("isFinite", isFinite)
}

func toNumber(args []types.Value) (types.Value, error) {
	if len(args) == 0 {
		return types.NewNumber(0), nil
	}
	return types.NewNumber(types.ToNumber(args[0])), nil
}

func toString(args []types.Value) (types.Value, error) {
	if len(args) == 0 {
		return types.NewString(""), nil
	}
	return types.NewString(types.ToString(args[0])), nil
}

func toBoolean(args []types.Value) (types.Value, error) {
	return types.NewBool(types.ToBoolean(arg(args, 0))), nil
}

func isNaN(args []types.Value) (types.Value, error) {
	return types.NewBool(math.IsNaN(types.ToNumber(arg(args, 0)))), nil
}

func isFinite(args []types.Value) (types.Value, error) {
	n := types.ToNumber(arg(args, 0))
	return types.NewBool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
}

// parseInt parses the longest valid integer prefix in the given radix.
func parseInt(args []types.Value) (types.Value, error) {
	s := types.TrimWhitespace(types.ToString(arg(args, 0)))
	radix := int(types.ToInt32(arg(args, 1)))

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	if radix == 0 || radix == 16 {
		if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			s = s[2:]
			radix = 16
		}
	}
	if radix == 0 {
		radix = 10
	}
	if radix < 2 || radix > 36 {
		return types.NewNumber(math.NaN()), nil
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < radix {
		end++
	}
	if end == 0 {
		return types.NewNumber(math.NaN()), nil
	}

	var n float64
	if v, err := strconv.ParseInt(s[:end], radix, 64); err == nil {
		n = float64(v)
	} else {
		for i := 0; i < end; i++ {
			n = n*float64(radix) + float64(digitValue(s[i]))
		}
	}
	if negative {
		n = -n
	}
	return types.NewNumber(n), nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 36
	}
}

// parseFloat parses the longest decimal literal prefix.
func parseFloat(args []types.Value) (types.Value, error) {
	s := types.TrimWhitespace(types.ToString(arg(args, 0)))
	m := floatPrefix.FindString(s)
	if m == "" {
		return types.NewNumber(math.NaN()), nil
	}
	return types.NewNumber(types.ToNumber(types.NewString(m))), nil
}
