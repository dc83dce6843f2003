package types

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ToPrimitive reduces reference values to a primitive the way the default
// valueOf/toString pair does. Primitives are returned unchanged.
func ToPrimitive(v Value) Value {
	switch v.typ {
	case TypeObject:
		return NewString("[object Object]")
	case TypeArray:
		parts := make([]string, len(v.arrVal.Elements))
		for i, item := range v.arrVal.Elements {
			if !item.IsNullish() {
				parts[i] = ToString(item)
			}
		}
		return NewString(strings.Join(parts, ","))
	case TypeFunction:
		return NewString("function " + v.fnVal.Name + "() { [native code] }")
	}
	return v
}

// ToBoolean returns the truthiness of a value. The falsy values are
// undefined, null, false, +0, -0, NaN and the empty string.
func ToBoolean(v Value) bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return false
	case TypeBool:
		return v.boolVal
	case TypeNumber:
		return v.numVal != 0 && !math.IsNaN(v.numVal)
	case TypeString:
		return v.strVal != ""
	default:
		return true
	}
}

// ToNumber converts a value to a number.
func ToNumber(v Value) float64 {
	switch v.typ {
	case TypeUndefined:
		return math.NaN()
	case TypeNull:
		return 0
	case TypeBool:
		if v.boolVal {
			return 1
		}
		return 0
	case TypeNumber:
		return v.numVal
	case TypeString:
		return stringToNumber(v.strVal)
	default:
		return ToNumber(ToPrimitive(v))
	}
}

// TrimWhitespace strips the characters JavaScript treats as white space or
// line terminators from both ends of s.
func TrimWhitespace(s string) string {
	return strings.TrimFunc(s, isJSSpace)
}

func isJSSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return unicode.IsSpace(r) && r != '\u0085'
}

func stringToNumber(s string) float64 {
	s = TrimWhitespace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadixDigits(s[2:], base)
		}
	}
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	// Out-of-range literals come back as ±Inf with ErrRange, which is
	// exactly the value we want.
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// parseRadixDigits accumulates digits in float64 so that literals wider than
// 64 bits round instead of failing.
func parseRadixDigits(digits string, base int) float64 {
	if digits == "" {
		return math.NaN()
	}
	var f float64
	for i := 0; i < len(digits); i++ {
		d := digitValue(digits[i])
		if d >= base {
			return math.NaN()
		}
		f = f*float64(base) + float64(d)
	}
	return f
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}

// ToString converts a value to its string form.
func ToString(v Value) string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.numVal)
	case TypeString:
		return v.strVal
	default:
		return ToString(ToPrimitive(v))
	}
}

// formatNumber renders a float64 the way Number.prototype.toString does for
// radix 10.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + exp[:1] + digits
}

// ToUint32 converts a value to an unsigned 32-bit integer (modulo 2^32).
func ToUint32(v Value) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	m := math.Mod(math.Trunc(f), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// ToInt32 converts a value to a signed 32-bit integer (modulo 2^32).
func ToInt32(v Value) int32 {
	return int32(ToUint32(v))
}

// TypeOf returns the result of the typeof operator for v.
func TypeOf(v Value) string {
	switch v.typ {
	case TypeNull, TypeArray:
		return "object"
	default:
		return v.typ.String()
	}
}

// StrictEquals implements ===. Reference values compare by identity.
func StrictEquals(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBool:
		return a.boolVal == b.boolVal
	case TypeNumber:
		return a.numVal == b.numVal
	case TypeString:
		return a.strVal == b.strVal
	case TypeObject:
		return a.objVal == b.objVal
	case TypeArray:
		return a.arrVal == b.arrVal
	case TypeFunction:
		return a.fnVal == b.fnVal
	}
	return false
}

// LooseEquals implements == (the abstract equality comparison).
func LooseEquals(a, b Value) bool {
	if a.typ == b.typ {
		return StrictEquals(a, b)
	}
	if a.IsNullish() || b.IsNullish() {
		return a.IsNullish() && b.IsNullish()
	}
	switch {
	case a.typ == TypeNumber && b.typ == TypeString:
		return a.numVal == stringToNumber(b.strVal)
	case a.typ == TypeString && b.typ == TypeNumber:
		return stringToNumber(a.strVal) == b.numVal
	case a.typ == TypeBool:
		return LooseEquals(NewNumber(ToNumber(a)), b)
	case b.typ == TypeBool:
		return LooseEquals(a, NewNumber(ToNumber(b)))
	case isReference(a) && !isReference(b):
		return LooseEquals(ToPrimitive(a), b)
	case isReference(b) && !isReference(a):
		return LooseEquals(a, ToPrimitive(b))
	}
	return false
}

func isReference(v Value) bool {
	return v.typ == TypeObject || v.typ == TypeArray || v.typ == TypeFunction
}

// CompareStrings orders two strings by UTF-16 code units.
func CompareStrings(a, b string) int {
	if isASCII(a) && isASCII(b) {
		return strings.Compare(a, b)
	}
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ua) < len(ub):
		return -1
	case len(ua) > len(ub):
		return 1
	}
	return 0
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
