// Package types defines the dynamic value model the evaluator computes over.
// It follows the JavaScript value universe closely enough for the operator
// tables: undefined, null, boolean, number, string, object, array and function.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ValueType represents the kind of a runtime value.
type ValueType int

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBool     // bool
	TypeNumber   // float64
	TypeString   // string
	TypeObject   // ordered map of string -> Value
	TypeArray    // []Value
	TypeFunction // host callable
)

// String returns the kind name. Use TypeOf for the typeof operator result,
// which folds null and array into "object".
func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Function is the signature of a host callable. It receives positional
// arguments only; there is no receiver.
type Function func(args []Value) (Value, error)

// Callable wraps a host function so that function values have identity.
type Callable struct {
	Name string
	Fn   Function
}

// Array is a reference-typed ordered sequence of values.
type Array struct {
	Elements []Value
}

// Value is a runtime value. It uses a tagged union approach; reference kinds
// (object, array, function) hold pointers and compare by identity.
type Value struct {
	typ     ValueType
	boolVal bool
	numVal  float64
	strVal  string
	objVal  *OrderedMap
	arrVal  *Array
	fnVal   *Callable
}

// OrderedMap maintains insertion order for object keys.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

// NewOrderedMap creates a new empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{
		keys:   make([]string, 0),
		values: make(map[string]Value),
	}
}

// NewOrderedMapFromPairs creates an ordered map from alternating key-value pairs.
func NewOrderedMapFromPairs(pairs ...interface{}) *OrderedMap {
	m := NewOrderedMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		val, ok := pairs[i+1].(Value)
		if !ok {
			continue
		}
		m.Set(key, val)
	}
	return m
}

// Get retrieves a value by key. Returns the value and whether it exists.
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set adds or updates a key-value pair, preserving insertion order.
func (m *OrderedMap) Set(key string, val Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	result := make([]string, len(m.keys))
	copy(result, m.keys)
	return result
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Undefined is the singleton undefined value. It is also what a context
// yields for a name it does not bind.
var Undefined = Value{typ: TypeUndefined}

// Null is the singleton null value.
var Null = Value{typ: TypeNull}

// NewBool creates a boolean value.
func NewBool(v bool) Value {
	return Value{typ: TypeBool, boolVal: v}
}

// NewNumber creates a number value (64-bit float).
func NewNumber(v float64) Value {
	return Value{typ: TypeNumber, numVal: v}
}

// NewString creates a string value.
func NewString(v string) Value {
	return Value{typ: TypeString, strVal: v}
}

// NewObject creates an object value from an OrderedMap.
func NewObject(v *OrderedMap) Value {
	if v == nil {
		v = NewOrderedMap()
	}
	return Value{typ: TypeObject, objVal: v}
}

// NewObjectFromGoMap creates an object value from a Go map (keys sorted
// alphabetically for determinism).
func NewObjectFromGoMap(m map[string]Value) Value {
	om := NewOrderedMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		om.Set(k, m[k])
	}
	return NewObject(om)
}

// NewArray creates an array value from a slice of values.
func NewArray(v []Value) Value {
	return Value{typ: TypeArray, arrVal: &Array{Elements: v}}
}

// NewFunction creates a function value around a host callable.
func NewFunction(name string, fn Function) Value {
	return Value{typ: TypeFunction, fnVal: &Callable{Name: name, Fn: fn}}
}

// Type returns the value's type.
func (v Value) Type() ValueType {
	return v.typ
}

// IsUndefined returns true if the value is undefined.
func (v Value) IsUndefined() bool {
	return v.typ == TypeUndefined
}

// IsNullish returns true for null and undefined.
func (v Value) IsNullish() bool {
	return v.typ == TypeNull || v.typ == TypeUndefined
}

// AsBool returns the boolean value. Panics if not a bool.
func (v Value) AsBool() bool {
	if v.typ != TypeBool {
		panic(fmt.Sprintf("AsBool called on %s value", v.typ))
	}
	return v.boolVal
}

// AsNumber returns the number value. Panics if not a number.
func (v Value) AsNumber() float64 {
	if v.typ != TypeNumber {
		panic(fmt.Sprintf("AsNumber called on %s value", v.typ))
	}
	return v.numVal
}

// AsString returns the string value. Panics if not a string.
func (v Value) AsString() string {
	if v.typ != TypeString {
		panic(fmt.Sprintf("AsString called on %s value", v.typ))
	}
	return v.strVal
}

// AsObject returns the object's map. Panics if not an object.
func (v Value) AsObject() *OrderedMap {
	if v.typ != TypeObject {
		panic(fmt.Sprintf("AsObject called on %s value", v.typ))
	}
	return v.objVal
}

// AsArray returns the array's elements. Panics if not an array.
func (v Value) AsArray() []Value {
	if v.typ != TypeArray {
		panic(fmt.Sprintf("AsArray called on %s value", v.typ))
	}
	return v.arrVal.Elements
}

// AsFunction returns the callable. Panics if not a function.
func (v Value) AsFunction() *Callable {
	if v.typ != TypeFunction {
		panic(fmt.Sprintf("AsFunction called on %s value", v.typ))
	}
	return v.fnVal
}

// Equal reports whether two values are strictly equal (===), except that
// NaN equals NaN. Intended for tests and deduplication, not for the operator.
func (v Value) Equal(other Value) bool {
	if v.typ == TypeNumber && other.typ == TypeNumber && math.IsNaN(v.numVal) && math.IsNaN(other.numVal) {
		return true
	}
	return StrictEquals(v, other)
}

// String returns the JavaScript ToString rendering of the value.
func (v Value) String() string {
	return ToString(v)
}

// GoString renders the value for debugging, quoting strings and showing
// object contents.
func (v Value) GoString() string {
	switch v.typ {
	case TypeString:
		b, _ := json.Marshal(v.strVal)
		return string(b)
	case TypeArray:
		parts := make([]string, len(v.arrVal.Elements))
		for i, item := range v.arrVal.Elements {
			parts[i] = item.GoString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeObject:
		parts := make([]string, 0, v.objVal.Len())
		for _, k := range v.objVal.keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v.objVal.values[k].GoString()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case TypeFunction:
		return fmt.Sprintf("[Function: %s]", v.fnVal.Name)
	}
	return ToString(v)
}

// MarshalJSON converts a Value to JSON the way JSON.stringify would, except
// that undefined and functions become null rather than being omitted.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeUndefined, TypeNull, TypeFunction:
		return []byte("null"), nil
	case TypeBool:
		if v.boolVal {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case TypeNumber:
		if math.IsNaN(v.numVal) || math.IsInf(v.numVal, 0) {
			return []byte("null"), nil
		}
		return []byte(formatNumber(v.numVal)), nil
	case TypeString:
		return json.Marshal(v.strVal)
	case TypeArray:
		items := make([]json.RawMessage, len(v.arrVal.Elements))
		for i, item := range v.arrVal.Elements {
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			items[i] = b
		}
		return json.Marshal(items)
	case TypeObject:
		// Use ordered iteration
		buf := []byte{'{'}
		first := true
		for _, k := range v.objVal.keys {
			val := v.objVal.values[k]
			if val.typ == TypeUndefined || val.typ == TypeFunction {
				continue
			}
			if !first {
				buf = append(buf, ',')
			}
			first = false
			keyBytes, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, keyBytes...)
			buf = append(buf, ':')
			valBytes, err := val.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, valBytes...)
		}
		buf = append(buf, '}')
		return buf, nil
	}
	return nil, fmt.Errorf("cannot marshal unknown type %d", v.typ)
}

// FromGo converts a plain Go value (as produced by json.Unmarshal, or built
// by a host) into a Value. Unknown Go types are rendered with %v.
func FromGo(v interface{}) Value {
	if v == nil {
		return Null
	}
	switch val := v.(type) {
	case Value:
		return val
	case bool:
		return NewBool(val)
	case float64:
		return NewNumber(val)
	case float32:
		return NewNumber(float64(val))
	case int:
		return NewNumber(float64(val))
	case int32:
		return NewNumber(float64(val))
	case int64:
		return NewNumber(float64(val))
	case uint64:
		return NewNumber(float64(val))
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return NewNumber(f)
		}
		return NewString(val.String())
	case string:
		return NewString(val)
	case Function:
		return NewFunction("", val)
	case func([]Value) (Value, error):
		return NewFunction("", val)
	case []Value:
		return NewArray(val)
	case []interface{}:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FromGo(item)
		}
		return NewArray(items)
	case map[string]Value:
		return NewObjectFromGoMap(val)
	case map[string]interface{}:
		m := NewOrderedMap()
		// Go maps don't have a stable order, sort keys for determinism
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, FromGo(val[k]))
		}
		return NewObject(m)
	default:
		return NewString(fmt.Sprintf("%v", val))
	}
}

// ToGo converts a Value to a plain Go value suitable for JSON marshaling.
// Undefined and functions have no Go counterpart and become nil.
func (v Value) ToGo() interface{} {
	switch v.typ {
	case TypeBool:
		return v.boolVal
	case TypeNumber:
		return v.numVal
	case TypeString:
		return v.strVal
	case TypeArray:
		result := make([]interface{}, len(v.arrVal.Elements))
		for i, item := range v.arrVal.Elements {
			result[i] = item.ToGo()
		}
		return result
	case TypeObject:
		result := make(map[string]interface{}, v.objVal.Len())
		for _, k := range v.objVal.keys {
			result[k] = v.objVal.values[k].ToGo()
		}
		return result
	}
	return nil
}
