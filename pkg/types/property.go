package types

import (
	"fmt"
	"strconv"
	"unicode/utf16"
)

// GetMember returns base[key]. Missing properties yield Undefined; only a
// null or undefined base is a fault. No prototype chain is modeled, so
// numbers, booleans and functions have no readable properties.
func GetMember(base, key Value) (Value, error) {
	name := ToString(key)
	switch base.typ {
	case TypeUndefined, TypeNull:
		return Undefined, NewTypeError(
			fmt.Sprintf("Cannot read properties of %s (reading '%s')", base.typ, name))
	case TypeObject:
		if v, ok := base.objVal.Get(name); ok {
			return v, nil
		}
		return Undefined, nil
	case TypeArray:
		elems := base.arrVal.Elements
		if name == "length" {
			return NewNumber(float64(len(elems))), nil
		}
		if i, ok := arrayIndex(name); ok && i < len(elems) {
			return elems[i], nil
		}
		return Undefined, nil
	case TypeString:
		units := utf16.Encode([]rune(base.strVal))
		if name == "length" {
			return NewNumber(float64(len(units))), nil
		}
		if i, ok := arrayIndex(name); ok && i < len(units) {
			return NewString(string(utf16.Decode(units[i : i+1]))), nil
		}
		return Undefined, nil
	default:
		return Undefined, nil
	}
}

// arrayIndex parses a canonical array index ("0", "17", but not "01" or "-1").
func arrayIndex(name string) (int, bool) {
	if name == "" || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}
	i, err := strconv.ParseUint(name, 10, 32)
	if err != nil || i == 1<<32-1 {
		return 0, false
	}
	return int(i), true
}
