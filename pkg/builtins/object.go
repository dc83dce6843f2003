package builtins

import "github.com/lemonberrylabs/asteval/pkg/types"

// registerObject registers Object.keys, Object.values and Array.isArray.
func (r *Registry) registerObject() {
	r.Register("Object.keys", objectKeys)
	r.Register("Object.values", objectValues)
	r.Register("Array.isArray", arrayIsArray)
}

func objectKeys(args []types.Value) (types.Value, error) {
	v := arg(args, 0)
	switch v.Type() {
	case types.TypeUndefined, types.TypeNull:
		return types.Undefined, types.NewTypeError("Cannot convert undefined or null to object")
	case types.TypeObject:
		keys := v.AsObject().Keys()
		result := make([]types.Value, len(keys))
		for i, k := range keys {
			result[i] = types.NewString(k)
		}
		return types.NewArray(result), nil
	case types.TypeArray:
		result := make([]types.Value, len(v.AsArray()))
		for i := range result {
			result[i] = types.NewString(types.ToString(types.NewNumber(float64(i))))
		}
		return types.NewArray(result), nil
	default:
		return types.NewArray(nil), nil
	}
}

func objectValues(args []types.Value) (types.Value, error) {
	v := arg(args, 0)
	switch v.Type() {
	case types.TypeUndefined, types.TypeNull:
		return types.Undefined, types.NewTypeError("Cannot convert undefined or null to object")
	case types.TypeObject:
		m := v.AsObject()
		keys := m.Keys()
		result := make([]types.Value, len(keys))
		for i, k := range keys {
			result[i], _ = m.Get(k)
		}
		return types.NewArray(result), nil
	case types.TypeArray:
		elems := v.AsArray()
		result := make([]types.Value, len(elems))
		copy(result, elems)
		return types.NewArray(result), nil
	default:
		return types.NewArray(nil), nil
	}
}

func arrayIsArray(args []types.Value) (types.Value, error) {
	return types.NewBool(arg(args, 0).Type() == types.TypeArray), nil
}
