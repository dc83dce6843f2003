package eval

import "github.com/lemonberrylabs/asteval/pkg/types"

// Unary applies a prefix unary operator to an already-evaluated operand.
func Unary(op string, arg types.Value) (types.Value, error) {
	switch op {
	case "-":
		return types.NewNumber(-types.ToNumber(arg)), nil
	case "+":
		return types.NewNumber(types.ToNumber(arg)), nil
	case "!":
		return types.NewBool(!types.ToBoolean(arg)), nil
	case "~":
		return types.NewNumber(float64(^types.ToInt32(arg))), nil
	case "typeof":
		return types.NewString(types.TypeOf(arg)), nil
	case "void":
		return types.Undefined, nil
	default:
		return types.Undefined, types.NewUnsupportedUnaryOperator(op)
	}
}
