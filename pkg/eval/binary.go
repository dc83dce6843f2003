package eval

import (
	"math"

	"github.com/lemonberrylabs/asteval/pkg/types"
)

// Binary applies a binary operator to two already-evaluated operands.
func Binary(op string, left, right types.Value) (types.Value, error) {
	switch op {
	case "+":
		return evalAdd(left, right), nil
	case "-":
		return evalArith(left, right, func(a, b float64) float64 { return a - b }), nil
	case "*":
		return evalArith(left, right, func(a, b float64) float64 { return a * b }), nil
	case "/":
		return evalArith(left, right, func(a, b float64) float64 { return a / b }), nil
	case "%":
		return evalArith(left, right, math.Mod), nil
	case "**":
		return evalArith(left, right, pow), nil
	case "==":
		return types.NewBool(types.LooseEquals(left, right)), nil
	case "!=":
		return types.NewBool(!types.LooseEquals(left, right)), nil
	case "===":
		return types.NewBool(types.StrictEquals(left, right)), nil
	case "!==":
		return types.NewBool(!types.StrictEquals(left, right)), nil
	case "<":
		return evalCompare(left, right, func(c int) bool { return c < 0 }), nil
	case "<=":
		return evalCompare(left, right, func(c int) bool { return c <= 0 }), nil
	case ">":
		return evalCompare(left, right, func(c int) bool { return c > 0 }), nil
	case ">=":
		return evalCompare(left, right, func(c int) bool { return c >= 0 }), nil
	case "&&":
		if !types.ToBoolean(left) {
			return left, nil
		}
		return right, nil
	case "||":
		if types.ToBoolean(left) {
			return left, nil
		}
		return right, nil
	case "|":
		return int32Result(types.ToInt32(left) | types.ToInt32(right)), nil
	case "&":
		return int32Result(types.ToInt32(left) & types.ToInt32(right)), nil
	case "^":
		return int32Result(types.ToInt32(left) ^ types.ToInt32(right)), nil
	case "<<":
		return int32Result(types.ToInt32(left) << shiftCount(right)), nil
	case ">>":
		return int32Result(types.ToInt32(left) >> shiftCount(right)), nil
	case ">>>":
		return types.NewNumber(float64(types.ToUint32(left) >> shiftCount(right))), nil
	default:
		return types.Undefined, types.NewUnsupportedBinaryOperator(op)
	}
}

// evalAdd concatenates when either primitive operand is a string and adds
// numerically otherwise.
func evalAdd(left, right types.Value) types.Value {
	lp := types.ToPrimitive(left)
	rp := types.ToPrimitive(right)
	if lp.Type() == types.TypeString || rp.Type() == types.TypeString {
		return types.NewString(types.ToString(lp) + types.ToString(rp))
	}
	return types.NewNumber(types.ToNumber(lp) + types.ToNumber(rp))
}

func evalArith(left, right types.Value, op func(float64, float64) float64) types.Value {
	return types.NewNumber(op(types.ToNumber(left), types.ToNumber(right)))
}

// pow differs from math.Pow only where the two disagree: (±1) ** ±Infinity
// and 1 ** NaN are NaN.
func pow(a, b float64) float64 {
	if math.IsNaN(b) || (math.IsInf(b, 0) && math.Abs(a) == 1) {
		return math.NaN()
	}
	return math.Pow(a, b)
}

// evalCompare orders two strings by code units and everything else
// numerically. Comparisons involving NaN are false.
func evalCompare(left, right types.Value, test func(int) bool) types.Value {
	lp := types.ToPrimitive(left)
	rp := types.ToPrimitive(right)
	if lp.Type() == types.TypeString && rp.Type() == types.TypeString {
		return types.NewBool(test(types.CompareStrings(lp.AsString(), rp.AsString())))
	}

	a := types.ToNumber(lp)
	b := types.ToNumber(rp)
	if math.IsNaN(a) || math.IsNaN(b) {
		return types.NewBool(false)
	}
	switch {
	case a < b:
		return types.NewBool(test(-1))
	case a > b:
		return types.NewBool(test(1))
	default:
		return types.NewBool(test(0))
	}
}

func shiftCount(v types.Value) uint32 {
	return types.ToUint32(v) & 0x1f
}

func int32Result(n int32) types.Value {
	return types.NewNumber(float64(n))
}
