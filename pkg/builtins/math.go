package builtins

import (
	"math"

	"github.com/lemonberrylabs/asteval/pkg/types"
)

// registerMath registers Math.* functions and constants.
func (r *Registry) registerMath() {
	r.RegisterValue("Math.PI", types.NewNumber(math.Pi))
	r.RegisterValue("Math.E", types.NewNumber(math.E))
	r.Register("Math.abs", unaryMath(math.Abs))
	r.Register("Math.floor", unaryMath(math.Floor))
	r.Register("Math.ceil", unaryMath(math.Ceil))
	r.Register("Math.trunc", unaryMath(math.Trunc))
	r.Register("Math.sqrt", unaryMath(math.Sqrt))
	r.Register("Math.round", unaryMath(round))
	r.Register("Math.sign", unaryMath(sign))
	r.Register("Math.pow", mathPow)
	r.Register("Math.max", mathMax)
	r.Register("Math.min", mathMin)
}

func unaryMath(fn func(float64) float64) types.Function {
	return func(args []types.Value) (types.Value, error) {
		return types.NewNumber(fn(types.ToNumber(arg(args, 0)))), nil
	}
}

// round rounds half toward +Infinity.
func round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	if r == 0 {
		return math.Copysign(0, x)
	}
	return r
}

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x), x == 0:
		return x
	case x > 0:
		return 1
	default:
		return -1
	}
}

func mathPow(args []types.Value) (types.Value, error) {
	a := types.ToNumber(arg(args, 0))
	b := types.ToNumber(arg(args, 1))
	if math.IsNaN(b) || (math.IsInf(b, 0) && math.Abs(a) == 1) {
		return types.NewNumber(math.NaN()), nil
	}
	return types.NewNumber(math.Pow(a, b)), nil
}

func mathMax(args []types.Value) (types.Value, error) {
	result := math.Inf(-1)
	for _, a := range args {
		n := types.ToNumber(a)
		if math.IsNaN(n) {
			return types.NewNumber(math.NaN()), nil
		}
		if n > result || (n == 0 && result == 0 && !math.Signbit(n)) {
			result = n
		}
	}
	return types.NewNumber(result), nil
}

func mathMin(args []types.Value) (types.Value, error) {
	result := math.Inf(1)
	for _, a := range args {
		n := types.ToNumber(a)
		if math.IsNaN(n) {
			return types.NewNumber(math.NaN()), nil
		}
		if n < result || (n == 0 && result == 0 && math.Signbit(n)) {
			result = n
		}
	}
	return types.NewNumber(result), nil
}
