package eval

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemonberrylabs/asteval/pkg/ast"
	"github.com/lemonberrylabs/asteval/pkg/types"
)

func lit(v types.Value) ast.Node { return &ast.Literal{Value: v} }
func num(f float64) ast.Node { return lit(types.NewNumber(f)) }
func str(s string) ast.Node { return lit(types.NewString(s)) }
func ident(name string) ast.Node { return &ast.Identifier{Name: name} }
func bin(op string, l, r ast.Node) ast.Node {
	return &ast.BinaryExpression{Operator: op, Left: l, Right: r}
}
func unary(op string, arg ast.Node) ast.Node {
	return &ast.UnaryExpression{Operator: op, Argument: arg, Prefix: true}
}
func member(obj ast.Node, prop string) ast.Node {
	return &ast.MemberExpression{Object: obj, Property: ident(prop)}
}
func index(obj, key ast.Node) ast.Node {
	return &ast.MemberExpression{Object: obj, Property: key, Computed: true}
}
func call(callee ast.Node, args ...ast.Node) ast.Node {
	return &ast.CallExpression{Callee: callee, Arguments: args}
}

func sumFunc() types.Value {
	return types.NewFunction("sum", func(args []types.Value) (types.Value, error) {
		total := 0.0
		for _, a := range args {
			total += types.ToNumber(a)
		}
		return types.NewNumber(total), nil
	})
}

func mustEval(t *testing.T, node ast.Node, scope Scope) types.Value {
	t.Helper()
	got, err := Evaluate(node, scope)
	require.NoError(t, err)
	return got
}

func TestLiteralExpressions(t *testing.T) {
	tests := []types.Value{
		types.NewBool(true),
		types.NewNumber(3.14),
		types.NewString("hello"),
		types.NewString(""),
		types.Null,
	}

	for _, want := range tests {
		t.Run(want.GoString(), func(t *testing.T) {
			assert.True(t, mustEval(t, lit(want), nil).Equal(want))
			assert.True(t, mustEval(t, lit(want), Vars{}).Equal(want))
			assert.True(t, mustEval(t, lit(want), Vars{"x": types.NewNumber(1)}).Equal(want))
		})
	}
}

func TestIdentifierLookup(t *testing.T) {
	scope := Vars{"x": types.NewNumber(42), "empty": types.Undefined}

	assert.True(t, mustEval(t, ident("x"), scope).Equal(types.NewNumber(42)))
	assert.True(t, mustEval(t, ident("empty"), scope).IsUndefined())
	assert.True(t, mustEval(t, ident("missing"), scope).IsUndefined())
	assert.True(t, mustEval(t, ident("missing"), nil).IsUndefined())
}

func TestMemberExpressions(t *testing.T) {
	inner := types.NewObject(types.NewOrderedMapFromPairs("y", types.NewString("deep")))
	obj := types.NewObject(types.NewOrderedMapFromPairs("x", types.NewNumber(1), "inner", inner))
	scope := Vars{
		"obj": obj,
		"x":   types.NewString("inner"),
		"arr": types.NewArray([]types.Value{types.NewNumber(10), types.NewNumber(20)}),
	}

	tests := []struct {
		name string
		node ast.Node
		want types.Value
	}{
		// The property name is never looked up, even though the scope binds x.
		{"non-computed ignores scope", member(ident("obj"), "x"), types.NewNumber(1)},
		{"computed evaluates property", index(ident("obj"), ident("x")), inner},
		{"nested", member(member(ident("obj"), "inner"), "y"), types.NewString("deep")},
		{"computed literal key", index(ident("obj"), str("x")), types.NewNumber(1)},
		{"array index", index(ident("arr"), num(1)), types.NewNumber(20)},
		{"array length", member(ident("arr"), "length"), types.NewNumber(2)},
		{"computed index expression", index(ident("arr"), bin("-", num(1), num(1))), types.NewNumber(10)},
		{"missing property", member(ident("obj"), "nope"), types.Undefined},
		{"string length", member(str("héllo"), "length"), types.NewNumber(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEval(t, tt.node, scope)
			assert.True(t, got.Equal(tt.want), "got %#v, want %#v", got, tt.want)
		})
	}
}

func TestMemberOfUndefinedIsTypeError(t *testing.T) {
	_, err := Evaluate(member(ident("nothing"), "x"), Vars{})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindTypeError))
	assert.Contains(t, err.Error(), "reading 'x'")
}

func TestNonComputedLiteralPropertyFails(t *testing.T) {
	node := &ast.MemberExpression{Object: ident("obj"), Property: str("x")}
	_, err := Evaluate(node, Vars{"obj": types.NewObject(nil)})
	assert.True(t, types.IsKind(err, types.KindTypeError))
}

func TestNonComputedNilPropertyFails(t *testing.T) {
	node := &ast.MemberExpression{Object: ident("obj"), Property: (*ast.Identifier)(nil)}
	_, err := Evaluate(node, Vars{"obj": types.NewObject(nil)})
	assert.True(t, types.IsKind(err, types.KindTypeError))
	assert.ErrorContains(t, err, "got <nil>")
}

func TestBinaryExpressions(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want types.Value
	}{
		{"2 + 3", bin("+", num(2), num(3)), types.NewNumber(5)},
		{"string concat", bin("+", str("a"), str("b")), types.NewString("ab")},
		{"number plus string", bin("+", num(1), str("2")), types.NewString("12")},
		{"null plus number", bin("+", lit(types.Null), num(1)), types.NewNumber(1)},
		{"bool plus number", bin("+", lit(types.NewBool(true)), num(1)), types.NewNumber(2)},
		{"10 - 3", bin("-", num(10), num(3)), types.NewNumber(7)},
		{"string minus number", bin("-", str("5"), num(2)), types.NewNumber(3)},
		{"string times string", bin("*", str("3"), str("4")), types.NewNumber(12)},
		{"10 / 4", bin("/", num(10), num(4)), types.NewNumber(2.5)},
		{"division by zero", bin("/", num(1), num(0)), types.NewNumber(math.Inf(1))},
		{"negative division by zero", bin("/", num(-1), num(0)), types.NewNumber(math.Inf(-1))},
		{"7 % 3", bin("%", num(7), num(3)), types.NewNumber(1)},
		{"-7 % 3", bin("%", num(-7), num(3)), types.NewNumber(-1)},
		{"5.5 % 2", bin("%", num(5.5), num(2)), types.NewNumber(1.5)},
		{"2 ** 10", bin("**", num(2), num(10)), types.NewNumber(1024)},
		{"2 ** -1", bin("**", num(2), num(-1)), types.NewNumber(0.5)},
		{"loose equality", bin("==", num(1), str("1")), types.NewBool(true)},
		{"strict equality", bin("===", num(1), str("1")), types.NewBool(false)},
		{"loose inequality", bin("!=", num(1), str("1")), types.NewBool(false)},
		{"strict inequality", bin("!==", num(1), str("1")), types.NewBool(true)},
		{"null == undefined", bin("==", lit(types.Null), ident("u")), types.NewBool(true)},
		{"null === undefined", bin("===", lit(types.Null), ident("u")), types.NewBool(false)},
		{"1 < 2", bin("<", num(1), num(2)), types.NewBool(true)},
		{"strings compare lexically", bin("<", str("10"), str("9")), types.NewBool(true)},
		{"mixed compare numerically", bin("<", num(10), str("9")), types.NewBool(false)},
		{"2 <= 2", bin("<=", num(2), num(2)), types.NewBool(true)},
		{"b > a", bin(">", str("b"), str("a")), types.NewBool(true)},
		{"3 >= 4", bin(">=", num(3), num(4)), types.NewBool(false)},
		{"undefined < 1", bin("<", ident("u"), num(1)), types.NewBool(false)},
		{"undefined >= 1", bin(">=", ident("u"), num(1)), types.NewBool(false)},
		{"null >= 0", bin(">=", lit(types.Null), num(0)), types.NewBool(true)},
		{"falsy && returns left", bin("&&", num(0), str("x")), types.NewNumber(0)},
		{"truthy && returns right", bin("&&", num(1), str("x")), types.NewString("x")},
		{"falsy || returns right", bin("||", str(""), str("d")), types.NewString("d")},
		{"truthy || returns left", bin("||", str("a"), str("d")), types.NewString("a")},
		{"5 | 2", bin("|", num(5), num(2)), types.NewNumber(7)},
		{"6 & 3", bin("&", num(6), num(3)), types.NewNumber(2)},
		{"6 ^ 3", bin("^", num(6), num(3)), types.NewNumber(5)},
		{"1 << 31", bin("<<", num(1), num(31)), types.NewNumber(-2147483648)},
		{"1 << 32 wraps the count", bin("<<", num(1), num(32)), types.NewNumber(1)},
		{"-8 >> 1", bin(">>", num(-8), num(1)), types.NewNumber(-4)},
		{"-1 >>> 0", bin(">>>", num(-1), num(0)), types.NewNumber(4294967295)},
		{"-8 >>> 28", bin(">>>", num(-8), num(28)), types.NewNumber(15)},
		{"bitwise on fractions", bin("|", num(3.7), num(0)), types.NewNumber(3)},
	}

	scope := Vars{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEval(t, tt.node, scope)
			assert.True(t, got.Equal(tt.want), "got %#v, want %#v", got, tt.want)
		})
	}
}

func TestBinaryNaNResults(t *testing.T) {
	for _, node := range []ast.Node{
		bin("+", ident("u"), num(1)),
		bin("-", str("a"), num(1)),
		bin("%", num(1), num(0)),
		bin("**", num(1), lit(types.NewNumber(math.Inf(1)))),
		bin("**", num(1), lit(types.NewNumber(math.NaN()))),
	} {
		got := mustEval(t, node, nil)
		require.Equal(t, types.TypeNumber, got.Type())
		assert.True(t, math.IsNaN(got.AsNumber()), "got %#v", got)
	}
}

func TestUnaryExpressions(t *testing.T) {
	scope := Vars{
		"f":   sumFunc(),
		"arr": types.NewArray(nil),
	}

	tests := []struct {
		name string
		node ast.Node
		want types.Value
	}{
		{"negate", unary("-", num(5)), types.NewNumber(-5)},
		{"negate string", unary("-", str("2")), types.NewNumber(-2)},
		{"plus string", unary("+", str("3")), types.NewNumber(3)},
		{"plus true", unary("+", lit(types.NewBool(true))), types.NewNumber(1)},
		{"not zero", unary("!", num(0)), types.NewBool(true)},
		{"not string", unary("!", str("x")), types.NewBool(false)},
		{"complement", unary("~", num(5)), types.NewNumber(-6)},
		{"complement of -1", unary("~", num(-1)), types.NewNumber(0)},
		{"typeof number", unary("typeof", num(1)), types.NewString("number")},
		{"typeof string", unary("typeof", str("s")), types.NewString("string")},
		{"typeof boolean", unary("typeof", lit(types.NewBool(true))), types.NewString("boolean")},
		{"typeof null", unary("typeof", lit(types.Null)), types.NewString("object")},
		{"typeof missing", unary("typeof", ident("nope")), types.NewString("undefined")},
		{"typeof function", unary("typeof", ident("f")), types.NewString("function")},
		{"typeof array", unary("typeof", ident("arr")), types.NewString("object")},
		{"void", unary("void", num(1)), types.Undefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEval(t, tt.node, scope)
			assert.True(t, got.Equal(tt.want), "got %#v, want %#v", got, tt.want)
		})
	}
}

func TestCallExpressions(t *testing.T) {
	scope := Vars{"sum": sumFunc()}

	got := mustEval(t, call(ident("sum"), num(1), num(2), num(3)), scope)
	assert.True(t, got.Equal(types.NewNumber(6)))

	got = mustEval(t, call(ident("sum")), scope)
	assert.True(t, got.Equal(types.NewNumber(0)))
}

func TestOperandsEvaluateLeftToRightWithoutShortCircuit(t *testing.T) {
	var order []string
	record := func(name string, result types.Value) types.Value {
		return types.NewFunction(name, func([]types.Value) (types.Value, error) {
			order = append(order, name)
			return result, nil
		})
	}
	scope := Vars{
		"no":  record("no", types.NewBool(false)),
		"yes": record("yes", types.NewBool(true)),
	}

	got := mustEval(t, bin("&&", call(ident("no")), call(ident("yes"))), scope)
	assert.True(t, got.Equal(types.NewBool(false)))
	assert.Equal(t, []string{"no", "yes"}, order)

	order = nil
	got = mustEval(t, bin("||", call(ident("yes")), call(ident("no"))), scope)
	assert.True(t, got.Equal(types.NewBool(true)))
	assert.Equal(t, []string{"yes", "no"}, order)
}

func TestArgumentsEvaluateInOrder(t *testing.T) {
	var order []float64
	next := 0.0
	scope := Vars{
		"tick": types.NewFunction("tick", func([]types.Value) (types.Value, error) {
			next++
			order = append(order, next)
			return types.NewNumber(next), nil
		}),
		"list": types.NewFunction("list", func(args []types.Value) (types.Value, error) {
			return types.NewArray(args), nil
		}),
	}

	got := mustEval(t, call(ident("list"), call(ident("tick")), call(ident("tick")), call(ident("tick"))), scope)
	assert.Equal(t, `[1,2,3]`, string(mustJSON(t, got)))
	assert.Equal(t, []float64{1, 2, 3}, order)
}

// A callee reached through a member expression is invoked as a plain function:
// the host callable only ever sees the positional arguments, never the object.
func TestMethodCallDropsReceiver(t *testing.T) {
	var received []types.Value
	method := types.NewFunction("method", func(args []types.Value) (types.Value, error) {
		received = args
		return types.NewNumber(float64(len(args))), nil
	})
	obj := types.NewObject(types.NewOrderedMapFromPairs("method", method, "name", types.NewString("obj")))

	got := mustEval(t, call(member(ident("obj"), "method"), num(7)), Vars{"obj": obj})
	assert.True(t, got.Equal(types.NewNumber(1)))
	require.Len(t, received, 1)
	assert.True(t, received[0].Equal(types.NewNumber(7)))
}

func TestCallNonFunctionIsTypeError(t *testing.T) {
	scope := Vars{"n": types.NewNumber(1), "obj": types.NewObject(nil)}

	_, err := Evaluate(call(ident("n")), scope)
	assert.True(t, types.IsKind(err, types.KindTypeError))
	assert.EqualError(t, err, "TypeError: n is not a function")

	_, err = Evaluate(call(member(ident("obj"), "missing")), scope)
	assert.EqualError(t, err, "TypeError: obj.missing is not a function")
}

func TestCallableErrorsPropagateUnwrapped(t *testing.T) {
	sentinel := errors.New("boom")
	scope := Vars{"fail": types.NewFunction("fail", func([]types.Value) (types.Value, error) {
		return types.Undefined, sentinel
	})}

	_, err := Evaluate(bin("+", num(1), call(ident("fail"))), scope)
	assert.Same(t, sentinel, err)
	_, ok := types.KindOf(err)
	assert.False(t, ok)
}

func TestFailureAbortsEvaluation(t *testing.T) {
	calls := 0
	scope := Vars{"count": types.NewFunction("count", func([]types.Value) (types.Value, error) {
		calls++
		return types.Undefined, nil
	})}

	_, err := Evaluate(bin("+", bin("??", num(1), num(2)), call(ident("count"))), scope)
	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestUnsupportedNodeTypes(t *testing.T) {
	tests := []struct {
		node ast.Node
		want string
	}{
		{&ast.BlockStatement{}, "Unsupported node type: BlockStatement"},
		{&ast.FunctionDeclaration{Body: &ast.BlockStatement{}}, "Unsupported node type: FunctionDeclaration"},
		{&ast.ReturnStatement{Argument: num(1)}, "Unsupported node type: ReturnStatement"},
		{&ast.ExpressionStatement{Expression: num(1)}, "Unsupported node type: ExpressionStatement"},
		{&ast.ArrowFunctionExpression{Body: num(1)}, "Unsupported node type: ArrowFunctionExpression"},
		{&ast.SequenceExpression{Expressions: []ast.Node{num(1)}}, "Unsupported node type: SequenceExpression"},
		{&ast.Unknown{Tag: "ConditionalExpression"}, "Unsupported node type: ConditionalExpression"},
		{bin("+", num(1), &ast.Unknown{Tag: "ThisExpression"}), "Unsupported node type: ThisExpression"},
		{nil, "Unsupported node type: <nil>"},
		{(*ast.Literal)(nil), "Unsupported node type: <nil>"},
		{(*ast.Unknown)(nil), "Unsupported node type: <nil>"},
		{bin("+", num(1), (*ast.Identifier)(nil)), "Unsupported node type: <nil>"},
		{&ast.UnaryExpression{Operator: "-", Argument: (*ast.CallExpression)(nil)}, "Unsupported node type: <nil>"},
		{&ast.CallExpression{Callee: (*ast.Identifier)(nil)}, "Unsupported node type: <nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := Evaluate(tt.node, Vars{})
			require.Error(t, err)
			assert.True(t, types.IsKind(err, types.KindUnsupportedNodeType))
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestUnsupportedOperators(t *testing.T) {
	_, err := Evaluate(bin("??", lit(types.Null), num(1)), Vars{})
	assert.True(t, types.IsKind(err, types.KindUnsupportedBinaryOperator))
	assert.EqualError(t, err, "Unsupported binary operator: ??")

	_, err = Evaluate(bin("instanceof", num(1), num(1)), Vars{})
	assert.True(t, types.IsKind(err, types.KindUnsupportedBinaryOperator))

	_, err = Evaluate(unary("delete", ident("x")), Vars{})
	assert.True(t, types.IsKind(err, types.KindUnsupportedUnaryOperator))
	assert.EqualError(t, err, "Unsupported unary operator: delete")
}

func TestEvaluationIsRepeatable(t *testing.T) {
	scope := Vars{
		"sum": sumFunc(),
		"obj": types.NewObject(types.NewOrderedMapFromPairs("k", types.NewNumber(4))),
	}
	node := bin("*", call(ident("sum"), num(1), member(ident("obj"), "k")), unary("-", num(2)))

	first := mustEval(t, node, scope)
	second := mustEval(t, node, scope)
	assert.True(t, first.Equal(types.NewNumber(-10)))
	assert.True(t, first.Equal(second))
}

func TestApply(t *testing.T) {
	fn := &ast.Function{
		Params: []string{"x", "y"},
		Body:   bin("+", bin("*", ident("x"), num(2)), ident("y")),
	}
	parent := Vars{"y": types.NewNumber(100), "z": types.NewNumber(1)}

	got, err := Apply(fn, []types.Value{types.NewNumber(21), types.NewNumber(0)}, parent)
	require.NoError(t, err)
	assert.True(t, got.Equal(types.NewNumber(42)))

	// A missing argument is undefined and shadows the parent binding.
	got, err = Apply(fn, []types.Value{types.NewNumber(1)}, parent)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.AsNumber()))

	got, err = Apply(&ast.Function{Body: ident("z")}, nil, parent)
	require.NoError(t, err)
	assert.True(t, got.Equal(types.NewNumber(1)))
}

func TestChain(t *testing.T) {
	scope := Chain(Vars{"a": types.NewNumber(1)}, Vars{"a": types.NewNumber(2), "b": types.NewNumber(3)})
	assert.True(t, scope.Lookup("a").Equal(types.NewNumber(1)))
	assert.True(t, scope.Lookup("b").Equal(types.NewNumber(3)))
	assert.True(t, scope.Lookup("c").IsUndefined())
	assert.True(t, Chain(nil, nil).Lookup("a").IsUndefined())
}

func mustJSON(t *testing.T, v types.Value) []byte {
	t.Helper()
	b, err := v.MarshalJSON()
	require.NoError(t, err)
	return b
}
