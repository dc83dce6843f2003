// Package eval implements the tree-walking evaluator over ast nodes.
package eval

import (
	"fmt"

	"github.com/lemonberrylabs/asteval/pkg/ast"
	"github.com/lemonberrylabs/asteval/pkg/types"
)

// Scope provides read-only variable lookup for evaluation. Lookup returns
// types.Undefined for names it does not bind.
type Scope interface {
	Lookup(name string) types.Value
}

// Vars is a Scope backed by a plain map.
type Vars map[string]types.Value

// Lookup implements Scope.
func (v Vars) Lookup(name string) types.Value {
	if val, ok := v[name]; ok {
		return val
	}
	return types.Undefined
}

// Chain returns a Scope that resolves names in vars first and falls back to
// parent for names vars does not contain.
func Chain(vars Vars, parent Scope) Scope {
	return &chainScope{vars: vars, parent: parent}
}

type chainScope struct {
	vars   Vars
	parent Scope
}

func (s *chainScope) Lookup(name string) types.Value {
	if val, ok := s.vars[name]; ok {
		return val
	}
	if s.parent == nil {
		return types.Undefined
	}
	return s.parent.Lookup(name)
}

// Evaluate evaluates a node within the given scope. A nil scope behaves like
// an empty one.
func Evaluate(node ast.Node, scope Scope) (types.Value, error) {
	if scope == nil {
		scope = Vars(nil)
	}
	if ast.IsNil(node) {
		return types.Undefined, types.NewUnsupportedNodeType("<nil>")
	}
	switch n := node.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.Identifier:
		return scope.Lookup(n.Name), nil
	case *ast.MemberExpression:
		return evalMember(n, scope)
	case *ast.BinaryExpression:
		return evalBinary(n, scope)
	case *ast.UnaryExpression:
		return evalUnary(n, scope)
	case *ast.CallExpression:
		return evalCall(n, scope)
	default:
		return types.Undefined, types.NewUnsupportedNodeType(node.Type())
	}
}

func evalMember(n *ast.MemberExpression, scope Scope) (types.Value, error) {
	obj, err := Evaluate(n.Object, scope)
	if err != nil {
		return types.Undefined, err
	}

	var key types.Value
	if n.Computed {
		key, err = Evaluate(n.Property, scope)
		if err != nil {
			return types.Undefined, err
		}
	} else {
		ident, ok := n.Property.(*ast.Identifier)
		if !ok || ident == nil {
			return types.Undefined, types.NewTypeError(
				fmt.Sprintf("non-computed member property must be an Identifier, got %s", nodeTag(n.Property)))
		}
		key = types.NewString(ident.Name)
	}

	return types.GetMember(obj, key)
}

func evalBinary(n *ast.BinaryExpression, scope Scope) (types.Value, error) {
	// Both operands are always evaluated, && and || included.
	left, err := Evaluate(n.Left, scope)
	if err != nil {
		return types.Undefined, err
	}
	right, err := Evaluate(n.Right, scope)
	if err != nil {
		return types.Undefined, err
	}
	return Binary(n.Operator, left, right)
}

func evalUnary(n *ast.UnaryExpression, scope Scope) (types.Value, error) {
	arg, err := Evaluate(n.Argument, scope)
	if err != nil {
		return types.Undefined, err
	}
	return Unary(n.Operator, arg)
}

// evalCall invokes the callee as a plain function. A callee produced by a
// MemberExpression is not bound to its object.
func evalCall(n *ast.CallExpression, scope Scope) (types.Value, error) {
	callee, err := Evaluate(n.Callee, scope)
	if err != nil {
		return types.Undefined, err
	}

	args := make([]types.Value, len(n.Arguments))
	for i, arg := range n.Arguments {
		val, err := Evaluate(arg, scope)
		if err != nil {
			return types.Undefined, err
		}
		args[i] = val
	}

	if callee.Type() != types.TypeFunction {
		return types.Undefined, types.NewTypeError(
			fmt.Sprintf("%s is not a function", calleeName(n.Callee)))
	}
	return callee.AsFunction().Fn(args)
}

// Apply evaluates the body of a function header with its parameters bound
// positionally to args over parent. Missing arguments are undefined.
func Apply(fn *ast.Function, args []types.Value, parent Scope) (types.Value, error) {
	vars := make(Vars, len(fn.Params))
	for i, name := range fn.Params {
		if i < len(args) {
			vars[name] = args[i]
		} else {
			vars[name] = types.Undefined
		}
	}
	return Evaluate(fn.Body, Chain(vars, parent))
}

// calleeName renders the dotted name of a callee for error messages.
func calleeName(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.MemberExpression:
		if ident, ok := n.Property.(*ast.Identifier); ok && !n.Computed {
			return calleeName(n.Object) + "." + ident.Name
		}
		return calleeName(n.Object) + "[...]"
	default:
		return "expression"
	}
}

func nodeTag(node ast.Node) string {
	if ast.IsNil(node) {
		return "<nil>"
	}
	return node.Type()
}
