package ast

import (
	"fmt"

	"github.com/lemonberrylabs/asteval/pkg/types"
)

// Function is the readable shape of a function header: its parameter names
// and the expression it returns.
type Function struct {
	Name   string
	Params []string
	Body   Node
}

// ReadFunction reads a function header, either a FunctionDeclaration or an
// ExpressionStatement wrapping an ArrowFunctionExpression (a bare arrow is
// accepted too). The body is the argument of the first return statement of a
// block body, or an arrow's expression body. Nothing is evaluated.
func ReadFunction(header Node) (*Function, error) {
	if IsNil(header) {
		return nil, fmt.Errorf("not a function header: <nil>")
	}
	switch n := header.(type) {
	case *FunctionDeclaration:
		if n.Body == nil {
			return nil, fmt.Errorf("not a function header: %s without a body", TagFunctionDeclaration)
		}
		body, err := returnedExpression(n.Body)
		if err != nil {
			return nil, err
		}
		params, err := paramNames(n.Params)
		if err != nil {
			return nil, err
		}
		fn := &Function{Params: params, Body: body}
		if n.ID != nil {
			fn.Name = n.ID.Name
		}
		return fn, nil
	case *ExpressionStatement:
		if IsNil(n.Expression) {
			return nil, fmt.Errorf("not a function header: %s without an expression", TagExpressionStatement)
		}
		arrow, ok := n.Expression.(*ArrowFunctionExpression)
		if !ok {
			return nil, fmt.Errorf("expression statement does not hold an arrow function (got %s)", n.Expression.Type())
		}
		return readArrow(arrow)
	case *ArrowFunctionExpression:
		return readArrow(n)
	default:
		return nil, fmt.Errorf("not a function header: %s", header.Type())
	}
}

func readArrow(n *ArrowFunctionExpression) (*Function, error) {
	if IsNil(n.Body) {
		return nil, fmt.Errorf("not a function header: %s without a body", TagArrowFunctionExpression)
	}
	body := n.Body
	if block, ok := body.(*BlockStatement); ok {
		var err error
		if body, err = returnedExpression(block); err != nil {
			return nil, err
		}
	}
	params, err := paramNames(n.Params)
	if err != nil {
		return nil, err
	}
	return &Function{Params: params, Body: body}, nil
}

func returnedExpression(block *BlockStatement) (Node, error) {
	for _, stmt := range block.Body {
		ret, ok := stmt.(*ReturnStatement)
		if !ok || ret == nil {
			continue
		}
		if IsNil(ret.Argument) {
			return &Literal{Value: types.Undefined}, nil
		}
		return ret.Argument, nil
	}
	return nil, fmt.Errorf("function body has no return statement")
}

func paramNames(params []*Identifier) ([]string, error) {
	names := make([]string, len(params))
	for i, p := range params {
		if p == nil {
			return nil, fmt.Errorf("parameter %d is not an identifier", i)
		}
		names[i] = p.Name
	}
	return names, nil
}
