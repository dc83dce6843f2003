package ast

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lemonberrylabs/asteval/pkg/types"
)

// Decode parses a JSON or YAML ESTree document (for example acorn or esprima
// output) into a Node. Position fields such as start, end, loc, range and raw
// are ignored.
func Decode(data []byte) (Node, error) {
	v, err := types.DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return FromValue(v)
}

// FromGo converts an already-decoded document (map[string]any trees as
// produced by encoding/json) into a Node.
func FromGo(doc interface{}) (Node, error) {
	return FromValue(types.FromGo(doc))
}

// FromProto converts a protobuf Struct holding an ESTree document into a Node.
func FromProto(s *structpb.Struct) (Node, error) {
	return FromValue(types.FromProtoStruct(s))
}

// FromValue converts an object value shaped like an ESTree node into a Node.
func FromValue(v types.Value) (Node, error) {
	return convert(v, "$")
}

func convert(v types.Value, path string) (Node, error) {
	if v.Type() != types.TypeObject {
		return nil, fmt.Errorf("%s: expected a node object, got %s", path, v.Type())
	}
	obj := v.AsObject()
	tagVal, ok := obj.Get("type")
	if !ok || tagVal.Type() != types.TypeString {
		return nil, fmt.Errorf("%s: node is missing a string \"type\" field", path)
	}
	tag := tagVal.AsString()

	switch tag {
	case TagLiteral:
		val, _ := obj.Get("value")
		switch val.Type() {
		case types.TypeBool, types.TypeNumber, types.TypeString, types.TypeNull:
		case types.TypeUndefined:
			val = types.Null
		default:
			return nil, fmt.Errorf("%s.value: unsupported literal value of type %s", path, val.Type())
		}
		return &Literal{Value: val}, nil

	case TagIdentifier:
		name, err := stringField(obj, "name", path)
		if err != nil {
			return nil, err
		}
		return &Identifier{Name: name}, nil

	case TagMemberExpression:
		object, err := childField(obj, "object", path)
		if err != nil {
			return nil, err
		}
		property, err := childField(obj, "property", path)
		if err != nil {
			return nil, err
		}
		return &MemberExpression{Object: object, Property: property, Computed: boolField(obj, "computed")}, nil

	case TagBinaryExpression:
		op, err := stringField(obj, "operator", path)
		if err != nil {
			return nil, err
		}
		left, err := childField(obj, "left", path)
		if err != nil {
			return nil, err
		}
		right, err := childField(obj, "right", path)
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{Operator: op, Left: left, Right: right}, nil

	case TagUnaryExpression:
		op, err := stringField(obj, "operator", path)
		if err != nil {
			return nil, err
		}
		arg, err := childField(obj, "argument", path)
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Operator: op, Argument: arg, Prefix: true}, nil

	case TagCallExpression:
		callee, err := childField(obj, "callee", path)
		if err != nil {
			return nil, err
		}
		args, err := childList(obj, "arguments", path)
		if err != nil {
			return nil, err
		}
		return &CallExpression{Callee: callee, Arguments: args}, nil

	case TagFunctionDeclaration:
		fn := &FunctionDeclaration{}
		if id, ok := obj.Get("id"); ok && !id.IsNullish() {
			n, err := convert(id, path+".id")
			if err != nil {
				return nil, err
			}
			ident, ok := n.(*Identifier)
			if !ok {
				return nil, fmt.Errorf("%s.id: expected Identifier, got %s", path, n.Type())
			}
			fn.ID = ident
		}
		params, err := paramList(obj, path)
		if err != nil {
			return nil, err
		}
		fn.Params = params
		body, err := childField(obj, "body", path)
		if err != nil {
			return nil, err
		}
		block, ok := body.(*BlockStatement)
		if !ok {
			return nil, fmt.Errorf("%s.body: expected BlockStatement, got %s", path, body.Type())
		}
		fn.Body = block
		return fn, nil

	case TagBlockStatement:
		body, err := childList(obj, "body", path)
		if err != nil {
			return nil, err
		}
		return &BlockStatement{Body: body}, nil

	case TagReturnStatement:
		ret := &ReturnStatement{}
		if arg, ok := obj.Get("argument"); ok && !arg.IsNullish() {
			n, err := convert(arg, path+".argument")
			if err != nil {
				return nil, err
			}
			ret.Argument = n
		}
		return ret, nil

	case TagExpressionStatement:
		expr, err := childField(obj, "expression", path)
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Expression: expr}, nil

	case TagArrowFunctionExpression:
		params, err := paramList(obj, path)
		if err != nil {
			return nil, err
		}
		body, err := childField(obj, "body", path)
		if err != nil {
			return nil, err
		}
		return &ArrowFunctionExpression{Params: params, Body: body}, nil

	case TagSequenceExpression:
		exprs, err := childList(obj, "expressions", path)
		if err != nil {
			return nil, err
		}
		return &SequenceExpression{Expressions: exprs}, nil

	default:
		return &Unknown{Tag: tag}, nil
	}
}

func stringField(obj *types.OrderedMap, name, path string) (string, error) {
	v, ok := obj.Get(name)
	if !ok || v.Type() != types.TypeString {
		return "", fmt.Errorf("%s.%s: expected a string", path, name)
	}
	return v.AsString(), nil
}

func boolField(obj *types.OrderedMap, name string) bool {
	v, _ := obj.Get(name)
	return types.ToBoolean(v)
}

func childField(obj *types.OrderedMap, name, path string) (Node, error) {
	v, ok := obj.Get(name)
	if !ok || v.IsNullish() {
		return nil, fmt.Errorf("%s.%s: missing node", path, name)
	}
	return convert(v, path+"."+name)
}

func childList(obj *types.OrderedMap, name, path string) ([]Node, error) {
	v, ok := obj.Get(name)
	if !ok {
		return nil, nil
	}
	if v.Type() != types.TypeArray {
		return nil, fmt.Errorf("%s.%s: expected a list of nodes, got %s", path, name, v.Type())
	}
	items := v.AsArray()
	nodes := make([]Node, len(items))
	for i, item := range items {
		n, err := convert(item, fmt.Sprintf("%s.%s[%d]", path, name, i))
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func paramList(obj *types.OrderedMap, path string) ([]*Identifier, error) {
	nodes, err := childList(obj, "params", path)
	if err != nil {
		return nil, err
	}
	params := make([]*Identifier, len(nodes))
	for i, n := range nodes {
		ident, ok := n.(*Identifier)
		if !ok {
			return nil, fmt.Errorf("%s.params[%d]: only identifier parameters are supported, got %s", path, i, n.Type())
		}
		params[i] = ident
	}
	return params, nil
}
