// Package ast defines the ESTree-shaped node types the evaluator walks and
// converts decoded documents into them.
package ast

import (
	"reflect"

	"github.com/lemonberrylabs/asteval/pkg/types"
)

// Node tags.
const (
	TagLiteral                 = "Literal"
	TagIdentifier              = "Identifier"
	TagMemberExpression        = "MemberExpression"
	TagBinaryExpression        = "BinaryExpression"
	TagUnaryExpression         = "UnaryExpression"
	TagCallExpression          = "CallExpression"
	TagFunctionDeclaration     = "FunctionDeclaration"
	TagBlockStatement          = "BlockStatement"
	TagReturnStatement         = "ReturnStatement"
	TagExpressionStatement     = "ExpressionStatement"
	TagArrowFunctionExpression = "ArrowFunctionExpression"
	TagSequenceExpression      = "SequenceExpression"
)

// Node is the interface for all AST nodes. Type returns the ESTree "type"
// discriminant.
type Node interface {
	Type() string
}

// IsNil reports whether n is nil or a nil pointer stored in the interface.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Literal holds a primitive value: boolean, number, string or null.
type Literal struct {
	Value types.Value
}

func (n *Literal) Type() string { return TagLiteral }

// Identifier is a name resolved against the context.
type Identifier struct {
	Name string
}

func (n *Identifier) Type() string { return TagIdentifier }

// MemberExpression is obj.prop (Computed false, Property an *Identifier) or
// obj[expr] (Computed true).
type MemberExpression struct {
	Object   Node
	Property Node
	Computed bool
}

func (n *MemberExpression) Type() string { return TagMemberExpression }

// BinaryExpression is a two-operand operation, including && and ||.
type BinaryExpression struct {
	Operator string
	Left     Node
	Right    Node
}

func (n *BinaryExpression) Type() string { return TagBinaryExpression }

// UnaryExpression is a prefix operation.
type UnaryExpression struct {
	Operator string
	Argument Node
	Prefix   bool
}

func (n *UnaryExpression) Type() string { return TagUnaryExpression }

// CallExpression is callee(arguments...).
type CallExpression struct {
	Callee    Node
	Arguments []Node
}

func (n *CallExpression) Type() string { return TagCallExpression }

// FunctionDeclaration is function name(params) { body }.
type FunctionDeclaration struct {
	ID     *Identifier // may be nil
	Params []*Identifier
	Body   *BlockStatement
}

func (n *FunctionDeclaration) Type() string { return TagFunctionDeclaration }

// BlockStatement is a braced statement list.
type BlockStatement struct {
	Body []Node
}

func (n *BlockStatement) Type() string { return TagBlockStatement }

// ReturnStatement is return argument; Argument is nil for a bare return.
type ReturnStatement struct {
	Argument Node
}

func (n *ReturnStatement) Type() string { return TagReturnStatement }

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Expression Node
}

func (n *ExpressionStatement) Type() string { return TagExpressionStatement }

// ArrowFunctionExpression is (params) => body, where Body is either a
// *BlockStatement or an expression.
type ArrowFunctionExpression struct {
	Params []*Identifier
	Body   Node
}

func (n *ArrowFunctionExpression) Type() string { return TagArrowFunctionExpression }

// SequenceExpression is a, b, c.
type SequenceExpression struct {
	Expressions []Node
}

func (n *SequenceExpression) Type() string { return TagSequenceExpression }

// Unknown carries a node whose tag is outside the supported set, so that
// evaluating it (rather than decoding it) reports the failure.
type Unknown struct {
	Tag string
}

func (n *Unknown) Type() string { return n.Tag }
