package api

import (
	"errors"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lemonberrylabs/asteval/pkg/ast"
	"github.com/lemonberrylabs/asteval/pkg/builtins"
	"github.com/lemonberrylabs/asteval/pkg/eval"
	"github.com/lemonberrylabs/asteval/pkg/types"
)

// Request is a decoded evaluation request, shared by the HTTP and gRPC
// surfaces.
type Request struct {
	Node     ast.Node
	Vars     eval.Vars
	Builtins bool
	Args     []types.Value // non-nil when Node is a function header to apply
}

// RequestError marks a request that is malformed rather than one whose
// evaluation failed.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// ParseRequest reads a request document with the fields node, context,
// builtins and args.
func ParseRequest(doc types.Value) (*Request, error) {
	if doc.Type() != types.TypeObject {
		return nil, errors.New("body must be an object")
	}
	fields := doc.AsObject()

	nodeVal, ok := fields.Get("node")
	if !ok {
		return nil, errors.New("node is required")
	}
	node, err := ast.FromValue(nodeVal)
	if err != nil {
		return nil, err
	}
	req := &Request{Node: node, Vars: eval.Vars{}}

	if ctxVal, ok := fields.Get("context"); ok && !ctxVal.IsNullish() {
		if ctxVal.Type() != types.TypeObject {
			return nil, errors.New("context must be an object")
		}
		ctx := ctxVal.AsObject()
		for _, k := range ctx.Keys() {
			req.Vars[k], _ = ctx.Get(k)
		}
	}
	if b, ok := fields.Get("builtins"); ok {
		req.Builtins = types.ToBoolean(b)
	}
	if argsVal, ok := fields.Get("args"); ok && !argsVal.IsNullish() {
		if argsVal.Type() != types.TypeArray {
			return nil, errors.New("args must be a list")
		}
		req.Args = append([]types.Value{}, argsVal.AsArray()...)
	}
	return req, nil
}

// Run evaluates the request. A function header that cannot be read is
// reported as a *RequestError; evaluation failures are returned unchanged.
func Run(req *Request, registry *builtins.Registry) (types.Value, error) {
	var scope eval.Scope = req.Vars
	if req.Builtins {
		scope = registry.Scope(req.Vars)
	}
	if req.Args == nil {
		return eval.Evaluate(req.Node, scope)
	}
	fn, err := ast.ReadFunction(req.Node)
	if err != nil {
		return types.Undefined, &RequestError{Err: err}
	}
	return eval.Apply(fn, req.Args, scope)
}

// ErrorKind names the error class of an evaluation failure, "Error" when the
// failure carries no kind.
func ErrorKind(err error) string {
	if k, ok := types.KindOf(err); ok {
		return string(k)
	}
	return "Error"
}

// ResultStruct is the {value, type} result as a google.protobuf.Struct.
func ResultStruct(value types.Value) (*structpb.Struct, error) {
	pv, err := types.ToProto(value)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"value": pv,
		"type":  structpb.NewStringValue(types.TypeOf(value)),
	}}, nil
}
