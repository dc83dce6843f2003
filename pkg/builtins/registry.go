// Package builtins provides host callables and constants (Math, JSON, Number,
// parseInt, ...) for building evaluation contexts.
package builtins

import (
	"strings"

	"github.com/lemonberrylabs/asteval/pkg/eval"
	"github.com/lemonberrylabs/asteval/pkg/types"
)

// Registry holds global bindings. Dotted names register into namespace
// objects ("Math.abs" becomes property abs of global Math). A Registry is
// read-only once NewRegistry returns and is safe for concurrent lookups.
type Registry struct {
	globals map[string]types.Value
}

// NewRegistry creates a registry with all built-ins registered.
func NewRegistry() *Registry {
	r := &Registry{
		globals: make(map[string]types.Value),
	}
	r.registerGlobals()
	r.registerMath()
	r.registerJSON()
	r.registerObject()
	r.registerText()
	return r
}

// Lookup implements eval.Scope.
func (r *Registry) Lookup(name string) types.Value {
	if v, ok := r.globals[name]; ok {
		return v
	}
	return types.Undefined
}

// Scope layers caller variables over the registry's globals.
func (r *Registry) Scope(vars eval.Vars) eval.Scope {
	return eval.Chain(vars, r)
}

// Register adds a function under a possibly dotted name.
func (r *Registry) Register(name string, fn types.Function) {
	short := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		short = name[i+1:]
	}
	r.RegisterValue(name, types.NewFunction(short, fn))
}

// RegisterValue adds a value under a possibly dotted name.
func (r *Registry) RegisterValue(name string, v types.Value) {
	ns, prop, dotted := strings.Cut(name, ".")
	if !dotted {
		r.globals[name] = v
		return
	}
	obj, ok := r.globals[ns]
	if !ok || obj.Type() != types.TypeObject {
		obj = types.NewObject(types.NewOrderedMap())
		r.globals[ns] = obj
	}
	obj.AsObject().Set(prop, v)
}

// arg returns the i'th argument, or undefined when it was not supplied.
func arg(args []types.Value, i int) types.Value {
	if i < len(args) {
		return args[i]
	}
	return types.Undefined
}
