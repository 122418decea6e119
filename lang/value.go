package lang

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Value is the unit of storage for the environment model: a thin wrapper
// around an opaque host value. The core never inspects the wrapped value
// beyond what identity hashing and debug printing require.
type Value struct {
	v any
}

// NewValue wraps a host value. Wrapping a Value returns it unchanged.
func NewValue(v any) Value {
	if val, ok := v.(Value); ok {
		return val
	}

	return Value{v: v}
}

// Any returns the wrapped host value.
func (v Value) Any() any { return v.v }

// IsNil reports whether the value wraps nothing.
func (v Value) IsNil() bool { return v.v == nil }

// String implements fmt.Stringer for debug printing.
func (v Value) String() string {
	switch t := v.v.(type) {
	case nil:
		return "none"
	case string:
		return fmt.Sprintf("%q", t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Hasher is implemented by host values that define their own identity hash.
// Values that do not implement Hasher are hashed from their formatted
// representation, which is deterministic for the plain Go kinds the
// interpreter produces.
type Hasher interface {
	Hash64() uint64
}

// Hash64 returns a deterministic identity hash of the wrapped value.
func (v Value) Hash64() uint64 {
	if h, ok := v.v.(Hasher); ok {
		return h.Hash64()
	}

	return xxh3.HashString(fmt.Sprintf("%T\x00%#v", v.v, v.v))
}

// NativeFn is the calling convention for native functions: positional
// arguments in, one value or an error out. The EvalContext carries the
// scope chain and output sink of the evaluation that invoked the function.
type NativeFn func(ctx *EvalContext, args *Args) (Value, error)

// Func is a named native callable. Funcs are registered as constant
// bindings; the binding can never be reassigned, though the Go closure
// backing it is constructed externally.
type Func struct {
	name string
	fn   NativeFn
}

// NativeFunc creates a callable value from a name and a Go closure.
func NativeFunc(name string, fn NativeFn) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the name the function was registered under.
func (f *Func) Name() string { return f.name }

// Call invokes the native implementation.
func (f *Func) Call(ctx *EvalContext, args *Args) (Value, error) {
	if f.fn == nil {
		return Value{}, ErrNotCallable.With(attrName(f.name))
	}

	return f.fn(ctx, args)
}

// String implements fmt.Stringer.
func (f *Func) String() string { return "<function " + f.name + ">" }

// Hash64 implements Hasher. Native functions hash by name: two
// registrations of the same builtin are the same binding for the purpose
// of scope identity.
func (f *Func) Hash64() uint64 { return xxh3.HashString("func\x00" + f.name) }

// Construct is the capability to build an instance from call arguments.
type Construct interface {
	Construct(ctx *EvalContext, args *Args) (Value, error)
}

// Set is the capability to apply styled properties from call arguments,
// returning the updated instance.
type Set interface {
	Set(ctx *EvalContext, args *Args) (Value, error)
}

// Model is the capability pair a type must satisfy to be registered as a
// class.
type Model interface {
	Construct
	Set
}

// Class is a named type descriptor for a Model. Classes are registered as
// constant bindings.
type Class struct {
	name string
	zero func() Model
}

// NewClass creates a class descriptor for T. The zero value of T backs
// construction, so T's Construct must not depend on prior state.
func NewClass[T Model](name string) *Class {
	return &Class{
		name: name,
		zero: func() Model {
			var t T

			return t
		},
	}
}

// Name returns the name the class was registered under.
func (c *Class) Name() string { return c.name }

// Construct builds a new instance of the described type.
func (c *Class) Construct(ctx *EvalContext, args *Args) (Value, error) {
	return c.zero().Construct(ctx, args)
}

// Set applies properties to the described type's zero instance and returns
// the updated instance. Styled defaults accumulate on instances, not on the
// class.
func (c *Class) Set(ctx *EvalContext, args *Args) (Value, error) {
	return c.zero().Set(ctx, args)
}

// String implements fmt.Stringer.
func (c *Class) String() string { return "<class " + c.name + ">" }

// Hash64 implements Hasher.
func (c *Class) Hash64() uint64 { return xxh3.HashString("class\x00" + c.name) }
