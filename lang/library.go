package lang

// This file builds the standard base scope available to evaluations that
// request it. The scope is lazily initialized once per process and shared:
// base scopes are read-only from the environment core's perspective, so one
// copy can back every concurrent interpreter.
//
// Standard names can be shadowed by user definitions in any inner scope.

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Private singleton base scope.
//
//nolint:gochecknoglobals
var (
	stdScopeOnce sync.Once
	stdScope     *Scope
)

// StdScope returns the shared standard base scope. The scope is constructed
// on first use and must not be written to afterward; interpreters receive
// it as the read-only base of their scope chain.
func StdScope() *Scope {
	stdScopeOnce.Do(func() {
		stdScope = NewScope()

		// Output.
		stdScope.DefFunc("print", stdPrint)

		// Reflection.
		stdScope.DefFunc("type", stdType)
		stdScope.DefFunc("constant", stdConstant)

		// Process environment.
		stdScope.DefFunc("env", stdEnv)

		// Path manipulation.
		stdScope.DefFunc("abs", stdPathAbs)
		stdScope.DefFunc("cat", stdPathCat)
		stdScope.DefFunc("rel", stdPathRel)

		// PATH-like list manipulation via mung.
		stdScope.DefFunc("prefix", stdMungPrefix)
		stdScope.DefFunc("suffix", stdMungSuffix)

		// Host platform descriptor.
		DefClass[Target](stdScope, "target")
	})

	return stdScope
}

// stdPrint writes its arguments to the context output, space-separated with
// a trailing newline, and returns nothing.
func stdPrint(ctx *EvalContext, args *Args) (Value, error) {
	part := make([]string, 0, args.Len())

	for i := range args.Len() {
		v := args.Get(i)
		if s, ok := v.Any().(string); ok {
			part = append(part, s)
		} else {
			part = append(part, v.String())
		}
	}

	_, err := fmt.Fprintln(ctx.Out, strings.Join(part, " "))

	return Value{}, err
}

// stdType returns the host type name of its argument.
func stdType(_ *EvalContext, args *Args) (Value, error) {
	if err := args.Expect(1); err != nil {
		return Value{}, err
	}

	v := args.Get(0).Any()
	if v == nil {
		return NewValue("none"), nil
	}

	return NewValue(fmt.Sprintf("%T", v)), nil
}

// stdConstant reports whether the named binding resolves to a sealed slot.
func stdConstant(ctx *EvalContext, args *Args) (Value, error) {
	name, err := args.String(0)
	if err != nil {
		return Value{}, err
	}

	slot, ok := ctx.Scopes.Lookup(name)
	if !ok {
		return Value{}, undefined(name, ctx.Scopes)
	}

	return NewValue(slot.Constant()), nil
}

// stdEnv returns the value of a process environment variable, or an empty
// string when unset.
func stdEnv(_ *EvalContext, args *Args) (Value, error) {
	key, err := args.String(0)
	if err != nil {
		return Value{}, err
	}

	return NewValue(os.Getenv(key)), nil
}

func stdPathAbs(_ *EvalContext, args *Args) (Value, error) {
	path, err := args.String(0)
	if err != nil {
		return Value{}, err
	}

	p, err := filepath.Abs(path)
	if err != nil {
		return NewValue(path), nil
	}

	return NewValue(p), nil
}

func stdPathCat(_ *EvalContext, args *Args) (Value, error) {
	elem, err := args.Strings(0)
	if err != nil {
		return Value{}, err
	}

	return NewValue(filepath.Join(elem...)), nil
}

func stdPathRel(_ *EvalContext, args *Args) (Value, error) {
	if err := args.Expect(2); err != nil {
		return Value{}, err
	}

	from, err := args.String(0)
	if err != nil {
		return Value{}, err
	}

	to, err := args.String(1)
	if err != nil {
		return Value{}, err
	}

	p, err := filepath.Rel(from, to)
	if err != nil {
		return NewValue(filepath.Join(from, to)), nil
	}

	return NewValue(p), nil
}

// stdMungPrefix prepends items to a PATH-like list, deduplicating entries.
func stdMungPrefix(_ *EvalContext, args *Args) (Value, error) {
	if err := args.ExpectAtLeast(1); err != nil {
		return Value{}, err
	}

	subject, err := args.String(0)
	if err != nil {
		return Value{}, err
	}

	items, err := args.Strings(1)
	if err != nil {
		return Value{}, err
	}

	return NewValue(mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()), nil
}

// stdMungSuffix appends items to a PATH-like list, deduplicating entries.
func stdMungSuffix(_ *EvalContext, args *Args) (Value, error) {
	if err := args.ExpectAtLeast(1); err != nil {
		return Value{}, err
	}

	subject, err := args.String(0)
	if err != nil {
		return Value{}, err
	}

	items, err := args.Strings(1)
	if err != nil {
		return Value{}, err
	}

	return NewValue(mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithSuffixItems(items...),
	).String()), nil
}

// Target describes a target operating system and instruction set
// architecture. It is the stock class of the standard scope: constructing
// it with no arguments yields the host platform, and Set overrides
// individual fields.
type Target struct {
	OS   string
	Arch string
}

// Construct implements the Construct capability. With no arguments the host
// platform is returned; with two string arguments they are taken as OS and
// architecture.
func (Target) Construct(_ *EvalContext, args *Args) (Value, error) {
	if args.Len() == 0 {
		return NewValue(hostTarget()), nil
	}

	if err := args.Expect(2); err != nil {
		return Value{}, err
	}

	goos, err := args.String(0)
	if err != nil {
		return Value{}, err
	}

	arch, err := args.String(1)
	if err != nil {
		return Value{}, err
	}

	return NewValue(Target{OS: goos, Arch: arch}), nil
}

// Set implements the Set capability. Arguments are "key=value" pairs for
// the fields "os" and "arch"; unset fields keep the host defaults.
func (t Target) Set(_ *EvalContext, args *Args) (Value, error) {
	if t == (Target{}) {
		t = hostTarget()
	}

	pairs, err := args.Strings(0)
	if err != nil {
		return Value{}, err
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Value{}, ErrArgType.With(attrName(pair))
		}

		switch key {
		case "os":
			t.OS = value
		case "arch":
			t.Arch = value
		default:
			return Value{}, ErrArgType.With(attrName(key))
		}
	}

	return NewValue(t), nil
}

// String implements fmt.Stringer using GOOS/GOARCH conventions.
func (t Target) String() string { return t.OS + "/" + t.Arch }

// hostTarget returns the host platform, honoring the GOOS/GOARCH override
// variables the way the Go toolchain does.
func hostTarget() Target {
	goos, ok := os.LookupEnv("GOOS")
	if !ok {
		goos = runtime.GOOS
	}

	arch, ok := os.LookupEnv("GOARCH")
	if !ok {
		arch = runtime.GOARCH
	}

	return Target{OS: goos, Arch: arch}
}
