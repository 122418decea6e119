package lang

import (
	"io"
	"log/slog"

	"github.com/ardnew/lexenv/log"
)

// Args holds the positional arguments of one native function call.
type Args struct {
	items []Value
}

// NewArgs collects values into an argument list.
func NewArgs(vals ...Value) *Args {
	return &Args{items: vals}
}

// Len returns the number of arguments.
func (a *Args) Len() int { return len(a.items) }

// Get returns the argument at index i, or a nil value when out of range.
func (a *Args) Get(i int) Value {
	if i < 0 || i >= len(a.items) {
		return Value{}
	}

	return a.items[i]
}

// Expect verifies the argument count.
func (a *Args) Expect(n int) error {
	if len(a.items) != n {
		return ErrArity.With(
			slog.Int("expected", n),
			slog.Int("got", len(a.items)),
		)
	}

	return nil
}

// ExpectAtLeast verifies a minimum argument count.
func (a *Args) ExpectAtLeast(n int) error {
	if len(a.items) < n {
		return ErrArity.With(
			slog.Int("expected_at_least", n),
			slog.Int("got", len(a.items)),
		)
	}

	return nil
}

// String returns the argument at index i as a string.
func (a *Args) String(i int) (string, error) {
	s, ok := a.Get(i).Any().(string)
	if !ok {
		return "", ErrArgType.With(
			slog.Int("index", i),
			slog.String("expected", "string"),
		)
	}

	return s, nil
}

// Strings returns all arguments from index i onward as strings.
func (a *Args) Strings(i int) ([]string, error) {
	if i < 0 || i > len(a.items) {
		return nil, nil
	}

	out := make([]string, 0, len(a.items)-i)

	for ; i < len(a.items); i++ {
		s, err := a.String(i)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// EvalContext is the state a native function sees when called: the scope
// chain of the running evaluation, an output sink for effectful builtins,
// and the logger of the host interpreter.
type EvalContext struct {
	// Scopes is the live scope chain of the evaluation in progress.
	Scopes *Scopes
	// Out receives output produced by builtins such as print.
	Out io.Writer

	logger log.Logger
}

// NewEvalContext creates a calling context over the given scope chain.
// Output defaults to io.Discard until redirected.
func NewEvalContext(scopes *Scopes) *EvalContext {
	return &EvalContext{
		Scopes: scopes,
		Out:    io.Discard,
	}
}

// Logger returns the logger attached to this context.
func (ctx *EvalContext) Logger() log.Logger { return ctx.logger }
