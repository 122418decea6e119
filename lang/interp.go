package lang

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/lexenv/log"
)

// Interp is the reference interpreter over one scope chain. It evaluates a
// line-oriented statement language whose expression syntax is delegated to
// expr-lang, and exists primarily to exercise the environment model: every
// statement form maps onto one of the core operations.
//
// An Interp is not safe for concurrent use; it models a single evaluation
// in progress. Concurrent evaluations each get their own Interp and may
// share one base scope.
type Interp struct {
	scopes *Scopes
	out    io.Writer
	logger log.Logger
}

// Option configures an Interp.
type Option func(*Interp)

// WithBase sets the base scope consulted after all local scopes. The
// default is [StdScope]. Pass nil for a chain with no base.
func WithBase(base *Scope) Option {
	return func(in *Interp) {
		in.scopes = NewScopes(base)
	}
}

// WithOutput redirects output produced by builtins such as print. The
// default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interp) {
		in.out = w
	}
}

// WithLogger attaches a logger. The default discards all messages.
func WithLogger(l log.Logger) Option {
	return func(in *Interp) {
		in.logger = l
	}
}

// New creates an interpreter with an empty active scope over the standard
// base scope.
func New(opts ...Option) *Interp {
	in := &Interp{
		scopes: NewScopes(StdScope()),
		out:    os.Stdout,
		logger: log.Make(io.Discard),
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Scopes returns the live scope chain. Callers embedding the interpreter
// may define bindings directly before or between runs.
func (in *Interp) Scopes() *Scopes { return in.scopes }

// identPattern matches a statement-level binding name.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RunReader evaluates statements from r and returns the value of the last
// bare expression, or nil if the input contains none.
func (in *Interp) RunReader(ctx context.Context, r io.Reader) (any, error) {
	// Wrap reader with async read-ahead so input is pre-fetched while
	// earlier statements evaluate.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	in.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return in.RunString(ctx, string(data))
}

// RunString evaluates statements from src and returns the value of the
// last bare expression, or nil if src contains none.
//
// Statement forms, one per line:
//
//	const name = expr   define a constant binding in the active scope
//	let name = expr     define a mutable binding in the active scope
//	alias new = old     bind an existing slot under a second name
//	name = expr         assign through the nearest visible slot
//	{                   enter a block scope
//	}                   exit the block scope
//	expr                evaluate; the last such value is the result
//
// Blocks opened in src must be closed in src. On error, any scopes the
// failed run entered are unwound so the chain is left at its pre-run depth.
func (in *Interp) RunString(ctx context.Context, src string) (result any, err error) {
	depth := in.scopes.Depth()

	defer func() {
		if err == nil {
			return
		}

		for in.scopes.Depth() > depth {
			in.scopes.Exit()
		}
	}()

	scanner := bufio.NewScanner(strings.NewReader(src))

	line := 0
	for scanner.Scan() {
		line++

		stmt := stripComment(scanner.Text())
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		value, evaluated, stmtErr := in.statement(ctx, stmt)
		if stmtErr != nil {
			return nil, WrapError(stmtErr).With(slog.Int("line", line))
		}

		if evaluated {
			result = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	if in.scopes.Depth() > depth {
		return nil, ErrSyntax.With(
			slog.String("issue", "unclosed block"),
			slog.Int("depth", in.scopes.Depth()-depth),
		)
	}

	return result, nil
}

// statement evaluates a single statement. The evaluated flag reports
// whether the statement was a bare expression producing a value.
func (in *Interp) statement(
	ctx context.Context,
	stmt string,
) (value any, evaluated bool, err error) {
	trimmed := strings.TrimSpace(stmt)

	switch trimmed {
	case "{":
		in.scopes.Enter()
		in.logger.TraceContext(ctx, "enter scope",
			slog.Int("depth", in.scopes.Depth()),
		)

		return nil, false, nil

	case "}":
		// Exit on an empty stack is a fatal caller bug in the core, so the
		// interpreter, as the caller, must reject stray closers itself.
		if in.scopes.Depth() == 0 {
			return nil, false, ErrSyntax.With(
				slog.String("issue", "unmatched block close"),
			)
		}

		in.scopes.Exit()
		in.logger.TraceContext(ctx, "exit scope",
			slog.Int("depth", in.scopes.Depth()),
		)

		return nil, false, nil
	}

	if keyword, rest, ok := cutKeyword(trimmed); ok {
		err = in.define(ctx, keyword, rest)

		return nil, false, err
	}

	if name, rhs, ok := cutAssign(trimmed); ok {
		err = in.assign(ctx, name, rhs)

		return nil, false, err
	}

	value, err = in.eval(ctx, trimmed)

	return value, err == nil, err
}

// define handles the const, let, and alias statement forms.
func (in *Interp) define(ctx context.Context, keyword, rest string) error {
	name, rhs, ok := cutAssign(rest)
	if !ok {
		return ErrSyntax.With(
			slog.String("issue", "expected 'name = expression'"),
			slog.String("statement", keyword+" "+rest),
		)
	}

	if keyword == "alias" {
		target := strings.TrimSpace(rhs)
		if !identPattern.MatchString(target) {
			return ErrSyntax.With(
				slog.String("issue", "alias target must be a name"),
				slog.String("statement", rhs),
			)
		}

		slot, ok := in.scopes.Lookup(target)
		if !ok {
			return undefined(target, in.scopes)
		}

		in.scopes.DefSlot(name, slot)
		in.logger.TraceContext(ctx, "define alias",
			slog.String("name", name),
			slog.String("target", target),
		)

		return nil
	}

	value, err := in.eval(ctx, rhs)
	if err != nil {
		return err
	}

	switch keyword {
	case "const":
		in.scopes.DefConst(name, value)
	case "let":
		in.scopes.DefMut(name, value)
	}

	in.logger.TraceContext(ctx, "define binding",
		slog.String("keyword", keyword),
		slog.String("name", name),
	)

	return nil
}

// assign writes through the nearest visible slot bound to name.
func (in *Interp) assign(ctx context.Context, name, rhs string) error {
	slot, ok := in.scopes.Lookup(name)
	if !ok {
		return undefined(name, in.scopes)
	}

	value, err := in.eval(ctx, rhs)
	if err != nil {
		return err
	}

	err = slot.Set(NewValue(value))
	if err != nil {
		return WrapError(err).With(attrName(name))
	}

	in.logger.TraceContext(ctx, "assign", slog.String("name", name))

	return nil
}

// eval compiles and runs one expr-lang expression against the bindings
// currently visible in the scope chain.
func (in *Interp) eval(ctx context.Context, source string) (any, error) {
	source = strings.TrimSpace(source)

	env := in.exprEnv()

	program, err := compileCached(ctx, in.logger, source, env)
	if err != nil {
		return nil, err
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	return out, nil
}

// exprEnv flattens the visible bindings into the environment map expr
// compiles and runs against. Values are unwrapped to their host
// representation; native functions and classes become callable closures
// bound to this interpreter's calling context.
func (in *Interp) exprEnv() map[string]any {
	ectx := &EvalContext{
		Scopes: in.scopes,
		Out:    in.out,
		logger: in.logger,
	}

	env := make(map[string]any)

	for name, slot := range in.scopes.Visible() {
		env[name] = hostValue(ectx, slot.Get())
	}

	return env
}

// hostValue converts a stored value to its expr-facing representation.
func hostValue(ectx *EvalContext, v Value) any {
	switch t := v.Any().(type) {
	case *Func:
		return func(args ...any) (any, error) {
			out, err := t.Call(ectx, wrapArgs(args))
			if err != nil {
				return nil, err
			}

			return out.Any(), nil
		}

	case *Class:
		return func(args ...any) (any, error) {
			out, err := t.Construct(ectx, wrapArgs(args))
			if err != nil {
				return nil, err
			}

			return out.Any(), nil
		}

	default:
		return t
	}
}

func wrapArgs(args []any) *Args {
	vals := make([]Value, len(args))
	for i, a := range args {
		vals[i] = NewValue(a)
	}

	return NewArgs(vals...)
}

// programCache stores compiled expr programs keyed by source and
// environment signature, so repeated evaluation of the same expression
// against the same binding shape skips compilation.
//
//nolint:gochecknoglobals
var programCache sync.Map

// compileCached compiles source against env, consulting the process-wide
// program cache first.
func compileCached(
	ctx context.Context,
	logger log.Logger,
	source string,
	env map[string]any,
) (*vm.Program, error) {
	key := strconv.FormatUint(
		xxh3.HashString(source)^envSignature(env), 36,
	)

	if cached, ok := programCache.Load(key); ok {
		if program, ok := cached.(*vm.Program); ok {
			logger.TraceContext(ctx, "program cache hit",
				slog.String("key", key),
			)

			return program, nil
		}
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	programCache.Store(key, program)

	return program, nil
}

// envSignature hashes the names and host types of an environment map. Two
// environments with the same shape compile identically even when the bound
// values differ.
func envSignature(env map[string]any) uint64 {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}

	slices.Sort(names)

	h := xxh3.New()

	for _, name := range names {
		_, _ = h.WriteString(name)
		_, _ = h.WriteString("\x00")

		typeName := "nil"
		if t := reflect.TypeOf(env[name]); t != nil {
			typeName = t.String()
		}

		_, _ = h.WriteString(typeName)
		_, _ = h.WriteString("\x00")
	}

	return h.Sum64()
}

// ClearProgramCache removes all cached compiled programs. This is
// primarily useful for testing or reclaiming memory.
func ClearProgramCache() {
	programCache.Range(func(key, _ any) bool {
		programCache.Delete(key)

		return true
	})
}

// stripComment removes a trailing # comment, honoring string literals.
func stripComment(line string) string {
	var quote rune

	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}

		case r == '"' || r == '\'':
			quote = r

		case r == '#':
			return line[:i]
		}
	}

	return line
}

// cutKeyword splits a statement into its leading definition keyword and
// remainder.
func cutKeyword(stmt string) (keyword, rest string, ok bool) {
	for _, kw := range []string{"const ", "let ", "alias "} {
		if strings.HasPrefix(stmt, kw) {
			return strings.TrimSpace(kw), strings.TrimSpace(stmt[len(kw):]), true
		}
	}

	return "", "", false
}

// cutAssign splits "name = rest" around a single equals sign. It rejects
// comparison operators so expressions like "x == 1" evaluate rather than
// assign.
func cutAssign(stmt string) (name, rest string, ok bool) {
	eq := strings.IndexByte(stmt, '=')
	if eq <= 0 || eq+1 >= len(stmt) {
		return "", "", false
	}

	if stmt[eq+1] == '=' {
		return "", "", false
	}

	// Reject !=, <=, >= on the left of the split point.
	switch stmt[eq-1] {
	case '!', '<', '>':
		return "", "", false
	}

	name = strings.TrimSpace(stmt[:eq])
	if !identPattern.MatchString(name) {
		return "", "", false
	}

	return name, strings.TrimSpace(stmt[eq+1:]), true
}
