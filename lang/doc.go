// Package lang implements the lexical environment core for an embedded
// expression evaluator, together with a small reference interpreter that
// drives it.
//
// # Environment model
//
// Three types form the model:
//
//   - [Slot] is a shared, mutable storage cell holding exactly one [Value].
//     Slots are aliased by pointer, never copied, so every scope and closure
//     that captured a binding observes the same storage. A slot created
//     constant is sealed before its pointer ever escapes: writes fail through
//     every alias for the rest of the slot's lifetime.
//
//   - [Scope] maps binding names to slots for one lexical level (a function
//     body, a block, a library registration set). All mutation is local to
//     the scope; enumeration is name-sorted for deterministic output.
//
//   - [Scopes] composes one active scope, a stack of suspended outer scopes,
//     and an optional externally-owned base scope consulted last. The
//     evaluator calls [Scopes.Enter] and [Scopes.Exit] in balanced pairs
//     around every lexically scoped construct.
//
// Name resolution walks the active scope, then the suspended scopes from
// innermost to outermost, then the base scope. An inner binding shadows an
// outer binding of the same name completely without disturbing the outer
// slot.
//
// # Reference interpreter
//
// [Interp] evaluates a line-oriented statement language whose expression
// syntax is delegated to expr-lang. It exists to exercise the environment
// model end to end: let/const definitions, assignment through chained slot
// lookup, alias bindings sharing one slot under two names, and brace blocks
// driving Enter/Exit.
//
//	in := lang.New()
//	result, err := in.RunString(ctx, `
//	const greeting = "hello"
//	let n = 2
//	{
//	  let n = 40
//	  n + 2
//	}
//	`)
//
// Native functions and classes are registered into a base scope with
// [Scope.DefFunc] and [DefClass]; see [StdScope] for the stock library.
package lang
