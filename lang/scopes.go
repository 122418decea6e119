package lang

import "iter"

// Scopes is the live scope chain of one evaluation: the active scope being
// written to, the stack of suspended outer scopes, and an optional base
// scope consulted last. The base is externally owned and never written
// through this type, so a single library scope can back any number of
// concurrent evaluations.
type Scopes struct {
	active *Scope
	stack  []*Scope
	base   *Scope
}

// NewScopes creates a scope chain with an empty active scope over the given
// base. A nil base means lookups stop at the outermost suspended scope.
func NewScopes(base *Scope) *Scopes {
	return &Scopes{
		active: NewScope(),
		base:   base,
	}
}

// Enter suspends the active scope and installs a fresh empty one. Callers
// must pair every Enter with exactly one Exit, including on abnormal exit
// paths such as early returns.
func (s *Scopes) Enter() {
	s.stack = append(s.stack, s.active)
	s.active = NewScope()
}

// Exit discards the active scope and restores the most recently suspended
// one. The discarded scope's bindings vanish unless their slots are shared
// elsewhere.
//
// Exit panics if no scope was entered: an unbalanced Exit is a bug in the
// calling evaluator's block pairing, not a recoverable condition.
func (s *Scopes) Exit() {
	if len(s.stack) == 0 {
		panic("lang: scope exit without matching enter")
	}

	s.active = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// Depth returns the number of suspended scopes.
func (s *Scopes) Depth() int { return len(s.stack) }

// Active returns the scope definitions are currently written to.
func (s *Scopes) Active() *Scope { return s.active }

// Base returns the base scope, or nil if none was supplied.
func (s *Scopes) Base() *Scope { return s.base }

// DefConst defines a constant binding in the active scope.
func (s *Scopes) DefConst(name string, value any) {
	s.active.DefConst(name, value)
}

// DefMut defines a mutable binding in the active scope.
func (s *Scopes) DefMut(name string, value any) {
	s.active.DefMut(name, value)
}

// DefSlot binds an existing slot in the active scope.
func (s *Scopes) DefSlot(name string, slot *Slot) {
	s.active.DefSlot(name, slot)
}

// DefFunc defines a constant native function binding in the active scope.
func (s *Scopes) DefFunc(name string, fn NativeFn) {
	s.active.DefFunc(name, fn)
}

// Lookup resolves name against the chain: active scope first, then the
// suspended scopes from innermost to outermost, then the base. The first
// match wins; an inner binding shadows outer bindings of the same name
// completely without altering their slots.
func (s *Scopes) Lookup(name string) (*Slot, bool) {
	if slot, ok := s.active.Lookup(name); ok {
		return slot, true
	}

	for i := len(s.stack) - 1; i >= 0; i-- {
		if slot, ok := s.stack[i].Lookup(name); ok {
			return slot, true
		}
	}

	if s.base != nil {
		return s.base.Lookup(name)
	}

	return nil, false
}

// Visible returns an iterator over every binding reachable by Lookup, one
// entry per name, honoring shadowing. Entries are ordered by name.
func (s *Scopes) Visible() iter.Seq2[string, *Slot] {
	merged := NewScope()

	if s.base != nil {
		for name, slot := range s.base.Enumerate() {
			merged.DefSlot(name, slot)
		}
	}

	for _, scope := range s.stack {
		for name, slot := range scope.Enumerate() {
			merged.DefSlot(name, slot)
		}
	}

	for name, slot := range s.active.Enumerate() {
		merged.DefSlot(name, slot)
	}

	return merged.Enumerate()
}
