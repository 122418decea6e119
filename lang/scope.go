package lang

import (
	"encoding/binary"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Scope is the name-to-slot mapping of one lexical level. A scope never
// consults or mutates any other scope; chaining is the job of [Scopes].
type Scope struct {
	slots map[string]*Slot
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{slots: make(map[string]*Slot)}
}

// DefConst binds name to a new sealed slot holding value. Redefining a name
// replaces the binding locally; the previous slot is untouched and remains
// live for any holder that captured it.
func (s *Scope) DefConst(name string, value any) {
	s.slots[name] = NewConstSlot(NewValue(value))
}

// DefMut binds name to a new mutable slot holding value.
func (s *Scope) DefMut(name string, value any) {
	s.slots[name] = NewSlot(NewValue(value))
}

// DefSlot binds name to an existing slot. This is how closures share a
// mutable outer variable and how bindings are re-exported under new names:
// both names resolve to the same cell.
func (s *Scope) DefSlot(name string, slot *Slot) {
	s.slots[name] = slot
}

// DefFunc binds name to a native function as a constant.
func (s *Scope) DefFunc(name string, fn NativeFn) {
	s.DefConst(name, NativeFunc(name, fn))
}

// DefClass binds name in scope to a class descriptor for T as a constant.
// This is a package-level function because Go methods cannot take type
// parameters.
func DefClass[T Model](s *Scope, name string) {
	s.DefConst(name, NewClass[T](name))
}

// Lookup returns the slot bound to name in this scope only. Absence is a
// normal outcome, not an error.
func (s *Scope) Lookup(name string) (*Slot, bool) {
	slot, ok := s.slots[name]

	return slot, ok
}

// Len returns the number of bindings.
func (s *Scope) Len() int { return len(s.slots) }

// Names returns all binding names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Enumerate returns an iterator over all bindings ordered by name. The
// sequence is finite and restartable; each restart observes the bindings
// current at that point.
func (s *Scope) Enumerate() iter.Seq2[string, *Slot] {
	return func(yield func(string, *Slot) bool) {
		for _, name := range s.Names() {
			if !yield(name, s.slots[name]) {
				return
			}
		}
	}
}

// Sum64 returns a deterministic identity hash over the scope's current
// (name, value) pairs. Two scopes with equal bindings and equal stored
// values hash equal regardless of insertion order, so scopes can
// participate in structural identity of larger evaluator states.
func (s *Scope) Sum64() uint64 {
	h := xxh3.New()

	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(len(s.slots)))
	_, _ = h.Write(buf[:])

	for name, slot := range s.Enumerate() {
		_, _ = h.WriteString(name)
		_, _ = h.Write([]byte{0})

		binary.LittleEndian.PutUint64(buf[:], slot.Get().Hash64())
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}

// String implements fmt.Stringer for debug printing. Entries appear in
// sorted order.
func (s *Scope) String() string {
	var b strings.Builder

	b.WriteString("Scope {")

	for i, name := range s.Names() {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%s: %s", name, s.slots[name].Get())
	}

	b.WriteString("}")

	return b.String()
}
