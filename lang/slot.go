package lang

// Slot is a shared storage cell for exactly one value. Bindings hold slots
// by pointer, so every scope, closure, and alias that captured a binding
// reads and writes the same cell. A slot lives as long as any holder keeps
// its pointer; discarding a scope releases its bindings without destroying
// cells still held elsewhere.
//
// A slot created with NewConstSlot is sealed before the pointer escapes the
// constructor. The seal is a property of the cell, not of any binding name:
// re-exposing the slot under a different name leaves it immutable
// everywhere, and there is no caller-side flag to bypass.
type Slot struct {
	value  Value
	sealed bool
}

// NewSlot creates a mutable slot holding the given value.
func NewSlot(v Value) *Slot {
	return &Slot{value: v}
}

// NewConstSlot creates a permanently sealed slot holding the given value.
func NewConstSlot(v Value) *Slot {
	return &Slot{value: v, sealed: true}
}

// Get reads the stored value. Reads always succeed, sealed or not.
func (s *Slot) Get() Value { return s.value }

// Set replaces the stored value. Writing to a sealed slot fails with
// [ErrConstant]; the cell is left unchanged.
func (s *Slot) Set(v Value) error {
	if s.sealed {
		return ErrConstant
	}

	s.value = v

	return nil
}

// Constant reports whether the slot is sealed.
func (s *Slot) Constant() bool { return s.sealed }
