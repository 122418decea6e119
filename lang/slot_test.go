package lang

import (
	"errors"
	"testing"
)

func TestSlotMutable(t *testing.T) {
	slot := NewSlot(NewValue(1))

	if got := slot.Get().Any(); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}

	err := slot.Set(NewValue(2))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if got := slot.Get().Any(); got != 2 {
		t.Errorf("expected 2 after set, got %v", got)
	}

	if slot.Constant() {
		t.Error("mutable slot reports constant")
	}
}

func TestSlotConstantRejectsWrites(t *testing.T) {
	slot := NewConstSlot(NewValue("fixed"))

	err := slot.Set(NewValue("changed"))
	if !errors.Is(err, ErrConstant) {
		t.Fatalf("expected ErrConstant, got %v", err)
	}

	// The failed write must leave the cell unchanged.
	if got := slot.Get().Any(); got != "fixed" {
		t.Errorf("sealed slot value changed to %v", got)
	}

	if !slot.Constant() {
		t.Error("sealed slot does not report constant")
	}
}

func TestSlotConstantThroughAlias(t *testing.T) {
	// Constant-ness is a property of the cell, not of any binding name:
	// re-exposing the slot under a different name in a different scope
	// leaves it immutable everywhere.
	outer := NewScope()
	outer.DefConst("x", 7)

	slot, ok := outer.Lookup("x")
	if !ok {
		t.Fatal("x not found")
	}

	inner := NewScope()
	inner.DefSlot("y", slot)

	alias, ok := inner.Lookup("y")
	if !ok {
		t.Fatal("y not found")
	}

	if alias != slot {
		t.Fatal("alias does not share the slot")
	}

	err := alias.Set(NewValue(8))
	if !errors.Is(err, ErrConstant) {
		t.Fatalf("expected ErrConstant through alias, got %v", err)
	}

	if got := slot.Get().Any(); got != 7 {
		t.Errorf("constant value changed to %v", got)
	}
}

func TestSlotSharedMutation(t *testing.T) {
	a := NewScope()
	a.DefMut("counter", 0)

	slot, _ := a.Lookup("counter")

	b := NewScope()
	b.DefSlot("shared", slot)

	shared, _ := b.Lookup("shared")

	err := shared.Set(NewValue(41))
	if err != nil {
		t.Fatalf("set through alias failed: %v", err)
	}

	if got := slot.Get().Any(); got != 41 {
		t.Errorf("mutation not visible through original handle: %v", got)
	}
}
