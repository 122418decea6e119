package lang

import (
	"testing"
)

func TestScopesShadowing(t *testing.T) {
	s := NewScopes(nil)
	s.DefMut("x", 1)

	s.Enter()
	s.DefMut("x", 2)

	slot, ok := s.Lookup("x")
	if !ok {
		t.Fatal("x not found in inner scope")
	}

	if got := slot.Get().Any(); got != 2 {
		t.Errorf("inner lookup returned %v, want 2", got)
	}

	s.Exit()

	slot, ok = s.Lookup("x")
	if !ok {
		t.Fatal("x not found after exit")
	}

	if got := slot.Get().Any(); got != 1 {
		t.Errorf("outer slot disturbed by inner scope: %v", got)
	}
}

func TestScopesBaseFallback(t *testing.T) {
	base := NewScope()
	base.DefFunc("print", func(*EvalContext, *Args) (Value, error) {
		return Value{}, nil
	})

	s := NewScopes(base)

	slot, ok := s.Lookup("print")
	if !ok {
		t.Fatal("base binding not visible")
	}

	baseSlot, _ := base.Lookup("print")
	if slot != baseSlot {
		t.Error("lookup did not return the base slot")
	}

	// A local definition shadows the base entirely.
	s.DefMut("print", "shadowed")

	slot, _ = s.Lookup("print")
	if got := slot.Get().Any(); got != "shadowed" {
		t.Errorf("expected local shadow, got %v", got)
	}

	// The base scope itself is never written through the chain.
	baseSlot, _ = base.Lookup("print")
	if _, ok := baseSlot.Get().Any().(*Func); !ok {
		t.Error("base binding mutated by local definition")
	}
}

func TestScopesLookupOrder(t *testing.T) {
	base := NewScope()
	base.DefMut("x", "base")

	s := NewScopes(base)
	s.DefMut("x", "outer")

	s.Enter()
	s.DefMut("x", "middle")

	s.Enter()

	// No local x: the innermost suspended scope wins over outer and base.
	slot, _ := s.Lookup("x")
	if got := slot.Get().Any(); got != "middle" {
		t.Errorf("expected middle, got %v", got)
	}

	s.DefMut("x", "inner")

	slot, _ = s.Lookup("x")
	if got := slot.Get().Any(); got != "inner" {
		t.Errorf("expected inner, got %v", got)
	}

	s.Exit()
	s.Exit()

	slot, _ = s.Lookup("x")
	if got := slot.Get().Any(); got != "outer" {
		t.Errorf("expected outer, got %v", got)
	}
}

func TestScopesBalancedEnterExit(t *testing.T) {
	s := NewScopes(nil)
	s.DefMut("keep", true)

	const n = 5

	for range n {
		s.Enter()
	}

	if s.Depth() != n {
		t.Fatalf("expected depth %d, got %d", n, s.Depth())
	}

	for range n {
		s.Exit()
	}

	if s.Depth() != 0 {
		t.Fatalf("expected depth 0, got %d", s.Depth())
	}

	slot, ok := s.Lookup("keep")
	if !ok || slot.Get().Any() != true {
		t.Error("pre-enter bindings not restored after balanced exits")
	}
}

func TestScopesUnbalancedExitPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("exit with empty stack did not panic")
		}
	}()

	NewScopes(nil).Exit()
}

func TestScopesExitDiscardsBindings(t *testing.T) {
	s := NewScopes(nil)

	s.Enter()
	s.DefMut("ephemeral", 1)
	s.Exit()

	if _, ok := s.Lookup("ephemeral"); ok {
		t.Error("binding survived scope exit")
	}
}

func TestScopesSlotSurvivesExitWhenShared(t *testing.T) {
	s := NewScopes(nil)

	s.Enter()
	s.DefMut("v", "alive")

	captured, _ := s.Lookup("v")

	s.Exit()

	// The scope is gone but the captured handle keeps the cell alive.
	if got := captured.Get().Any(); got != "alive" {
		t.Errorf("shared slot lost its value: %v", got)
	}

	if err := captured.Set(NewValue("still")); err != nil {
		t.Errorf("shared slot not writable after exit: %v", err)
	}
}

func TestScopesDefSlotAliasAcrossScopes(t *testing.T) {
	s := NewScopes(nil)
	s.DefMut("outer", 10)

	slot, _ := s.Lookup("outer")

	s.Enter()
	s.DefSlot("inner", slot)

	aliased, _ := s.Lookup("inner")

	if err := aliased.Set(NewValue(20)); err != nil {
		t.Fatalf("set through alias failed: %v", err)
	}

	s.Exit()

	// The write through the inner alias must be visible outside.
	slot, _ = s.Lookup("outer")
	if got := slot.Get().Any(); got != 20 {
		t.Errorf("expected 20 through outer name, got %v", got)
	}
}

func TestScopesDefDelegatesToActive(t *testing.T) {
	s := NewScopes(nil)

	s.Enter()
	s.DefConst("c", 1)
	s.DefMut("m", 2)
	s.DefFunc("f", func(*EvalContext, *Args) (Value, error) {
		return Value{}, nil
	})

	if s.Active().Len() != 3 {
		t.Errorf("expected 3 bindings in active scope, got %d",
			s.Active().Len())
	}

	s.Exit()

	for _, name := range []string{"c", "m", "f"} {
		if _, ok := s.Lookup(name); ok {
			t.Errorf("%s leaked out of discarded scope", name)
		}
	}
}

func TestScopesVisibleHonorsShadowing(t *testing.T) {
	base := NewScope()
	base.DefMut("a", "base")
	base.DefMut("b", "base")

	s := NewScopes(base)
	s.DefMut("a", "local")
	s.DefMut("c", "local")

	seen := make(map[string]any)

	for name, slot := range s.Visible() {
		seen[name] = slot.Get().Any()
	}

	if len(seen) != 3 {
		t.Fatalf("expected 3 visible names, got %d", len(seen))
	}

	if seen["a"] != "local" {
		t.Errorf("shadowed name resolved to %v", seen["a"])
	}

	if seen["b"] != "base" {
		t.Errorf("base name resolved to %v", seen["b"])
	}
}
