package lang

import (
	"errors"
	"log/slog"
	"testing"
)

func TestSuggestFindsNearName(t *testing.T) {
	s := NewScopes(nil)
	s.DefMut("banana", 1)
	s.DefMut("unrelated", 2)

	hints := Suggest("bananna", s)
	if len(hints) == 0 {
		t.Fatal("no suggestions for near miss")
	}

	if hints[0] != "banana" {
		t.Errorf("expected banana first, got %v", hints)
	}
}

func TestSuggestEmptyScope(t *testing.T) {
	if hints := Suggest("anything", NewScopes(nil)); len(hints) != 0 {
		t.Errorf("expected no suggestions, got %v", hints)
	}
}

func TestSuggestLimit(t *testing.T) {
	s := NewScopes(nil)

	for _, name := range []string{"aaa1", "aaa2", "aaa3", "aaa4", "aaa5"} {
		s.DefMut(name, 0)
	}

	if hints := Suggest("aaa", s); len(hints) > maxSuggestions {
		t.Errorf("expected at most %d suggestions, got %d",
			maxSuggestions, len(hints))
	}
}

func TestUndefinedErrorCarriesSentinel(t *testing.T) {
	s := NewScopes(nil)
	s.DefMut("value", 1)

	err := undefined("vlaue", s)
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}

	// The diagnostic is a log valuer carrying the failed name.
	var lv slog.LogValuer = err
	if lv.LogValue().Kind() != slog.KindGroup {
		t.Error("expected grouped log value")
	}
}
