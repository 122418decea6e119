package repl

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/ardnew/lexenv/lang"
	"github.com/ardnew/lexenv/log"
)

func newTestInterp(t *testing.T) *lang.Interp {
	t.Helper()

	interp := lang.New(lang.WithOutput(io.Discard))

	_, err := interp.RunString(context.Background(), "let answer = 42")
	if err != nil {
		t.Fatalf("RunString() error = %v", err)
	}

	return interp
}

func newTestModel(t *testing.T) model {
	t.Helper()

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	m := newModel(context.Background(), log.Make(io.Discard), history)
	m.interp = newTestInterp(t)

	return m
}

func TestIsCallable(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		name string
		want bool
	}{
		{"print", true},  // builtin function
		{"target", true}, // builtin class
		{"len", true},    // expression-language builtin
		{"answer", false},
		{"missing", false},
	}

	for _, tt := range tests {
		if got := m.isCallable(tt.name); got != tt.want {
			t.Errorf("isCallable(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
