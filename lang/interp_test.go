package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRunString_LastExpression(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `1 + 41`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 42 {
		t.Errorf("expected 42, got %v (%T)", result, result)
	}
}

func TestRunString_LetAndAssign(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `
let n = 2
n = n * 10
n + 1
`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 21 {
		t.Errorf("expected 21, got %v", result)
	}
}

func TestRunString_ConstRejectsAssignment(t *testing.T) {
	in := New()

	_, err := in.RunString(t.Context(), `
const fixed = 1
fixed = 2
`)
	if !errors.Is(err, ErrConstant) {
		t.Fatalf("expected ErrConstant, got %v", err)
	}
}

func TestRunString_BlockShadowing(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `
let x = 1
{
  let x = 2
  x
}
`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 2 {
		t.Errorf("inner x = %v, want 2", result)
	}

	// The inner scope is gone; the outer binding is untouched.
	result, err = in.RunString(t.Context(), `x`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 1 {
		t.Errorf("outer x = %v, want 1", result)
	}
}

func TestRunString_BlockBindingsVanish(t *testing.T) {
	in := New()

	_, err := in.RunString(t.Context(), `
{
  let local = 1
}
local
`)
	if !errors.Is(err, ErrExprCompile) && !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected failed lookup of discarded binding, got %v", err)
	}
}

func TestRunString_AssignThroughOuterScope(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `
let total = 0
{
  total = total + 40
}
{
  total = total + 2
}
total
`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 42 {
		t.Errorf("expected 42, got %v", result)
	}
}

func TestRunString_AliasSharesSlot(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `
let original = 1
alias other = original
other = 99
original
`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 99 {
		t.Errorf("write through alias not visible: %v", result)
	}
}

func TestRunString_AliasToConstantStaysSealed(t *testing.T) {
	in := New()

	_, err := in.RunString(t.Context(), `
const sealed = 1
alias leak = sealed
leak = 2
`)
	if !errors.Is(err, ErrConstant) {
		t.Fatalf("expected ErrConstant through alias, got %v", err)
	}
}

func TestRunString_UndefinedAssignment(t *testing.T) {
	in := New()

	_, err := in.RunString(t.Context(), `
let banana = 1
bananna = 2
`)
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
}

func TestRunString_UnmatchedBlockClose(t *testing.T) {
	in := New()

	_, err := in.RunString(t.Context(), `}`)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
}

func TestRunString_UnclosedBlock(t *testing.T) {
	in := New()

	_, err := in.RunString(t.Context(), `
{
let x = 1
`)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}

	// The failed run must unwind the scopes it entered.
	if in.Scopes().Depth() != 0 {
		t.Errorf("scope depth %d after failed run", in.Scopes().Depth())
	}
}

func TestRunString_Comments(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `
# a full-line comment
let s = "not # a comment"  # trailing comment
s
`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != "not # a comment" {
		t.Errorf("comment stripping corrupted string: %v", result)
	}
}

func TestRunString_BaseBuiltinCall(t *testing.T) {
	var buf bytes.Buffer

	in := New(WithOutput(&buf))

	_, err := in.RunString(t.Context(), `print("hello", 42)`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if got := buf.String(); got != "hello 42\n" {
		t.Errorf("expected %q, got %q", "hello 42\n", got)
	}
}

func TestRunString_ShadowBuiltin(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `
let print = "mine"
print
`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != "mine" {
		t.Errorf("builtin not shadowed: %v", result)
	}
}

func TestRunString_ClassConstruct(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `target("plan9", "riscv64")`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	want := Target{OS: "plan9", Arch: "riscv64"}
	if result != want {
		t.Errorf("expected %v, got %v", want, result)
	}
}

func TestRunString_ComparisonIsNotAssignment(t *testing.T) {
	in := New()

	result, err := in.RunString(t.Context(), `
let x = 1
x == 1
`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != true {
		t.Errorf("expected true, got %v", result)
	}
}

func TestRunString_StatePersistsAcrossRuns(t *testing.T) {
	in := New()

	_, err := in.RunString(t.Context(), `let kept = 7`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	result, err := in.RunString(t.Context(), `kept`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 7 {
		t.Errorf("binding lost between runs: %v", result)
	}
}

func TestRunReader(t *testing.T) {
	in := New()

	result, err := in.RunReader(t.Context(), strings.NewReader(`
let a = 20
let b = 22
a + b
`))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 42 {
		t.Errorf("expected 42, got %v", result)
	}
}

func TestRunString_WithBaseNil(t *testing.T) {
	in := New(WithBase(nil))

	_, err := in.RunString(t.Context(), `print("nope")`)
	if err == nil {
		t.Fatal("builtin resolved without a base scope")
	}
}

func TestProgramCacheReuse(t *testing.T) {
	ClearProgramCache()

	in := New()

	for range 3 {
		result, err := in.RunString(t.Context(), `1 + 1`)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}

		if result != 2 {
			t.Errorf("expected 2, got %v", result)
		}
	}
}
