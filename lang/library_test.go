package lang

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestStdScopeBindingsConstant(t *testing.T) {
	std := StdScope()

	for _, name := range []string{
		"print", "type", "constant", "env",
		"abs", "cat", "rel", "prefix", "suffix", "target",
	} {
		slot, ok := std.Lookup(name)
		if !ok {
			t.Errorf("builtin %s not registered", name)

			continue
		}

		if !slot.Constant() {
			t.Errorf("builtin %s is not a constant binding", name)
		}
	}
}

func TestStdScopeShared(t *testing.T) {
	if StdScope() != StdScope() {
		t.Error("StdScope is not a process singleton")
	}
}

func TestStdPrint(t *testing.T) {
	var buf bytes.Buffer

	ctx := NewEvalContext(NewScopes(StdScope()))
	ctx.Out = &buf

	slot, _ := StdScope().Lookup("print")
	fn := slot.Get().Any().(*Func)

	_, err := fn.Call(ctx, NewArgs(NewValue("a"), NewValue(1)))
	if err != nil {
		t.Fatalf("print failed: %v", err)
	}

	if got := buf.String(); got != "a 1\n" {
		t.Errorf("expected %q, got %q", "a 1\n", got)
	}
}

func TestStdType(t *testing.T) {
	ctx := NewEvalContext(NewScopes(nil))

	slot, _ := StdScope().Lookup("type")
	fn := slot.Get().Any().(*Func)

	out, err := fn.Call(ctx, NewArgs(NewValue("s")))
	if err != nil {
		t.Fatalf("type failed: %v", err)
	}

	if out.Any() != "string" {
		t.Errorf("expected string, got %v", out.Any())
	}

	out, err = fn.Call(ctx, NewArgs(NewValue(nil)))
	if err != nil {
		t.Fatalf("type(none) failed: %v", err)
	}

	if out.Any() != "none" {
		t.Errorf("expected none, got %v", out.Any())
	}
}

func TestStdConstant(t *testing.T) {
	scopes := NewScopes(StdScope())
	scopes.DefConst("c", 1)
	scopes.DefMut("m", 2)

	ctx := NewEvalContext(scopes)

	slot, _ := StdScope().Lookup("constant")
	fn := slot.Get().Any().(*Func)

	out, err := fn.Call(ctx, NewArgs(NewValue("c")))
	if err != nil || out.Any() != true {
		t.Errorf("constant(c) = %v, %v; want true", out.Any(), err)
	}

	out, err = fn.Call(ctx, NewArgs(NewValue("m")))
	if err != nil || out.Any() != false {
		t.Errorf("constant(m) = %v, %v; want false", out.Any(), err)
	}
}

func TestStdMungPrefix(t *testing.T) {
	ctx := NewEvalContext(NewScopes(nil))

	slot, _ := StdScope().Lookup("prefix")
	fn := slot.Get().Any().(*Func)

	sep := string(os.PathListSeparator)
	subject := "/usr/bin" + sep + "/bin"

	out, err := fn.Call(ctx, NewArgs(
		NewValue(subject), NewValue("/opt/bin"),
	))
	if err != nil {
		t.Fatalf("prefix failed: %v", err)
	}

	got, ok := out.Any().(string)
	if !ok || !strings.HasPrefix(got, "/opt/bin"+sep) {
		t.Errorf("expected /opt/bin prefix, got %v", out.Any())
	}
}

func TestTargetConstruct(t *testing.T) {
	ctx := NewEvalContext(NewScopes(nil))

	slot, _ := StdScope().Lookup("target")
	class := slot.Get().Any().(*Class)

	out, err := class.Construct(ctx, NewArgs())
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}

	host, ok := out.Any().(Target)
	if !ok {
		t.Fatalf("expected Target, got %T", out.Any())
	}

	if host.OS == "" || host.Arch == "" {
		t.Errorf("host target incomplete: %+v", host)
	}

	out, err = class.Construct(ctx, NewArgs(
		NewValue("plan9"), NewValue("riscv64"),
	))
	if err != nil {
		t.Fatalf("construct with args failed: %v", err)
	}

	want := Target{OS: "plan9", Arch: "riscv64"}
	if out.Any() != want {
		t.Errorf("expected %v, got %v", want, out.Any())
	}
}

func TestTargetSet(t *testing.T) {
	ctx := NewEvalContext(NewScopes(nil))

	slot, _ := StdScope().Lookup("target")
	class := slot.Get().Any().(*Class)

	out, err := class.Set(ctx, NewArgs(NewValue("os=plan9")))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	styled, ok := out.Any().(Target)
	if !ok {
		t.Fatalf("expected Target, got %T", out.Any())
	}

	if styled.OS != "plan9" {
		t.Errorf("expected os=plan9, got %v", styled.OS)
	}

	if styled.Arch == "" {
		t.Error("unset field lost its host default")
	}
}
