package egg

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapSyntaxErrorSnippet(t *testing.T) {
	src := "do(\n  +(1 2))"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("want parse error")
	}
	wrapped := WrapErrorWithSource(err, src)
	msg := wrapped.Error()

	if !strings.HasPrefix(msg, "SYNTAX ERROR at ") {
		t.Fatalf("missing header: %q", msg)
	}
	if !strings.Contains(msg, "expected ',' or ')'") {
		t.Fatalf("missing message: %q", msg)
	}
	if !strings.Contains(msg, "   2 |   +(1 2))") {
		t.Fatalf("missing source line: %q", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Fatalf("missing caret: %q", msg)
	}
}

func TestWrapCaretColumn(t *testing.T) {
	src := "+(1 2)"
	_, err := Parse(src)
	wrapped := WrapErrorWithSource(err, src)

	// The offending '2' sits at column 5; the caret line pads 4 spaces.
	if !strings.Contains(wrapped.Error(), "     |     ^") {
		t.Fatalf("caret misplaced:\n%s", wrapped.Error())
	}
}

func TestWrapRuntimeErrors(t *testing.T) {
	ip := NewInterpreter()
	src := "nope"
	_, err := ip.Run(src)
	msg := WrapErrorWithName(err, "<repl>", src).Error()
	if !strings.HasPrefix(msg, "REFERENCE ERROR in <repl> at 1:1:") {
		t.Fatalf("got %q", msg)
	}

	src = "1(2)"
	_, err = ip.Run(src)
	msg = WrapErrorWithSource(err, src).Error()
	if !strings.HasPrefix(msg, "TYPE ERROR at 1:2:") {
		t.Fatalf("got %q", msg)
	}
}

func TestWrapLeavesForeignErrorsAlone(t *testing.T) {
	err := errors.New("not ours")
	if WrapErrorWithSource(err, "x") != err {
		t.Fatal("foreign error was rewritten")
	}
}

func TestErrorStringsWithoutSource(t *testing.T) {
	e := &ReferenceError{Line: 3, Col: 4, Msg: "undefined variable: x"}
	if e.Error() != "REFERENCE ERROR at 3:4: undefined variable: x" {
		t.Fatalf("got %q", e.Error())
	}
	te := &TypeError{Msg: "applying a non-function"}
	if te.Error() != "TYPE ERROR: applying a non-function" {
		t.Fatalf("got %q", te.Error())
	}
}
