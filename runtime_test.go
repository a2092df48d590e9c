package egg

import (
	"bytes"
	"strings"
	"testing"
)

// --- arithmetic ------------------------------------------------------------

func TestArithmetic(t *testing.T) {
	wantInt(t, evalSrc(t, "+(1, 2)"), 3)
	wantInt(t, evalSrc(t, "-(10, 4)"), 6)
	wantInt(t, evalSrc(t, "*(6, 7)"), 42)
	wantInt(t, evalSrc(t, "%(10, 3)"), 1)
}

func TestDivisionStaysExactWhenItCan(t *testing.T) {
	wantInt(t, evalSrc(t, "/(10, 2)"), 5)
	wantNum(t, evalSrc(t, "/(5, 2)"), 2.5)
	wantNum(t, evalSrc(t, "/(/(1, 2), 2)"), 0.25)
}

func TestDivisionByZero(t *testing.T) {
	te := wantTypeError(t, evalErr(t, "/(1, 0)"))
	if te.Msg != "division by zero" {
		t.Fatalf("got %q", te.Msg)
	}
	wantTypeError(t, evalErr(t, "%(1, 0)"))
	wantTypeError(t, evalErr(t, "/(/(1, 2), 0)"))
}

func TestArithmeticOperandErrors(t *testing.T) {
	wantTypeError(t, evalErr(t, `+(1, "2")`))
	wantTypeError(t, evalErr(t, "*(true, 2)"))
	wantTypeError(t, evalErr(t, "%(/(5, 2), 1)"))
}

func TestArithmeticErrorsCarryCallPosition(t *testing.T) {
	te := wantTypeError(t, evalErr(t, "do(1,\n  +(1, \"x\"))"))
	if te.Line != 2 {
		t.Fatalf("want line 2, got %d:%d", te.Line, te.Col)
	}
}

// --- comparisons and equality ----------------------------------------------

func TestComparisons(t *testing.T) {
	wantBool(t, evalSrc(t, "<(1, 2)"), true)
	wantBool(t, evalSrc(t, ">(1, 2)"), false)
	wantBool(t, evalSrc(t, "<=(2, 2)"), true)
	wantBool(t, evalSrc(t, ">=(1, 2)"), false)
	wantBool(t, evalSrc(t, "<(/(5, 2), 3)"), true)
}

func TestEquality(t *testing.T) {
	wantBool(t, evalSrc(t, "==(1, 1)"), true)
	wantBool(t, evalSrc(t, "==(1, 2)"), false)
	wantBool(t, evalSrc(t, `==("a", "a")`), true)
	wantBool(t, evalSrc(t, `==("a", 1)`), false)
	wantBool(t, evalSrc(t, "==(true, true)"), true)
	wantBool(t, evalSrc(t, "!=(1, 2)"), true)
	// Ints and the floats '/' produces compare numerically.
	wantBool(t, evalSrc(t, "==(/(4, 2), 2)"), true)
}

func TestEqualityOnArraysIsDeep(t *testing.T) {
	wantBool(t, evalSrc(t, "==(array(1, 2), array(1, 2))"), true)
	wantBool(t, evalSrc(t, "==(array(1, 2), array(1, 3))"), false)
	wantBool(t, evalSrc(t, "==(array(array(1)), array(array(1)))"), true)
	wantBool(t, evalSrc(t, "==(array(1), array(1, 2))"), false)
}

// --- arrays ----------------------------------------------------------------

func TestArrayBuiltins(t *testing.T) {
	wantInt(t, evalSrc(t, "length(array(1, 2, 3))"), 3)
	wantInt(t, evalSrc(t, "length(array())"), 0)
	wantInt(t, evalSrc(t, "element(array(7, 8, 9), 1)"), 8)
}

func TestArraySum(t *testing.T) {
	wantInt(t, evalSrc(t, `
do(define(sum, fun(xs,
     do(define(i, 0),
        define(total, 0),
        while(<(i, length(xs)),
              do(set(total, +(total, element(xs, i))),
                 set(i, +(i, 1)))),
        total))),
   sum(array(1, 2, 3, 4, 5)))`), 15)
}

func TestElementErrors(t *testing.T) {
	wantTypeError(t, evalErr(t, "element(array(1), 1)"))
	wantTypeError(t, evalErr(t, "element(array(1), -(0, 1))"))
	wantTypeError(t, evalErr(t, `element(1, 0)`))
	wantTypeError(t, evalErr(t, `element(array(1), "0")`))
	wantTypeError(t, evalErr(t, "length(1)"))
}

func TestNativeArityChecked(t *testing.T) {
	wantTypeError(t, evalErr(t, "+(1)"))
	wantTypeError(t, evalErr(t, "length()"))
	wantTypeError(t, evalErr(t, "print(1, 2)"))
}

// --- print -----------------------------------------------------------------

func TestPrintWritesAndReturnsArgument(t *testing.T) {
	ip := NewInterpreter()
	var buf bytes.Buffer
	ip.Out = &buf

	v, err := ip.Run(`+(print(40), 2)`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantInt(t, v, 42)
	if got := buf.String(); got != "40\n" {
		t.Fatalf("want output %q, got %q", "40\n", got)
	}
}

func TestPrintDisplaysStringsRaw(t *testing.T) {
	ip := NewInterpreter()
	var buf bytes.Buffer
	ip.Out = &buf

	if _, err := ip.Run(`print("hello world")`); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := buf.String(); got != "hello world\n" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintArrays(t *testing.T) {
	ip := NewInterpreter()
	var buf bytes.Buffer
	ip.Out = &buf

	if _, err := ip.Run(`print(array(1, "a", true))`); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `array(1, "a", true)` {
		t.Fatalf("got %q", got)
	}
}

// --- builtins are shadowable, not assignable through set in a child --------

func TestBuiltinsLiveInCore(t *testing.T) {
	ip := NewInterpreter()
	if _, err := ip.Core.Get("+"); err != nil {
		t.Fatalf("+ not in Core: %v", err)
	}
	// A program may shadow a builtin locally without touching Core.
	v, err := ip.Run(`do(define(length, fun(x, 0)), length(array(1)))`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantInt(t, v, 0)
	orig, _ := ip.Core.Get("length")
	if orig.Tag != VTFun || orig.Data.(*Fun).Native == nil {
		t.Fatalf("Core length was replaced")
	}
}
