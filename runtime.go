// runtime.go — standard built-ins seeded into the Core environment.
//
// Everything here goes through RegisterNative and is opaque to the
// evaluator: the engine only requires that a builtin is callable with a
// fixed arity (or Variadic) and returns a Value. Operand failures raise
// hard TypeErrors via failType; there are no soft errors in the core.
package egg

import "fmt"

func registerCoreBuiltins(ip *Interpreter) {
	// Boolean literals are plain bindings, not callables.
	ip.Core.Define("true", True)
	ip.Core.Define("false", False)

	// Arithmetic. Integer operands stay integers except for '/', which
	// promotes to float when the quotient is inexact.
	ip.RegisterNative("+", 2, func(args []Value) Value { return arith("+", args[0], args[1]) })
	ip.RegisterNative("-", 2, func(args []Value) Value { return arith("-", args[0], args[1]) })
	ip.RegisterNative("*", 2, func(args []Value) Value { return arith("*", args[0], args[1]) })
	ip.RegisterNative("/", 2, func(args []Value) Value { return arith("/", args[0], args[1]) })
	ip.RegisterNative("%", 2, func(args []Value) Value {
		if args[0].Tag != VTInt || args[1].Tag != VTInt {
			failType("'%' expects integers")
		}
		b := args[1].Data.(int64)
		if b == 0 {
			failType("division by zero")
		}
		return Int(args[0].Data.(int64) % b)
	})

	// Comparisons.
	ip.RegisterNative("==", 2, func(args []Value) Value { return Bool(deepEqual(args[0], args[1])) })
	ip.RegisterNative("!=", 2, func(args []Value) Value { return Bool(!deepEqual(args[0], args[1])) })
	ip.RegisterNative("<", 2, func(args []Value) Value { return compare("<", args[0], args[1]) })
	ip.RegisterNative(">", 2, func(args []Value) Value { return compare(">", args[0], args[1]) })
	ip.RegisterNative("<=", 2, func(args []Value) Value { return compare("<=", args[0], args[1]) })
	ip.RegisterNative(">=", 2, func(args []Value) Value { return compare(">=", args[0], args[1]) })

	// Arrays.
	ip.RegisterNative("array", Variadic, func(args []Value) Value {
		return Arr(append([]Value{}, args...))
	})
	ip.RegisterNative("length", 1, func(args []Value) Value {
		if args[0].Tag != VTArray {
			failType("'length' expects an array")
		}
		return Int(int64(len(args[0].Data.([]Value))))
	})
	ip.RegisterNative("element", 2, func(args []Value) Value {
		if args[0].Tag != VTArray {
			failType("'element' expects an array")
		}
		if args[1].Tag != VTInt {
			failType("'element' expects an integer index")
		}
		xs := args[0].Data.([]Value)
		i := args[1].Data.(int64)
		if i < 0 || i >= int64(len(xs)) {
			failType(fmt.Sprintf("array index %d out of range (length %d)", i, len(xs)))
		}
		return xs[i]
	})

	// print writes the display form plus newline and returns its
	// argument unchanged, so it composes inside larger expressions.
	ip.RegisterNative("print", 1, func(args []Value) Value {
		fmt.Fprintln(ip.Out, displayString(args[0]))
		return args[0]
	})
}

/* ---------- numeric helpers ---------- */

func isNumber(v Value) bool { return v.Tag == VTInt || v.Tag == VTNum }

func toFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}

func arith(op string, a, b Value) Value {
	if !isNumber(a) || !isNumber(b) {
		failType(fmt.Sprintf("'%s' expects numbers", op))
	}
	if a.Tag == VTInt && b.Tag == VTInt {
		x, y := a.Data.(int64), b.Data.(int64)
		switch op {
		case "+":
			return Int(x + y)
		case "-":
			return Int(x - y)
		case "*":
			return Int(x * y)
		case "/":
			if y == 0 {
				failType("division by zero")
			}
			if x%y == 0 {
				return Int(x / y)
			}
			return Num(float64(x) / float64(y))
		}
	}
	x, y := toFloat(a), toFloat(b)
	switch op {
	case "+":
		return Num(x + y)
	case "-":
		return Num(x - y)
	case "*":
		return Num(x * y)
	case "/":
		if y == 0 {
			failType("division by zero")
		}
		return Num(x / y)
	}
	failType("unknown arithmetic operator: " + op)
	return False
}

func compare(op string, a, b Value) Value {
	if !isNumber(a) || !isNumber(b) {
		failType(fmt.Sprintf("'%s' expects numbers", op))
	}
	x, y := toFloat(a), toFloat(b)
	switch op {
	case "<":
		return Bool(x < y)
	case ">":
		return Bool(x > y)
	case "<=":
		return Bool(x <= y)
	case ">=":
		return Bool(x >= y)
	}
	failType("unknown comparison operator: " + op)
	return False
}

// deepEqual compares Values structurally. Ints and floats compare
// numerically, arrays elementwise, functions by identity.
func deepEqual(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		if a.Tag == VTInt && b.Tag == VTInt {
			return a.Data.(int64) == b.Data.(int64)
		}
		return toFloat(a) == toFloat(b)
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTArray:
		ax, bx := a.Data.([]Value), b.Data.([]Value)
		if len(ax) != len(bx) {
			return false
		}
		for i := range ax {
			if !deepEqual(ax[i], bx[i]) {
				return false
			}
		}
		return true
	case VTFun:
		return a.Data == b.Data
	}
	return false
}
