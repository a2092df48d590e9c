// interpreter.go — public surface and evaluation engine for Egg.
//
// This file holds the runtime value model (Value, Fun), lexical
// environments (Env), the Interpreter entry points, the tree-walking
// evaluator and the fixed special-form table.
//
// SCOPING
// -------
// Code evaluates in environments forming a lexical chain via parent:
//   - Core:   built-ins seeded by runtime.go (parent of Global).
//   - Global: persistent program state (REPL globals).
//
// Run/EvalSource evaluate in a fresh child of Global, so bindings made by
// the program land in a throwaway frame; EvalPersistentSource evaluates
// in Global itself (REPL semantics); EvalExpr evaluates exactly in the
// environment the caller provides.
//
// ERRORS
// ------
// All entry points return (Value, error). Evaluation fails fast: the
// engine signals failures internally by panicking with one of the typed
// errors (*SyntaxError, *ReferenceError, *TypeError) and the public
// methods recover them into ordinary Go errors. Nothing is retried or
// swallowed; side effects performed before a failure stay.
//
// Special forms run before generic application and receive their argument
// nodes unevaluated, so they control their own evaluation order (if takes
// one branch, while re-evaluates its condition, fun evaluates nothing at
// construction time). Every callable — user fun or registered native —
// carries an explicit arity that is checked on each call.
package egg

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Version of the interpreter, reported by the CLI.
const Version = "0.1.0"

////////////////////////////////////////////////////////////////////////////////
//                                   VALUES
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTBool  ValueTag = iota // bool
	VTInt                   // int64 (decimal integer literals)
	VTNum                   // float64 (produced by '/')
	VTStr                   // string
	VTArray                 // []Value
	VTFun                   // *Fun (closure or native)
)

// Value is the universal runtime carrier. Tag selects which Go type Data
// holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders the REPL form (see printer.go).
func (v Value) String() string { return FormatValue(v) }

// Singleton booleans. False is the only falsy Value in the language and
// doubles as its "no value" result (while loops, empty do blocks).
var (
	False = Value{Tag: VTBool, Data: false}
	True  = Value{Tag: VTBool, Data: true}
)

// Constructors.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}
func Int(n int64) Value    { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value  { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value   { return Value{Tag: VTStr, Data: s} }
func Arr(xs []Value) Value { return Value{Tag: VTArray, Data: xs} }
func FunVal(f *Fun) Value  { return Value{Tag: VTFun, Data: f} }

// Variadic marks a native that accepts any number of arguments.
const Variadic = -1

// Fun represents a callable: either a user closure (Params/Body/Env) or a
// registered native (Native/NativeName/NativeArity).
type Fun struct {
	Params []string // parameter names, in order (user functions)
	Body   Expr     // body expression (user functions)
	Env    *Env     // closure environment captured at construction

	NativeName  string // non-empty for natives
	NativeArity int    // required argument count, or Variadic
	Native      func(args []Value) Value
}

// Arity returns the required argument count, or Variadic.
func (f *Fun) Arity() int {
	if f.Native != nil {
		return f.NativeArity
	}
	return len(f.Params)
}

////////////////////////////////////////////////////////////////////////////////
//                                ENVIRONMENTS
////////////////////////////////////////////////////////////////////////////////

// Env is a lexical frame with a parent link. Lookups walk parent-ward.
// Use Define to bind in the current frame (shadowing any outer binding),
// Set to mutate the nearest existing binding, Get to read. A parent may
// be shared by many children at once (every call of the same closure
// chains to the captured defining environment).
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in this frame only. Redefinition succeeds.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set updates the nearest existing binding of name. It never creates a
// binding; if no frame in the chain owns the name an error is returned.
func (e *Env) Set(name string, v Value) error {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.table[name]; ok {
			f.table[name] = v
			return nil
		}
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Get retrieves the nearest visible binding of name.
func (e *Env) Get(name string) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, nil
		}
	}
	return False, fmt.Errorf("undefined variable: %s", name)
}

////////////////////////////////////////////////////////////////////////////////
//                                RUNTIME ERRORS
////////////////////////////////////////////////////////////////////////////////

// ReferenceError reports use of an undefined variable, on read or on set.
type ReferenceError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("REFERENCE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// TypeError reports applying a non-function or calling with the wrong
// argument count, plus operand failures raised by natives.
type TypeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *TypeError) Error() string {
	if e.Line == 0 {
		return "TYPE ERROR: " + e.Msg
	}
	return fmt.Sprintf("TYPE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// failType raises a position-less TypeError from inside a native; the
// call site stamps the application's line/col onto it (see apply).
func failType(msg string) {
	panic(&TypeError{Msg: msg})
}

////////////////////////////////////////////////////////////////////////////////
//                                 INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter is the entry point for evaluating Egg programs.
//
// Core holds the built-ins seeded by runtime.go and is the parent of
// Global, the persistent program environment. Out receives everything the
// print builtin writes (defaults to os.Stdout; tests point it at a
// buffer).
type Interpreter struct {
	Core   *Env
	Global *Env
	Out    io.Writer
}

// NewInterpreter returns a ready-to-use engine: Core populated with the
// standard built-ins, Global an empty child of Core.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{Out: os.Stdout}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	registerCoreBuiltins(ip)
	return ip
}

// RegisterNative installs a host callable into Core under name. arity is
// the required argument count (or Variadic); it is enforced on every
// call before impl runs.
func (ip *Interpreter) RegisterNative(name string, arity int, impl func(args []Value) Value) {
	ip.Core.Define(name, FunVal(&Fun{
		NativeName:  name,
		NativeArity: arity,
		Native:      impl,
	}))
}

// Run joins the given source fragments with newlines and evaluates the
// resulting program in a fresh child of Global.
func (ip *Interpreter) Run(parts ...string) (Value, error) {
	return ip.evalSourceIn(strings.Join(parts, "\n"), NewEnv(ip.Global))
}

// EvalSource parses and evaluates src in a fresh child of Global, so
// top-level defines do not leak into Global.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	return ip.evalSourceIn(src, NewEnv(ip.Global))
}

// EvalPersistentSource parses and evaluates src in Global itself
// (REPL-style); defines persist across calls.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	return ip.evalSourceIn(src, ip.Global)
}

func (ip *Interpreter) evalSourceIn(src string, env *Env) (Value, error) {
	expr, err := Parse(src)
	if err != nil {
		return False, err
	}
	return ip.EvalExpr(expr, env)
}

// EvalExpr evaluates a parsed expression exactly in the provided
// environment. Hosts use this to control scoping themselves.
func (ip *Interpreter) EvalExpr(node Expr, env *Env) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !isEvalError(e) {
				panic(r)
			}
			out, err = False, e
		}
	}()
	return evaluate(node, env), nil
}

// Apply invokes a function Value with the given arguments, enforcing
// arity. The error is a *TypeError if fn is not callable or the count is
// wrong; evaluation failures inside the body propagate unchanged.
func (ip *Interpreter) Apply(fn Value, args []Value) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !isEvalError(e) {
				panic(r)
			}
			out, err = False, e
		}
	}()
	if fn.Tag != VTFun {
		return False, &TypeError{Msg: "applying a non-function"}
	}
	return apply(fn.Data.(*Fun), args, 0, 0), nil
}

func isEvalError(e error) bool {
	switch e.(type) {
	case *SyntaxError, *ReferenceError, *TypeError:
		return true
	}
	return false
}

////////////////////////////////////////////////////////////////////////////////
//                                  EVALUATOR
////////////////////////////////////////////////////////////////////////////////

// evaluate interprets a node against env. Failures panic with a typed
// error; the public entry points recover them.
func evaluate(node Expr, env *Env) Value {
	switch n := node.(type) {
	case *Literal:
		return n.Value

	case *Identifier:
		v, err := env.Get(n.Name)
		if err != nil {
			panic(&ReferenceError{Line: n.Line, Col: n.Col, Msg: err.Error()})
		}
		return v

	case *Application:
		// Special forms receive their argument nodes unevaluated and
		// must run before generic evaluation.
		if id, ok := n.Operator.(*Identifier); ok {
			if form, ok := specialForms[id.Name]; ok {
				return form(n, env)
			}
		}
		op := evaluate(n.Operator, env)
		if op.Tag != VTFun {
			panic(&TypeError{Line: n.Line, Col: n.Col, Msg: "applying a non-function"})
		}
		args := make([]Value, len(n.Args))
		for i, a := range n.Args {
			args[i] = evaluate(a, env)
		}
		return apply(op.Data.(*Fun), args, n.Line, n.Col)
	}
	panic(fmt.Sprintf("unhandled expression node %T", node))
}

// apply invokes f with already-evaluated arguments. line/col locate the
// application for error reporting (0,0 for host-initiated calls).
func apply(f *Fun, args []Value, line, col int) Value {
	if want := f.Arity(); want != Variadic && len(args) != want {
		panic(&TypeError{Line: line, Col: col,
			Msg: fmt.Sprintf("wrong number of arguments: want %d, got %d", want, len(args))})
	}
	if f.Native != nil {
		defer func() {
			if r := recover(); r != nil {
				if te, ok := r.(*TypeError); ok && te.Line == 0 {
					te.Line, te.Col = line, col
				}
				panic(r)
			}
		}()
		return f.Native(args)
	}
	local := NewEnv(f.Env)
	for i, name := range f.Params {
		local.Define(name, args[i])
	}
	return evaluate(f.Body, local)
}

func isTruthy(v Value) bool {
	return !(v.Tag == VTBool && !v.Data.(bool))
}

////////////////////////////////////////////////////////////////////////////////
//                               SPECIAL FORMS
////////////////////////////////////////////////////////////////////////////////

// specialForms is the fixed dispatch table for control-flow constructs.
// The registry is closed: nothing in the language adds entries at run
// time. Each handler validates its argument shapes before evaluating
// anything, so a malformed use fails before any side effect.
var specialForms map[string]func(app *Application, env *Env) Value

func init() {
	specialForms = map[string]func(app *Application, env *Env) Value{
		"if":     sfIf,
		"while":  sfWhile,
		"do":     sfDo,
		"define": sfDefine,
		"set":    sfSet,
		"fun":    sfFun,
	}
}

// sfIf evaluates its condition and exactly one branch. Everything except
// the boolean false counts as true, including 0 and "".
func sfIf(app *Application, env *Env) Value {
	if len(app.Args) != 3 {
		panic(&SyntaxError{Line: app.Line, Col: app.Col, Msg: "if takes exactly three arguments"})
	}
	if isTruthy(evaluate(app.Args[0], env)) {
		return evaluate(app.Args[1], env)
	}
	return evaluate(app.Args[2], env)
}

// sfWhile loops until the condition yields false. It always returns
// false: the language has no "no value" concept.
func sfWhile(app *Application, env *Env) Value {
	if len(app.Args) != 2 {
		panic(&SyntaxError{Line: app.Line, Col: app.Col, Msg: "while takes exactly two arguments"})
	}
	for isTruthy(evaluate(app.Args[0], env)) {
		evaluate(app.Args[1], env)
	}
	return False
}

// sfDo evaluates its arguments in order in the same environment and
// returns the last result (false for an empty do).
func sfDo(app *Application, env *Env) Value {
	out := False
	for _, arg := range app.Args {
		out = evaluate(arg, env)
	}
	return out
}

// sfDefine binds a name in the current frame, shadowing any outer
// binding of the same name. Returns the bound value.
func sfDefine(app *Application, env *Env) Value {
	id := bindTarget(app, "define")
	v := evaluate(app.Args[1], env)
	env.Define(id.Name, v)
	return v
}

// sfSet mutates the nearest existing binding anywhere in the chain. It
// never creates a binding: an unbound name is a ReferenceError.
func sfSet(app *Application, env *Env) Value {
	id := bindTarget(app, "set")
	v := evaluate(app.Args[1], env)
	if err := env.Set(id.Name, v); err != nil {
		panic(&ReferenceError{Line: id.Line, Col: id.Col,
			Msg: "assigning undefined variable: " + id.Name})
	}
	return v
}

// bindTarget checks the shared define/set shape: exactly two arguments,
// the first an identifier.
func bindTarget(app *Application, form string) *Identifier {
	if len(app.Args) != 2 {
		panic(&SyntaxError{Line: app.Line, Col: app.Col, Msg: form + " takes exactly two arguments"})
	}
	id, ok := app.Args[0].(*Identifier)
	if !ok {
		panic(&SyntaxError{Line: app.Line, Col: app.Col, Msg: form + " needs an identifier as its first argument"})
	}
	return id
}

// sfFun builds a closure. All arguments but the last name parameters; the
// last is the body. The defining environment is captured by reference, so
// the closure observes later mutations made in it.
func sfFun(app *Application, env *Env) Value {
	if len(app.Args) == 0 {
		panic(&SyntaxError{Line: app.Line, Col: app.Col, Msg: "fun needs a body"})
	}
	params := make([]string, len(app.Args)-1)
	for i, a := range app.Args[:len(app.Args)-1] {
		id, ok := a.(*Identifier)
		if !ok {
			panic(&SyntaxError{Line: app.Line, Col: app.Col, Msg: "parameter names must be identifiers"})
		}
		params[i] = id.Name
	}
	return FunVal(&Fun{
		Params: params,
		Body:   app.Args[len(app.Args)-1],
		Env:    env,
	})
}
