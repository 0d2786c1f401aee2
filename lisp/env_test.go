// Copyright © 2024 The TLISP authors

package lisp_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/lisptest"
	"github.com/tlisp-lang/tlisp/parser/lexer"
	"github.com/tlisp-lang/tlisp/parser/token"
)

func TestEval(t *testing.T) {
	tests := lisptest.TestSuite{
		{"self evaluating", lisptest.TestSequence{
			{`"hello"`, `hello`, ``},
			{`3`, `3`, ``},
			{`1.25`, `1.25`, ``},
		}},
		{"empty list", lisptest.TestSequence{
			{`()`, `null`, ``},
		}},
		{"unbound name", lisptest.TestSequence{
			{`x`, `Name Error: name not bound: x with code -2`, ``},
		}},
		{"not a function", lisptest.TestSequence{
			{`(foo 1)`, `foo is not a recognized function name with code 3`, ``},
			{`(1 2)`, `1 is not a recognized function name with code 3`, ``},
			{`("s")`, `"s" is not a recognized function name with code 3`, ``},
			{`(() 1)`, `null is not a recognized function name with code 3`, ``},
		}},
		{"errors propagate", lisptest.TestSequence{
			{`(+ 1 (- 1))`, `Input Error: Operation '-' requires 2 arguments with code -5`, ``},
			{`((- 1) 2)`, `Input Error: Operation '-' requires 2 arguments with code -5`, ``},
			{`(+ 1 2`, `Parser Error: Unmatched Parenthesis with code -1`, ``},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestBuiltins(t *testing.T) {
	tests := lisptest.TestSuite{
		{"add", lisptest.TestSequence{
			{`(+ 1 2)`, `3`, ``},
			{`(+)`, `0`, ``},
			{`(+ 1 2 3 4.5)`, `10.5`, ``},
			{`(+ 1 "a")`, `Type Error: Addition between non-numeric types not supported with code -4`, ``},
			{`(+ (+ 1 1) (+ 2 2))`, `6`, ``},
		}},
		{"mul", lisptest.TestSequence{
			{`(*)`, `1`, ``},
			{`(* 2 3 4)`, `24`, ``},
			{`(* 2 "x")`, `Type Error: Multiplication between non-numeric types not supported with code -4`, ``},
		}},
		{"sub", lisptest.TestSequence{
			{`(- 5 2)`, `3`, ``},
			{`(- 2 5)`, `-3`, ``},
			{`(- 1)`, `Input Error: Operation '-' requires 2 arguments with code -5`, ``},
			{`(- 1 2 3)`, `Input Error: Operation '-' requires 2 arguments with code -5`, ``},
			{`(- "a" 1)`, `Type Error: Subtraction between non-numeric types not supported with code -4`, ``},
		}},
		{"div", lisptest.TestSequence{
			{`(/ 1 2)`, `0.5`, ``},
			{`(/ 1 0)`, `inf`, ``},
			{`(/ -1 0)`, `Input Error: Operation '/' requires 2 arguments with code -5`, ``},
			{`(/ (- 0 1) 0)`, `-inf`, ``},
			{`(/ 0 0)`, `NaN`, ``},
			{`(/ 1)`, `Input Error: Operation '/' requires 2 arguments with code -5`, ``},
			{`(/ 1 x)`, `Name Error: name not bound: x with code -2`, ``},
		}},
		{"progn", lisptest.TestSequence{
			{`(progn)`, `Form progn requires at least one argument with code -1`, ``},
			{`(progn 1 2 3)`, `3`, ``},
			{`(progn () 1 2 (/ 1 2))`, `0.5`, ``},
			{`(progn (defn f () 1) (f))`, `1`, ``},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestDivideByZero(t *testing.T) {
	env, err := lisptest.NewEnv(io.Discard)
	require.NoError(t, err)
	results, err := env.LoadString("test", "(/ 1 0)")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, lisp.LNum, results[0].Type)
	assert.True(t, math.IsInf(results[0].Num, 1))
}

func TestDefn(t *testing.T) {
	tests := lisptest.TestSuite{
		{"define and call", lisptest.TestSequence{
			{`(defn add (a b) (+ a b))`, `add`, ``},
			{`(add 1 2)`, `3`, ``},
			{`(add (add 1 2) (add 3 4))`, `10`, ``},
			{`(defn k () 7)`, `k`, ``},
			{`(k)`, `7`, ``},
		}},
		{"computed operator", lisptest.TestSequence{
			{`((defn sq (x) (* x x)) 4)`, `16`, ``},
			{`(sq 5)`, `25`, ``},
		}},
		{"redefinition", lisptest.TestSequence{
			{`(defn f () 1)`, `f`, ``},
			{`(defn f () 2)`, `f`, ``},
			{`(f)`, `2`, ``},
		}},
		{"call before definition", lisptest.TestSequence{
			{`(defn f (x) (g x))`, `f`, ``},
			{`(defn g (y) (* y 2))`, `g`, ``},
			{`(f 3)`, `6`, ``},
		}},
		{"malformed", lisptest.TestSequence{
			{`(defn)`, `Input Error: form 'defn' requires 3 arguments with code -5`, ``},
			{`(defn f (x))`, `Input Error: form 'defn' requires 3 arguments with code -5`, ``},
			{`(defn f x x)`, `Input Error: form 'defn' requires list of argument names with code -5`, ``},
			{`(defn f (1) x)`, `Input Error: form 'defn' requires list of argument names with code -5`, ``},
			{`(defn "f" (x) x)`, `Input Error: form 'defn' requires a function name with code -5`, ``},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestArityPermissive(t *testing.T) {
	tests := lisptest.TestSuite{
		{"too few arguments", lisptest.TestSequence{
			{`(defn first (a b) a)`, `first`, ``},
			{`(first 1)`, `1`, `closure called with mismatched argument count`},
			{`(defn second (a b) b)`, `second`, ``},
			{`(second 1)`, `Name Error: name not bound: b with code -2`, `closure called with mismatched argument count`},
		}},
		{"surplus arguments are not evaluated", lisptest.TestSequence{
			{`(defn first (a b) a)`, `first`, ``},
			{`(first 1 2 (undefined 3))`, `1`, `closure called with mismatched argument count`},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestArityStrict(t *testing.T) {
	tests := lisptest.TestSuite{
		{"strict", lisptest.TestSequence{
			{`(defn first (a b) a)`, `first`, ``},
			{`(first 1)`, `Input Error: function 'first' requires 2 arguments with code -5`, ``},
			{`(first 1 2 3)`, `Input Error: function 'first' requires 2 arguments with code -5`, ``},
			{`(first 1 2)`, `1`, ``},
		}},
	}
	lisptest.RunTestSuite(t, tests, lisp.WithStrictArity(true))
}

func TestScopeCompat(t *testing.T) {
	tests := lisptest.TestSuite{
		{"closures bind in the calling scope", lisptest.TestSequence{
			{`(defn id (x) x)`, `id`, ``},
			{`(id 5)`, `5`, ``},
			{`x`, `5`, ``},
		}},
		{"nested definitions land in the calling scope", lisptest.TestSequence{
			{`(defn outer (x) (defn inner (y) (+ x y)))`, `outer`, ``},
			{`(outer 1)`, `inner`, ``},
			{`(inner 2)`, `3`, ``},
		}},
	}
	lisptest.RunTestSuite(t, tests)
	lisptest.RunTestSuite(t, tests, lisp.WithScopeMode(lisp.ScopeCompat))
}

func TestScopeLexical(t *testing.T) {
	tests := lisptest.TestSuite{
		{"closures bind in a fresh frame", lisptest.TestSequence{
			{`(defn id (x) x)`, `id`, ``},
			{`(id 5)`, `5`, ``},
			{`x`, `Name Error: name not bound: x with code -2`, ``},
		}},
		{"nested definitions are local", lisptest.TestSequence{
			{`(defn outer (x) (defn inner (y) (+ x y)))`, `outer`, ``},
			{`(outer 1)`, `inner`, ``},
			{`(inner 2)`, `inner is not a recognized function name with code 3`, ``},
		}},
		{"call before definition", lisptest.TestSequence{
			{`(defn f (x) (g x))`, `f`, ``},
			{`(defn g (y) (* y 2))`, `g`, ``},
			{`(f 3)`, `6`, ``},
		}},
	}
	lisptest.RunTestSuite(t, tests, lisp.WithScopeMode(lisp.ScopeLexical))
}

func TestLookupChain(t *testing.T) {
	for _, mode := range []lisp.ScopeMode{lisp.ScopeCompat, lisp.ScopeLexical} {
		root, err := lisp.NewRootEnv(lisp.WithScopeMode(mode))
		require.NoError(t, err)
		root.Put("y", lisp.Num(1))
		child := lisp.NewEnv(root)
		assert.Same(t, root.Runtime, child.Runtime)
		assert.Same(t, root, child.Root())

		// Functions are always found through the parent chain.
		fun, lerr := child.LookupFunction(lisp.Atom("+"))
		require.Nil(t, lerr, mode.String())
		assert.Equal(t, lisp.ExecBuiltin, fun.Type)

		// Variables only are under lexical scoping.
		v := child.Get(lisp.Atom("y"))
		switch mode {
		case lisp.ScopeCompat:
			assert.Equal(t, lisp.LError, v.Type)
			assert.Equal(t, lisp.CodeUnbound, v.Code)
		case lisp.ScopeLexical:
			assert.True(t, v.Equal(lisp.Num(1)))
		}

		// Local bindings shadow the parent.
		child.Put("y", lisp.Num(2))
		assert.True(t, child.Get(lisp.Atom("y")).Equal(lisp.Num(2)))
		assert.True(t, root.Get(lisp.Atom("y")).Equal(lisp.Num(1)))
	}
}

func TestLookupFunction(t *testing.T) {
	env, err := lisp.NewRootEnv()
	require.NoError(t, err)
	for i, b := range lisp.Builtins() {
		fun, lerr := env.LookupFunction(lisp.Atom(b.Name()))
		require.Nil(t, lerr, b.Name())
		assert.Equal(t, lisp.ExecBuiltin, fun.Type)
		assert.Equal(t, i, fun.Builtin)
	}

	_, lerr := env.LookupFunction(lisp.Atom("missing"))
	require.NotNil(t, lerr)
	assert.Equal(t, lisp.CodeNotFunction, lerr.Code)

	_, lerr = env.LookupFunction(lisp.List())
	require.NotNil(t, lerr)
	assert.Equal(t, "() is not a recognized function name", lerr.Str)

	// A bare environment has no builtins.
	bare := lisp.NewEnv(nil)
	_, lerr = bare.LookupFunction(lisp.Atom("+"))
	assert.NotNil(t, lerr)
}

func TestBuiltinDispatchOutOfRange(t *testing.T) {
	env, err := lisp.NewRootEnv()
	require.NoError(t, err)
	env.PutFunction("bad", lisp.BuiltinExec(len(lisp.Builtins())))
	v := env.Eval(lisp.List(lisp.Atom("bad")))
	assert.Equal(t, lisp.LError, v.Type)
	assert.Equal(t, lisp.CodeDispatch, v.Code)

	env.PutFunction("neg", lisp.BuiltinExec(-1))
	v = env.Eval(lisp.List(lisp.Atom("neg")))
	assert.Equal(t, lisp.CodeDispatch, v.Code)

	v = env.Eval(&lisp.LVal{})
	assert.Equal(t, lisp.LError, v.Type)
}

func TestExecutableCall(t *testing.T) {
	env, err := lisp.NewRootEnv()
	require.NoError(t, err)
	add := lisp.BuiltinExec(1)
	v := add.Call(env, []*lisp.LVal{lisp.Num(2), lisp.Num(3)})
	assert.True(t, v.Equal(lisp.Num(5)))

	sq := lisp.Closure("sq", []string{"x"}, lisp.List(lisp.Atom("*"), lisp.Atom("x"), lisp.Atom("x")), env)
	v = sq.Call(env, []*lisp.LVal{lisp.List(lisp.Atom("+"), lisp.Num(1), lisp.Num(2))})
	assert.True(t, v.Equal(lisp.Num(9)))
	assert.Equal(t, "(sq x)", sq.Docstring())
	assert.NotEmpty(t, add.Docstring())
	assert.Empty(t, lisp.BuiltinExec(100).Docstring())
}

func TestBuiltinTable(t *testing.T) {
	var names []string
	for _, b := range lisp.Builtins() {
		names = append(names, b.Name())
		assert.NotEmpty(t, b.Docstring(), b.Name())
		assert.NotEmpty(t, b.Formals(), b.Name())
	}
	assert.Equal(t, []string{"progn", "+", "-", "*", "/", "defn"}, names)
	assert.Equal(t, "(- x y)", lisp.Usage("-", []string{"x", "y"}))
	assert.Equal(t, "(f)", lisp.Usage("f", nil))
}

func TestRoundTrip(t *testing.T) {
	for _, src := range []string{
		`(* (+ 1 2) (/ 9 3))`,
		`(- (/ 1 3) (* 2 0.5))`,
		`(progn 1 (+ 2 3))`,
		`(+ 1 "x")`,
	} {
		first := lisptest.EvalString(t, src)
		second := lisptest.EvalString(t, src)
		assert.Equal(t, first, second, src)
	}
}

func TestEvalProgram(t *testing.T) {
	env, err := lisptest.NewEnv(io.Discard)
	require.NoError(t, err)
	results, err := env.LoadString("test", "(defn f (x) (+ x 1)) (f 1)\n(f (f 1)) (- 1)")
	require.NoError(t, err)
	var out []string
	for _, v := range results {
		out = append(out, v.String())
	}
	assert.Equal(t, []string{"f", "2", "3", "Input Error: Operation '-' requires 2 arguments with code -5"}, out)

	// Errors are located at the call that produced them.
	lerr := results[3]
	require.NotNil(t, lerr.Source)
	assert.Equal(t, "test", lerr.Source.File)
	assert.Equal(t, 2, lerr.Source.Line)
	assert.Equal(t, 11, lerr.Source.Col)
}

func TestLexicalErrorIsFatal(t *testing.T) {
	env, err := lisptest.NewEnv(io.Discard)
	require.NoError(t, err)
	results, err := env.LoadString("test", "(+ 1 2) (+ 1 \x01)")
	require.Error(t, err)
	assert.Nil(t, results)
	var cerr *lexer.UnexpectedCharError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, '\x01', cerr.Char)
	var lerr *token.LocationError
	require.True(t, errors.As(err, &lerr))
	var eval *lisp.ErrorVal
	assert.False(t, errors.As(err, &eval))
}

func TestStackOverflow(t *testing.T) {
	env, err := lisptest.NewEnv(io.Discard, lisp.WithMaximumStackHeight(100))
	require.NoError(t, err)
	results, err := env.LoadString("test", "(defn f (x) (f x)) (f 1) (+ 1 1)")
	var serr *lisp.StackOverflowError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 101, serr.Height)
	require.NotNil(t, serr.Stack)
	assert.Equal(t, 100, serr.Stack.Height())
	assert.Equal(t, "test:1:20", serr.Stack.Frames[0].Source.String())
	assert.Equal(t, []string{
		"in f at test:1:13",
		"in f at test:1:13",
		"... and 98 more frames",
	}, serr.Stack.Trace(2))
	require.Len(t, results, 1)
	assert.Equal(t, "f", results[0].String())
	assert.Equal(t, 0, env.Runtime.Stack.Height())

	// The environment remains usable.
	results, err = env.LoadString("test", "(+ 1 1)")
	require.NoError(t, err)
	assert.Equal(t, "2", results[0].String())
}

func TestNoReader(t *testing.T) {
	env, err := lisp.NewRootEnv()
	require.NoError(t, err)
	_, err = env.LoadString("test", "1")
	assert.ErrorIs(t, err, lisp.ErrNoReader)

	_, err = env.LoadFile("/nonexistent/file.lisp")
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	_, err := lisp.NewRootEnv(lisp.WithScopeMode(lisp.ScopeMode(9)))
	assert.Error(t, err)
	_, err = lisp.NewRootEnv(lisp.WithLogger(nil))
	assert.Error(t, err)

	env, err := lisp.NewRootEnv(lisp.WithPermission(3), lisp.WithStrictArity(true), lisp.WithMaximumStackHeight(7))
	require.NoError(t, err)
	assert.Equal(t, 3, env.Permission)
	assert.Equal(t, 3, lisp.NewEnv(env).Permission)
	assert.True(t, env.Runtime.StrictArity)
	assert.Equal(t, 7, env.Runtime.Stack.MaxHeight)
	assert.Equal(t, lisp.ScopeCompat, env.Runtime.Scope)

	mode, ok := lisp.ParseScopeMode("lexical")
	assert.True(t, ok)
	assert.Equal(t, lisp.ScopeLexical, mode)
	_, ok = lisp.ParseScopeMode("dynamic")
	assert.False(t, ok)
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	env, err := lisptest.NewEnv(&buf, lisp.WithLogLevel(logrus.DebugLevel))
	require.NoError(t, err)
	_, err = env.LoadString("test", "(defn f (x) x) (f 1)")
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `msg="define closure"`)
	assert.Contains(t, out, `msg=dispatch`)
	assert.Contains(t, out, `fun=f`)
	assert.Contains(t, out, `kind=closure`)
}

type recordingProfiler struct {
	enabled bool
	depth   int
	calls   []string
}

func (p *recordingProfiler) IsEnabled() bool { return p.enabled }
func (p *recordingProfiler) Enable() error   { p.enabled = true; return nil }
func (p *recordingProfiler) Complete() error { p.enabled = false; return nil }

func (p *recordingProfiler) Start(frame *lisp.CallFrame) func() {
	p.calls = append(p.calls, frame.Name)
	p.depth++
	return func() { p.depth-- }
}

func TestProfilerHook(t *testing.T) {
	p := &recordingProfiler{}
	env, err := lisptest.NewEnv(io.Discard, lisp.WithProfiler(p))
	require.NoError(t, err)
	_, err = env.LoadString("test", "(defn sq (x) (* x x)) (+ (sq 2) 1)")
	require.NoError(t, err)
	assert.Equal(t, []string{"defn", "+", "sq", "*"}, p.calls)
	assert.Equal(t, 0, p.depth)
	require.NoError(t, p.Complete())
	_, err = env.LoadString("test", "(+ 1 1)")
	require.NoError(t, err)
	assert.Len(t, p.calls, 4)
}
