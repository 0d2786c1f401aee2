// Copyright © 2024 The TLISP authors

package lisp

import (
	"github.com/sirupsen/logrus"
	"github.com/tlisp-lang/tlisp/parser/token"
)

// LEnv is a lisp environment.  An environment is a mutable scope holding
// variable bindings and function bindings.  Function lookup always continues
// through Parent when a name is not bound locally.  Whether variable lookup
// does depends on the ScopeMode of the Runtime.
//
// Evaluation is single threaded.  An LEnv and its Runtime must not be used by
// more than one goroutine at a time.
type LEnv struct {
	// Permission is a capability tag.  It is stored and inherited by child
	// environments but not otherwise interpreted.
	Permission int
	Parent     *LEnv
	Vals       map[string]*LVal
	Funs       map[string]*Executable
	Runtime    *Runtime
	ID         uint
}

// NewRootEnv returns a root environment whose function bindings are seeded
// with the builtin table.  The configs are applied in order and the first one
// to return an error aborts initialization.
func NewRootEnv(config ...Config) (*LEnv, error) {
	env := NewEnv(nil)
	lerr := InitializeRootEnv(env, config...)
	if lerr.Type == LError {
		return nil, GoError(lerr)
	}
	return env, nil
}

// InitializeRootEnv binds every builtin in env and applies config.
func InitializeRootEnv(env *LEnv, config ...Config) *LVal {
	for i, fun := range langBuiltins {
		env.PutFunction(fun.name, BuiltinExec(i))
	}
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Null()
}

// NewEnvRuntime initializes a new root LEnv, like NewEnv, but it explicitly
// specifies the runtime to use.  When rt is nil StandardRuntime() is called to
// create a new Runtime for the returned LEnv.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		ID:      rt.GenEnvID(),
		Vals:    make(map[string]*LVal),
		Funs:    make(map[string]*Executable),
		Runtime: rt,
	}
}

// NewEnv returns a new LEnv that is a child of parent.  When parent is nil the
// returned LEnv is a root with a new StandardRuntime and no function
// bindings.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &LEnv{
		Permission: parent.Permission,
		Parent:     parent,
		ID:         parent.Runtime.GenEnvID(),
		Vals:       make(map[string]*LVal),
		Funs:       make(map[string]*Executable),
		Runtime:    parent.Runtime,
	}
}

// Root returns the root of the tree of environments containing env.
func (env *LEnv) Root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Get returns the value bound to the atom sym.  Under ScopeCompat only env
// itself is searched, under ScopeLexical the parent chain is searched as
// well.  An unbound name produces an error value.
func (env *LEnv) Get(sym *LVal) *LVal {
	if sym.Type != LAtom {
		return env.Errorf(CodeType, "Type Error: cannot look up a %s as a name", sym.Type)
	}
	for e := env; e != nil; e = e.Parent {
		v, ok := e.Vals[sym.Str]
		if ok {
			return v
		}
		if env.Runtime.Scope != ScopeLexical {
			break
		}
	}
	lerr := Errorf(CodeUnbound, "Name Error: name not bound: %s", sym.Str)
	lerr.Source = sym.Source
	return lerr
}

// Put binds name to v in env.
func (env *LEnv) Put(name string, v *LVal) {
	env.Vals[name] = v
}

// PutFunction binds name to fun in env.
func (env *LEnv) PutFunction(name string, fun *Executable) {
	env.Funs[name] = fun
}

// LookupFunction returns the Executable named by the atom op, searching env
// and then each of its ancestors.
func (env *LEnv) LookupFunction(op *LVal) (*Executable, *LVal) {
	if op.Type == LAtom {
		for e := env; e != nil; e = e.Parent {
			fun, ok := e.Funs[op.Str]
			if ok {
				return fun, nil
			}
		}
	}
	lerr := Errorf(CodeNotFunction, "%s is not a recognized function name", op.Repr())
	lerr.Source = op.Source
	return nil, lerr
}

// Errorf returns an LError with a formatted message.  The error is located at
// the call currently being evaluated, if there is one.
func (env *LEnv) Errorf(code int, format string, v ...interface{}) *LVal {
	lerr := Errorf(code, format, v...)
	if top := env.Runtime.Stack.Top(); top != nil && top.Source != nil {
		lerr.Source = top.Source
	}
	return lerr
}

// Eval evaluates v in env and returns the resulting value.  Strings, numbers
// and errors evaluate to themselves, atoms are resolved as variables and
// non-empty lists are function applications.
//
// Exceeding the maximum height of the call stack causes Eval to panic with a
// *StackOverflowError.  EvalProgram recovers it and returns it as an error.
func (env *LEnv) Eval(v *LVal) *LVal {
	switch v.Type {
	case LString, LNum, LError:
		return v
	case LAtom:
		return env.Get(v)
	case LList:
		return env.EvalList(v)
	default:
		lerr := Errorf(CodeType, "Type Error: cannot evaluate %s value", v.Type)
		lerr.Source = v.Source
		return lerr
	}
}

// EvalList evaluates a list as a function application.  The operator is the
// first cell, evaluated first when it is itself a list, and it must name a
// function.  The remaining cells are passed to the function unevaluated.  The
// empty list evaluates to the atom null.
func (env *LEnv) EvalList(v *LVal) *LVal {
	if len(v.Cells) == 0 {
		null := Null()
		null.Source = v.Source
		return null
	}
	op := v.Cells[0]
	if op.Type == LList {
		op = env.Eval(op)
	}
	if op.Type == LError {
		return op
	}
	fun, lerr := env.LookupFunction(op)
	if lerr != nil {
		return lerr
	}
	return env.call(op.Str, fun, v.Cells[1:], v.Source)
}

func (env *LEnv) call(name string, fun *Executable, args []*LVal, src *token.Location) *LVal {
	rt := env.Runtime
	err := rt.Stack.Push(src, name, fun)
	if err != nil {
		if serr, ok := err.(*StackOverflowError); ok {
			serr.Stack = rt.Stack.Copy()
		}
		panic(err)
	}
	defer rt.Stack.Pop()
	if rt.Profiler != nil && rt.Profiler.IsEnabled() {
		end := rt.Profiler.Start(rt.Stack.Top())
		defer end()
	}
	logger := rt.log()
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.WithFields(logrus.Fields{
			"fun":   name,
			"kind":  fun.Type.String(),
			"scope": env.ID,
			"args":  len(args),
		}).Debug("dispatch")
	}
	return fun.Call(env, args)
}

// callClosure evaluates arguments in env and binds them to the parameters of
// fun pairwise.  Under ScopeCompat the bindings are made in env itself and
// the body is evaluated there.  Under ScopeLexical they are made in a new
// child of the environment fun was defined in.
//
// Unless the runtime requires strict arity, surplus arguments are ignored
// without being evaluated and surplus parameters are left unbound.
func (env *LEnv) callClosure(fun *Executable, args []*LVal) *LVal {
	rt := env.Runtime
	if len(args) != len(fun.Params) {
		if rt.StrictArity {
			return env.Errorf(CodeInput, "Input Error: function '%s' requires %d arguments", fun.Name, len(fun.Params))
		}
		rt.log().WithFields(logrus.Fields{
			"fun":    fun.Name,
			"params": len(fun.Params),
			"args":   len(args),
		}).Warn("closure called with mismatched argument count")
	}
	n := len(args)
	if len(fun.Params) < n {
		n = len(fun.Params)
	}
	vals := make([]*LVal, n)
	for i := range vals {
		vals[i] = env.Eval(args[i])
	}
	scope := env
	if rt.Scope == ScopeLexical {
		parent := fun.Env
		if parent == nil {
			parent = env.Root()
		}
		scope = NewEnv(parent)
	}
	for i, v := range vals {
		scope.Put(fun.Params[i], v)
	}
	return scope.Eval(fun.Body)
}

// EvalProgram evaluates each expression in order against env and returns one
// result per expression.  Error values are results like any other.  A fatal
// failure aborts evaluation and is returned along with the results of the
// expressions that completed.
func (env *LEnv) EvalProgram(exprs []*LVal) (results []*LVal, err error) {
	results = make([]*LVal, 0, len(exprs))
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		serr, ok := r.(*StackOverflowError)
		if !ok {
			panic(r)
		}
		env.Runtime.Stack.Reset()
		err = serr
	}()
	for _, expr := range exprs {
		results = append(results, env.Eval(expr))
	}
	return results, nil
}
