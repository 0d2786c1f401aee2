// Copyright © 2024 The TLISP authors

package lisp

import (
	"github.com/tlisp-lang/tlisp/parser/token"
)

// ExecType distinguishes the kinds of Executable.
type ExecType uint8

const (
	// ExecBuiltin executables reference an entry in the builtin table.
	ExecBuiltin ExecType = iota
	// ExecClosure executables are functions defined by a program.
	ExecClosure
)

func (t ExecType) String() string {
	switch t {
	case ExecBuiltin:
		return "builtin"
	case ExecClosure:
		return "closure"
	default:
		return "invalid"
	}
}

// Executable is the value bound to a function name.  The Type field
// determines which of the remaining fields are meaningful.
type Executable struct {
	Type ExecType

	// Builtin is the index of a builtin in the builtin table.
	Builtin int

	// Name is the name a closure was defined with.
	Name string
	// Params are the formal parameter names of a closure.
	Params []string
	// Body is the single body expression of a closure.
	Body *LVal
	// Env is the environment a closure was defined in.
	Env *LEnv
	// Source is the location of the defining form.
	Source *token.Location
}

// BuiltinExec returns an Executable for the builtin at index in the builtin
// table.  The index is not checked until the Executable is called.
func BuiltinExec(index int) *Executable {
	return &Executable{
		Type:    ExecBuiltin,
		Builtin: index,
	}
}

// Closure returns an Executable for a function defined in env.
func Closure(name string, params []string, body *LVal, env *LEnv) *Executable {
	return &Executable{
		Type:   ExecClosure,
		Name:   name,
		Params: params,
		Body:   body,
		Env:    env,
		Source: body.Source,
	}
}

// Call invokes fun in env with the given unevaluated arguments.  Each kind of
// Executable is responsible for evaluating its own arguments.
func (fun *Executable) Call(env *LEnv, args []*LVal) *LVal {
	switch fun.Type {
	case ExecBuiltin:
		if fun.Builtin < 0 || fun.Builtin >= len(langBuiltins) {
			return env.Errorf(CodeDispatch, "Dispatch Error: builtin index %d out of range", fun.Builtin)
		}
		return langBuiltins[fun.Builtin].fun(env, args)
	case ExecClosure:
		return env.callClosure(fun, args)
	default:
		return env.Errorf(CodeDispatch, "Dispatch Error: invalid executable type %d", fun.Type)
	}
}

// Docstring returns the documentation for a builtin, or a usage line for a
// closure.
func (fun *Executable) Docstring() string {
	switch fun.Type {
	case ExecBuiltin:
		if fun.Builtin < 0 || fun.Builtin >= len(langBuiltins) {
			return ""
		}
		return langBuiltins[fun.Builtin].doc
	case ExecClosure:
		return Usage(fun.Name, fun.Params)
	}
	return ""
}
