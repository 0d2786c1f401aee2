// Copyright © 2024 The TLISP authors

package lisp

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// LBuiltin is a native function.  It receives the calling environment and its
// arguments unevaluated, and decides itself which arguments to evaluate.
type LBuiltin func(env *LEnv, args []*LVal) *LVal

// Builtin describes an entry of the builtin table.
type Builtin interface {
	Name() string
	Formals() []string
	Docstring() string
}

type langBuiltin struct {
	name    string
	formals []string
	doc     string
	fun     LBuiltin
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() []string {
	return fun.formals
}

func (fun *langBuiltin) Docstring() string {
	return fun.doc
}

// langBuiltins is indexed by BuiltinExec values.  It is assigned in init
// because the builtins evaluate expressions which in turn call builtins.
var langBuiltins []*langBuiltin

func init() {
	langBuiltins = []*langBuiltin{
		{"progn", []string{"expr", "..."},
			"Evaluates each expression in order and returns the value of the last one. At least one expression is required.",
			builtinProgn},
		{"+", []string{"x", "..."},
			"Returns the sum of its arguments.  The sum of no arguments is 0.",
			builtinAdd},
		{"-", []string{"x", "y"},
			"Returns x minus y.  Exactly two arguments are required.",
			builtinSub},
		{"*", []string{"x", "..."},
			"Returns the product of its arguments.  The product of no arguments is 1.",
			builtinMul},
		{"/", []string{"x", "y"},
			"Returns x divided by y using floating point division, so dividing by zero produces an infinity.  Exactly two arguments are required.",
			builtinDiv},
		{"defn", []string{"name", "(param ...)", "body"},
			"Defines a function called name in the current scope and returns name.  Neither the parameter list nor the body is evaluated.",
			builtinDefn},
	}
}

// Builtins returns the builtin table in index order.
func Builtins() []Builtin {
	ops := make([]Builtin, len(langBuiltins))
	for i := range langBuiltins {
		ops[i] = langBuiltins[i]
	}
	return ops
}

// Usage renders a call template for a function, e.g. "(- x y)".
func Usage(name string, formals []string) string {
	var buf strings.Builder
	buf.WriteString("(")
	buf.WriteString(name)
	for _, f := range formals {
		buf.WriteString(" ")
		buf.WriteString(f)
	}
	buf.WriteString(")")
	return buf.String()
}

func builtinProgn(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return env.Errorf(CodeSyntax, "Form progn requires at least one argument")
	}
	var ret *LVal
	for _, expr := range args {
		ret = env.Eval(expr)
	}
	return ret
}

func builtinAdd(env *LEnv, args []*LVal) *LVal {
	return env.foldNumeric("Addition", 0, args, func(a, b float64) float64 { return a + b })
}

func builtinMul(env *LEnv, args []*LVal) *LVal {
	return env.foldNumeric("Multiplication", 1, args, func(a, b float64) float64 { return a * b })
}

func builtinSub(env *LEnv, args []*LVal) *LVal {
	if len(args) != 2 {
		return env.Errorf(CodeInput, "Input Error: Operation '-' requires 2 arguments")
	}
	return env.binaryNumeric("Subtraction", args, func(a, b float64) float64 { return a - b })
}

func builtinDiv(env *LEnv, args []*LVal) *LVal {
	if len(args) != 2 {
		return env.Errorf(CodeInput, "Input Error: Operation '/' requires 2 arguments")
	}
	return env.binaryNumeric("Division", args, func(a, b float64) float64 { return a / b })
}

func builtinDefn(env *LEnv, args []*LVal) *LVal {
	if len(args) != 3 {
		return env.Errorf(CodeInput, "Input Error: form 'defn' requires 3 arguments")
	}
	name, formals, body := args[0], args[1], args[2]
	if name.Type != LAtom {
		return env.Errorf(CodeInput, "Input Error: form 'defn' requires a function name")
	}
	if formals.Type != LList {
		return env.Errorf(CodeInput, "Input Error: form 'defn' requires list of argument names")
	}
	params := make([]string, len(formals.Cells))
	for i, p := range formals.Cells {
		if p.Type != LAtom {
			return env.Errorf(CodeInput, "Input Error: form 'defn' requires list of argument names")
		}
		params[i] = p.Str
	}
	env.PutFunction(name.Str, Closure(name.Str, params, body, env))
	logger := env.Runtime.log()
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.WithFields(logrus.Fields{
			"fun":    name.Str,
			"params": params,
			"scope":  env.ID,
		}).Debug("define closure")
	}
	return name
}

// evalNumbers evaluates every argument and returns their numeric values.  The
// first argument which evaluates to an error is returned unchanged.  Any other
// non-numeric value produces a type error describing op.
func (env *LEnv) evalNumbers(op string, args []*LVal) ([]float64, *LVal) {
	vals := make([]*LVal, len(args))
	for i, arg := range args {
		vals[i] = env.Eval(arg)
	}
	nums := make([]float64, len(vals))
	for i, v := range vals {
		switch v.Type {
		case LNum:
			nums[i] = v.Num
		case LError:
			return nil, v
		default:
			return nil, env.Errorf(CodeType, "Type Error: %s between non-numeric types not supported", op)
		}
	}
	return nums, nil
}

func (env *LEnv) foldNumeric(op string, init float64, args []*LVal, fn func(a, b float64) float64) *LVal {
	nums, lerr := env.evalNumbers(op, args)
	if lerr != nil {
		return lerr
	}
	acc := init
	for _, x := range nums {
		acc = fn(acc, x)
	}
	return Num(acc)
}

func (env *LEnv) binaryNumeric(op string, args []*LVal, fn func(a, b float64) float64) *LVal {
	nums, lerr := env.evalNumbers(op, args)
	if lerr != nil {
		return lerr
	}
	return Num(fn(nums[0], nums[1]))
}
