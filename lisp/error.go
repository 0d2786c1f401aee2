// Copyright © 2024 The TLISP authors

package lisp

import "fmt"

// Error codes carried by LError values.  Codes are stable and are part of the
// language's observable behavior.
const (
	// CodeSyntax marks errors detected by the reader and the progn form.
	CodeSyntax = -1
	// CodeUnbound marks a reference to a variable name with no binding.
	CodeUnbound = -2
	// CodeType marks an arithmetic operand which is not a number.
	CodeType = -4
	// CodeInput marks a call with the wrong number or shape of arguments.
	CodeInput = -5
	// CodeDispatch marks a builtin reference outside the builtin table.
	CodeDispatch = -6
	// CodeNotFunction marks an operator which does not name a function.
	CodeNotFunction = 3
)

// Errorf returns an LError with a formatted message and the given code.
//
// The LEnv.Errorf method is typically preferred because it attaches the
// location of the expression being evaluated.
func Errorf(code int, format string, v ...interface{}) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    fmt.Sprintf(format, v...),
		Code:   code,
	}
}

// GoError returns an error that represents v.  If v is not LError then nil is
// returned.
func GoError(v *LVal) error {
	if v == nil || v.Type != LError {
		return nil
	}
	return (*ErrorVal)(v)
}

// ErrorVal implements the error interface so that errors can be first class
// lisp objects.
type ErrorVal LVal

// Error implements the error interface.
func (e *ErrorVal) Error() string {
	if e.Source != nil && e.Source != defaultSourceLocation {
		return fmt.Sprintf("%s: %s", e.Source, e.ErrorMessage())
	}
	return e.ErrorMessage()
}

// ErrorMessage returns the message and code of the error without any source
// location.
func (e *ErrorVal) ErrorMessage() string {
	return (*LVal)(e).String()
}
