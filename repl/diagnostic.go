// Copyright © 2024 The TLISP authors

package repl

import (
	"errors"
	"strconv"

	"github.com/tlisp-lang/tlisp/diagnostic"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser/token"
)

// errorDiagnostic converts an LError value to a Diagnostic for display.
func errorDiagnostic(lerr *lisp.LVal) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Code:    strconv.Itoa(lerr.Code),
		Message: lerr.Str,
		Span:    diagnostic.SpanAt(lerr.Source),
	}
	if lerr.Code == lisp.CodeNotFunction {
		d.Notes = append(d.Notes, "functions are defined with (defn name (param ...) body)")
	}
	return d
}

// fatalDiagnostic converts an error which aborted evaluation to a Diagnostic.
// A stack overflow notes the innermost calls.
func fatalDiagnostic(err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{Message: err.Error()}
	var lerr *token.LocationError
	if errors.As(err, &lerr) {
		d.Message = lerr.Err.Error()
		d.Span = diagnostic.SpanAt(lerr.Source)
	}
	var serr *lisp.StackOverflowError
	if errors.As(err, &serr) {
		if serr.Stack != nil {
			d.Notes = append(d.Notes, serr.Stack.Trace(3)...)
		}
		d.Notes = append(d.Notes, "evaluation was aborted; definitions made before the overflow are kept")
	}
	return d
}
