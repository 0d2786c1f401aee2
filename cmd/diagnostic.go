// Copyright © 2024 The TLISP authors

package cmd

import (
	"errors"
	"io"
	"strconv"

	"github.com/tlisp-lang/tlisp/diagnostic"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser/token"
)

// traceFrames is the number of call frames noted for a stack overflow.
const traceFrames = 5

// lispErrorToDiagnostic converts an LError value to a Diagnostic for display.
func lispErrorToDiagnostic(lerr *lisp.LVal) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Code:    strconv.Itoa(lerr.Code),
		Message: lerr.Str,
		Span:    diagnostic.SpanAt(lerr.Source),
	}
}

// fatalErrorToDiagnostic converts an error that aborted evaluation to a
// Diagnostic for display.
func fatalErrorToDiagnostic(err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{Message: err.Error()}
	var lerr *token.LocationError
	if errors.As(err, &lerr) {
		d.Message = lerr.Err.Error()
		d.Span = diagnostic.SpanAt(lerr.Source)
	}
	var serr *lisp.StackOverflowError
	if errors.As(err, &serr) {
		if serr.Stack != nil {
			d.Notes = append(d.Notes, serr.Stack.Trace(traceFrames)...)
		}
		d.Notes = append(d.Notes, "the limit can be changed with --max-stack")
	}
	return d
}

// renderFatal renders err to w and returns an error signaling that the
// failure has been reported.
func renderFatal(w io.Writer, r *diagnostic.Renderer, err error) error {
	_ = r.Render(w, fatalErrorToDiagnostic(err))
	return &reportedError{msg: err.Error()}
}
