// Copyright © 2024 The TLISP authors

package profiler

import (
	"github.com/tlisp-lang/tlisp/lisp"
)

// FunLabeler provides an alternative name for a function label in the trace.
// Returning an empty string keeps the name the function was called by.
type FunLabeler func(frame *lisp.CallFrame) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithKindLabeler labels spans with the kind of function being called, e.g.
// "closure:square" or "builtin:+".
func WithKindLabeler() Option {
	return WithFunLabeler(kindFunLabeler)
}

func kindFunLabeler(frame *lisp.CallFrame) string {
	k := kind(frame)
	if k == "" {
		return ""
	}
	return k + ":" + frame.Name
}
