// Copyright © 2024 The TLISP authors

package profiler

import (
	"github.com/tlisp-lang/tlisp/lisp"
)

// SkipFilter returns true for calls that should not be traced.
type SkipFilter func(frame *lisp.CallFrame) bool

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithClosureFilter restricts tracing to calls of functions defined by the
// program, skipping builtins.
func WithClosureFilter() Option {
	return WithSkipFilter(closureSkipFilter)
}

func closureSkipFilter(frame *lisp.CallFrame) bool {
	return frame.Fun == nil || frame.Fun.Type != lisp.ExecClosure
}
