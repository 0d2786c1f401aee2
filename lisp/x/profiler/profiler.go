// Copyright © 2024 The TLISP authors

package profiler

import (
	"fmt"

	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser/token"
)

// profiler is the state shared by the annotators.
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

// Option configures a profiler.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

// label returns the span label for frame along with the name the function
// was called by.
func (p *profiler) label(frame *lisp.CallFrame) (string, string) {
	name := frame.Name
	if p.funLabeler != nil {
		if label := p.funLabeler(frame); label != "" {
			return label, name
		}
	}
	return name, name
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(frame *lisp.CallFrame) bool {
	return !p.enabled || frame == nil || p.skipFilter != nil && p.skipFilter(frame)
}

func kind(frame *lisp.CallFrame) string {
	if frame.Fun == nil {
		return ""
	}
	return frame.Fun.Type.String()
}

func getSourceLoc(frame *lisp.CallFrame) *token.Location {
	if frame.Source != nil && frame.Source.Pos >= 0 {
		return frame.Source
	}
	if frame.Fun != nil && frame.Fun.Source != nil && frame.Fun.Source.Pos >= 0 {
		return frame.Fun.Source
	}
	return nil
}
