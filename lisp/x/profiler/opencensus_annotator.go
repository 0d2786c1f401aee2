// Copyright © 2024 The TLISP authors

package profiler

import (
	"context"
	"errors"

	"github.com/tlisp-lang/tlisp/lisp"
	"go.opencensus.io/trace"
)

var _ lisp.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	contexts       []context.Context
}

// NewOpenCensusAnnotator returns a lisp.Profiler that records an OpenCensus
// span for each function call evaluated by runtime.
func NewOpenCensusAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) lisp.Profiler {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables p, making spans children of any span in ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	for len(p.contexts) > 0 {
		p.pop()
	}
	p.enabled = false
	return nil
}

func (p *ocAnnotator) Start(frame *lisp.CallFrame) func() {
	if p.skipTrace(frame) {
		return func() {}
	}
	label, funName := p.label(frame)
	p.contexts = append(p.contexts, p.currentContext)
	var span *trace.Span
	p.currentContext, span = trace.StartSpan(p.currentContext, label)
	span.AddAttributes(
		trace.StringAttribute("function", funName),
		trace.StringAttribute("kind", kind(frame)),
	)
	return func() {
		if loc := getSourceLoc(frame); loc != nil {
			span.Annotate([]trace.Attribute{
				trace.StringAttribute("file", loc.File),
				trace.Int64Attribute("line", int64(loc.Line)),
			}, "source")
		}
		p.pop()
	}
}

// pop ends the current span and restores the context it was started in.
func (p *ocAnnotator) pop() {
	if span := trace.FromContext(p.currentContext); span != nil {
		span.End()
	}
	n := len(p.contexts) - 1
	p.currentContext = p.contexts[n]
	p.contexts = p.contexts[:n]
}
