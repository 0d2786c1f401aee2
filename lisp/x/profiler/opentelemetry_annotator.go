// Copyright © 2024 The TLISP authors

package profiler

import (
	"context"
	"errors"

	"github.com/tlisp-lang/tlisp/lisp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context key.
	ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

	// DefaultTracerName is the tracer name used when the parent context does
	// not name one.
	DefaultTracerName = "tlisp"
)

// AttributeKind is the span attribute holding the kind of function called.
const AttributeKind = attribute.Key("tlisp.function.kind")

var _ lisp.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
}

// NewOpenTelemetryAnnotator returns a lisp.Profiler that records a span for
// each function call evaluated by runtime.  Spans are children of any span
// in parentContext.
func NewOpenTelemetryAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) lisp.Profiler {
	p := &otelAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

// Complete stops recording.  Every span started by p has already ended when
// the calls it annotated returned.
func (p *otelAnnotator) Complete() error {
	p.enabled = false
	return nil
}

// WithTracerName returns a context that makes annotators started with it use
// the named tracer.
func WithTracerName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextOpenTelemetryTracerKey, name)
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(frame *lisp.CallFrame) func() {
	if p.skipTrace(frame) {
		return func() {}
	}
	oldContext := p.currentContext
	label, funName := p.label(frame)
	var span trace.Span
	p.currentContext, span = contextTracer(p.currentContext).Start(p.currentContext, label)
	p.addCodeAttributes(span, frame, funName)
	return func() {
		span.End()
		p.currentContext = oldContext
	}
}

func (p *otelAnnotator) addCodeAttributes(span trace.Span, frame *lisp.CallFrame, funName string) {
	attrs := []attribute.KeyValue{
		semconv.CodeFunction(funName),
		AttributeKind.String(kind(frame)),
	}
	if loc := getSourceLoc(frame); loc != nil {
		attrs = append(attrs,
			semconv.CodeColumn(loc.Col),
			semconv.CodeFilepath(loc.File),
			semconv.CodeLineNumber(loc.Line),
		)
	}
	span.SetAttributes(attrs...)
}
