// Copyright © 2024 The TLISP authors

package profiler_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/lisp/x/profiler"
	"github.com/tlisp-lang/tlisp/lisptest"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const testLisp = `
(defn square (x) (* x x))
(defn sum-squares (a b) (+ (square a) (square b)))
(sum-squares 3 4)
`

func newTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func runTestLisp(t *testing.T, newProfiler func(rt *lisp.Runtime) lisp.Profiler) {
	env, err := lisptest.NewEnv(io.Discard)
	require.NoError(t, err)
	ppa := newProfiler(env.Runtime)
	require.NoError(t, ppa.Enable())
	assert.True(t, ppa.IsEnabled())
	assert.Same(t, ppa, env.Runtime.Profiler)
	results, err := env.LoadString("test.lisp", testLisp)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "25", results[2].String())
	assert.NoError(t, ppa.Complete())
	assert.False(t, ppa.IsEnabled())
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newTracerProvider(t)
	runTestLisp(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background())
	})

	spans := exporter.GetSpans()
	var names []string
	for _, s := range spans {
		names = append(names, s.Name)
	}
	// Spans are exported as they end, innermost first.
	assert.Equal(t, []string{
		"defn", "defn",
		"*", "square", "*", "square", "+", "sum-squares",
	}, names)

	top := spans[len(spans)-1]
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range top.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "sum-squares", attrs["code.function"].AsString())
	assert.Equal(t, "closure", attrs[profiler.AttributeKind].AsString())
	assert.Equal(t, "test.lisp", attrs["code.filepath"].AsString())
	assert.Equal(t, int64(4), attrs["code.lineno"].AsInt64())

	// Nested calls are children of the enclosing call.
	plus := spans[len(spans)-2]
	assert.Equal(t, top.SpanContext.SpanID(), plus.Parent.SpanID())
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newTracerProvider(t)
	runTestLisp(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background(),
			profiler.WithClosureFilter(),
			profiler.WithKindLabeler())
	})

	spans := exporter.GetSpans()
	require.Equal(t, 3, len(spans), "Expected selective spans")
	assert.Equal(t, "closure:square", spans[0].Name, "Expected custom label")
	assert.Equal(t, "closure:sum-squares", spans[2].Name, "Expected custom label")
	assert.Equal(t, spans[2].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestNewOpenTelemetryAnnotatorNilContext(t *testing.T) {
	env := lisp.NewEnv(nil)
	//nolint:staticcheck // a nil context is the error under test
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, nil)
	assert.Error(t, ppa.Enable())
	assert.Nil(t, env.Runtime.Profiler)
}

func TestEnableTwice(t *testing.T) {
	newTracerProvider(t)
	env := lisp.NewEnv(nil)
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background())
	require.NoError(t, ppa.Enable())
	assert.Error(t, ppa.Enable())
}
