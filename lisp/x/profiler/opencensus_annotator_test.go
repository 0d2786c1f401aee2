// Copyright © 2024 The TLISP authors

package profiler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/lisp/x/profiler"
	"go.opencensus.io/trace"
)

func TestNewOpenCensusAnnotator(t *testing.T) {
	// Let's sample at 100% for the purposes of this test...
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	exporter := &collectingExporter{}
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	runTestLisp(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenCensusAnnotator(rt, context.Background(), profiler.WithClosureFilter())
	})

	spans := exporter.spans()
	require.Len(t, spans, 3)
	assert.Equal(t, "square", spans[0].Name)
	assert.Equal(t, "sum-squares", spans[2].Name)
	assert.Equal(t, spans[2].SpanID, spans[0].ParentSpanID)
	assert.Equal(t, "closure", spans[2].Attributes["kind"])
	require.Len(t, spans[2].Annotations, 1)
	assert.Equal(t, "source", spans[2].Annotations[0].Message)
	assert.Equal(t, "test.lisp", spans[2].Annotations[0].Attributes["file"])
	assert.Equal(t, int64(4), spans[2].Annotations[0].Attributes["line"])
}

// collectingExporter keeps every exported span.  In the real world you would
// use one of the exporters supported by opencensus.
type collectingExporter struct {
	mut  sync.Mutex
	data []*trace.SpanData
}

func (e *collectingExporter) ExportSpan(sd *trace.SpanData) {
	e.mut.Lock()
	defer e.mut.Unlock()
	e.data = append(e.data, sd)
}

func (e *collectingExporter) spans() []*trace.SpanData {
	e.mut.Lock()
	defer e.mut.Unlock()
	return append([]*trace.SpanData(nil), e.data...)
}
