// Copyright © 2024 The TLISP authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/lisp/x/profiler"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// spanRecord is a finished span reduced to what the summary needs.
type spanRecord struct {
	name string
	dur  time.Duration
}

// profileSession traces function calls for the lifetime of one command.
type profileSession struct {
	kind     string
	newProf  func(rt *lisp.Runtime) lisp.Profiler
	prof     lisp.Profiler
	collect  func() []spanRecord
	shutdown func()
}

func startProfile(kind string) (*profileSession, error) {
	switch kind {
	case "":
		return nil, nil
	case "otel":
		exp := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		prev := otel.GetTracerProvider()
		otel.SetTracerProvider(tp)
		return &profileSession{
			kind: kind,
			newProf: func(rt *lisp.Runtime) lisp.Profiler {
				return profiler.NewOpenTelemetryAnnotator(rt, context.Background())
			},
			collect: func() []spanRecord {
				stubs := exp.GetSpans()
				recs := make([]spanRecord, len(stubs))
				for i, s := range stubs {
					recs[i] = spanRecord{s.Name, s.EndTime.Sub(s.StartTime)}
				}
				return recs
			},
			shutdown: func() {
				_ = tp.Shutdown(context.Background())
				otel.SetTracerProvider(prev)
			},
		}, nil
	case "opencensus":
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
		exp := &spanCollector{}
		trace.RegisterExporter(exp)
		return &profileSession{
			kind: kind,
			newProf: func(rt *lisp.Runtime) lisp.Profiler {
				return profiler.NewOpenCensusAnnotator(rt, context.Background())
			},
			collect: exp.records,
			shutdown: func() {
				trace.UnregisterExporter(exp)
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown profiler: %q", kind)
	}
}

// config returns a Config which installs the session's profiler in an
// environment.
func (p *profileSession) config() lisp.Config {
	return func(env *lisp.LEnv) *lisp.LVal {
		p.prof = p.newProf(env.Runtime)
		return lisp.WithProfiler(p.prof)(env)
	}
}

// abort stops the session without reporting.  It may be called on a nil
// session.
func (p *profileSession) abort() {
	if p == nil {
		return
	}
	if p.prof != nil {
		_ = p.prof.Complete()
	}
	p.shutdown()
}

// finish stops the session and writes a summary of the traced calls to w.  It
// may be called on a nil session.
func (p *profileSession) finish(w io.Writer) error {
	if p == nil {
		return nil
	}
	recs := p.collect()
	p.abort()
	return writeSummary(w, p.kind, recs)
}

type spanTotal struct {
	name  string
	calls int
	total time.Duration
}

// writeSummary writes one line per function with its call count and the
// total time spent in it, longest first.  Nested calls count toward the
// time of each enclosing function.
func writeSummary(w io.Writer, kind string, recs []spanRecord) error {
	byName := make(map[string]*spanTotal)
	var totals []*spanTotal
	for _, rec := range recs {
		t, ok := byName[rec.name]
		if !ok {
			t = &spanTotal{name: rec.name}
			byName[rec.name] = t
			totals = append(totals, t)
		}
		t.calls++
		t.total += rec.dur
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].total != totals[j].total {
			return totals[i].total > totals[j].total
		}
		return totals[i].name < totals[j].name
	})
	_, err := fmt.Fprintf(w, "profile (%s): %d spans\n", kind, len(recs))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "  %-24s %8s %14s\n", "FUNCTION", "CALLS", "TOTAL")
	if err != nil {
		return err
	}
	for _, t := range totals {
		_, err = fmt.Fprintf(w, "  %-24s %8d %14s\n", t.name, t.calls, t.total)
		if err != nil {
			return err
		}
	}
	return nil
}

// spanCollector is an opencensus exporter which keeps every exported span.
type spanCollector struct {
	mut  sync.Mutex
	data []spanRecord
}

func (c *spanCollector) ExportSpan(sd *trace.SpanData) {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.data = append(c.data, spanRecord{sd.Name, sd.EndTime.Sub(sd.StartTime)})
}

func (c *spanCollector) records() []spanRecord {
	c.mut.Lock()
	defer c.mut.Unlock()
	return append([]spanRecord(nil), c.data...)
}
