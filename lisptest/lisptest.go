// Copyright © 2024 The TLISP authors

package lisptest

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser"
)

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially in one root environment.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the evaluated result, rendered with LVal.String
	Output string // text expected in the log output, or empty for none
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv returns a root environment for tests.  Log output is written to w
// without timestamps so it can be compared.
func NewEnv(w io.Writer, config ...lisp.Config) (*lisp.LEnv, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	logger.SetLevel(logrus.WarnLevel)
	base := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLogger(logger),
		lisp.WithStderr(w),
	}
	return lisp.NewRootEnv(append(base, config...)...)
}

// RunTestSuite runs each TestSequence in tests on isolated root environments
// created with the given configuration.
func RunTestSuite(t *testing.T, tests TestSuite, config ...lisp.Config) {
	for i, test := range tests {
		logger := NewLogger(t)
		var exprBuf bytes.Buffer
		env, err := NewEnv(io.MultiWriter(logger, &exprBuf), config...)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: parsed %d expressions", i, test.Name, j, len(v))
				continue
			}
			results, err := env.EvalProgram(v)
			if err != nil {
				t.Errorf("test %d %q: expr %d: %v", i, test.Name, j, err)
				continue
			}
			result := results[0].String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			out := exprBuf.String()
			if expr.Output == "" && out != "" {
				t.Errorf("test %d %q: expr %d: unexpected log output %q", i, test.Name, j, out)
			}
			if !strings.Contains(out, expr.Output) {
				t.Errorf("test %d %q: expr %d: expected log output containing %q (got %q)", i, test.Name, j, expr.Output, out)
			}
		}
		logger.Flush()
	}
}

// EvalString evaluates src in a fresh root environment and returns the
// rendered result of each top-level form.
func EvalString(t testing.TB, src string, config ...lisp.Config) []string {
	env, err := NewEnv(NewLogger(t), config...)
	if err != nil {
		t.Fatal(err)
	}
	results, err := env.LoadString("test", src)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, len(results))
	for i, v := range results {
		out[i] = v.String()
	}
	return out
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := NewEnv(io.Discard)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		_, err = env.EvalProgram(exprs)
		b.StopTimer()
		if err != nil {
			b.Fatal(err)
		}
	}
}
