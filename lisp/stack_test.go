// Copyright © 2024 The TLISP authors

package lisp_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser/token"
)

func TestCallStack(t *testing.T) {
	stack := &lisp.CallStack{MaxHeight: 2}
	assert.Nil(t, stack.Top())
	require.NoError(t, stack.Push(nil, "a", lisp.BuiltinExec(0)))
	require.NoError(t, stack.Push(nil, "b", lisp.BuiltinExec(1)))
	assert.Equal(t, 2, stack.Height())
	assert.Equal(t, "b", stack.Top().Name)

	err := stack.Push(nil, "c", nil)
	var serr *lisp.StackOverflowError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 3, serr.Height)
	assert.Equal(t, 2, stack.Height())

	cp := stack.Copy()
	f := stack.Pop()
	assert.Equal(t, "b", f.Name)
	assert.Equal(t, 1, stack.Height())
	assert.Equal(t, 2, cp.Height())

	var buf bytes.Buffer
	_, err = cp.DebugPrint(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Stack Trace [2 frames -- entrypoint last]:\n  height 1: b [builtin]\n  height 0: a [builtin]\n", buf.String())

	stack.Reset()
	assert.Equal(t, 0, stack.Height())
	assert.Panics(t, func() { stack.Pop() })
}

func TestCallStackTrace(t *testing.T) {
	stack := &lisp.CallStack{}
	assert.Empty(t, stack.Trace(3))
	require.NoError(t, stack.Push(&token.Location{File: "p.lisp", Pos: 0, Line: 1, Col: 1}, "main", nil))
	require.NoError(t, stack.Push(&token.Location{File: "<native code>", Pos: -1}, "map", lisp.BuiltinExec(0)))
	require.NoError(t, stack.Push(&token.Location{File: "p.lisp", Pos: 20, Line: 2, Col: 3}, "sq", nil))
	assert.Equal(t, []string{"in sq at p.lisp:2:3", "in map"}, stack.Trace(2)[:2])
	assert.Equal(t, "... and 1 more frames", stack.Trace(2)[2])
	assert.Equal(t, []string{"in sq at p.lisp:2:3", "in map", "in main at p.lisp:1:1"}, stack.Trace(5))
}

func TestCallStackUnlimited(t *testing.T) {
	stack := &lisp.CallStack{}
	for i := 0; i < 100; i++ {
		require.NoError(t, stack.Push(nil, "f", nil))
	}
	assert.Equal(t, 100, stack.Height())
}
