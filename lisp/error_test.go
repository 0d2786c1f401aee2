// Copyright © 2024 The TLISP authors

package lisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser/token"
)

func TestGoError(t *testing.T) {
	assert.NoError(t, lisp.GoError(lisp.Num(1)))
	assert.NoError(t, lisp.GoError(nil))

	lerr := lisp.Errorf(lisp.CodeType, "Type Error: bad")
	err := lisp.GoError(lerr)
	require.Error(t, err)
	assert.Equal(t, "Type Error: bad with code -4", err.Error())

	lerr.Source = &token.Location{File: "test", Pos: 3, Line: 1, Col: 4}
	assert.Equal(t, "test:1:4: Type Error: bad with code -4", lisp.GoError(lerr).Error())

	var eval *lisp.ErrorVal
	require.ErrorAs(t, err, &eval)
	assert.Equal(t, lisp.CodeType, eval.Code)
	assert.Equal(t, "Type Error: bad with code -4", eval.ErrorMessage())
}
