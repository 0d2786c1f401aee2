// Copyright © 2024 The TLISP authors

package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tlisp-lang/tlisp/diagnostic"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser"
)

// lispConfig translates the settings into environment configuration.
func (s *settings) lispConfig() ([]lisp.Config, error) {
	scope, ok := lisp.ParseScopeMode(s.v.GetString("scope"))
	if !ok {
		return nil, fmt.Errorf("invalid scope mode: %q", s.v.GetString("scope"))
	}
	level, err := logrus.ParseLevel(s.v.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	return []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLogLevel(level),
		lisp.WithScopeMode(scope),
		lisp.WithStrictArity(s.v.GetBool("strict-arity")),
		lisp.WithMaximumStackHeight(s.v.GetInt("max-stack")),
	}, nil
}

func (s *settings) colorMode() (diagnostic.ColorMode, error) {
	return diagnostic.ParseColorMode(s.v.GetString("color"))
}

func (s *settings) newRenderer() (*diagnostic.Renderer, error) {
	mode, err := s.colorMode()
	if err != nil {
		return nil, err
	}
	return &diagnostic.Renderer{Color: mode}, nil
}

// newEnv returns a root environment logging to stderr.  When profiling is
// requested the returned session must be finished once evaluation is done.
func (s *settings) newEnv(stderr io.Writer) (*lisp.LEnv, *profileSession, error) {
	config, err := s.lispConfig()
	if err != nil {
		return nil, nil, err
	}
	config = append(config, lisp.WithStderr(stderr))
	prof, err := startProfile(s.v.GetString("profile"))
	if err != nil {
		return nil, nil, err
	}
	if prof != nil {
		config = append(config, prof.config())
	}
	env, err := lisp.NewRootEnv(config...)
	if err != nil {
		prof.abort()
		return nil, nil, err
	}
	return env, prof, nil
}
