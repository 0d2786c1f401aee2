// Copyright © 2024 The TLISP authors

package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/tlisp-lang/tlisp/diagnostic"
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser"
	"github.com/tlisp-lang/tlisp/parser/rdparser"
)

// SourceName is the file name given to source locations of REPL input.
const SourceName = "stdin"

type config struct {
	stdin       io.ReadCloser
	stderr      io.Writer
	color       diagnostic.ColorMode
	historyFile string
	noHistory   bool
	lisp        []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option configures a REPL session.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithColor sets the color mode used to render errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithHistoryFile sets the file input history is persisted to.  An empty
// path disables persistent history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
		c.noHistory = path == ""
	}
}

// WithLispConfig appends configuration for the environment created by
// RunRepl.
func WithLispConfig(cfg ...lisp.Config) Option {
	return func(c *config) {
		c.lisp = append(c.lisp, cfg...)
	}
}

// RunRepl runs a simple repl in a new root environment.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	envOpts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.lisp...)
	env, err := lisp.NewRootEnv(envOpts...)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as a root environment.  Results are
// printed one per line and errors are rendered with source annotations.
// RunEnv returns when its input is exhausted.
func RunEnv(env *lisp.LEnv, prompt, cont string, opts ...Option) error {
	if env.Parent != nil {
		return errors.New("REPL environment is not a root environment")
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	out := env.Runtime.Stderr

	p := rdparser.NewInteractive(SourceName)
	p.SetPrompts(prompt, cont)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            p.Prompt(),
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if !cfg.noHistory {
		rlCfg.HistoryFile = cfg.historyFile
		if rlCfg.HistoryFile == "" {
			rlCfg.HistoryFile = historyPath()
		}
		ensureHistoryFilePermissions(rlCfg.HistoryFile)
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	r := &diagnostic.Renderer{Color: cfg.color}
	var pending []string
	for {
		rl.SetPrompt(p.Prompt())
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			p.Reset()
			pending = nil
			continue
		}
		if err != nil {
			return nil
		}
		if !p.IsParsing() && strings.TrimSpace(line) == "" {
			continue
		}
		pending = append(pending, line)
		exprs, done, err := p.Feed(line)
		if !done {
			continue
		}
		r.SourceReader = diagnostic.MemorySources(map[string]string{
			SourceName: strings.Join(pending, "\n"),
		})
		pending = nil
		if err != nil {
			_ = r.Render(out, fatalDiagnostic(err))
			continue
		}
		results, err := env.EvalProgram(exprs)
		for _, v := range results {
			if v.Type == lisp.LError {
				_ = r.Render(out, errorDiagnostic(v))
				continue
			}
			fmt.Fprintln(out, v) //nolint:errcheck // best-effort REPL output
		}
		if err != nil {
			_ = r.Render(out, fatalDiagnostic(err))
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tlisp_history")
}

// ensureHistoryFilePermissions creates the history file if necessary and
// makes sure it is only readable by its owner.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // path is the user's own history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
