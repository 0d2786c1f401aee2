// Copyright © 2024 The TLISP authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tlisp-lang/tlisp/lisp"
)

// settings holds the configuration shared by every command.  Flags, the
// config file and TLISP_* environment variables are merged by viper.
type settings struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCommand returns the tlisp command tree.
func NewRootCommand() *cobra.Command {
	s := &settings{v: viper.New()}
	root := &cobra.Command{
		Use:   "tlisp",
		Short: "tlisp - a tiny Lisp interpreter",
		Long: `tlisp is a tiny Lisp interpreter.  Programs are sequences of
s-expressions built from numbers, strings, atoms and lists.  Every top-level
expression is evaluated in order and produces one result.

Getting started:
  tlisp run file.lisp             Run a Lisp source file
  tlisp run -e '(+ 1 2)'          Evaluate an expression
  tlisp repl                      Start an interactive REPL
  tlisp doc defn                  Show documentation for a builtin
  tlisp tokens -e '(f "x")'       Show the tokens of an expression
  tlisp read -e '(f (g 1))'       Show the parsed forms of an expression

Language overview:
  Builtins are progn, +, -, *, / and defn.  Functions are defined with
  (defn name (param ...) body) and called as (name arg ...).  Errors are
  values carrying a message and a code; they are printed like any other
  result.

Configuration:
  Flags may also be set in $HOME/.tlisp.yaml or with TLISP_* environment
  variables, e.g. TLISP_SCOPE=lexical or TLISP_LOG_LEVEL=debug.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.initConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.cfgFile, "config", "", "config file (default is $HOME/.tlisp.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String("scope", lisp.ScopeCompat.String(), `Name resolution mode: "compat" or "lexical".`)
	flags.Bool("strict-arity", false, "Make closure calls with the wrong number of arguments an error.")
	flags.Int("max-stack", lisp.DefaultMaxStackHeight, "Maximum call stack height (0 for no limit).")
	flags.String("log-level", "warn", "Interpreter log level (panic, fatal, error, warn, info, debug, trace).")
	flags.String("profile", "", `Trace function calls and print a summary: "otel" or "opencensus".`)
	_ = s.v.BindPFlags(flags)

	root.AddCommand(
		newRunCommand(s),
		newReplCommand(s),
		newTokensCommand(s),
		newReadCommand(s),
		newDocCommand(s),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.  This is called by main.main().
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		var rerr *reportedError
		if !errors.As(err, &rerr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func (s *settings) initConfig(cmd *cobra.Command) error {
	if s.cfgFile != "" {
		s.v.SetConfigFile(s.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			s.v.AddConfigPath(home)
		}
		s.v.SetConfigName(".tlisp")
		s.v.SetConfigType("yaml")
	}

	s.v.SetEnvPrefix("TLISP")
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()

	err := s.v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if s.cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if s.v.GetString("log-level") == "debug" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", s.v.ConfigFileUsed())
	}
	return nil
}

// reportedError is returned by commands that have already rendered their
// failure for the user.
type reportedError struct {
	msg string
}

func (e *reportedError) Error() string {
	return e.msg
}
