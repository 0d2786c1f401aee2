// Copyright © 2024 The TLISP authors

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tlisp-lang/tlisp/repl"
)

func newReplCommand(s *settings) *cobra.Command {
	var noHistory bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive tlisp REPL",
		Long: `Start an interactive read-eval-print loop.

Expressions may span several lines; the REPL waits until every list is
closed before evaluating.  Line editing, completion of function names and
persistent history ($HOME/.tlisp_history) are supported via readline.  Use
Ctrl-D to exit and Ctrl-C to discard a partial expression.

Example REPL session:
  tlisp> (+ 1 2)
  3
  tlisp> (defn square (x) (* x x))
  square
  tlisp> (square 5)
  25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := s.colorMode()
			if err != nil {
				return err
			}
			config, err := s.lispConfig()
			if err != nil {
				return err
			}
			prof, err := startProfile(s.v.GetString("profile"))
			if err != nil {
				return err
			}
			if prof != nil {
				config = append(config, prof.config())
			}
			opts := []repl.Option{
				repl.WithColor(mode),
				repl.WithStderr(cmd.OutOrStdout()),
				repl.WithLispConfig(config...),
			}
			if noHistory {
				opts = append(opts, repl.WithHistoryFile(""))
			}
			err = repl.RunRepl("tlisp> ", opts...)
			if err != nil {
				prof.abort()
				return err
			}
			return prof.finish(cmd.ErrOrStderr())
		},
	}
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not read or write the history file")
	return cmd
}
