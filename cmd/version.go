// Copyright © 2024 The TLISP authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tlisp-lang/tlisp/lisp"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the interpreter version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tlisp version %s\n", lisp.Version) //nolint:errcheck // best-effort output
		},
	}
}
