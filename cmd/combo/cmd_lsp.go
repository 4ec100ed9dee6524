package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/combo/grammars"
	"github.com/dhamidi/combo/lsp"
)

func newLSPCmd() *cobra.Command {
	var grammar string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a Language Server Protocol server reporting parse errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("grammar") {
				grammar = cfg.Grammar
			}
			g, ok := grammars.Lookup(grammar)
			if !ok {
				return fmt.Errorf("unknown grammar %q (want one of %v)", grammar, grammars.Names())
			}
			server, err := lsp.NewServer(g, "0.1.0", cfg.Verbosity > 1)
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&grammar, "grammar", "g", "", "grammar documents are checked against")

	return cmd
}
