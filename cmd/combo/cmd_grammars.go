package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhamidi/combo/grammars"
)

func newGrammarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List the built-in grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range grammars.Names() {
				g, _ := grammars.Lookup(name)
				keyed := ""
				if g.Keyed {
					keyed = "keyed"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Name, g.Medium, keyed, g.Description)
			}
			return w.Flush()
		},
	}
}
