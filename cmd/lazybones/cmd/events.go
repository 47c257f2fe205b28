package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/krew-solutions/lazybones-go/lazybones/lifecycle"
)

func newEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List lifecycle events and the state each one leads to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "EVENT\tTARGET STATE")
			for _, e := range lifecycle.Events() {
				target := "-"
				if s, ok := e.TargetState(); ok {
					target = s.String()
				}
				fmt.Fprintf(w, "%s\t%s\n", e, target)
			}
			return w.Flush()
		},
	}
}
