package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var f modelFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Print the seasonal mean-function structure",
		Long: `Build the model over the input dates and print the mean-function terms.

Examples:
  goseason build --csv sales.csv
  goseason build --index 104 --transform abs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := a.build(&f)
			if err != nil {
				return err
			}

			structure := m.Structure()
			if f.out != "" {
				return writeJSON(cmd, f.out, structure)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "transform: %s  composition: %s  prior: %s\n",
				m.Config().Transform, m.Composition(), m.Prior())
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "name\tkind\tdims\texpr")
			for _, t := range structure {
				fmt.Fprintf(w, "%s\t%s\t(%s)\t%s\n", t.Name, t.Kind, strings.Join(t.Dims, ", "), t.Expr)
			}
			return w.Flush()
		},
	}

	f.register(cmd, true)
	return cmd
}
