package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sartorproj/goseason/transform"
)

func newTransformCmd(a *app) *cobra.Command {
	var (
		policyName string
		derivative bool
	)

	cmd := &cobra.Command{
		Use:   "transform [x...]",
		Short: "Evaluate a seasonality transform",
		Long: `Evaluate the configured (or --policy) transform at each value.

Examples:
  # The three reference points
  goseason transform --policy softplus 0 3 -3

  # Include the derivative used by the MAP fit
  goseason transform --policy scaled_exp --derivative -- -10 0 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if policyName == "" {
				policyName = a.cfg.Model.Transform
			}
			policy, err := transform.Parse(policyName)
			if err != nil {
				return err
			}

			xs := make([]float64, len(args))
			for i, s := range args {
				if xs[i], err = strconv.ParseFloat(s, 64); err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if derivative {
				fmt.Fprintf(w, "x\t%s(x)\tderivative\n", policy)
			} else {
				fmt.Fprintf(w, "x\t%s(x)\n", policy)
			}
			for _, x := range xs {
				if derivative {
					fmt.Fprintf(w, "%g\t%.6g\t%.6g\n", x, policy.Apply(x), policy.Derivative(x))
				} else {
					fmt.Fprintf(w, "%g\t%.6g\n", x, policy.Apply(x))
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&policyName, "policy", "", "transform to evaluate (softplus, scaled_exp, abs)")
	cmd.Flags().BoolVar(&derivative, "derivative", false, "also print the derivative")
	// negative values after the first positional are arguments, not flags
	cmd.Flags().SetInterspersed(false)
	return cmd
}
