package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/spf13/cobra"
)

func newDrinksCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drinks",
		Short: "List drink types and their hydration factors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var list []models.DrinkType
			err := e.do(cmd, "list drinks", func(ctx context.Context) (err error) {
				list, err = e.app.Catalog.List(ctx)
				return err
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DRINK\tFACTOR")
			for _, d := range list {
				fmt.Fprintf(tw, "%s\t%.2f\n", d.Name, d.HydrationFactor)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME FACTOR",
		Short: "Add a drink type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			factor, err := parseFactor(args[1])
			if err != nil {
				return err
			}
			var d *models.DrinkType
			err = e.do(cmd, "add drink", func(ctx context.Context) (err error) {
				d, err = e.app.Catalog.Add(ctx, args[0], factor)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (factor %.2f).\n", d.Name, d.HydrationFactor)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-factor NAME FACTOR",
		Short: "Change the hydration factor of future records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			factor, err := parseFactor(args[1])
			if err != nil {
				return err
			}
			err = e.do(cmd, "set factor", func(ctx context.Context) error {
				return e.app.Catalog.SetHydrationFactor(ctx, args[0], factor)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now hydrates at %.2f.\n", args[0], factor)
			return nil
		},
	})
	return cmd
}
