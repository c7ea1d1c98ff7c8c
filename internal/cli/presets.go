package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/dmitrijs2005/hydrokeeper/internal/units"
	"github.com/spf13/cobra"
)

func newPresetsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List quick-add presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			return e.listPresets(cmd, u)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add AMOUNT",
		Short: "Add a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0], u)
			if err != nil {
				return err
			}
			var p *models.QuickAddPreset
			err = e.do(cmd, "add preset", func(ctx context.Context) (err error) {
				p, err = e.app.Presets.Add(ctx, amount)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added preset %d: %s.\n", p.ID, units.Format(p.Amount, u))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update ID AMOUNT",
		Short: "Change the amount of a preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1], u)
			if err != nil {
				return err
			}
			err = e.do(cmd, "update preset", func(ctx context.Context) error {
				return e.app.Presets.Update(ctx, id, amount)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preset %d is now %s.\n", id, units.Format(amount, u))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			err = e.do(cmd, "remove preset", func(ctx context.Context) error {
				return e.app.Presets.Remove(ctx, id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed preset %d.\n", id)
			return nil
		},
	})
	return cmd
}

func (e *env) listPresets(cmd *cobra.Command, u units.Unit) error {
	var list []models.QuickAddPreset
	err := e.do(cmd, "list presets", func(ctx context.Context) (err error) {
		list, err = e.app.Presets.List(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No presets.")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAMOUNT")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\n", p.ID, units.Format(p.Amount, u))
	}
	return tw.Flush()
}
