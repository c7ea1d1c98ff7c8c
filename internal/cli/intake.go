package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/dmitrijs2005/hydrokeeper/internal/services"
	"github.com/dmitrijs2005/hydrokeeper/internal/units"
	"github.com/spf13/cobra"
)

const defaultDrink = "Water"

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "add AMOUNT [DRINK]",
		Short:   "Record a drink",
		Long:    "Record a drink. DRINK defaults to Water and is matched without regard to case.",
		Example: "  hydro add 12\n  hydro add 350 coffee --unit mL",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0], u)
			if err != nil {
				return err
			}
			drink := defaultDrink
			if len(args) == 2 {
				drink = args[1]
			}
			return e.record(cmd, amount, drink, u)
		},
	}
}

func newQuickCmd(e *env) *cobra.Command {
	var drink string
	cmd := &cobra.Command{
		Use:   "quick [ID]",
		Short: "List quick-add presets, or record preset ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return e.listPresets(cmd, u)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var p *models.QuickAddPreset
			err = e.do(cmd, "get preset", func(ctx context.Context) (err error) {
				p, err = e.app.Presets.Get(ctx, id)
				return err
			})
			if err != nil {
				return err
			}
			return e.record(cmd, p.Amount, drink, u)
		},
	}
	cmd.Flags().StringVarP(&drink, "drink", "d", defaultDrink, "drink type to record")
	return cmd
}

func (e *env) record(cmd *cobra.Command, amount float64, drink string, u units.Unit) error {
	var ev *models.IntakeEvent
	err := e.do(cmd, "record", func(ctx context.Context) (err error) {
		ev, err = e.app.Ledger.Record(ctx, amount, drink)
		return err
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recorded %s of %s (%s hydration).\n",
		units.Format(ev.Amount, u), ev.DrinkType, units.Format(ev.HydrationAmount, u))
	return e.printDay(cmd, ev.Timestamp, u, false)
}

func newUndoCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Remove the most recently recorded drink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			var ev *models.IntakeEvent
			err = e.do(cmd, "undo", func(ctx context.Context) (err error) {
				ev, err = e.app.Ledger.UndoLast(ctx)
				return err
			})
			if err != nil {
				return err
			}
			if ev == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s of %s recorded %s.\n",
				units.Format(ev.Amount, u), ev.DrinkType, ev.Timestamp.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newTodayCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's progress and records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			return e.printDay(cmd, e.app.Ledger.Now(), u, true)
		},
	}
}

func newDayCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "day DATE",
		Short: "Show progress and records of a day (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			d, err := parseDate(args[0], e.app.Ledger.Now(), e.app.Ledger.Location())
			if err != nil {
				return err
			}
			return e.printDay(cmd, d, u, true)
		},
	}
}

func (e *env) printDay(cmd *cobra.Command, date time.Time, u units.Unit, withEvents bool) error {
	var (
		p      models.DayProgress
		events []models.IntakeEvent
	)
	err := e.do(cmd, "day", func(ctx context.Context) (err error) {
		if p, err = e.app.Progress.Day(ctx, date); err != nil {
			return err
		}
		if withEvents {
			events, err = e.app.Ledger.DayEvents(ctx, date)
		}
		return err
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printProgress(out, p, u)
	if withEvents {
		printEvents(out, events, u)
	}
	return nil
}

func newWeekCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "week [DATE]",
		Short: "Show the seven daily totals ending at DATE (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			d, err := parseDate(firstArg(args), e.app.Ledger.Now(), e.app.Ledger.Location())
			if err != nil {
				return err
			}
			var (
				series []models.DayTotal
				goal   float64
			)
			err = e.do(cmd, "week", func(ctx context.Context) (err error) {
				s, err := e.app.Settings.Get(ctx)
				if err != nil {
					return err
				}
				goal = s.DailyGoal
				series, err = e.app.Ledger.Last7Days(ctx, d)
				return err
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, day := range series {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", day.Date.Format("Mon 2006-01-02"),
					units.Format(day.Total, u), bar(services.NewDayProgress(day.Date, day.Total, goal).Fraction, 20))
			}
			return tw.Flush()
		},
	}
}

func newMonthCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show every daily total of a month (default current month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.unit(cmd)
			if err != nil {
				return err
			}
			year, month, err := parseMonth(firstArg(args), e.app.Ledger.Now())
			if err != nil {
				return err
			}
			var totals map[int]float64
			err = e.do(cmd, "month", func(ctx context.Context) (err error) {
				totals, err = e.app.Ledger.MonthlyTotals(ctx, year, month)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d\n", month, year)
			var sum float64
			for day := 1; day <= len(totals); day++ {
				fmt.Fprintf(out, "%2d  %s\n", day, units.Format(totals[day], u))
				sum += totals[day]
			}
			fmt.Fprintf(out, "Total: %s\n", units.Format(sum, u))
			return nil
		},
	}
}

func newStreakCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show how many consecutive days the goal was met",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var n int
			err := e.do(cmd, "streak", func(ctx context.Context) (err error) {
				n, err = e.app.Progress.Streak(ctx, e.app.Ledger.Now())
				return err
			})
			if err != nil {
				return err
			}
			unit := "days"
			if n == 1 {
				unit = "day"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current streak: %d %s.\n", n, unit)
			return nil
		},
	}
}

func newClearDayCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-day [DATE]",
		Short: "Delete every record of a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(firstArg(args), e.app.Ledger.Now(), e.app.Ledger.Location())
			if err != nil {
				return err
			}
			var n int64
			err = e.do(cmd, "clear day", func(ctx context.Context) (err error) {
				n, err = e.app.Ledger.ClearDay(ctx, d)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s) of %s.\n", n, d.Format(time.DateOnly))
			return nil
		},
	}
}

func newClearAllCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete the whole history (irreversible)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				answer, err := GetSimpleText(e.in, "This deletes every record. Type 'yes' to continue.", cmd.OutOrStdout())
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "yes") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			var n int64
			err := e.do(cmd, "clear all", func(ctx context.Context) (err error) {
				n, err = e.app.Ledger.ClearAll(ctx)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s).\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
