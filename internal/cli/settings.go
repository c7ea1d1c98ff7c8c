package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/dmitrijs2005/hydrokeeper/internal/units"
	"github.com/spf13/cobra"
)

func newSettingsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var s models.Settings
			err := e.do(cmd, "settings", func(ctx context.Context) (err error) {
				s, err = e.app.Settings.Get(ctx)
				return err
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "goal\t%s\n", units.Format(s.DailyGoal, s.MeasurementUnit))
			fmt.Fprintf(tw, "unit\t%s\n", s.MeasurementUnit)
			fmt.Fprintf(tw, "notifications\t%s\n", onOff(s.NotificationsEnabled))
			fmt.Fprintf(tw, "sound\t%s\n", onOff(s.SoundEnabled))
			fmt.Fprintf(tw, "vibration\t%s\n", onOff(s.VibrationEnabled))
			fmt.Fprintf(tw, "window\t%s-%s\n", s.NotificationStart, s.NotificationEnd)
			fmt.Fprintf(tw, "delay\t%d min\n", s.NotificationDelay)
			fmt.Fprintf(tw, "installation\t%s\n", s.InstallationID)
			return tw.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE...",
		Short: "Change a preference (goal, unit, notifications, sound, vibration, window, delay)",
		Example: "  hydro settings set goal 2000 --unit mL\n" +
			"  hydro settings set unit L\n" +
			"  hydro settings set window 08:00 21:30",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			apply, err := e.settingSetter(cmd, strings.ToLower(args[0]), args[1:])
			if err != nil {
				return err
			}
			if err := e.do(cmd, "set "+args[0], apply); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s.\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.do(cmd, "reset settings", e.app.Settings.Reset); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings restored to defaults.")
			return nil
		},
	})
	return cmd
}

// settingSetter validates the command line input of "settings set" and
// returns the call that stores it.
func (e *env) settingSetter(cmd *cobra.Command, key string, vals []string) (func(context.Context) error, error) {
	s := e.app.Settings
	one := func() (string, error) {
		if len(vals) != 1 {
			return "", fmt.Errorf("%s takes one value: %w", key, common.ErrInvalidValue)
		}
		return vals[0], nil
	}
	toggle := func(set func(context.Context, bool) error) (func(context.Context) error, error) {
		v, err := one()
		if err != nil {
			return nil, err
		}
		on, err := parseOnOff(v)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return set(ctx, on) }, nil
	}

	switch key {
	case "goal":
		v, err := one()
		if err != nil {
			return nil, err
		}
		u, err := e.unit(cmd)
		if err != nil {
			return nil, err
		}
		goal, err := parseAmount(v, u)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return s.SetDailyGoal(ctx, goal) }, nil
	case "unit":
		v, err := one()
		if err != nil {
			return nil, err
		}
		u, err := units.Parse(v)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return s.SetMeasurementUnit(ctx, u) }, nil
	case "notifications":
		return toggle(s.SetNotifications)
	case "sound":
		return toggle(s.SetSound)
	case "vibration":
		return toggle(s.SetVibration)
	case "window":
		if len(vals) != 2 {
			return nil, fmt.Errorf("window takes START END: %w", common.ErrInvalidValue)
		}
		return func(ctx context.Context) error { return s.SetNotificationWindow(ctx, vals[0], vals[1]) }, nil
	case "delay":
		v, err := one()
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("delay %q: %w", v, common.ErrInvalidValue)
		}
		return func(ctx context.Context) error { return s.SetNotificationDelay(ctx, n) }, nil
	}
	return nil, fmt.Errorf("unknown setting %q: %w", key, common.ErrInvalidValue)
}
