package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/hydrokeeper/internal/app"
	"github.com/dmitrijs2005/hydrokeeper/internal/config"
	"github.com/dmitrijs2005/hydrokeeper/internal/logging"
	"github.com/dmitrijs2005/hydrokeeper/internal/units"
	"github.com/spf13/cobra"
)

const flagUnit = "unit"

// env is shared by every command of one process. The app is opened lazily
// by the first command that needs it and reused by the shell.
type env struct {
	app     *app.App
	appOpts []app.Option
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
}

// Execute runs the hydro command line with args and returns the command
// error, which has already been reported on stderr.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer, opts ...app.Option) error {
	e := &env{appOpts: opts, in: bufio.NewReader(in), out: out, errOut: errOut}
	defer e.close()

	root := newRootCmd(e)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
	}
	return err
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "hydro",
		Short:         "Track daily water intake",
		Long:          "hydro keeps a local log of what you drink and shows progress toward a daily hydration goal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd)
		},
	}
	root.SetIn(e.in)
	root.SetOut(e.out)
	root.SetErr(e.errOut)

	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().StringP(flagUnit, "u", "", "display unit (oz, mL, L, cups, gallons, pints); default from settings")

	root.AddCommand(
		newAddCmd(e),
		newQuickCmd(e),
		newUndoCmd(e),
		newTodayCmd(e),
		newDayCmd(e),
		newWeekCmd(e),
		newMonthCmd(e),
		newStreakCmd(e),
		newClearDayCmd(e),
		newClearAllCmd(e),
		newDrinksCmd(e),
		newPresetsCmd(e),
		newSettingsCmd(e),
		newShellCmd(e),
		newVersionCmd(),
	)
	return root
}

// open loads the configuration and opens the app once per process.
func (e *env) open(cmd *cobra.Command) error {
	if e.app != nil {
		return nil
	}
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := logging.New(e.errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a, err := app.NewApp(cmd.Context(), cfg, logger, e.appOpts...)
	if err != nil {
		return err
	}
	e.app = a
	return nil
}

func (e *env) close() {
	if e.app == nil {
		return
	}
	if err := e.app.Close(); err != nil {
		fmt.Fprintln(e.errOut, "Error:", err)
	}
	e.app = nil
}

// unit returns the display unit: the --unit flag or the stored preference.
func (e *env) unit(cmd *cobra.Command) (units.Unit, error) {
	if f := cmd.Flags().Lookup(flagUnit); f != nil && f.Value.String() != "" {
		return units.Parse(f.Value.String())
	}
	var u units.Unit
	err := e.app.Do(cmd.Context(), "settings", func(ctx context.Context) error {
		s, err := e.app.Settings.Get(ctx)
		u = s.MeasurementUnit
		return err
	})
	return u, err
}

// do runs fn through the app's timeout and retry policy.
func (e *env) do(cmd *cobra.Command, op string, fn func(ctx context.Context) error) error {
	if e.app == nil {
		return errors.New("application is not initialized")
	}
	return e.app.Do(cmd.Context(), op, fn)
}
