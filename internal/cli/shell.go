package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newShellCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), e, interactive())
		},
	}
}

// runShell reads commands line by line and runs each one as if it had been
// given on the command line, reusing the open database. The loop ends on EOF
// or when the user types "exit" or "quit". Command errors are printed and do
// not end the loop.
//
// The prompt is only printed when prompt is true, so piped input produces
// clean output.
func runShell(ctx context.Context, e *env, prompt bool) error {
	out := e.out
	if prompt {
		fmt.Fprintln(out, "Welcome to hydro (type 'help' for commands, 'exit' to leave)")
	}
	for {
		if prompt {
			fmt.Fprint(out, "hydro> ")
		}
		line, err := e.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		atEOF := err != nil

		parts := strings.Fields(line)
		if len(parts) > 0 {
			switch parts[0] {
			case "exit", "quit":
				if prompt {
					fmt.Fprintln(out, "Bye!")
				}
				return nil
			case "shell":
				fmt.Fprintln(e.errOut, "Error: already in the shell")
			default:
				root := newRootCmd(e)
				root.SetArgs(parts)
				if err := root.ExecuteContext(ctx); err != nil {
					fmt.Fprintln(e.errOut, "Error:", err)
				}
			}
		}
		if atEOF {
			return nil
		}
	}
}
