package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taoky/rawtty/pkg/exithook"
	"github.com/taoky/rawtty/pkg/fatal"
	"github.com/taoky/rawtty/pkg/input"
	"github.com/taoky/rawtty/pkg/keylog"
	"github.com/taoky/rawtty/pkg/tty"
)

var errNotTerminal = errors.New("stdin is not a terminal")

// abortOnFatal hands driver and read failures to abort, labelled with the
// operation that failed. Other errors are returned.
func abortOnFatal(ctrl *tty.Controller, err error, abort func(label string, err error)) error {
	switch {
	case errors.Is(err, input.ErrRead):
		abort("read", err)
	case errors.Is(err, tty.ErrDriverQuery):
		abort("enter raw mode", err)
	case errors.Is(err, tty.ErrDriverApply):
		if ctrl.Restored() {
			abort("restore terminal", err)
		} else {
			abort("enter raw mode", err)
		}
	}
	return err
}

func runKeys(cmd *cobra.Command, config keylog.Config) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errNotTerminal
	}
	cmd.SilenceUsage = true

	ctrl := tty.New(tty.NewDriver(fd), tty.WithAbort(fatal.Abort))
	session, err := keylog.New(config, ctrl, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()
	ctrl.SetLogger(session.Logger())

	stop := exithook.Default.HandleSignals()
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Press %s to quit.\n", config.Quit)
	if err := tty.WithRawMode(ctrl, session.Run); err != nil {
		return abortOnFatal(ctrl, err, fatal.Abort)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), session.Summary())
	return nil
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print every byte read from the terminal in raw mode",
		Args:  cobra.NoArgs,
	}
	config := keylog.DefaultConfig()
	config.InstallFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runKeys(cmd, config)
	}
	return cmd
}
