package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taoky/rawtty/pkg/tty"
)

type inspectResult struct {
	Raw       bool       `json:"raw"`
	Echo      bool       `json:"echo"`
	Canonical bool       `json:"canonical"`
	Signals   bool       `json:"signals"`
	Extended  bool       `json:"extended"`
	CharSize8 bool       `json:"cs8"`
	MinBytes  int        `json:"vmin"`
	Timeout   int        `json:"vtime"`
	Flags     []tty.Flag `json:"flags"`
}

func newInspectResult(c tty.Config, raw bool) inspectResult {
	return inspectResult{
		Raw:       raw,
		Echo:      c.Echo(),
		Canonical: c.Canonical(),
		Signals:   c.Signals(),
		Extended:  c.Extended(),
		CharSize8: c.CharSize8(),
		MinBytes:  c.MinBytes(),
		Timeout:   c.TimeoutDeciseconds(),
		Flags:     c.Flags(),
	}
}

func printInspect(w io.Writer, r inspectResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	table := newTable(w)
	table.Header("Field", "Flag", "Set")
	for _, f := range r.Flags {
		if err := table.Append([]string{f.Field, f.Name, strconv.FormatBool(f.Set)}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{"cc", "VMIN", strconv.Itoa(r.MinBytes)}); err != nil {
		return err
	}
	if err := table.Append([]string{"cc", "VTIME", strconv.Itoa(r.Timeout)}); err != nil {
		return err
	}
	return table.Render()
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the terminal configuration without changing it",
		Args:  cobra.NoArgs,
	}
	var raw, asJSON bool
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "Show the configuration raw mode would apply")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Print as JSON")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return errNotTerminal
		}
		cmd.SilenceUsage = true
		c, err := tty.NewDriver(fd).QueryConfig()
		if err != nil {
			return fmt.Errorf("%w: %w", tty.ErrDriverQuery, err)
		}
		if raw {
			c = c.Raw()
		}
		return printInspect(cmd.OutOrStdout(), newInspectResult(c, raw), asJSON)
	}
	return cmd
}
