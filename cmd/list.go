package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/taoky/rawtty/pkg/input"
)

// cookedMeaning is what the driver does with a control key outside raw
// mode, with Linux default c_cc settings.
var cookedMeaning = map[byte]string{
	'c': "VINTR: sends SIGINT (ISIG)",
	'd': "VEOF: ends input (ICANON)",
	'h': "backspace",
	'i': "tab",
	'j': "line feed",
	'm': "carriage return, becomes LF (ICRNL)",
	'o': "VDISCARD (IEXTEN)",
	'q': "VSTART: resumes output (IXON)",
	'r': "VREPRINT (ICANON)",
	's': "VSTOP: pauses output (IXON)",
	'u': "VKILL: erases line (ICANON)",
	'v': "VLNEXT: quotes next key (IEXTEN)",
	'w': "VWERASE: erases word (ICANON)",
	'z': "VSUSP: sends SIGTSTP (ISIG)",
}

// newTable renders borderless, left-aligned columns so key names and codes
// line up in a plain terminal.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(
		w,
		tablewriter.WithHeaderAutoWrap(tw.WrapNone),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithPadding(tw.Padding{
			Right:     "  ",
			Overwrite: true,
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
	)
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <item>",
		Short: "List various items",
		Args:  cobra.NoArgs,
		RunE:  showHelp,
	}
	cmd.AddCommand(listKeysCmd())
	return cmd
}

func listKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List Ctrl+letter codes and their cooked mode meaning",
		Args:  cobra.NoArgs,
	}
	var all bool
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show all 26 control keys")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		table := newTable(cmd.OutOrStdout())
		table.Header("Key", "Dec", "Hex", "Cooked mode")
		for k := byte('a'); k <= 'z'; k++ {
			meaning, ok := cookedMeaning[k]
			if !all && !ok {
				continue
			}
			c, _ := input.DecodeControl(input.CtrlKey(k))
			if err := table.Append([]string{
				c.String(),
				strconv.Itoa(int(c)),
				fmt.Sprintf("0x%02x", byte(c)),
				meaning,
			}); err != nil {
				return err
			}
		}
		return table.Render()
	}
	return cmd
}
