package cmd

import (
	"github.com/spf13/cobra"
)

func showHelp(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rawtty",
		Short: "Put the terminal in raw mode and inspect what it sends",
		Args:  cobra.NoArgs,
		RunE:  showHelp,
	}
	rootCmd.AddCommand(
		keysCmd(),
		inspectCmd(),
		listCmd(),
	)
	return rootCmd
}
