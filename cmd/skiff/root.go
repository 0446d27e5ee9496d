package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skiff-run/skiff-cli/internal/messages"
	"github.com/skiff-run/skiff-cli/internal/terminal"
)

var getwd = os.Getwd
var isTerminal = terminal.IsInteractive

// newRootCmd assembles the manager command tree. The root itself never runs:
// bare invocations are dispatched to the runtime before cobra is involved.
func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, messages.RootVerboseFlag)
	cmd.AddCommand(newRuntimeCmd(&verbose))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// newVersionCmd prints the same build metadata as --version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.VersionUse,
		Short: messages.VersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}
