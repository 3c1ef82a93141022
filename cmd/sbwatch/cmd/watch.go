package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	watchRoot := &cobra.Command{
		Use:   "watch",
		Short: "Manage the watch list of a running server",
		Long: "Manage the Server Bourse auction IDs watched by a running sbwatch\n" +
			"server. The watch list lives in memory and is lost on restart.",
	}

	watchRoot.AddCommand(
		watchListCmd(),
		watchGetCmd(),
		watchAddCmd(),
		watchRemoveCmd(),
	)

	return watchRoot
}

func watchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List watched servers",
		Example: `  sbwatch watch list
  sbwatch watch list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			watches, err := newClient().ListWatches(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, watches)
			}
			if len(watches) == 0 {
				fmt.Fprintln(out, "No servers are being watched.")
				return nil
			}
			return printWatchTable(out, watches)
		},
	}
}

func watchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show a watched server",
		Example: `  sbwatch watch get 2165473`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newClient().GetWatch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), w)
			}
			return printWatchDetail(cmd.OutOrStdout(), w)
		},
	}
}

func watchAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <id>",
		Short:   "Watch a server",
		Example: `  sbwatch watch add 2165473`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newClient().AddWatch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server with the ID %s has been added\n", w.ID)
			return nil
		},
	}
}

func watchRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Short:   "Stop watching a server",
		Example: `  sbwatch watch remove 2165473`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().RemoveWatch(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server with the ID %s has been removed\n", args[0])
			return nil
		},
	}
}
