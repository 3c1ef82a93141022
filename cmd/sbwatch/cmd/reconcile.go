package cmd

import (
	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconcile pass on the server now",
		Example: `  sbwatch reconcile
  sbwatch reconcile --server http://watcher:8080 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := newClient().Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			return printReconcileResult(cmd.OutOrStdout(), res)
		},
	}
}
