package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aca",
		Short:         "Azure Cost Alerts CLI (aca): reconcile daily cost-anomaly alerts",
		Long:          "aca scans every subscription in the account for a daily cost-anomaly alert and creates or replaces the alert where it is missing or expired.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSubscriptionsCmd(app),
		newScanCmd(app),
		newReconcileCmd(app),
	)

	return rootCmd
}
