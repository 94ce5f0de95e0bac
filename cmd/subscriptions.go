package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/adapters/render/report"
)

func newSubscriptionsCmd(app *app) *cobra.Command {
	var includeInactive bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "List the account's subscriptions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subscriptions, err := app.reconciler.ListSubscriptions(cmd.Context(), includeInactive)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(subscriptions)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), report.RenderSubscriptions(subscriptions))
			return err
		},
	}

	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include subscriptions that are not in the Enabled state")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
