package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/adapters/render/report"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/application"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
)

func newScanCmd(app *app) *cobra.Command {
	var expiredOnly bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify subscriptions by cost-anomaly alert state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scan, err := runScan(cmd, app, nil, asJSON)
			if err != nil {
				return err
			}

			if expiredOnly {
				scan.Classification = domain.Classification{
					ExpiredOnly: scan.Classification.ExpiredOnly,
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(scan)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), report.RenderScan(scan))
			return err
		},
	}

	cmd.Flags().BoolVar(&expiredOnly, "expired-only", false, "Show only subscriptions whose alerts have all expired")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

// runScan lists active subscriptions (or uses the given set) and classifies
// them, behind a spinner unless JSON output was requested.
func runScan(cmd *cobra.Command, app *app, subscriptions []domain.Subscription, asJSON bool) (application.ScanReport, error) {
	var scan application.ScanReport

	doScan := func(ctx context.Context) error {
		var err error
		if subscriptions == nil {
			subscriptions, err = app.reconciler.ListSubscriptions(ctx, false)
			if err != nil {
				return err
			}
		}

		scan, err = app.reconciler.Scan(ctx, subscriptions)
		return err
	}

	if asJSON {
		if err := doScan(cmd.Context()); err != nil {
			return application.ScanReport{}, err
		}
		return scan, nil
	}

	if err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Scanning subscriptions...", doScan); err != nil {
		return application.ScanReport{}, err
	}
	return scan, nil
}
