package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	configadapter "github.com/finops-tools/azure-cost-alerts-cli/internal/adapters/config"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/adapters/render/report"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/application"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
)

type reconcileOutput struct {
	Scan  application.ScanReport
	Apply application.ApplyReport
}

func newReconcileCmd(app *app) *cobra.Command {
	var auto bool
	var dryRun bool
	var asJSON bool
	var alertName string
	var emails string
	var subscriptionIDs string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Create or replace cost-anomaly alerts where missing or expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec := domain.AlertSpec{
				Name:       alertName,
				Recipients: resolveRecipients(emails, app.cfg),
			}

			subscriptions, err := app.reconciler.ListSubscriptions(cmd.Context(), false)
			if err != nil {
				return err
			}
			if subscriptionIDs != "" {
				subscriptions, err = selectSubscriptions(subscriptions, subscriptionIDs)
				if err != nil {
					return err
				}
			}
			if len(subscriptions) == 0 {
				return fmt.Errorf("no active subscriptions available")
			}

			scan, err := runScan(cmd, app, subscriptions, asJSON)
			if err != nil {
				return err
			}

			if !asJSON {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), report.RenderScan(scan)); err != nil {
					return err
				}
			}

			targets := scan.Classification.NeedsAction()
			if dryRun || len(targets) == 0 {
				if asJSON {
					return writeReconcileJSON(cmd, reconcileOutput{Scan: scan})
				}
				if len(targets) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "All active subscriptions already have valid alerts or had errors.")
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %d subscriptions would receive alert %q.\n", len(targets), spec.Name)
				return err
			}

			if !auto {
				confirmed, err := confirmWrite(cmd, len(targets), spec)
				if err != nil {
					return err
				}
				if !confirmed {
					// User-declined runs are not failures.
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
					return err
				}
			}

			apply, err := app.reconciler.Apply(cmd.Context(), targets, spec)
			if err != nil {
				return err
			}

			if asJSON {
				if err := writeReconcileJSON(cmd, reconcileOutput{Scan: scan, Apply: apply}); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), report.RenderApply(apply)); err != nil {
					return err
				}
			}

			if apply.Succeeded() == 0 && apply.Failed() > 0 && len(scan.Classification.Valid) == 0 {
				return fmt.Errorf("alert creation failed for all %d subscriptions", apply.Failed())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Create alerts without asking for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify only; perform no writes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().StringVar(&alertName, "alert-name", app.cfg.AlertName, "Name of the scheduled alert resource")
	cmd.Flags().StringVar(&emails, "emails", "", "Comma-separated notification addresses")
	cmd.Flags().StringVar(&subscriptionIDs, "subscriptions", "", "Comma-separated subscription IDs to restrict the pass to")

	return cmd
}

// resolveRecipients prefers the flag, then configured defaults, then the
// placeholder so the alert payload never carries an empty recipient list.
func resolveRecipients(emails string, cfg configadapter.Config) []string {
	recipients := configadapter.SplitRecipients(emails)
	if len(recipients) == 0 {
		recipients = cfg.Recipients
	}
	if len(recipients) == 0 {
		recipients = []string{configadapter.PlaceholderRecipient}
	}
	return recipients
}

func selectSubscriptions(subscriptions []domain.Subscription, rawIDs string) ([]domain.Subscription, error) {
	wanted := map[domain.SubscriptionID]bool{}
	for _, id := range strings.Split(rawIDs, ",") {
		trimmed := strings.TrimSpace(id)
		if trimmed != "" {
			wanted[domain.SubscriptionID(trimmed)] = true
		}
	}

	selected := make([]domain.Subscription, 0, len(wanted))
	for _, subscription := range subscriptions {
		if wanted[subscription.ID] {
			selected = append(selected, subscription)
			delete(wanted, subscription.ID)
		}
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for id := range wanted {
			missing = append(missing, string(id))
		}
		return nil, fmt.Errorf("subscriptions not found or not active: %s", strings.Join(missing, ", "))
	}

	return selected, nil
}

func confirmWrite(cmd *cobra.Command, count int, spec domain.AlertSpec) (bool, error) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Alert name: %s\n", spec.Name)
	fmt.Fprintf(out, "Recipients: %s\n", strings.Join(spec.Recipients, ", "))
	fmt.Fprintf(out, "Create alerts for %d subscriptions? (y/n): ", count)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}

	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

func writeReconcileJSON(cmd *cobra.Command, output reconcileOutput) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
