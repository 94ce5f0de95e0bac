package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/application"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
)

const nameDisplayLimit = 60

// RenderSubscriptions lists subscriptions one per line with their state.
func RenderSubscriptions(subscriptions []domain.Subscription) string {
	s := newStyles()

	lines := []string{
		s.title.Render("Subscriptions"),
		s.header.Render(fmt.Sprintf("found: %d", len(subscriptions))),
	}

	if len(subscriptions) == 0 {
		lines = append(lines, s.empty.Render("No subscriptions available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, subscription := range subscriptions {
		line := fmt.Sprintf("%3d. %s (%s) - %s", i+1, trimName(subscription.Name), subscription.ID, subscription.State)
		lines = append(lines, s.detail.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderScan shows the four classification buckets and the resulting work
// list size.
func RenderScan(scan application.ScanReport) string {
	s := newStyles()
	c := scan.Classification

	lines := []string{
		s.title.Render("Cost Anomaly Alert Scan"),
		s.header.Render(fmt.Sprintf("subscriptions scanned: %d", c.Total())),
	}

	appendBucket := func(entries []domain.Classified, style lipgloss.Style, describe func(domain.Classified) string) {
		for _, entry := range entries {
			lines = append(lines, style.Render(fmt.Sprintf("  %s - %s", trimName(entry.Subscription.Name), describe(entry))))
		}
	}

	appendBucket(c.NoAlert, s.ready, func(domain.Classified) string {
		return "no alerts, ready for creation"
	})
	appendBucket(c.ExpiredOnly, s.replace, func(entry domain.Classified) string {
		return fmt.Sprintf("all alerts expired (%d total), ready for replacement", entry.ExpiredCount)
	})
	appendBucket(c.Valid, s.skip, func(entry domain.Classified) string {
		return fmt.Sprintf("has valid alerts (%d total, %d expired)", entry.AlertCount, entry.ExpiredCount)
	})
	appendBucket(c.Errored, s.failed, func(entry domain.Classified) string {
		return entry.Reason
	})

	summary := lipgloss.JoinVertical(lipgloss.Left,
		s.summary.Render(fmt.Sprintf("no alerts (ready):      %d", len(c.NoAlert))),
		s.summary.Render(fmt.Sprintf("expired alerts (ready): %d", len(c.ExpiredOnly))),
		s.summary.Render(fmt.Sprintf("valid alerts (skip):    %d", len(c.Valid))),
		s.summary.Render(fmt.Sprintf("errors/inactive:        %d", len(c.Errored))),
		s.emphasis.Render(fmt.Sprintf("total needing alerts:   %d", len(c.NeedsAction()))),
	)
	lines = append(lines, s.section.Render(summary))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderApply shows per-subscription write outcomes and totals.
func RenderApply(apply application.ApplyReport) string {
	s := newStyles()

	lines := []string{
		s.title.Render("Alert Creation"),
	}

	if len(apply.Results) == 0 {
		lines = append(lines, s.empty.Render("Nothing to do: every subscription already has a valid alert."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, result := range apply.Results {
		name := trimName(result.Subscription.Name)
		switch result.Outcome {
		case application.OutcomeCreated:
			lines = append(lines, s.ready.Render(fmt.Sprintf("  %s - created new alert", name)))
		case application.OutcomeReplaced:
			lines = append(lines, s.replace.Render(fmt.Sprintf("  %s - replaced expired alert", name)))
		default:
			lines = append(lines, s.failed.Render(fmt.Sprintf("  %s - failed: %s", name, result.Reason)))
		}
	}

	summary := lipgloss.JoinVertical(lipgloss.Left,
		s.summary.Render(fmt.Sprintf("created:  %d", apply.Count(application.OutcomeCreated))),
		s.summary.Render(fmt.Sprintf("replaced: %d", apply.Count(application.OutcomeReplaced))),
		s.summary.Render(fmt.Sprintf("failed:   %d", apply.Failed())),
	)
	lines = append(lines, s.section.Render(summary))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func trimName(name string) string {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) <= nameDisplayLimit {
		return trimmed
	}
	return trimmed[:nameDisplayLimit]
}
