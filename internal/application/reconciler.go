package application

import (
	"context"
	"fmt"
	"time"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/ports"
)

const (
	// scanBatchSize and the pauses below bound request rate; the engine
	// itself stays sequential.
	scanBatchSize  = 10
	scanBatchPause = time.Second
	writePause     = 500 * time.Millisecond
)

// Reconciler decides, per subscription, whether a daily cost-anomaly alert
// must be created, and performs the writes.
type Reconciler struct {
	subscriptions ports.SubscriptionGateway
	alerts        ports.AlertGateway
	clock         ports.Clock
}

func NewReconciler(subscriptions ports.SubscriptionGateway, alerts ports.AlertGateway, clock ports.Clock) *Reconciler {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Reconciler{
		subscriptions: subscriptions,
		alerts:        alerts,
		clock:         clock,
	}
}

// ListSubscriptions enumerates the account's subscriptions. A failure here
// is fatal to the run: with no listing there is nothing to reconcile.
func (r *Reconciler) ListSubscriptions(ctx context.Context, includeInactive bool) ([]domain.Subscription, error) {
	subscriptions, err := r.subscriptions.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("enumerate subscriptions: %w", err)
	}
	return subscriptions, nil
}

// Scan classifies each subscription into one of the four buckets. Work is
// batched in groups of ten with a one-second pause between groups. A single
// subscription's failure lands it in the errored bucket and never aborts
// the pass; only context cancellation does.
func (r *Reconciler) Scan(ctx context.Context, subscriptions []domain.Subscription) (ScanReport, error) {
	report := ScanReport{ScannedAt: r.clock.Now()}

	for i, subscription := range subscriptions {
		if i > 0 && i%scanBatchSize == 0 {
			if err := r.clock.Sleep(ctx, scanBatchPause); err != nil {
				return ScanReport{}, err
			}
		}
		if err := ctx.Err(); err != nil {
			return ScanReport{}, err
		}

		report.Classification.Add(r.classify(ctx, subscription))
	}

	return report, nil
}

func (r *Reconciler) classify(ctx context.Context, subscription domain.Subscription) domain.Classified {
	entry := domain.Classified{Subscription: subscription}

	active, err := r.subscriptions.IsActive(ctx, subscription.ID)
	if err != nil {
		entry.Bucket = domain.BucketErrored
		entry.Reason = err.Error()
		return entry
	}
	if !active {
		entry.Bucket = domain.BucketErrored
		entry.Reason = "subscription is not active"
		return entry
	}

	alerts, err := r.alerts.ListAlerts(ctx, subscription.ID)
	if err != nil {
		entry.Bucket = domain.BucketErrored
		entry.Reason = err.Error()
		return entry
	}

	anomalyAlerts := domain.FilterInsightAlerts(alerts)
	bucket, expired := domain.ClassifyAlerts(anomalyAlerts, r.clock.Now())
	entry.Bucket = bucket
	entry.AlertCount = len(anomalyAlerts)
	entry.ExpiredCount = expired
	return entry
}

// Apply upserts the alert onto every target subscription. The activity
// guard runs again immediately before each write because lifecycle state
// can change between classification and action. Re-running Apply on an
// unchanged remote is idempotent: a fresh Scan would put every previously
// written subscription in the valid bucket.
func (r *Reconciler) Apply(ctx context.Context, targets []domain.Classified, spec domain.AlertSpec) (ApplyReport, error) {
	var report ApplyReport

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Results = append(report.Results, r.upsert(ctx, target, spec))

		if err := r.clock.Sleep(ctx, writePause); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (r *Reconciler) upsert(ctx context.Context, target domain.Classified, spec domain.AlertSpec) WriteResult {
	result := WriteResult{Subscription: target.Subscription}

	active, err := r.subscriptions.IsActive(ctx, target.Subscription.ID)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}
	if !active {
		result.Outcome = OutcomeFailed
		result.Reason = "subscription became inactive"
		return result
	}

	if err := r.alerts.PutAlert(ctx, target.Subscription.ID, spec); err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}

	// Created vs replaced is a reporting distinction only, decided by the
	// bucket the subscription scanned into.
	if target.Bucket == domain.BucketExpiredOnly {
		result.Outcome = OutcomeReplaced
	} else {
		result.Outcome = OutcomeCreated
	}
	return result
}
