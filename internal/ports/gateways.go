package ports

import (
	"context"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
)

type SubscriptionGateway interface {
	// List returns the account's subscriptions, filtered to the Enabled
	// state unless includeInactive is set.
	List(ctx context.Context, includeInactive bool) ([]domain.Subscription, error)
	// IsActive is a fresh point lookup, never served from a cache. Used as
	// a just-in-time guard before mutating calls.
	IsActive(ctx context.Context, id domain.SubscriptionID) (bool, error)
}

type AlertGateway interface {
	// ListAlerts returns every scheduled action on the subscription,
	// all kinds included.
	ListAlerts(ctx context.Context, id domain.SubscriptionID) ([]domain.Alert, error)
	// PutAlert creates or replaces the named alert on the subscription.
	PutAlert(ctx context.Context, id domain.SubscriptionID, spec domain.AlertSpec) error
}
