package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/ports"
)

// SubscriptionGateway enumerates subscriptions and answers point-in-time
// activity checks against the management API.
type SubscriptionGateway struct {
	client *Client
}

var _ ports.SubscriptionGateway = (*SubscriptionGateway)(nil)

func NewSubscriptionGateway(client *Client) *SubscriptionGateway {
	return &SubscriptionGateway{client: client}
}

// List fetches the full subscription collection, following nextLink
// continuations so accounts large enough to be paginated are still seen
// whole.
func (g *SubscriptionGateway) List(ctx context.Context, includeInactive bool) ([]domain.Subscription, error) {
	query := url.Values{}
	query.Set("api-version", subscriptionsAPIVersion)

	resp, err := g.client.Get(ctx, "/subscriptions", query)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	var subscriptions []domain.Subscription
	for {
		if !resp.Success() {
			return nil, fmt.Errorf("list subscriptions: %w", resp.APIError())
		}

		var page subscriptionListPage
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("decode subscription page: %w", err)
		}

		for _, record := range page.Value {
			subscription := record.toDomain()
			if !includeInactive && !subscription.State.Active() {
				continue
			}
			subscriptions = append(subscriptions, subscription)
		}

		if page.NextLink == "" {
			return subscriptions, nil
		}

		resp, err = g.client.GetURL(ctx, page.NextLink)
		if err != nil {
			return nil, fmt.Errorf("list subscriptions (next page): %w", err)
		}
	}
}

// IsActive re-reads the subscription because lifecycle state can change
// between listing and acting on it.
func (g *SubscriptionGateway) IsActive(ctx context.Context, id domain.SubscriptionID) (bool, error) {
	query := url.Values{}
	query.Set("api-version", subscriptionsAPIVersion)

	resp, err := g.client.Get(ctx, "/subscriptions/"+url.PathEscape(string(id)), query)
	if err != nil {
		return false, fmt.Errorf("check subscription %s: %w", id, err)
	}
	if !resp.Success() {
		return false, fmt.Errorf("check subscription %s: %w", id, resp.APIError())
	}

	var record subscriptionRecord
	if err := json.Unmarshal(resp.Body, &record); err != nil {
		return false, fmt.Errorf("decode subscription %s: %w", id, err)
	}

	return domain.ParseSubscriptionState(record.State).Active(), nil
}
