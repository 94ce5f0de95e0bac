package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/ports"
)

const (
	alertDisplayName         = "Daily anomaly by resource"
	alertNotificationSubject = "Cost anomaly detected in the resource"
	anomalyViewName          = "ms:DailyAnomalyByResourceGroup"
)

// AlertGateway reads and writes scheduled cost-anomaly actions.
type AlertGateway struct {
	client *Client
	clock  ports.Clock
}

var _ ports.AlertGateway = (*AlertGateway)(nil)

func NewAlertGateway(client *Client, clock ports.Clock) *AlertGateway {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &AlertGateway{client: client, clock: clock}
}

func (g *AlertGateway) ListAlerts(ctx context.Context, id domain.SubscriptionID) ([]domain.Alert, error) {
	query := url.Values{}
	query.Set("api-version", scheduledActionsAPIVersion)

	path := scheduledActionsPath(id)
	resp, err := g.client.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("list alerts for %s: %w", id, err)
	}
	if !resp.Success() {
		return nil, fmt.Errorf("list alerts for %s: %w", id, resp.APIError())
	}

	var page scheduledActionListPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("decode alerts for %s: %w", id, err)
	}

	alerts := make([]domain.Alert, 0, len(page.Value))
	for _, record := range page.Value {
		alerts = append(alerts, record.toDomain())
	}
	return alerts, nil
}

// PutAlert overwrites the named scheduled action with a fresh 5-year daily
// window starting now. Replacement and creation are the same call; the API
// answers 200 or 201 respectively.
func (g *AlertGateway) PutAlert(ctx context.Context, id domain.SubscriptionID, spec domain.AlertSpec) error {
	start := g.clock.Now().Truncate(time.Second)
	end := start.AddDate(0, 0, domain.AlertValidityDays)

	body := putAlertBody{
		Kind: domain.AlertKindInsight,
		Properties: scheduledActionProperties{
			DisplayName: alertDisplayName,
			Status:      string(domain.AlertEnabled),
			Schedule: alertSchedule{
				Frequency: "Daily",
				StartDate: start.Format(time.RFC3339),
				EndDate:   end.Format(time.RFC3339),
			},
			Notification: &alertNotification{
				To:      spec.Recipients,
				Subject: alertNotificationSubject,
			},
			ViewID: anomalyViewPath(id),
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode alert for %s: %w", id, err)
	}

	query := url.Values{}
	query.Set("api-version", scheduledActionsAPIVersion)

	path := scheduledActionsPath(id) + "/" + url.PathEscape(spec.Name)
	resp, err := g.client.Put(ctx, path, query, payload)
	if err != nil {
		return fmt.Errorf("put alert %s for %s: %w", spec.Name, id, err)
	}
	if !resp.Success() {
		return fmt.Errorf("put alert %s for %s: %w", spec.Name, id, resp.APIError())
	}

	return nil
}

func scheduledActionsPath(id domain.SubscriptionID) string {
	return "/subscriptions/" + url.PathEscape(string(id)) + "/providers/Microsoft.CostManagement/scheduledActions"
}

func anomalyViewPath(id domain.SubscriptionID) string {
	return "/subscriptions/" + string(id) + "/providers/Microsoft.CostManagement/views/" + anomalyViewName
}
