package azure

import (
	"time"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
)

const (
	subscriptionsAPIVersion    = "2022-12-01"
	scheduledActionsAPIVersion = "2022-10-01"
)

type subscriptionRecord struct {
	SubscriptionID string `json:"subscriptionId"`
	DisplayName    string `json:"displayName"`
	State          string `json:"state"`
}

type subscriptionListPage struct {
	Value    []subscriptionRecord `json:"value"`
	NextLink string               `json:"nextLink"`
}

type scheduledActionRecord struct {
	Name       string                    `json:"name"`
	Kind       string                    `json:"kind"`
	Properties scheduledActionProperties `json:"properties"`
}

type scheduledActionProperties struct {
	DisplayName  string             `json:"displayName"`
	Status       string             `json:"status"`
	Schedule     alertSchedule      `json:"schedule"`
	Notification *alertNotification `json:"notification,omitempty"`
	ViewID       string             `json:"viewId"`
}

type alertSchedule struct {
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type alertNotification struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
}

type scheduledActionListPage struct {
	Value []scheduledActionRecord `json:"value"`
}

type putAlertBody struct {
	Kind       string                    `json:"kind"`
	Properties scheduledActionProperties `json:"properties"`
}

func (r subscriptionRecord) toDomain() domain.Subscription {
	return domain.Subscription{
		ID:    domain.SubscriptionID(r.SubscriptionID),
		Name:  r.DisplayName,
		State: domain.ParseSubscriptionState(r.State),
	}
}

func (r scheduledActionRecord) toDomain() domain.Alert {
	alert := domain.Alert{
		Name:          r.Name,
		Kind:          r.Kind,
		Status:        domain.AlertStatus(r.Properties.Status),
		ScheduleStart: parseScheduleDate(r.Properties.Schedule.StartDate),
		ScheduleEnd:   parseScheduleDate(r.Properties.Schedule.EndDate),
		ViewID:        r.Properties.ViewID,
	}
	if r.Properties.Notification != nil {
		alert.Recipients = r.Properties.Notification.To
	}
	return alert
}

// parseScheduleDate returns the zero time for missing or malformed dates.
// Downstream treats zero as expired, so bad upstream data leads to the alert
// being recreated rather than the subscription being skipped.
func parseScheduleDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	// Some schedules come back without a zone offset.
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
