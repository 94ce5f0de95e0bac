package domain

type SubscriptionID string

type SubscriptionState string

const (
	SubscriptionEnabled  SubscriptionState = "Enabled"
	SubscriptionDisabled SubscriptionState = "Disabled"
	SubscriptionWarned   SubscriptionState = "Warned"
	SubscriptionPastDue  SubscriptionState = "PastDue"
	SubscriptionDeleted  SubscriptionState = "Deleted"
	SubscriptionUnknown  SubscriptionState = "Unknown"
)

// Subscription is a point-in-time snapshot. State can change between API
// calls, so snapshots are never cached across reconciliation passes.
type Subscription struct {
	ID    SubscriptionID
	Name  string
	State SubscriptionState
}

func (s SubscriptionState) Active() bool {
	return s == SubscriptionEnabled
}

func ParseSubscriptionState(raw string) SubscriptionState {
	switch SubscriptionState(raw) {
	case SubscriptionEnabled, SubscriptionDisabled, SubscriptionWarned, SubscriptionPastDue, SubscriptionDeleted:
		return SubscriptionState(raw)
	default:
		return SubscriptionUnknown
	}
}
