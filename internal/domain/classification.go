package domain

import "time"

type Bucket string

const (
	// BucketNoAlert: the subscription has no InsightAlert at all.
	BucketNoAlert Bucket = "no_alert"
	// BucketValid: at least one InsightAlert is still live. Expired alerts
	// alongside a live one do not make the subscription eligible for work.
	BucketValid Bucket = "valid"
	// BucketExpiredOnly: every InsightAlert has run out.
	BucketExpiredOnly Bucket = "expired_only"
	// BucketErrored: the subscription was inactive or its alerts could not
	// be inspected. Never written to.
	BucketErrored Bucket = "errored"
)

// Classified is one subscription's position after a scan.
type Classified struct {
	Subscription Subscription
	Bucket       Bucket
	AlertCount   int
	ExpiredCount int
	Reason       string
}

// Classification partitions a subscription set into the four disjoint
// buckets of a single reconciliation pass. It is derived state, valid only
// for the pass that produced it.
type Classification struct {
	NoAlert     []Classified
	Valid       []Classified
	ExpiredOnly []Classified
	Errored     []Classified
}

func (c *Classification) Add(entry Classified) {
	switch entry.Bucket {
	case BucketNoAlert:
		c.NoAlert = append(c.NoAlert, entry)
	case BucketValid:
		c.Valid = append(c.Valid, entry)
	case BucketExpiredOnly:
		c.ExpiredOnly = append(c.ExpiredOnly, entry)
	default:
		c.Errored = append(c.Errored, entry)
	}
}

// NeedsAction unions the two writable buckets, no-alert first, preserving
// scan order within each.
func (c *Classification) NeedsAction() []Classified {
	targets := make([]Classified, 0, len(c.NoAlert)+len(c.ExpiredOnly))
	targets = append(targets, c.NoAlert...)
	targets = append(targets, c.ExpiredOnly...)
	return targets
}

func (c *Classification) Total() int {
	return len(c.NoAlert) + len(c.Valid) + len(c.ExpiredOnly) + len(c.Errored)
}

// ClassifyAlerts buckets a subscription from its anomaly alerts. Alerts of
// other kinds must be filtered out by the caller before this point.
func ClassifyAlerts(alerts []Alert, now time.Time) (Bucket, int) {
	if len(alerts) == 0 {
		return BucketNoAlert, 0
	}

	expired := 0
	valid := false
	for _, alert := range alerts {
		if alert.Expired(now) {
			expired++
			continue
		}
		valid = true
	}

	if valid {
		return BucketValid, expired
	}
	return BucketExpiredOnly, expired
}

// FilterInsightAlerts keeps only the cost-anomaly alert kind.
func FilterInsightAlerts(alerts []Alert) []Alert {
	filtered := make([]Alert, 0, len(alerts))
	for _, alert := range alerts {
		if alert.Kind == AlertKindInsight {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}
