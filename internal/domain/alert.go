package domain

import (
	"math"
	"time"
)

const AlertKindInsight = "InsightAlert"

// AlertValidityDays is the schedule window written on every new alert:
// 5 years of daily anomaly checks.
const AlertValidityDays = 1825

type AlertStatus string

const (
	AlertEnabled  AlertStatus = "Enabled"
	AlertDisabled AlertStatus = "Disabled"
)

// Alert is a scheduled cost-anomaly notification owned by a subscription.
// A zero ScheduleEnd means the end date was missing or unparsable upstream;
// such alerts are deliberately treated as expired so that reconciliation
// recreates them rather than skipping the subscription.
type Alert struct {
	Name          string
	Kind          string
	Status        AlertStatus
	ScheduleStart time.Time
	ScheduleEnd   time.Time
	Recipients    []string
	ViewID        string
}

// DaysRemaining floors toward negative infinity, matching calendar-day
// arithmetic: an alert ending later today still has 0 days remaining.
func (a Alert) DaysRemaining(now time.Time) int {
	if a.ScheduleEnd.IsZero() {
		return 0
	}
	return int(math.Floor(a.ScheduleEnd.Sub(now).Hours() / 24))
}

// Expired reports whether the alert no longer counts as live. The sole
// validity test is DaysRemaining > 0: an end date equal to now is expired.
func (a Alert) Expired(now time.Time) bool {
	return a.DaysRemaining(now) <= 0
}

// AlertSpec describes the alert the writer upserts onto a subscription.
type AlertSpec struct {
	Name       string
	Recipients []string
}
