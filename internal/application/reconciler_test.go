package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return ctx.Err()
}

type fakeRemote struct {
	subscriptions []domain.Subscription
	alerts        map[domain.SubscriptionID][]domain.Alert
	inactive      map[domain.SubscriptionID]bool
	activeErr     map[domain.SubscriptionID]error
	listAlertsErr map[domain.SubscriptionID]error
	putErr        map[domain.SubscriptionID]error

	isActiveCalls   []domain.SubscriptionID
	listAlertsCalls []domain.SubscriptionID
	putCalls        []domain.SubscriptionID

	clock *fakeClock
}

func newFakeRemote(clock *fakeClock) *fakeRemote {
	return &fakeRemote{
		alerts:        map[domain.SubscriptionID][]domain.Alert{},
		inactive:      map[domain.SubscriptionID]bool{},
		activeErr:     map[domain.SubscriptionID]error{},
		listAlertsErr: map[domain.SubscriptionID]error{},
		putErr:        map[domain.SubscriptionID]error{},
		clock:         clock,
	}
}

func (r *fakeRemote) addSubscription(id, name string) {
	r.subscriptions = append(r.subscriptions, domain.Subscription{
		ID:    domain.SubscriptionID(id),
		Name:  name,
		State: domain.SubscriptionEnabled,
	})
}

func (r *fakeRemote) List(_ context.Context, _ bool) ([]domain.Subscription, error) {
	return r.subscriptions, nil
}

func (r *fakeRemote) IsActive(_ context.Context, id domain.SubscriptionID) (bool, error) {
	r.isActiveCalls = append(r.isActiveCalls, id)
	if err := r.activeErr[id]; err != nil {
		return false, err
	}
	return !r.inactive[id], nil
}

func (r *fakeRemote) ListAlerts(_ context.Context, id domain.SubscriptionID) ([]domain.Alert, error) {
	r.listAlertsCalls = append(r.listAlertsCalls, id)
	if err := r.listAlertsErr[id]; err != nil {
		return nil, err
	}
	return r.alerts[id], nil
}

func (r *fakeRemote) PutAlert(_ context.Context, id domain.SubscriptionID, spec domain.AlertSpec) error {
	r.putCalls = append(r.putCalls, id)
	if err := r.putErr[id]; err != nil {
		return err
	}
	// Mimic the remote: the write installs a live five-year alert.
	r.alerts[id] = []domain.Alert{{
		Name:        spec.Name,
		Kind:        domain.AlertKindInsight,
		Status:      domain.AlertEnabled,
		ScheduleEnd: r.clock.Now().AddDate(0, 0, domain.AlertValidityDays),
		Recipients:  spec.Recipients,
	}}
	return nil
}

func TestScanBucketsSubscriptions(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "No Alerts")
	remote.addSubscription("s2", "Expired Only")
	remote.addSubscription("s3", "Has Valid")
	remote.addSubscription("s4", "Went Inactive")

	remote.alerts["s2"] = []domain.Alert{{Kind: domain.AlertKindInsight, ScheduleEnd: clock.Now().AddDate(0, 0, -1)}}
	remote.alerts["s3"] = []domain.Alert{
		{Kind: domain.AlertKindInsight, ScheduleEnd: clock.Now().AddDate(0, 0, -10)},
		{Kind: domain.AlertKindInsight, ScheduleEnd: clock.Now().AddDate(0, 0, 30)},
	}
	remote.inactive["s4"] = true

	reconciler := NewReconciler(remote, remote, clock)
	scan, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)

	c := scan.Classification
	require.Len(t, c.NoAlert, 1)
	require.Len(t, c.ExpiredOnly, 1)
	require.Len(t, c.Valid, 1)
	require.Len(t, c.Errored, 1)

	assert.Equal(t, domain.SubscriptionID("s1"), c.NoAlert[0].Subscription.ID)
	assert.Equal(t, domain.SubscriptionID("s2"), c.ExpiredOnly[0].Subscription.ID)
	assert.Equal(t, 1, c.ExpiredOnly[0].ExpiredCount)
	assert.Equal(t, domain.SubscriptionID("s3"), c.Valid[0].Subscription.ID)
	assert.Equal(t, 2, c.Valid[0].AlertCount)
	assert.Equal(t, domain.SubscriptionID("s4"), c.Errored[0].Subscription.ID)
	assert.Equal(t, "subscription is not active", c.Errored[0].Reason)

	// Inactive subscriptions are never probed for alerts.
	assert.NotContains(t, remote.listAlertsCalls, domain.SubscriptionID("s4"))
}

func TestScanIgnoresNonInsightAlertKinds(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "Budget Only")
	remote.alerts["s1"] = []domain.Alert{{Kind: "ScheduledAlert", ScheduleEnd: clock.Now().AddDate(0, 0, 365)}}

	reconciler := NewReconciler(remote, remote, clock)
	scan, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)

	require.Len(t, scan.Classification.NoAlert, 1)
}

func TestScanContinuesPastPerSubscriptionErrors(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "Check Fails")
	remote.addSubscription("s2", "Alerts Fail")
	remote.addSubscription("s3", "Fine")
	remote.activeErr["s1"] = errors.New("boom")
	remote.listAlertsErr["s2"] = &domain.APIError{StatusCode: 403, Body: "forbidden"}

	reconciler := NewReconciler(remote, remote, clock)
	scan, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)

	c := scan.Classification
	require.Len(t, c.Errored, 2)
	require.Len(t, c.NoAlert, 1)
	assert.Equal(t, domain.SubscriptionID("s3"), c.NoAlert[0].Subscription.ID)
	assert.Contains(t, c.Errored[1].Reason, "status 403")
}

func TestScanPausesBetweenBatchesOfTen(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	for i := 0; i < 25; i++ {
		remote.addSubscription(fmt.Sprintf("s%02d", i), fmt.Sprintf("Sub %02d", i))
	}

	reconciler := NewReconciler(remote, remote, clock)
	_, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)

	// 25 subscriptions = batches of 10/10/5, so two inter-batch pauses.
	require.Len(t, clock.sleeps, 2)
	assert.Equal(t, time.Second, clock.sleeps[0])
	assert.Equal(t, time.Second, clock.sleeps[1])
}

func TestApplyCreatesAndReplaces(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "Fresh")
	remote.addSubscription("s2", "Stale")
	remote.alerts["s2"] = []domain.Alert{{Kind: domain.AlertKindInsight, ScheduleEnd: clock.Now().AddDate(0, 0, -1)}}

	reconciler := NewReconciler(remote, remote, clock)
	scan, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)

	spec := domain.AlertSpec{Name: "dailyAnomalyByResource", Recipients: []string{"ops@example.com"}}
	apply, err := reconciler.Apply(context.Background(), scan.Classification.NeedsAction(), spec)
	require.NoError(t, err)

	require.Len(t, apply.Results, 2)
	assert.Equal(t, OutcomeCreated, apply.Results[0].Outcome)
	assert.Equal(t, OutcomeReplaced, apply.Results[1].Outcome)
	assert.Equal(t, 2, apply.Succeeded())
	assert.Equal(t, 0, apply.Failed())
}

func TestApplyRechecksActivityBeforeWriting(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "Vanishing")

	reconciler := NewReconciler(remote, remote, clock)
	scan, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)

	// The subscription goes inactive between classification and write.
	remote.inactive["s1"] = true

	spec := domain.AlertSpec{Name: "dailyAnomalyByResource", Recipients: []string{"ops@example.com"}}
	apply, err := reconciler.Apply(context.Background(), scan.Classification.NeedsAction(), spec)
	require.NoError(t, err)

	require.Len(t, apply.Results, 1)
	assert.Equal(t, OutcomeFailed, apply.Results[0].Outcome)
	assert.Equal(t, "subscription became inactive", apply.Results[0].Reason)
	assert.Empty(t, remote.putCalls)
}

func TestApplyFailureDoesNotStopRemainingWrites(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "Broken")
	remote.addSubscription("s2", "Fine")
	remote.putErr["s1"] = &domain.APIError{StatusCode: 409, Body: "conflict"}

	reconciler := NewReconciler(remote, remote, clock)
	scan, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)

	spec := domain.AlertSpec{Name: "dailyAnomalyByResource", Recipients: []string{"ops@example.com"}}
	apply, err := reconciler.Apply(context.Background(), scan.Classification.NeedsAction(), spec)
	require.NoError(t, err)

	require.Len(t, apply.Results, 2)
	assert.Equal(t, OutcomeFailed, apply.Results[0].Outcome)
	assert.Contains(t, apply.Results[0].Reason, "status 409")
	assert.Equal(t, OutcomeCreated, apply.Results[1].Outcome)
}

func TestApplyPausesAfterEachWrite(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "One")
	remote.addSubscription("s2", "Two")

	reconciler := NewReconciler(remote, remote, clock)
	scan, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)
	clock.sleeps = nil

	spec := domain.AlertSpec{Name: "dailyAnomalyByResource", Recipients: []string{"ops@example.com"}}
	_, err = reconciler.Apply(context.Background(), scan.Classification.NeedsAction(), spec)
	require.NoError(t, err)

	require.Len(t, clock.sleeps, 2)
	assert.Equal(t, 500*time.Millisecond, clock.sleeps[0])
}

func TestReconcileIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "Fresh")
	remote.addSubscription("s2", "Stale")
	remote.alerts["s2"] = []domain.Alert{{Kind: domain.AlertKindInsight, ScheduleEnd: clock.Now().AddDate(0, 0, -30)}}

	reconciler := NewReconciler(remote, remote, clock)
	spec := domain.AlertSpec{Name: "dailyAnomalyByResource", Recipients: []string{"ops@example.com"}}

	first, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)
	_, err = reconciler.Apply(context.Background(), first.Classification.NeedsAction(), spec)
	require.NoError(t, err)
	require.Len(t, remote.putCalls, 2)

	// Second pass over the now-unchanged remote finds only valid alerts.
	second, err := reconciler.Scan(context.Background(), remote.subscriptions)
	require.NoError(t, err)
	assert.Len(t, second.Classification.Valid, 2)
	assert.Empty(t, second.Classification.NeedsAction())

	_, err = reconciler.Apply(context.Background(), second.Classification.NeedsAction(), spec)
	require.NoError(t, err)
	assert.Len(t, remote.putCalls, 2)
}

func TestScanStopsOnContextCancellation(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(clock)
	remote.addSubscription("s1", "One")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reconciler := NewReconciler(remote, remote, clock)
	_, err := reconciler.Scan(ctx, remote.subscriptions)
	require.ErrorIs(t, err, context.Canceled)
}
