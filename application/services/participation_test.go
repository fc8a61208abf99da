package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hivemind/domain/hive"
	"hivemind/infrastructure/persistence/memory"
)

func trackerFixture(t *testing.T) (*ParticipationTracker, *memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	tracker := NewParticipationTracker(store.Manifests(), store.Participation(), zap.NewNop())

	manifest, err := store.Manifests().Create(context.Background(), &hive.Manifest{
		Namespace: hive.NewNamespace(),
		Title:     "tracked",
	})
	require.NoError(t, err)
	return tracker, store, manifest.ID
}

func TestMarkParticipantFirstEver(t *testing.T) {
	tracker, store, hiveID := trackerFixture(t)
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	require.NoError(t, tracker.MarkParticipant(context.Background(), "users/u1", hiveID, now))

	m, err := store.Manifests().Get(context.Background(), hiveID)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalParticipation)
	assert.Equal(t, []hive.DayBucket{{Date: "2026-08-29", Count: 1}}, m.DailyParticipation)
	assert.Equal(t, now, m.TimeOfLastParticipation)
}

func TestMarkParticipantSameDayOnlyTouches(t *testing.T) {
	tracker, store, hiveID := trackerFixture(t)
	morning := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	evening := morning.Add(8 * time.Hour)

	require.NoError(t, tracker.MarkParticipant(context.Background(), "users/u1", hiveID, morning))
	require.NoError(t, tracker.MarkParticipant(context.Background(), "users/u1", hiveID, evening))

	m, err := store.Manifests().Get(context.Background(), hiveID)
	require.NoError(t, err)
	// One bucket, one total, but the timestamp moved.
	assert.Equal(t, 1, m.TotalParticipation)
	assert.Equal(t, []hive.DayBucket{{Date: "2026-08-29", Count: 1}}, m.DailyParticipation)
	assert.Equal(t, evening, m.TimeOfLastParticipation)
}

func TestMarkParticipantNextDayBumpsBucketNotTotal(t *testing.T) {
	tracker, store, hiveID := trackerFixture(t)
	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	require.NoError(t, tracker.MarkParticipant(context.Background(), "users/u1", hiveID, today))
	require.NoError(t, tracker.MarkParticipant(context.Background(), "users/u1", hiveID, tomorrow))

	m, err := store.Manifests().Get(context.Background(), hiveID)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalParticipation)
	assert.Equal(t, []hive.DayBucket{
		{Date: "2026-08-29", Count: 1},
		{Date: "2026-08-30", Count: 1},
	}, m.DailyParticipation)
}

func TestMarkParticipantDistinctUsers(t *testing.T) {
	tracker, store, hiveID := trackerFixture(t)
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	require.NoError(t, tracker.MarkParticipant(context.Background(), "users/u1", hiveID, now))
	require.NoError(t, tracker.MarkParticipant(context.Background(), "users/u2", hiveID, now))

	m, err := store.Manifests().Get(context.Background(), hiveID)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalParticipation)
	assert.Equal(t, []hive.DayBucket{{Date: "2026-08-29", Count: 2}}, m.DailyParticipation)
}

func TestMarkPointCreated(t *testing.T) {
	tracker, store, hiveID := trackerFixture(t)
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	require.NoError(t, tracker.MarkPointCreated(context.Background(), hiveID, now))
	require.NoError(t, tracker.MarkPointCreated(context.Background(), hiveID, now))

	m, err := store.Manifests().Get(context.Background(), hiveID)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalPoints)
	assert.Equal(t, []hive.DayBucket{{Date: "2026-08-29", Count: 2}}, m.DailyPointCount)
}
