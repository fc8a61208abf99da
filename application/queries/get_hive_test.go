package queries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

func TestGetHiveProjectsHistoryWindow(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "windowed")
	today := hive.DayOf(time.Now().UTC())

	require.NoError(t, env.store.Manifests().BumpParticipation(
		context.Background(), manifest.ID, today, time.Now().UTC(), true))

	handler := NewGetHiveHandler(env.store.Manifests(), 30, env.logger)
	result, err := handler.Handle(context.Background(), GetHiveQuery{
		UserID: "users/u1",
		HiveID: manifest.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, manifest.ID, result.ID)
	assert.Len(t, result.DailyParticipation, 30)
	assert.Len(t, result.DailyPointCount, 30)
	// Today is the last slot of the window.
	assert.Equal(t, 1, result.DailyParticipation[29])
	assert.Equal(t, 1, result.TotalParticipation)
}

func TestGetHiveCompactsStaleHistory(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "stale")

	// Pile up buckets far beyond the retention window.
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		require.NoError(t, env.store.Manifests().BumpParticipation(
			context.Background(), manifest.ID, hive.DayOf(day), day, false))
		day = day.AddDate(0, 0, 1)
	}

	handler := NewGetHiveHandler(env.store.Manifests(), 30, env.logger)
	_, err := handler.Handle(context.Background(), GetHiveQuery{
		UserID: "users/u1",
		HiveID: manifest.ID,
	})
	require.NoError(t, err)

	// The compacted manifest was persisted.
	stored, err := env.store.Manifests().Get(context.Background(), manifest.ID)
	require.NoError(t, err)
	assert.Len(t, stored.DailyParticipation, 30)
}

func TestGetHiveNotFound(t *testing.T) {
	env := newQueryEnv()

	handler := NewGetHiveHandler(env.store.Manifests(), 30, env.logger)
	_, err := handler.Handle(context.Background(), GetHiveQuery{
		UserID: "users/u1",
		HiveID: "garden/missing",
	})
	assert.True(t, errors.IsNotFound(err))
}
