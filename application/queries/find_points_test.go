package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivemind/pkg/errors"
)

func TestFindPointsMatchesLabels(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "searchable")
	ns := manifest.Namespace

	env.seedPoint(t, ns, "taxes fund roads")
	env.seedPoint(t, ns, "roads need maintenance")
	env.seedPoint(t, ns, "unrelated claim")

	handler := NewFindPointsHandler(env.store.Manifests(), env.store.Points(), env.logger)
	results, err := handler.Handle(context.Background(), FindPointsQuery{
		UserID: "users/u1",
		HiveID: manifest.ID,
		Phrase: "roads",
	})
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, r.Label, "roads")
	}
}

func TestFindPointsScopedToHive(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "mine")
	other := env.seedHive(t, "theirs")

	env.seedPoint(t, manifest.Namespace, "shared topic")
	env.seedPoint(t, other.Namespace, "shared topic elsewhere")

	handler := NewFindPointsHandler(env.store.Manifests(), env.store.Points(), env.logger)
	results, err := handler.Handle(context.Background(), FindPointsQuery{
		UserID: "users/u1",
		HiveID: manifest.ID,
		Phrase: "shared",
	})
	require.NoError(t, err)

	assert.Len(t, results, 1)
}

func TestFindPointsNoMatches(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "empty")
	env.seedPoint(t, manifest.Namespace, "some claim")

	handler := NewFindPointsHandler(env.store.Manifests(), env.store.Points(), env.logger)
	results, err := handler.Handle(context.Background(), FindPointsQuery{
		UserID: "users/u1",
		HiveID: manifest.ID,
		Phrase: "zebra",
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindPointsUnknownHive(t *testing.T) {
	env := newQueryEnv()

	handler := NewFindPointsHandler(env.store.Manifests(), env.store.Points(), env.logger)
	_, err := handler.Handle(context.Background(), FindPointsQuery{
		UserID: "users/u1",
		HiveID: "garden/missing",
		Phrase: "anything",
	})
	assert.True(t, errors.IsNotFound(err))
}
