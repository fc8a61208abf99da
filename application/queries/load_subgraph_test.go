package queries

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

func TestLoadSubgraphBoundedDepth(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "deep chain")
	ns := manifest.Namespace

	// A chain one hop longer than the traversal bound.
	chain := make([]*hive.Point, SubgraphDepth+2)
	for i := range chain {
		chain[i] = env.seedPoint(t, ns, fmt.Sprintf("link %d", i))
		if i > 0 {
			env.seedSynapse(t, ns, chain[i-1].ID, chain[i].ID)
		}
	}

	handler := NewLoadSubgraphHandler(env.store.Manifests(), env.store.Points(), env.store.Traverser(), env.logger)
	result, err := handler.Handle(context.Background(), LoadSubgraphQuery{
		UserID:   "users/u1",
		HiveID:   manifest.ID,
		OriginID: chain[0].ID,
	})
	require.NoError(t, err)

	assert.Equal(t, chain[0].ID, result.Origin)
	assert.Len(t, result.Points, SubgraphDepth+1)
	assert.Len(t, result.Synapses, SubgraphDepth)

	reached := make(map[string]bool)
	for _, p := range result.Points {
		reached[p.ID] = true
	}
	assert.True(t, reached[chain[SubgraphDepth].ID])
	assert.False(t, reached[chain[SubgraphDepth+1].ID])
}

func TestLoadSubgraphDeduplicatesDiamond(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "diamond")
	ns := manifest.Namespace

	top := env.seedPoint(t, ns, "top")
	left := env.seedPoint(t, ns, "left")
	right := env.seedPoint(t, ns, "right")
	bottom := env.seedPoint(t, ns, "bottom")
	env.seedSynapse(t, ns, top.ID, left.ID)
	env.seedSynapse(t, ns, top.ID, right.ID)
	env.seedSynapse(t, ns, left.ID, bottom.ID)
	env.seedSynapse(t, ns, right.ID, bottom.ID)

	handler := NewLoadSubgraphHandler(env.store.Manifests(), env.store.Points(), env.store.Traverser(), env.logger)
	result, err := handler.Handle(context.Background(), LoadSubgraphQuery{
		UserID:   "users/u1",
		HiveID:   manifest.ID,
		OriginID: top.ID,
	})
	require.NoError(t, err)

	// Bottom is reachable along two paths but appears once; both of its
	// inbound synapses still come back.
	assert.Len(t, result.Points, 4)
	assert.Len(t, result.Synapses, 4)
}

func TestLoadSubgraphIgnoresOtherHives(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "mine")
	other := env.seedHive(t, "theirs")

	origin := env.seedPoint(t, manifest.Namespace, "origin")
	env.seedPoint(t, other.Namespace, "unrelated")

	handler := NewLoadSubgraphHandler(env.store.Manifests(), env.store.Points(), env.store.Traverser(), env.logger)
	result, err := handler.Handle(context.Background(), LoadSubgraphQuery{
		UserID:   "users/u1",
		HiveID:   manifest.ID,
		OriginID: origin.ID,
	})
	require.NoError(t, err)

	assert.Len(t, result.Points, 1)
	assert.Empty(t, result.Synapses)
}

func TestLoadSubgraphRejectsSynapseOrigin(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "hive")
	a := env.seedPoint(t, manifest.Namespace, "a")
	b := env.seedPoint(t, manifest.Namespace, "b")
	s := env.seedSynapse(t, manifest.Namespace, a.ID, b.ID)

	handler := NewLoadSubgraphHandler(env.store.Manifests(), env.store.Points(), env.store.Traverser(), env.logger)
	_, err := handler.Handle(context.Background(), LoadSubgraphQuery{
		UserID:   "users/u1",
		HiveID:   manifest.ID,
		OriginID: s.ID,
	})
	assert.True(t, errors.IsValidation(err))
}

func TestLoadSubgraphMissingOrigin(t *testing.T) {
	env := newQueryEnv()
	manifest := env.seedHive(t, "hive")

	handler := NewLoadSubgraphHandler(env.store.Manifests(), env.store.Points(), env.store.Traverser(), env.logger)
	_, err := handler.Handle(context.Background(), LoadSubgraphQuery{
		UserID:   "users/u1",
		HiveID:   manifest.ID,
		OriginID: manifest.Namespace.PointCollection() + "/missing",
	})
	assert.True(t, errors.IsNotFound(err))
}
