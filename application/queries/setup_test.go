package queries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hivemind/domain/hive"
	"hivemind/infrastructure/persistence/memory"
)

// queryEnv seeds the in-memory store directly; the command paths have their
// own tests.
type queryEnv struct {
	store  *memory.Store
	logger *zap.Logger
}

func newQueryEnv() *queryEnv {
	return &queryEnv{store: memory.NewStore(), logger: zap.NewNop()}
}

// seedHive provisions a namespace and writes its manifest.
func (e *queryEnv) seedHive(t *testing.T, title string) *hive.Manifest {
	t.Helper()
	ctx := context.Background()
	ns := hive.NewNamespace()

	require.NoError(t, e.store.Provisioner().CreateGraph(ctx, ns.GraphName(), ns.PointCollection(), ns.SynapseCollection()))
	require.NoError(t, e.store.Provisioner().CreateSearchView(ctx, ns.ViewName(), ns.PointCollection(), "Label"))

	m, err := e.store.Manifests().Create(ctx, &hive.Manifest{
		Namespace:          ns,
		Title:              title,
		DateCreated:        time.Now().UTC(),
		DailyParticipation: []hive.DayBucket{},
		DailyPointCount:    []hive.DayBucket{},
	})
	require.NoError(t, err)
	return m
}

func (e *queryEnv) seedPoint(t *testing.T, ns hive.Namespace, label string) *hive.Point {
	t.Helper()
	p, err := e.store.Points().Create(context.Background(), ns.PointCollection(), &hive.Point{
		Label:       label,
		Type:        hive.TypeStatement,
		DateCreated: time.Now().UTC(),
		Responses:   hive.ResponseList{},
	})
	require.NoError(t, err)
	return p
}

func (e *queryEnv) seedSynapse(t *testing.T, ns hive.Namespace, fromID, toID string) *hive.Synapse {
	t.Helper()
	s, err := e.store.Synapses().Create(context.Background(), ns.SynapseCollection(), &hive.Synapse{
		From:        fromID,
		To:          toID,
		DateCreated: time.Now().UTC(),
		Responses:   hive.ResponseList{},
	})
	require.NoError(t, err)
	return s
}
