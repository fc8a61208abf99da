package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hivemind/application/services"
	"hivemind/domain/hive"
	"hivemind/domain/user"
	"hivemind/infrastructure/persistence/memory"
)

// testEnv wires command handlers against the in-memory store.
type testEnv struct {
	store   *memory.Store
	tracker *services.ParticipationTracker
	logger  *zap.Logger
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	logger := zap.NewNop()
	return &testEnv{
		store:   store,
		tracker: services.NewParticipationTracker(store.Manifests(), store.Participation(), logger),
		logger:  logger,
	}
}

func (e *testEnv) newUser(t *testing.T, name string) *user.User {
	t.Helper()
	u, err := e.store.Users().Create(context.Background(), &user.User{Username: name})
	require.NoError(t, err)
	return u
}

func (e *testEnv) hiveHandler() *CreateHiveHandler {
	return NewCreateHiveHandler(
		e.store.Manifests(), e.store.SavedHives(), e.store.Users(), e.store.Provisioner(),
		e.pointHandler(), e.tracker, e.logger)
}

// newHive creates a hive; a non-dangling hive gets a seed point, since that
// is the only way the flag comes out false.
func (e *testEnv) newHive(t *testing.T, userID string, allowDangling bool) *hive.Manifest {
	t.Helper()
	cmd := CreateHiveCommand{
		UserID: userID,
		Title:  "Test Hive",
		Result: &CreateHiveResult{},
	}
	if !allowDangling {
		cmd.Seed = "seed claim"
	}
	require.NoError(t, e.hiveHandler().Handle(context.Background(), cmd))
	return cmd.Result.Manifest
}

func (e *testEnv) pointHandler() *CreatePointHandler {
	return NewCreatePointHandler(
		e.store.Points(), e.store.Synapses(), e.store.Manifests(), e.store.Users(), e.tracker, e.logger)
}

func (e *testEnv) synapseHandler() *CreateSynapseHandler {
	return NewCreateSynapseHandler(
		e.store.Points(), e.store.Synapses(), e.store.Manifests(), e.store.Users(), e.tracker, e.logger)
}

func (e *testEnv) respondHandler() *RespondHandler {
	return NewRespondHandler(
		e.store.Points(), e.store.Synapses(), e.store.Manifests(), e.tracker, e.logger)
}

func (e *testEnv) deleteHandler() *DeleteLastItemHandler {
	return NewDeleteLastItemHandler(
		e.store.Points(), e.store.Synapses(), e.store.Manifests(), e.store.Users(), e.logger)
}

// newPoint creates a dangling point and returns it.
func (e *testEnv) newPoint(t *testing.T, userID, hiveID, label string) *hive.Point {
	t.Helper()
	cmd := CreatePointCommand{
		UserID: userID,
		HiveID: hiveID,
		Label:  label,
		Result: &CreatePointResult{},
	}
	require.NoError(t, e.pointHandler().Handle(context.Background(), cmd))
	return cmd.Result.Point
}

func (e *testEnv) getUser(t *testing.T, userID string) *user.User {
	t.Helper()
	u, err := e.store.Users().GetByID(context.Background(), userID)
	require.NoError(t, err)
	return u
}

func (e *testEnv) getManifest(t *testing.T, hiveID string) *hive.Manifest {
	t.Helper()
	m, err := e.store.Manifests().Get(context.Background(), hiveID)
	require.NoError(t, err)
	return m
}
