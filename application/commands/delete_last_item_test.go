package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

func deleteLastItem(t *testing.T, env *testEnv, userID string) DeleteOutcome {
	t.Helper()
	cmd := DeleteLastItemCommand{UserID: userID, Result: &DeleteResult{}}
	require.NoError(t, env.deleteHandler().Handle(context.Background(), cmd))
	return cmd.Result.Outcome
}

func TestDeleteLastPoint(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	point := env.newPoint(t, owner.ID, manifest.ID, "regret")

	outcome := deleteLastItem(t, env, owner.ID)

	assert.Equal(t, OutcomeDeleted, outcome)

	ref, _ := hive.ParseItemRef(point.ID)
	_, err := env.store.Points().Get(context.Background(), ref)
	assert.True(t, errors.IsNotFound(err))

	// Stamp is one-shot: it is gone after a successful delete.
	assert.Empty(t, env.getUser(t, owner.ID).LastCreatedItem)

	updated := env.getManifest(t, manifest.ID)
	assert.Equal(t, 0, updated.TotalPoints)
	assert.Equal(t, 0, updated.TotalParticipation)
}

func TestDeleteLinkedCreateRemovesBoth(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	anchor := env.newPoint(t, owner.ID, manifest.ID, "anchor")

	linked := CreatePointCommand{
		UserID: owner.ID, HiveID: manifest.ID, Label: "attached",
		FromID: anchor.ID, Result: &CreatePointResult{},
	}
	require.NoError(t, env.pointHandler().Handle(context.Background(), linked))

	outcome := deleteLastItem(t, env, owner.ID)
	assert.Equal(t, OutcomeDeleted, outcome)

	pointRef, _ := hive.ParseItemRef(linked.Result.Point.ID)
	_, err := env.store.Points().Get(context.Background(), pointRef)
	assert.True(t, errors.IsNotFound(err))

	synapseRef, _ := hive.ParseItemRef(linked.Result.Synapse.ID)
	_, err = env.store.Synapses().Get(context.Background(), synapseRef)
	assert.True(t, errors.IsNotFound(err))

	// The anchor stays.
	anchorRef, _ := hive.ParseItemRef(anchor.ID)
	_, err = env.store.Points().Get(context.Background(), anchorRef)
	assert.NoError(t, err)
}

func TestDeleteNothingToUndo(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")

	err := env.deleteHandler().Handle(context.Background(), DeleteLastItemCommand{UserID: owner.ID})
	assert.True(t, errors.IsValidation(err))
}

func TestDeleteMissingItemClearsStamp(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	point := env.newPoint(t, owner.ID, manifest.ID, "fleeting")

	// Someone removed the point out from under the stamp.
	ref, _ := hive.ParseItemRef(point.ID)
	require.NoError(t, env.store.Points().Remove(context.Background(), ref))

	outcome := deleteLastItem(t, env, owner.ID)

	assert.Equal(t, OutcomeMissing, outcome)
	assert.Empty(t, env.getUser(t, owner.ID).LastCreatedItem)
}

func TestDeleteDeniedWhenRespondedTo(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	reader := env.newUser(t, "reader")
	manifest := env.newHive(t, owner.ID, true)
	point := env.newPoint(t, owner.ID, manifest.ID, "contested")

	require.NoError(t, env.respondHandler().Handle(context.Background(), RespondCommand{
		UserID: reader.ID, HiveID: manifest.ID, ItemID: point.ID, Agrees: false,
	}))

	outcome := deleteLastItem(t, env, owner.ID)

	assert.Equal(t, OutcomeRespondedTo, outcome)
	// A denial keeps the stamp; the item might become deletable again.
	assert.NotEmpty(t, env.getUser(t, owner.ID).LastCreatedItem)

	ref, _ := hive.ParseItemRef(point.ID)
	_, err := env.store.Points().Get(context.Background(), ref)
	assert.NoError(t, err)
}

func TestDeleteOwnResponseDoesNotBlock(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	point := env.newPoint(t, owner.ID, manifest.ID, "self-reviewed")

	require.NoError(t, env.respondHandler().Handle(context.Background(), RespondCommand{
		UserID: owner.ID, HiveID: manifest.ID, ItemID: point.ID, Agrees: true,
	}))

	outcome := deleteLastItem(t, env, owner.ID)
	assert.Equal(t, OutcomeDeleted, outcome)
}

func TestDeleteDeniedWhenConnectedTo(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	other := env.newUser(t, "other")
	manifest := env.newHive(t, owner.ID, true)
	anchor := env.newPoint(t, other.ID, manifest.ID, "anchor")

	linked := CreatePointCommand{
		UserID: owner.ID, HiveID: manifest.ID, Label: "attached",
		FromID: anchor.ID, Result: &CreatePointResult{},
	}
	require.NoError(t, env.pointHandler().Handle(context.Background(), linked))

	// Another user wires a second synapse onto the stamped point.
	require.NoError(t, env.synapseHandler().Handle(context.Background(), CreateSynapseCommand{
		UserID: other.ID, HiveID: manifest.ID,
		FromID: linked.Result.Point.ID, ToID: anchor.ID,
		Result: &CreateSynapseResult{},
	}))

	outcome := deleteLastItem(t, env, owner.ID)

	assert.Equal(t, OutcomeConnectedTo, outcome)
	assert.NotEmpty(t, env.getUser(t, owner.ID).LastCreatedItem)
}
