package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

func TestCreateSynapse(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	from := env.newPoint(t, owner.ID, manifest.ID, "premise")
	to := env.newPoint(t, owner.ID, manifest.ID, "conclusion")

	cmd := CreateSynapseCommand{
		UserID: owner.ID,
		HiveID: manifest.ID,
		FromID: from.ID,
		ToID:   to.ID,
		Result: &CreateSynapseResult{},
	}
	require.NoError(t, env.synapseHandler().Handle(context.Background(), cmd))

	require.NotNil(t, cmd.Result.Synapse)
	assert.False(t, cmd.Result.Duplicate)
	assert.Equal(t, from.ID, cmd.Result.Synapse.From)
	assert.Equal(t, to.ID, cmd.Result.Synapse.To)

	stored := env.getUser(t, owner.ID)
	assert.Equal(t, hive.ForSynapse(manifest.ID, cmd.Result.Synapse.ID).Encode(), stored.LastCreatedItem)
}

func TestCreateSynapseDuplicateIsNoop(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	from := env.newPoint(t, owner.ID, manifest.ID, "premise")
	to := env.newPoint(t, owner.ID, manifest.ID, "conclusion")

	first := CreateSynapseCommand{
		UserID: owner.ID, HiveID: manifest.ID, FromID: from.ID, ToID: to.ID,
		Result: &CreateSynapseResult{},
	}
	require.NoError(t, env.synapseHandler().Handle(context.Background(), first))
	stampAfterFirst := env.getUser(t, owner.ID).LastCreatedItem

	second := CreateSynapseCommand{
		UserID: owner.ID, HiveID: manifest.ID, FromID: from.ID, ToID: to.ID,
		Result: &CreateSynapseResult{},
	}
	require.NoError(t, env.synapseHandler().Handle(context.Background(), second))

	assert.True(t, second.Result.Duplicate)
	assert.Nil(t, second.Result.Synapse)
	// A duplicate leaves the stamp alone; it created nothing to undo.
	assert.Equal(t, stampAfterFirst, env.getUser(t, owner.ID).LastCreatedItem)
}

func TestCreateSynapseOppositeDirectionIsNotDuplicate(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	a := env.newPoint(t, owner.ID, manifest.ID, "a")
	b := env.newPoint(t, owner.ID, manifest.ID, "b")

	forward := CreateSynapseCommand{
		UserID: owner.ID, HiveID: manifest.ID, FromID: a.ID, ToID: b.ID,
		Result: &CreateSynapseResult{},
	}
	require.NoError(t, env.synapseHandler().Handle(context.Background(), forward))

	backward := CreateSynapseCommand{
		UserID: owner.ID, HiveID: manifest.ID, FromID: b.ID, ToID: a.ID,
		Result: &CreateSynapseResult{},
	}
	require.NoError(t, env.synapseHandler().Handle(context.Background(), backward))

	assert.False(t, backward.Result.Duplicate)
	require.NotNil(t, backward.Result.Synapse)
}

func TestCreateSynapseRejectsSelfLoop(t *testing.T) {
	cmd := CreateSynapseCommand{
		UserID: "users/u1",
		HiveID: "garden/h1",
		FromID: "st-abc/1",
		ToID:   "st-abc/1",
	}
	assert.Error(t, cmd.Validate())
}

func TestCreateSynapseRejectsMissingEndpoint(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	from := env.newPoint(t, owner.ID, manifest.ID, "premise")

	err := env.synapseHandler().Handle(context.Background(), CreateSynapseCommand{
		UserID: owner.ID,
		HiveID: manifest.ID,
		FromID: from.ID,
		ToID:   manifest.Namespace.PointCollection() + "/missing",
	})
	assert.True(t, errors.IsNotFound(err))
}
