package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

func TestCreateDanglingPoint(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)

	cmd := CreatePointCommand{
		UserID: owner.ID,
		HiveID: manifest.ID,
		Label:  "water is wet",
		Links:  []string{"https://example.com/source"},
		Result: &CreatePointResult{},
	}
	require.NoError(t, env.pointHandler().Handle(context.Background(), cmd))

	point := cmd.Result.Point
	require.NotNil(t, point)
	assert.Nil(t, cmd.Result.Synapse)
	assert.Equal(t, hive.TypeStatement, point.Type)
	assert.NotEmpty(t, point.ID)

	// The stamp authorizes undoing exactly this point.
	stored := env.getUser(t, owner.ID)
	assert.Equal(t, hive.ForPoint(manifest.ID, point.ID).Encode(), stored.LastCreatedItem)

	updated := env.getManifest(t, manifest.ID)
	assert.Equal(t, 1, updated.TotalPoints)
	assert.Equal(t, 1, updated.TotalParticipation)
}

func TestCreatePointRejectsDanglingWhenDisallowed(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, false)

	err := env.pointHandler().Handle(context.Background(), CreatePointCommand{
		UserID: owner.ID,
		HiveID: manifest.ID,
		Label:  "floating claim",
	})
	assert.True(t, errors.IsValidation(err))
}

func TestCreateAnchoredPoint(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	anchor := env.newPoint(t, owner.ID, manifest.ID, "anchor")

	cmd := CreatePointCommand{
		UserID: owner.ID,
		HiveID: manifest.ID,
		Label:  "follows from the anchor",
		FromID: anchor.ID,
		Result: &CreatePointResult{},
	}
	require.NoError(t, env.pointHandler().Handle(context.Background(), cmd))

	require.NotNil(t, cmd.Result.Synapse)
	assert.Equal(t, anchor.ID, cmd.Result.Synapse.From)
	assert.Equal(t, cmd.Result.Point.ID, cmd.Result.Synapse.To)

	// A linked create stamps both items.
	stored := env.getUser(t, owner.ID)
	expected := hive.ForLinked(manifest.ID, cmd.Result.Point.ID, cmd.Result.Synapse.ID)
	assert.Equal(t, expected.Encode(), stored.LastCreatedItem)
}

func TestCreatePointAnchoredToTarget(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	anchor := env.newPoint(t, owner.ID, manifest.ID, "anchor")

	cmd := CreatePointCommand{
		UserID: owner.ID,
		HiveID: manifest.ID,
		Label:  "leads to the anchor",
		ToID:   anchor.ID,
		Result: &CreatePointResult{},
	}
	require.NoError(t, env.pointHandler().Handle(context.Background(), cmd))

	assert.Equal(t, cmd.Result.Point.ID, cmd.Result.Synapse.From)
	assert.Equal(t, anchor.ID, cmd.Result.Synapse.To)
}

func TestCreatePointRejectsBothAnchors(t *testing.T) {
	cmd := CreatePointCommand{
		UserID: "users/u1",
		HiveID: "garden/h1",
		Label:  "claim",
		FromID: "st-abc/1",
		ToID:   "st-abc/2",
	}
	assert.Error(t, cmd.Validate())
}

func TestCreatePointRejectsForeignAnchor(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)
	other := env.newHive(t, owner.ID, true)
	foreign := env.newPoint(t, owner.ID, other.ID, "elsewhere")

	err := env.pointHandler().Handle(context.Background(), CreatePointCommand{
		UserID: owner.ID,
		HiveID: manifest.ID,
		Label:  "claim",
		FromID: foreign.ID,
	})
	assert.True(t, errors.IsValidation(err))
}

func TestCreatePointRejectsBadLink(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")
	manifest := env.newHive(t, owner.ID, true)

	err := env.pointHandler().Handle(context.Background(), CreatePointCommand{
		UserID: owner.ID,
		HiveID: manifest.ID,
		Label:  "claim",
		Links:  []string{"   "},
	})
	assert.True(t, errors.IsValidation(err))
}

func TestCreatePointUnknownHive(t *testing.T) {
	env := newTestEnv()
	owner := env.newUser(t, "owner")

	err := env.pointHandler().Handle(context.Background(), CreatePointCommand{
		UserID: owner.ID,
		HiveID: "garden/missing",
		Label:  "claim",
	})
	assert.True(t, errors.IsNotFound(err))
}
