package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hivemind/infrastructure/persistence/memory"
	"hivemind/pkg/errors"
)

func accountFixture() *AccountService {
	return NewAccountService(memory.NewStore().Users(), zap.NewNop())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	accounts := accountFixture()

	created, err := accounts.Register(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)

	authed, err := accounts.Authenticate(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, created.ID, authed.ID)
}

func TestRegisterTrimsUsername(t *testing.T) {
	accounts := accountFixture()

	created, err := accounts.Register(context.Background(), "  bob  ", "long-enough-pass")
	require.NoError(t, err)
	assert.Equal(t, "bob", created.Username)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	accounts := accountFixture()

	_, err := accounts.Register(context.Background(), "carol", "short")
	assert.True(t, errors.IsValidation(err))
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	accounts := accountFixture()

	_, err := accounts.Register(context.Background(), "dave", "long-enough-pass")
	require.NoError(t, err)

	_, err = accounts.Register(context.Background(), "dave", "another-password")
	assert.True(t, errors.IsConflict(err))
}

func TestAuthenticateWrongPassword(t *testing.T) {
	accounts := accountFixture()

	_, err := accounts.Register(context.Background(), "erin", "long-enough-pass")
	require.NoError(t, err)

	_, err = accounts.Authenticate(context.Background(), "erin", "wrong-password")
	assert.True(t, errors.IsUnauthorized(err))
}

func TestAuthenticateUnknownUser(t *testing.T) {
	accounts := accountFixture()

	// Unknown users and wrong passwords look the same to the caller.
	_, err := accounts.Authenticate(context.Background(), "nobody", "whatever-pass")
	assert.True(t, errors.IsUnauthorized(err))
}
