package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassificationSurvivesWrapping(t *testing.T) {
	err := NewNotFoundError("point")
	wrapped := Wrap(err, "load stamped item")

	assert.True(t, IsNotFound(wrapped))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("boom"), "do thing")

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeInternal, appErr.Type)
	assert.True(t, IsType(wrapped, ErrorTypeInternal))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestHTTPStatusPerType(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidationError("x").HTTPStatus)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("x").HTTPStatus)
	assert.Equal(t, http.StatusConflict, NewConflictError("x").HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorizedError("x").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("x").HTTPStatus)
}

func TestDatabaseErrorKeepsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewDatabaseError("create point", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create point")
}
