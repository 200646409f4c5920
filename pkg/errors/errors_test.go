package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound(t *testing.T) {
	err := NewNotFound("alert", "alert-1")
	assert.Equal(t, http.StatusNotFound, err.Code)
	assert.Equal(t, "alert not found", err.Message)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestValidation(t *testing.T) {
	err := NewValidation("device_id is required")
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
}

func TestInvalidEnum(t *testing.T) {
	err := NewInvalidEnum("severity", "urgent")
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Contains(t, err.Details, "urgent")
}

func TestUnwrapThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading alert: %w", NewNotFound("alert", "alert-1"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusNotFound, GetStatusCode(wrapped))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "alert not found", appErr.Message)
}

func TestGetAppErrorOnPlainError(t *testing.T) {
	err := errors.New("disk full")
	assert.Nil(t, GetAppError(err))
	assert.False(t, IsAppError(err))
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(err))
}
