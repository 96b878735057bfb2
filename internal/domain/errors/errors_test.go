package errors

import (
	"net/http"
	"testing"

	"planmap/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("A: latitude out of range")

	assert.ErrorIs(t, detailed, ErrValidationFailed)
	assert.Equal(t, "A: latitude out of range", detailed.Details())
	// The sentinel itself is untouched.
	assert.Empty(t, ErrValidationFailed.Details())
}

func TestBaseError_IsComparesErrorCodes(t *testing.T) {
	assert.NotErrorIs(t, ErrNoOrders, ErrNoDepot)
	assert.NotErrorIs(t, ErrNoOrders, errors.New("no orders"))
}

func TestBaseError_WrapMessageStaysAnAppError(t *testing.T) {
	wrapped := ErrPlanNotFound.WrapMessage("loading plan demo")

	var appErr AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode())
	assert.Contains(t, wrapped.Error(), "loading plan demo")
}

func TestDatabaseExecuteError(t *testing.T) {
	err := NewDatabaseExecuteError(errors.New("connection reset"), "failed to save snapshot")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.Equal(t, "failed to save snapshot", err.Details())
	assert.Contains(t, err.Error(), "connection reset")
}
