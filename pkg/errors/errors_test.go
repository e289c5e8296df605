package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", Wrap(errors.New("bad id"), ErrInconsistentData.Code, ErrInconsistentData.Status, ErrInconsistentData.Message))

	appErr := FromError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "INCONSISTENT_DATA", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.True(t, errors.Is(wrapped, ErrInconsistentData))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))
}

func TestClone(t *testing.T) {
	clone := Clone(ErrNotFound, "report not found")
	assert.Equal(t, "report not found", clone.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}
