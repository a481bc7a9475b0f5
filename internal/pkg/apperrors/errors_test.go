package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorUnwrapsSentinel(t *testing.T) {
	err := NewCustomError(ErrStorage, "failed to write student fields").
		WithDetails(map[string]interface{}{"path": "students/CSE/A-III/21CSE045"})

	assert.True(t, errors.Is(err, ErrStorage))
	assert.Equal(t, "failed to write student fields", err.Error())

	var ce *CustomError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "students/CSE/A-III/21CSE045", ce.Details["path"])
}

func TestConstructorsWrapTheirSentinels(t *testing.T) {
	assert.True(t, errors.Is(NewResourceNotFoundError("gone"), ErrResourceNotFound))
	assert.True(t, errors.Is(NewBadRequestError("nope"), ErrBadRequest))
}

func TestIsMatchesAnyTarget(t *testing.T) {
	err := NewCustomError(ErrOperationCancelled, "run cancelled")

	assert.True(t, Is(err, ErrOperationCancelled))
	assert.True(t, Is(err, ErrStorage, ErrOperationCancelled), "later targets still match")
	assert.False(t, Is(err, ErrStorage, ErrBadRequest))
}
