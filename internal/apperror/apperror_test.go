package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MatchesSentinelAndKind(t *testing.T) {
	errThing := New(ErrNotFound, "Could not locate thing.")
	wrapped := fmt.Errorf("lookup: %w", errThing)

	assert.ErrorIs(t, wrapped, errThing)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, []string{"Could not locate thing."}, Messages(wrapped))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("first", "second")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{"first", "second"}, Messages(err))
	assert.Nil(t, Messages(errors.New("plain")))
}
