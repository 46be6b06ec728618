package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	wrapped := fmt.Errorf("meal not found: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "meal not found", Message(wrapped))

	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Equal(t, "not found", Message(ErrNotFound))
}
