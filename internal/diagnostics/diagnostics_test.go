package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := New(InvalidCommand, "slot %d out of range", 200)
	target := New(InvalidCommand, "")

	assert.True(t, errors.Is(err, target))
	assert.False(t, errors.Is(err, New(MissingTag, "")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(TransportError, cause, "send failed")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "TransportError")
}

func TestOf(t *testing.T) {
	err := New(CompileFailed, "exit 1")
	assert.True(t, Of(err, CompileFailed))
	assert.False(t, Of(err, InvalidName))
	assert.False(t, Of(fmt.Errorf("plain"), CompileFailed))
}

func TestWarningIsNotAnError(t *testing.T) {
	w := NewWarning("unknown switch %q", "leaf9")
	var asErr *Error
	assert.False(t, errors.As(error(w), &asErr))
	assert.Equal(t, `unknown switch "leaf9"`, w.Error())
}
