package ipcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatsMessage(t *testing.T) {
	err := New(Truncated, "need %d bytes, got %d", 8, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
	assert.Contains(t, err.Error(), "need 8 bytes, got 3")
}

func TestWrap_UnwrapsCause(t *testing.T) {
	cause := errors.New("short read")
	err := Wrap(Truncated, cause, "read message prefix")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "short read")
}

func TestIs_MatchesByKindOnly(t *testing.T) {
	err := New(SchemaMismatch, "id: int32 vs int64")

	assert.True(t, Is(err, SchemaMismatch))
	assert.False(t, Is(err, Truncated))
}

func TestOf_ReturnsKindForWrappedError(t *testing.T) {
	err := Wrap(BadMagic, errors.New("boom"), "bad header")

	kind, ok := Of(err)
	require.True(t, ok)
	assert.Equal(t, BadMagic, kind)

	_, ok = Of(errors.New("not one of ours"))
	assert.False(t, ok)
}

func TestErrors_Is_AcrossTwoInstances(t *testing.T) {
	a := New(InvalidState, "first")
	b := New(InvalidState, "second")

	assert.True(t, errors.Is(a, b))
}
