package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrNotEnrolled, "student S1 is not enrolled in CS101")

	assert.True(t, stderrors.Is(err, ErrNotEnrolled))
	assert.False(t, stderrors.Is(err, ErrAlreadyEnrolled))
	assert.Equal(t, "student S1 is not enrolled in CS101", err.Message)
	assert.Equal(t, ErrNotEnrolled.Code, err.Code)
	assert.Equal(t, ErrNotEnrolled.Status, err.Status)

	// An empty override keeps the sentinel message.
	assert.Equal(t, ErrConflict.Message, Clone(ErrConflict, "").Message)
	assert.Nil(t, Clone(nil, "ignored"))
}

func TestWrapChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Status, "failed to list users")

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, ErrInternal))
	assert.Contains(t, err.Error(), "failed to list users")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := FromError(Clone(ErrNotFound, "user not found"))
	require.NotNil(t, typed)
	assert.Equal(t, http.StatusNotFound, typed.Status)
	assert.Equal(t, "user not found", typed.Message)

	plain := FromError(stderrors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
}
