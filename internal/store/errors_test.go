package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityErrorsWrapGenericOnes(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrDeckNotFound, ErrItemNotFound} {
		assert.True(t, IsNotFoundError(err), err.Error())
		assert.False(t, IsDuplicateError(err), err.Error())
	}
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.False(t, IsNotFoundError(ErrEmailExists))

	wrapped := fmt.Errorf("loading deck: %w", ErrDeckNotFound)
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, errors.Is(wrapped, ErrItemNotFound))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("deck", "create", "failed to insert deck", cause)

	assert.Equal(t, "create operation on deck failed: failed to insert deck: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("item", "upsert", "bad position", nil)
	assert.Equal(t, "upsert operation on item failed: bad position", bare.Error())
	assert.Nil(t, bare.Unwrap())

	var storeErr *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
	assert.Equal(t, "deck", storeErr.Entity)
}
