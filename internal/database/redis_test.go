package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisCodeStore_NilClient(t *testing.T) {
	store := NewRedisCodeStore(nil)
	ctx := context.Background()

	// Every operation must degrade to a typed error, not a panic, so the
	// API keeps serving when Redis never connected.
	err := store.Set(ctx, "verify:alice@example.com", "123456", time.Minute)
	assert.ErrorIs(t, err, ErrCodeStoreUnavailable)

	_, err = store.Get(ctx, "verify:alice@example.com")
	assert.ErrorIs(t, err, ErrCodeStoreUnavailable)

	err = store.Del(ctx, "verify:alice@example.com")
	assert.ErrorIs(t, err, ErrCodeStoreUnavailable)
}
