package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoadMissing(t *testing.T) {
	store := NewMemory()
	_, err := store.Load(context.Background(), NamespaceTimer)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySaveCopiesPayload(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	payload := []byte(`{"a":1}`)
	require.NoError(t, store.Save(ctx, NamespaceReviews, payload))

	payload[2] = 'b'
	loaded, err := store.Load(ctx, NamespaceReviews)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(loaded))

	_, err = store.Load(ctx, NamespaceTimer)
	assert.ErrorIs(t, err, ErrNotFound)
}
