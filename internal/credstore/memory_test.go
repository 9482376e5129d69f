package credstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	_, ok := store.Get(KeyToken)
	assert.False(t, ok, "absent key is not an error")

	require.NoError(t, store.Set(KeyToken, "abc"))
	got, ok := store.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "abc", got)

	require.NoError(t, store.Remove(KeyToken))
	_, ok = store.Get(KeyToken)
	assert.False(t, ok)

	require.NoError(t, store.Remove("never-set"))
}

func TestMemoryStoreWatch(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyUser, "{}"))
	require.NoError(t, store.Set(KeyToken, "t"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}

	// Both writes coalesce into one pending notification.
	select {
	case <-ch:
		t.Fatal("notifications should be coalesced")
	default:
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, time.Second, 10*time.Millisecond)
}
