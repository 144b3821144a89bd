package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok := store.Get(ctx, "feed")
	assert.False(t, ok)

	store.Set(ctx, "feed", []byte("blob"), time.Minute)
	got, ok := store.Get(ctx, "feed")
	assert.True(t, ok)
	assert.Equal(t, []byte("blob"), got)
}

func TestMemoryStoreLastWriterWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "feed", []byte("first"), time.Minute)
	store.Set(ctx, "feed", []byte("second"), time.Minute)

	got, ok := store.Get(ctx, "feed")
	assert.True(t, ok)
	assert.Equal(t, []byte("second"), got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(ctx, "feed", []byte("blob"), 20*time.Second)

	now = now.Add(19 * time.Second)
	_, ok := store.Get(ctx, "feed")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = store.Get(ctx, "feed")
	assert.False(t, ok)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "feed", []byte("blob"), time.Minute)
	store.Clear(ctx, "feed")

	_, ok := store.Get(ctx, "feed")
	assert.False(t, ok)
}

func TestMemoryStoreDefaultTTL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(ctx, "feed", []byte("blob"), 0)

	now = now.Add(defaultTTL - time.Second)
	_, ok := store.Get(ctx, "feed")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = store.Get(ctx, "feed")
	assert.False(t, ok)
}
