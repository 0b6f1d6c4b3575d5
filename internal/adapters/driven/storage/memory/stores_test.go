package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
)

func TestIndexStore_Lifecycle(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()

	state, err := store.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.IndexStateAbsent, state)

	_, _, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrIndexAbsent)
	_, err = store.Meta(ctx)
	assert.ErrorIs(t, err, domain.ErrIndexAbsent)

	snap, err := domain.NewSnapshot([][]float32{{1, 0}}, []string{"a"}, []string{"text a"})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, snap, driven.IndexMeta{Model: "m"}))
	assert.Equal(t, 1, store.Saves())

	loaded, meta, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, snap, loaded)
	assert.Equal(t, "m", meta.Model)

	meta, err = store.Meta(ctx)
	require.NoError(t, err)
	assert.Equal(t, driven.IndexMeta{Model: "m", Documents: 1, Dimension: 2}, meta)

	store.SaveErr = errors.New("disk full")
	assert.Error(t, store.Save(ctx, snap, driven.IndexMeta{}))
	assert.Equal(t, 1, store.Saves())

	require.NoError(t, store.Clear(ctx))
	state, err = store.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.IndexStateAbsent, state)
}

func TestBookingStore_Lifecycle(t *testing.T) {
	store := NewBookingStore()
	ctx := context.Background()

	req := domain.BookingRequest{Name: "Rahim", Provider: "Hanif"}
	first, err := store.Create(ctx, req)
	require.NoError(t, err)
	second, err := store.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, first.ID), domain.ErrNotFound)
	assert.NoError(t, store.Close())
}
