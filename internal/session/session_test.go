package session

import (
	"context"
	"errors"
	"testing"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage() localstore.Storage {
	return localstore.ForDevice(localstore.NewMemoryBackend(), "device-1")
}

func TestStore_RoundTrip(t *testing.T) {
	storage := newStorage()
	ctx := context.Background()
	doctor := api.DoctorSession{ID: 4, Name: "Meredith Grey", Email: "grey@example.com", Specialization: "General Surgery", IsVerified: true}

	require.NoError(t, NewStore(storage).Save(ctx, doctor))

	// a new store over the same storage simulates a page reload
	loaded := NewStore(storage).Load(ctx)
	require.NotNil(t, loaded)
	assert.Equal(t, doctor, *loaded)
}

func TestStore_LoadEmpty(t *testing.T) {
	assert.Nil(t, NewStore(newStorage()).Load(context.Background()))
}

func TestStore_LoadCorrupt(t *testing.T) {
	storage := newStorage()
	ctx := context.Background()
	require.NoError(t, storage.SetItem(ctx, StorageKey, "{not json"))

	assert.Nil(t, NewStore(storage).Load(ctx))

	_, ok, err := storage.GetItem(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "malformed session should be removed")
}

func TestStore_LoadNull(t *testing.T) {
	storage := newStorage()
	ctx := context.Background()
	require.NoError(t, storage.SetItem(ctx, StorageKey, "null"))

	assert.Nil(t, NewStore(storage).Load(ctx))

	raw, ok, err := storage.GetItem(ctx, StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "null", raw)
}

func TestStore_Clear(t *testing.T) {
	storage := newStorage()
	ctx := context.Background()
	store := NewStore(storage)

	require.NoError(t, store.Save(ctx, api.DoctorSession{ID: 1}))
	require.NoError(t, store.Clear(ctx))
	assert.Nil(t, store.Load(ctx))
}

type brokenStorage struct{}

func (brokenStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("redis down")
}
func (brokenStorage) SetItem(ctx context.Context, key, value string) error {
	return errors.New("redis down")
}
func (brokenStorage) RemoveItem(ctx context.Context, key string) error {
	return errors.New("redis down")
}

func TestStore_StorageFailure(t *testing.T) {
	store := NewStore(brokenStorage{})
	ctx := context.Background()

	assert.Nil(t, store.Load(ctx), "read failure is treated as no session")
	assert.Error(t, store.Save(ctx, api.DoctorSession{ID: 1}))
	assert.Error(t, store.Clear(ctx))
}
