// Package localstore emulates browser local storage for the portal: a small
// key/value space per device that survives page loads and has no expiry.
package localstore

import "context"

// Backend persists items for every device
type Backend interface {
	GetItem(ctx context.Context, deviceID, key string) (string, bool, error)
	SetItem(ctx context.Context, deviceID, key, value string) error
	RemoveItem(ctx context.Context, deviceID, key string) error
	Close() error
}

// Storage is the item space of a single device
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

type deviceStorage struct {
	backend  Backend
	deviceID string
}

// ForDevice scopes a backend to one device
func ForDevice(backend Backend, deviceID string) Storage {
	return &deviceStorage{backend: backend, deviceID: deviceID}
}

func (s *deviceStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.backend.GetItem(ctx, s.deviceID, key)
}

func (s *deviceStorage) SetItem(ctx context.Context, key, value string) error {
	return s.backend.SetItem(ctx, s.deviceID, key, value)
}

func (s *deviceStorage) RemoveItem(ctx context.Context, key string) error {
	return s.backend.RemoveItem(ctx, s.deviceID, key)
}
