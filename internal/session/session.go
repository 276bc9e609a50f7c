// Package session persists the logged-in doctor in device local storage.
// A stored session has no expiry and is never revalidated with the backend.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/localstore"
)

// StorageKey is the single local storage item the portal writes
const StorageKey = "doctorSession"

// Store reads and writes the doctor session of one device
type Store struct {
	storage localstore.Storage
}

func NewStore(storage localstore.Storage) *Store {
	return &Store{storage: storage}
}

// Load returns the persisted session, or nil when there is none.
// A value that does not parse is removed and treated as no session; a
// stored JSON null is left alone and also means no session.
func (s *Store) Load(ctx context.Context) *api.DoctorSession {
	raw, ok, err := s.storage.GetItem(ctx, StorageKey)
	if err != nil {
		log.Printf("[ERROR] Failed to read stored doctor session: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var doctor *api.DoctorSession
	if err := json.Unmarshal([]byte(raw), &doctor); err != nil {
		log.Printf("[WARN] Discarding malformed doctor session: %v", err)
		if err := s.storage.RemoveItem(ctx, StorageKey); err != nil {
			log.Printf("[ERROR] Failed to remove malformed doctor session: %v", err)
		}
		return nil
	}
	return doctor
}

// Save writes the session
func (s *Store) Save(ctx context.Context, doctor api.DoctorSession) error {
	raw, err := json.Marshal(doctor)
	if err != nil {
		return fmt.Errorf("failed to encode doctor session: %w", err)
	}
	if err := s.storage.SetItem(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("failed to store doctor session: %w", err)
	}
	return nil
}

// Clear removes the session
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear doctor session: %w", err)
	}
	return nil
}
