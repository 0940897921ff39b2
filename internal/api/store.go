package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"niftislice/pkg/volume"
)

// Entry is the volume currently being served
type Entry struct {
	ID       string
	Name     string
	LoadedAt time.Time
	Volume   *volume.Volume
}

// VolumeStore holds the active volume. The volume itself is immutable, so
// readers only need the lock to take a reference.
type VolumeStore struct {
	mu     sync.RWMutex
	active *Entry
	clock  func() time.Time
}

// NewVolumeStore creates an empty store
func NewVolumeStore() *VolumeStore {
	return &VolumeStore{clock: time.Now}
}

// Active returns the current entry, if any
func (s *VolumeStore) Active() (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != nil
}

// Replace installs a fully loaded volume and returns its entry. Renders
// already holding the previous entry finish against it.
func (s *VolumeStore) Replace(name string, vol *volume.Volume) *Entry {
	entry := &Entry{
		ID:       uuid.NewString(),
		Name:     name,
		LoadedAt: s.clock(),
		Volume:   vol,
	}

	s.mu.Lock()
	s.active = entry
	s.mu.Unlock()
	return entry
}

// Clear drops the active volume
func (s *VolumeStore) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.active != nil
	s.active = nil
	return had
}
