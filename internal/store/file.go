package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Cxsmxnaut/Gradely/internal/model"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

type fileSlot struct {
	Cached   *model.CachedGrades `json:"cached,omitempty"`
	Settings *model.GPASettings  `json:"settings,omitempty"`
}

// FileStore is the on-device fallback used when the remote store is
// unreachable or unconfigured. It holds a single snapshot slot,
// last-write-wins per device: the slot is NOT partitioned by user id,
// so on a shared device one user's cached grades can be read back by
// another. Known latent issue, preserved deliberately; a get for a
// different user returns ErrNoCache.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) GetCachedGrades(_ context.Context, userID string) (model.CachedGrades, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.read()
	if err != nil {
		return model.CachedGrades{}, err
	}
	if slot.Cached == nil || slot.Cached.UserID != userID {
		return model.CachedGrades{}, pkgerrors.ErrNoCache
	}
	return *slot.Cached, nil
}

func (s *FileStore) PutCachedGrades(_ context.Context, cached model.CachedGrades) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.read()
	if err != nil && !errors.Is(err, pkgerrors.ErrNoCache) {
		slot = fileSlot{}
	}
	slot.Cached = &cached
	return s.write(slot)
}

func (s *FileStore) DeleteCachedGrades(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.read()
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoCache) {
			return nil
		}
		return err
	}
	// Single slot: delete clears it regardless of which user wrote it.
	slot.Cached = nil
	return s.write(slot)
}

func (s *FileStore) GetSettings(_ context.Context) (model.GPASettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.read()
	if err != nil || slot.Settings == nil {
		return model.DefaultGPASettings(), nil
	}
	return *slot.Settings, nil
}

func (s *FileStore) PutSettings(_ context.Context, settings model.GPASettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.read()
	if err != nil && !errors.Is(err, pkgerrors.ErrNoCache) {
		slot = fileSlot{}
	}
	slot.Settings = &settings
	return s.write(slot)
}

func (s *FileStore) read() (fileSlot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileSlot{}, pkgerrors.ErrNoCache
		}
		return fileSlot{}, fmt.Errorf("failed to read fallback cache: %w", err)
	}

	var slot fileSlot
	if err := json.Unmarshal(data, &slot); err != nil {
		// A corrupt slot is treated as empty, not fatal.
		return fileSlot{}, pkgerrors.ErrNoCache
	}
	return slot, nil
}

func (s *FileStore) write(slot fileSlot) error {
	data, err := json.MarshalIndent(slot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fallback cache: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create fallback cache dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write fallback cache: %w", err)
	}
	return nil
}
