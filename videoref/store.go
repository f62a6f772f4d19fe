package videoref

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sargiotti/BackEndServer/models"
)

// Store persists the single current VideoReference as a JSON flat file.
// Reads and writes are serialized: the file is small enough that a single
// RWMutex plus write-to-temp-then-rename keeps concurrent writers from
// interleaving partial writes.
type Store struct {
	path string
	mu   sync.RWMutex
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("video reference path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, errors.Wrap(err, "failed to create reference directory")
		}
	}
	return &Store{path: path}, nil
}

// Set replaces the current reference.
func (s *Store) Set(ref models.VideoReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(ref)
	if err != nil {
		return errors.Wrap(err, "failed to marshal video reference")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write video reference")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "failed to replace video reference")
	}
	return nil
}

// Get returns the current reference. A missing file is the valid
// "no video set" state and yields the empty-url sentinel.
func (s *Store) Get() (models.VideoReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.VideoReference{}, nil
		}
		return models.VideoReference{}, errors.Wrap(err, "failed to read video reference")
	}

	var ref models.VideoReference
	if err := json.Unmarshal(data, &ref); err != nil {
		return models.VideoReference{}, errors.Wrap(err, "failed to parse video reference")
	}
	return ref, nil
}
