package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/breatheapp/breathe-backend/internal/models"
)

// LocalStore is the fallback backend used when MongoDB is not configured
// (demo mode). Profiles live in a single JSON file at a well-known path,
// rewritten atomically on every change.
type LocalStore struct {
	path string

	mu       sync.RWMutex
	profiles map[string]*models.UserProfile
}

// NewLocalStore opens (or initializes) the file-backed store at path.
func NewLocalStore(path string) (*LocalStore, error) {
	s := &LocalStore{
		path:     path,
		profiles: make(map[string]*models.UserProfile),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read local store: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.profiles); err != nil {
			return nil, fmt.Errorf("parse local store %s: %w", path, err)
		}
	}
	return s, nil
}

func (s *LocalStore) Load(_ context.Context, id string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *LocalStore) Create(_ context.Context, p *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *p
	s.profiles[p.ID] = &copied
	return s.persist()
}

func (s *LocalStore) UpdateDailyMessage(_ context.Context, id string, msg models.DailyMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.DailyMessage = &msg
	p.UpdatedAt = time.Now()
	return s.persist()
}

// persist writes the whole record set to a temp file and renames it into
// place. Callers must hold the write lock.
func (s *LocalStore) persist() error {
	data, err := json.MarshalIndent(s.profiles, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".breathe-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
