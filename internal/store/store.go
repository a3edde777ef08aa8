// Package store persists collections and review state as JSON documents.
//
// The on-disk format is one pretty-printed JSON file per collection, so
// the data stays inspectable and diffable. Saves go through a temp file
// and a rename: a crash mid-save can never leave a half-written document
// behind.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"redmark/internal/domain"
)

// Store reads and writes the JSON data files. It assumes a single process
// owns the files; there is no cross-process locking.
type Store struct {
	log logrus.FieldLogger
}

// New creates a store.
func New(logger logrus.FieldLogger) *Store {
	return &Store{log: logger.WithField("component", "store")}
}

// LoadCollection reads a collection document. A missing file is not an
// error: it returns an empty collection, which is how a collection comes
// into existence. Malformed content is a hard error; masking it would
// silently discard data on the next save.
func (s *Store) LoadCollection(path string) (*domain.Collection, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &domain.Collection{Items: []domain.Item{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", path, err)
	}

	var coll domain.Collection
	if err := json.Unmarshal(data, &coll); err != nil {
		s.log.WithError(err).WithField("path", path).Error("Collection file is corrupt")
		return nil, fmt.Errorf("failed to parse collection %s: %w", path, err)
	}
	if coll.Items == nil {
		coll.Items = []domain.Item{}
	}
	return &coll, nil
}

// SaveCollection writes a collection document atomically.
func (s *Store) SaveCollection(path string, coll *domain.Collection) error {
	if err := s.writeJSON(path, coll); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", path, err)
	}
	s.log.WithFields(logrus.Fields{
		"path":  path,
		"items": len(coll.Items),
	}).Debug("Collection saved")
	return nil
}

// LoadReviewState reads the persisted review progress. A missing file
// yields a fresh state.
func (s *Store) LoadReviewState(path string) (*domain.ReviewState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &domain.ReviewState{Mode: domain.ModeAI, ReviewedIDs: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read review state %s: %w", path, err)
	}

	var state domain.ReviewState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse review state %s: %w", path, err)
	}
	if state.ReviewedIDs == nil {
		state.ReviewedIDs = []string{}
	}
	return &state, nil
}

// SaveReviewState writes the review progress atomically.
func (s *Store) SaveReviewState(path string, state *domain.ReviewState) error {
	if err := s.writeJSON(path, state); err != nil {
		return fmt.Errorf("failed to save review state %s: %w", path, err)
	}
	return nil
}

// writeJSON marshals v, writes it to a temp file in the target directory
// and renames it into place.
func (s *Store) writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
