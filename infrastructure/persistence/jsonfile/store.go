// Package jsonfile persists the scrapbook document as a single
// pretty-printed JSON file, rewritten in full after every mutation.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"keepsake-backend/domain/scrapbook"
	apperrors "keepsake-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store owns the in-memory document and mirrors it to disk. A single
// lock guards every read-modify-write-persist cycle, so concurrent
// requests cannot lose updates.
type Store struct {
	path   string
	logger *zap.Logger

	mu  sync.RWMutex
	doc *scrapbook.Document

	// lastSaved lets the file watcher tell our own writes apart from
	// external edits.
	lastSaved atomic.Int64
}

// New creates a store backed by the given file path and loads its
// initial state. A missing or undecodable file yields the default
// document; load never fails.
func New(path string, logger *zap.Logger) *Store {
	store := &Store{
		path:   path,
		logger: logger,
	}
	store.doc = store.load()
	return store
}

// load reads the document from disk, substituting the default document
// when the file is absent or malformed.
func (s *Store) load() *scrapbook.Document {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read scrapbook file, starting from defaults",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return scrapbook.NewDefaultDocument()
	}

	doc := &scrapbook.Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		s.logger.Warn("Scrapbook file is not valid JSON, starting from defaults",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return scrapbook.NewDefaultDocument()
	}
	return doc
}

// save serializes the full document and atomically replaces the file.
// The caller must hold the write lock.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return apperrors.NewInternalError("failed to encode scrapbook").WithCause(err)
	}

	// Write-then-rename so a crash mid-write cannot truncate the store.
	tmp := fmt.Sprintf("%s.%s.tmp", s.path, uuid.NewString()[:8])
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return apperrors.NewInternalError("failed to persist scrapbook").WithCause(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return apperrors.NewInternalError("failed to persist scrapbook").WithCause(err)
	}

	s.lastSaved.Store(time.Now().UnixNano())
	return nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// savedWithin reports whether the store wrote the file within d.
func (s *Store) savedWithin(d time.Duration) bool {
	return time.Since(time.Unix(0, s.lastSaved.Load())) < d
}

// Document returns a deep copy of the current document.
func (s *Store) Document() *scrapbook.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// AddMoment appends a moment and persists the document.
func (s *Store) AddMoment(title, description, emoji string) (scrapbook.Moment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moment := s.doc.AddMoment(title, description, emoji)
	if err := s.save(); err != nil {
		return scrapbook.Moment{}, err
	}
	return moment, nil
}

// AddAdorationItem appends an adoration item and persists the document.
func (s *Store) AddAdorationItem(label, description string) (scrapbook.AdorationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.doc.AddAdorationItem(label, description)
	if err := s.save(); err != nil {
		return scrapbook.AdorationItem{}, err
	}
	return item, nil
}

// RecordInteraction appends a visitor interaction and persists the
// document.
func (s *Store) RecordInteraction(interactionType string, data map[string]interface{}) (scrapbook.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interaction := s.doc.RecordInteraction(interactionType, data)
	if err := s.save(); err != nil {
		return scrapbook.Interaction{}, err
	}
	return interaction, nil
}

// UpdateStory overwrites the story content and persists the document.
func (s *Store) UpdateStory(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.SetStoryContent(content)
	return s.save()
}

// UpdateSurprise overwrites the surprise content and persists the
// document.
func (s *Store) UpdateSurprise(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.SetSurpriseContent(content)
	return s.save()
}

// UpdateTheme shallow-merges the patch into the theme, persists the
// document, and returns the merged theme.
func (s *Store) UpdateTheme(patch map[string]string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.MergeTheme(patch)
	if err := s.save(); err != nil {
		return nil, err
	}

	theme := make(map[string]string, len(s.doc.Theme))
	for role, color := range s.doc.Theme {
		theme[role] = color
	}
	return theme, nil
}

// Reload replaces the in-memory document with the file's current
// contents. The in-memory state is kept when the file cannot be read
// or decoded. The write lock is held across the read and the swap so a
// save landing in between cannot be overwritten by stale file contents.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reload scrapbook: %w", err)
	}
	doc := &scrapbook.Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return fmt.Errorf("reload scrapbook: %w", err)
	}
	s.doc = doc

	s.logger.Info("Scrapbook reloaded from disk",
		zap.String("path", filepath.Clean(s.path)),
	)
	return nil
}
