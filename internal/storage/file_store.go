package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sportstock/backend/internal/models"
)

// FileStore keeps one JSON document per user on local disk. It is the
// local-development stand-in for the hosted document store and backs tests.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dataDir}, nil
}

// Load reads the user's inventory document. A user with no document yet gets
// an empty one, not an error.
func (s *FileStore) Load(_ context.Context, userID string) (models.InventoryDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc models.InventoryDocument
	file, err := os.Open(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return models.InventoryDocument{}, err
	}
	return doc, nil
}

// Save replaces the user's document. Writes go to a temp file first and are
// renamed into place so a crash never leaves a half-written document.
func (s *FileStore) Save(_ context.Context, userID string, doc models.InventoryDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(userID)
	tempFile := path + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, path)
}

func (s *FileStore) path(userID string) string {
	// User IDs are UUIDs or provider UIDs, but never trust them as path parts.
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(userID)
	return filepath.Join(s.dir, safe+".json")
}
