package positions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skein-viz/skein/pkg/cache"
)

// FileStore keeps overrides as JSON files under a directory, one file per
// viewer and topology.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, viewerID, graphHash string) (Overrides, error) {
	data, err := os.ReadFile(s.path(viewerID, graphHash))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var o Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}
	return o, nil
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, viewerID, graphHash string, o Overrides) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(viewerID, graphHash), data, 0644)
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, viewerID, graphHash string) error {
	err := os.Remove(s.path(viewerID, graphHash))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(viewerID, graphHash string) string {
	// Viewer IDs come from clients; hash them rather than trusting them
	// as path components.
	return filepath.Join(s.dir, cache.Hash([]byte(viewerID+":"+graphHash))+".json")
}

var _ Store = (*FileStore)(nil)
