package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Blob is the async key/value persistence boundary. Exactly two keys
// are used: the settings aggregate and the history list.
type Blob interface {
	// Get returns the stored bytes, or (nil, nil) when the key has
	// never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the bytes under the key
	Set(ctx context.Context, key string, data []byte) error
}

// FileBlob stores each key as one JSON file in a directory
type FileBlob struct {
	dir string
}

func NewFileBlob(dir string) (*FileBlob, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileBlob{dir: dir}, nil
}

func (f *FileBlob) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(f.dir, key+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (f *FileBlob) Set(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(f.dir, key+".json"), data, 0600)
}
