// Package blobfs contains a filesystem-based blob store adapter.
package blobfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/example/waterwatch/internal/ports/secondary"
)

// BlobStoreAdapter implements secondary.BlobStore on the local filesystem.
// Uploaded files are stored under a content-independent generated name; the
// returned ref is stable and never reused.
type BlobStoreAdapter struct {
	basePath string
}

// NewBlobStoreAdapter creates a new filesystem blob store.
// If basePath is empty, defaults to ~/.waterwatch/blobs.
func NewBlobStoreAdapter(basePath string) (*BlobStoreAdapter, error) {
	if basePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		basePath = filepath.Join(home, ".waterwatch", "blobs")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	return &BlobStoreAdapter{basePath: basePath}, nil
}

// Put stores the contents and returns an opaque ref. The original name only
// contributes its extension; the stored name is generated so concurrent
// uploads with the same name cannot collide.
func (a *BlobStoreAdapter) Put(ctx context.Context, name string, contents []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := uuid.NewString() + filepath.Ext(name)
	path := filepath.Join(a.basePath, stored)

	if err := os.WriteFile(path, contents, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return "blob:" + stored, nil
}

// Ensure BlobStoreAdapter implements the interface
var _ secondary.BlobStore = (*BlobStoreAdapter)(nil)
