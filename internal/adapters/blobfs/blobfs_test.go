package blobfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBlobStoreAdapter_Put(t *testing.T) {
	store, err := NewBlobStoreAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ref, err := store.Put(context.Background(), "lab-result.pdf", []byte("test contents"))
	if err != nil {
		t.Fatalf("failed to put blob: %v", err)
	}
	if !strings.HasPrefix(ref, "blob:") {
		t.Errorf("ref = %q, want blob: prefix", ref)
	}
	if !strings.HasSuffix(ref, ".pdf") {
		t.Errorf("ref = %q, want original extension preserved", ref)
	}

	data, err := os.ReadFile(filepath.Join(store.basePath, strings.TrimPrefix(ref, "blob:")))
	if err != nil {
		t.Fatalf("failed to read stored blob: %v", err)
	}
	if string(data) != "test contents" {
		t.Errorf("stored contents = %q", data)
	}
}

func TestBlobStoreAdapter_Put_SameNameNoCollision(t *testing.T) {
	store, err := NewBlobStoreAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ref1, err := store.Put(context.Background(), "report.pdf", []byte("first"))
	if err != nil {
		t.Fatalf("failed to put first blob: %v", err)
	}
	ref2, err := store.Put(context.Background(), "report.pdf", []byte("second"))
	if err != nil {
		t.Fatalf("failed to put second blob: %v", err)
	}
	if ref1 == ref2 {
		t.Errorf("refs collided: %q", ref1)
	}
}
