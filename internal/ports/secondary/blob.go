package secondary

import "context"

// BlobStore is the consumed blob-storage capability. The engine never reads
// uploaded files back; it holds only the opaque reference. An upload must
// complete and yield a stable ref before the corresponding state transition
// is attempted.
type BlobStore interface {
	// Put stores the contents under a name hint and returns an opaque ref.
	Put(ctx context.Context, name string, contents []byte) (string, error)
}
