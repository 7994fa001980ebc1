// internal/storage/archive/interface.go
package archive

import "context"

// Storage is a write-only archive backend. Archived reports are never read
// back into a session.
type Storage interface {
	// Write stores data at the given slash-separated path, replacing any
	// existing object.
	Write(ctx context.Context, path string, data []byte) error
}
