package blob

import (
	"context"
	"errors"
	"io"
)

var ErrBlobNotFound = errors.New("blob not found")

// Store holds raw uploaded payloads addressed by storage key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// LocalPath exposes the payload as a file on disk for extractors that need one.
	// release must be called once the caller is done with the path.
	LocalPath(ctx context.Context, key string) (path string, release func(), err error)
	Delete(ctx context.Context, key string) error
}
