package media

import (
	"context"
	"fmt"
)

// Store writes blobs to a remote object store. Put durably writes one object
// under key and returns a stable, publicly retrievable URL computed from the
// store's addressing scheme, never parsed from the store's response. A failed
// Put leaves nothing addressable at key (single-put atomicity of the backing
// store).
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// StorageError wraps a transport, authorization or configuration failure of
// the backing store. Callers surface it as a generic upload failure; the
// wrapped error carries the provider detail for operator logs.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("media storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
