package model

import "context"

// Storage is the object store holding per-user files.
type Storage interface {
	// Delete removes key. A missing object is not an error.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
