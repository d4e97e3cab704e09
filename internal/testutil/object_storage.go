package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/onebytwo/account-eraser/internal/model"
)

var _ model.Storage = (*MemoryStorage)(nil)

// MemoryStorage is an in-memory object store. Deleting a missing key succeeds.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string

	DeleteErr error
	ListErr   error
}

// NewMemoryStorage creates a store holding the given keys.
func NewMemoryStorage(keys ...string) *MemoryStorage {
	s := &MemoryStorage{Objects: map[string][]byte{}}
	for _, k := range keys {
		s.Objects[k] = []byte("blob")
	}
	return s
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Objects, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

func (s *MemoryStorage) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var keys []string
	for k := range s.Objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Keys returns the stored keys in order.
func (s *MemoryStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.Objects))
	for k := range s.Objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
