package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/onebytwo/account-eraser/internal/model"
)

var _ model.IdentityStore = (*MemoryIdentities)(nil)

// MemoryIdentities is an in-memory identity registry.
type MemoryIdentities struct {
	mu         sync.Mutex
	Identities map[uuid.UUID]struct{}
	DeleteErr  error
}

// NewMemoryIdentities creates a registry holding uids.
func NewMemoryIdentities(uids ...uuid.UUID) *MemoryIdentities {
	m := &MemoryIdentities{Identities: map[uuid.UUID]struct{}{}}
	for _, uid := range uids {
		m.Identities[uid] = struct{}{}
	}
	return m
}

func (m *MemoryIdentities) Delete(_ context.Context, uid uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Identities, uid)
	return nil
}

// Has reports whether uid still has an identity.
func (m *MemoryIdentities) Has(uid uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Identities[uid]
	return ok
}
