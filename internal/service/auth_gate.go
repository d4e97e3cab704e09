package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/onebytwo/account-eraser/internal/model"
)

// AuthGate resolves the verified caller identity. It never touches storage.
type AuthGate struct {
	contextManager model.ContextManager
}

// NewAuthGate creates an AuthGate reading identities through contextManager.
func NewAuthGate(contextManager model.ContextManager) *AuthGate {
	return &AuthGate{contextManager: contextManager}
}

// Authenticate returns the caller uid or model.ErrUnauthenticated.
func (g *AuthGate) Authenticate(ctx context.Context) (uuid.UUID, error) {
	uid, ok := g.contextManager.GetUserIDFromContext(ctx)
	if !ok || uid == uuid.Nil {
		return uuid.Nil, model.ErrUnauthenticated
	}
	return uid, nil
}
