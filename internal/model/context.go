package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager stores and retrieves the verified caller identity.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
