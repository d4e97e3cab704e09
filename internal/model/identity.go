package model

import (
	"context"

	"github.com/google/uuid"
)

// IdentityStore is the authentication account registry.
type IdentityStore interface {
	// Delete removes the identity of uid. A missing identity is not an error.
	Delete(ctx context.Context, uid uuid.UUID) error
}

// AppCheckVerifier validates app attestation tokens.
type AppCheckVerifier interface {
	ParseAppCheckToken(token string) (appID string, err error)
}
