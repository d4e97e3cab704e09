package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/model"
)

// IdentityEraser deletes the authentication account.
type IdentityEraser struct {
	store  model.IdentityStore
	logger *logger.Logger
}

// NewIdentityEraser creates an IdentityEraser over store.
func NewIdentityEraser(store model.IdentityStore, logger *logger.Logger) *IdentityEraser {
	return &IdentityEraser{store: store, logger: logger.With("component", "identity")}
}

// Erase deletes the identity of uid.
func (e *IdentityEraser) Erase(ctx context.Context, uid uuid.UUID) error {
	if err := e.store.Delete(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	e.logger.Info("identity deleted", "uid", uid)
	return nil
}
