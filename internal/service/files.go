package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/model"
)

const avatarFileName = "avatar.jpg"

// UserPrefix returns the storage prefix holding all files of uid.
func UserPrefix(uid uuid.UUID) string {
	return fmt.Sprintf("users/%s/", uid)
}

// AvatarKey returns the conventional avatar location of uid.
func AvatarKey(uid uuid.UUID) string {
	return UserPrefix(uid) + avatarFileName
}

// FileEraser removes a user's stored files on a best-effort basis.
type FileEraser struct {
	storage  model.Storage
	recorder Recorder
	logger   *logger.Logger
}

// NewFileEraser creates a FileEraser over storage.
func NewFileEraser(storage model.Storage, recorder Recorder, logger *logger.Logger) *FileEraser {
	return &FileEraser{
		storage:  storage,
		recorder: recorder,
		logger:   logger.With("component", "files"),
	}
}

// Erase deletes the avatar and everything under the user's prefix. Failures
// are logged and reported as an advisory outcome only.
func (e *FileEraser) Erase(ctx context.Context, uid uuid.UUID) model.Advisory {
	log := e.logger.With("uid", uid)

	if err := e.erase(ctx, log, uid); err != nil {
		e.recorder.StorageWarning()
		log.Warn("failed to delete storage files", "error", err.Error())
		return model.Advisory{Step: "files", Err: err}
	}

	return model.Advisory{Step: "files"}
}

func (e *FileEraser) erase(ctx context.Context, log *logger.Logger, uid uuid.UUID) error {
	if err := e.storage.Delete(ctx, AvatarKey(uid)); err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	log.Info("avatar deleted")

	keys, err := e.storage.List(ctx, UserPrefix(uid))
	if err != nil {
		return fmt.Errorf("failed to list user files: %w", err)
	}

	for _, key := range keys {
		if err := e.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	log.Info("storage files deleted", "count", len(keys))

	return nil
}
