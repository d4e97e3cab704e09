package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/model"
)

const (
	messageDeleted         = "Account deleted successfully"
	messageUnauthenticated = "User must be authenticated to delete account"
	messageFailed          = "Failed to delete account. Please try again."
)

// Recorder receives erasure telemetry.
type Recorder interface {
	WriteGroupCommitted(recordType string, size int)
	StorageWarning()
	ErasureFinished(outcome string, elapsed time.Duration)
}

// Authenticator resolves the caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context) (uuid.UUID, error)
}

// Purger removes the user's documents. Its failures are fatal.
type Purger interface {
	Purge(ctx context.Context, uid uuid.UUID) error
}

// FileRemover removes the user's files. It reports advisories, never errors.
type FileRemover interface {
	Erase(ctx context.Context, uid uuid.UUID) model.Advisory
}

// IdentityRemover deletes the authentication account. Its failures are fatal.
type IdentityRemover interface {
	Erase(ctx context.Context, uid uuid.UUID) error
}

// Eraser runs a self-service account deletion:
// auth gate, record purge, file cleanup (best effort), identity deletion.
type Eraser struct {
	gate     Authenticator
	purger   Purger
	files    FileRemover
	identity IdentityRemover
	recorder Recorder
	logger   *logger.Logger
}

// NewEraser wires the erasure steps.
func NewEraser(
	gate Authenticator,
	purger Purger,
	files FileRemover,
	identity IdentityRemover,
	recorder Recorder,
	logger *logger.Logger,
) *Eraser {
	return &Eraser{
		gate:     gate,
		purger:   purger,
		files:    files,
		identity: identity,
		recorder: recorder,
		logger:   logger.With("component", "eraser"),
	}
}

// DeleteAccount erases the calling user. It returns either a confirmation or
// a single *model.ErasureError.
func (e *Eraser) DeleteAccount(ctx context.Context) (model.DeleteAccountResult, error) {
	start := time.Now()

	uid, err := e.gate.Authenticate(ctx)
	if err != nil {
		e.logger.Error("unauthenticated request")
		e.recorder.ErasureFinished(model.OutcomeUnauthenticated, time.Since(start))
		return model.DeleteAccountResult{}, model.NewUnauthenticatedError(messageUnauthenticated)
	}

	log := e.logger.With("uid", uid)
	log.Info("account deletion requested")

	if err := e.purger.Purge(ctx, uid); err != nil {
		return model.DeleteAccountResult{}, e.fail(log, start, err)
	}

	// storage failures never change the result
	if adv := e.files.Erase(ctx, uid); !adv.Ok() {
		log.Debug("continuing without storage cleanup", "step", adv.Step, "warning", adv.Warning())
	}

	if err := e.identity.Erase(ctx, uid); err != nil {
		return model.DeleteAccountResult{}, e.fail(log, start, err)
	}

	log.Info("account deletion completed successfully")
	e.recorder.ErasureFinished(model.OutcomeSuccess, time.Since(start))

	return model.DeleteAccountResult{Success: true, Message: messageDeleted}, nil
}

func (e *Eraser) fail(log *logger.Logger, start time.Time, err error) error {
	log.Error("account deletion failed", "error", err.Error())

	var erasureErr *model.ErasureError
	if errors.As(err, &erasureErr) {
		e.recorder.ErasureFinished(string(erasureErr.Kind), time.Since(start))
		return erasureErr
	}

	e.recorder.ErasureFinished(model.OutcomeInternal, time.Since(start))
	return model.NewInternalError(messageFailed, err)
}
