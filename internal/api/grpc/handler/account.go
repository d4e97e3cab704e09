package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/onebytwo/account-eraser/internal/api/grpc/accountpb"
	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/model"
)

var _ accountpb.AccountServer = (*Account)(nil)

// AccountService performs the account deletion for the caller in ctx.
type AccountService interface {
	DeleteAccount(ctx context.Context) (model.DeleteAccountResult, error)
}

// Account serves the account callable.
type Account struct {
	service AccountService
	logger  *logger.Logger
}

// NewAccount creates a new Account handler.
func NewAccount(service AccountService, logger *logger.Logger) *Account {
	return &Account{service: service, logger: logger}
}

// DeleteAccount erases the authenticated caller.
func (h *Account) DeleteAccount(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := h.service.DeleteAccount(ctx)
	if err != nil {
		return nil, handleError(err)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"success": res.Success,
		"message": res.Message,
	})
	if err != nil {
		h.logger.Error("failed to encode response", "error", err.Error())
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return resp, nil
}
