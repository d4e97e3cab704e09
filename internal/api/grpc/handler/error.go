package handler

import (
	"errors"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/onebytwo/account-eraser/internal/model"
)

const errorDomain = "account.onebytwo.app"

func handleError(err error) error {
	var erasureErr *model.ErasureError
	if !errors.As(err, &erasureErr) {
		if errors.Is(err, model.ErrUnauthenticated) {
			return status.Error(codes.Unauthenticated, "unauthenticated")
		}
		return status.Error(codes.Internal, "internal server error")
	}

	code := codes.Internal
	if erasureErr.Kind == model.KindUnauthenticated {
		code = codes.Unauthenticated
	}

	st := status.New(code, erasureErr.Message)
	info := &errdetails.ErrorInfo{
		Reason: strings.ToUpper(string(erasureErr.Kind)),
		Domain: errorDomain,
	}
	if erasureErr.Detail != "" {
		info.Metadata = map[string]string{"error": erasureErr.Detail}
	}

	withDetails, detailErr := st.WithDetails(info)
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}
