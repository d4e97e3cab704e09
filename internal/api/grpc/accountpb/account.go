// Package accountpb holds the gRPC contract of the account callable.
// Requests and responses use well-known types, so no generated messages are needed.
package accountpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName             = "onebytwo.account.v1.Account"
	DeleteAccountFullMethod = "/onebytwo.account.v1.Account/DeleteAccount"
)

// AccountServer is the server API for the Account service.
type AccountServer interface {
	// DeleteAccount erases the calling user. The response is {success, message}.
	DeleteAccount(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterAccountServer registers srv on s.
func RegisterAccountServer(s grpc.ServiceRegistrar, srv AccountServer) {
	s.RegisterService(&Account_ServiceDesc, srv)
}

func _Account_DeleteAccount_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountServer).DeleteAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DeleteAccountFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AccountServer).DeleteAccount(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Account_ServiceDesc is the grpc.ServiceDesc for the Account service.
var Account_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "DeleteAccount",
			Handler:    _Account_DeleteAccount_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "onebytwo/account/v1/account.proto",
}

// AccountClient is the client API for the Account service.
type AccountClient interface {
	DeleteAccount(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type accountClient struct {
	cc grpc.ClientConnInterface
}

// NewAccountClient creates an AccountClient over cc.
func NewAccountClient(cc grpc.ClientConnInterface) AccountClient {
	return &accountClient{cc: cc}
}

func (c *accountClient) DeleteAccount(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DeleteAccountFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
