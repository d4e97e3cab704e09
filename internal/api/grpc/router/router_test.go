package router

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/onebytwo/account-eraser/internal/api/grpc/accountpb"
	grpcctx "github.com/onebytwo/account-eraser/internal/api/grpc/context"
	"github.com/onebytwo/account-eraser/internal/mocks"
	"github.com/onebytwo/account-eraser/internal/model"
	"github.com/onebytwo/account-eraser/internal/service"
	"github.com/onebytwo/account-eraser/internal/testutil"
	"github.com/onebytwo/account-eraser/internal/token"
)

const secret = "router-secret"

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	ctxMgr := mocks.NewContextManager(t)
	lg := testutil.MakeNoopLogger()

	r := New(nil, nil, nil, false, ctxMgr, lg)
	s := r.Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	assert.Contains(t, info, accountpb.ServiceName)
	assert.Contains(t, info, "grpc.health.v1.Health")
}

func dial(t *testing.T, s *grpc.Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func withToken(t *testing.T, uid uuid.UUID) context.Context {
	t.Helper()
	tok, err := token.NewJWT(secret).GenerateAccessToken(uid)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+tok)
}

func TestRouter_DeleteAccount_AuthFlow(t *testing.T) {
	t.Parallel()

	cm := grpcctx.NewManager()
	gate := service.NewAuthGate(cm)
	uid := uuid.New()

	svc := mocks.NewAccountService(t)
	// the handler only sees the uid verified by the middleware
	svc.On("DeleteAccount", mock.MatchedBy(func(ctx context.Context) bool {
		got, err := gate.Authenticate(ctx)
		return err == nil && got == uid
	})).Return(model.DeleteAccountResult{Success: true, Message: "Account deleted successfully"}, nil).Once()
	svc.On("DeleteAccount", mock.MatchedBy(func(ctx context.Context) bool {
		_, err := gate.Authenticate(ctx)
		return err != nil
	})).Return(model.DeleteAccountResult{}, model.NewUnauthenticatedError("User must be authenticated to delete account")).Twice()

	r := New(svc, token.NewJWT(secret), token.NewAppCheck("attest"), false, cm, testutil.MakeNoopLogger())
	client := accountpb.NewAccountClient(dial(t, r.Register()))

	resp, err := client.DeleteAccount(withToken(t, uid), &emptypb.Empty{})
	require.NoError(t, err)
	assert.True(t, resp.GetFields()["success"].GetBoolValue())

	_, err = client.DeleteAccount(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer garbage")
	_, err = client.DeleteAccount(bad, &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	// metadata cannot impersonate a user
	forged := metadata.AppendToOutgoingContext(context.Background(), "user_id", uid.String())
	_, err = client.DeleteAccount(forged, &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRouter_AppCheckEnforced(t *testing.T) {
	t.Parallel()

	appCheck := token.NewAppCheck("attest")
	uid := uuid.New()

	svc := mocks.NewAccountService(t)
	svc.On("DeleteAccount", mock.Anything).Return(model.DeleteAccountResult{Success: true, Message: "Account deleted successfully"}, nil).Once()

	r := New(svc, token.NewJWT(secret), appCheck, true, grpcctx.NewManager(), testutil.MakeNoopLogger())
	conn := dial(t, r.Register())
	client := accountpb.NewAccountClient(conn)

	_, err := client.DeleteAccount(withToken(t, uid), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	attest, err := appCheck.GenerateAppCheckToken("android:com.onebytwo")
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(withToken(t, uid), "x-firebase-appcheck", attest)
	_, err = client.DeleteAccount(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	// health stays reachable without credentials
	health, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: accountpb.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())
}

func TestRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAccountService(t)
	svc.On("DeleteAccount", mock.Anything).Run(func(mock.Arguments) { panic("boom") }).Return(model.DeleteAccountResult{}, nil)

	r := New(svc, token.NewJWT(secret), token.NewAppCheck("attest"), false, grpcctx.NewManager(), testutil.MakeNoopLogger())
	client := accountpb.NewAccountClient(dial(t, r.Register()))

	_, err := client.DeleteAccount(withToken(t, uuid.New()), &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))
}
