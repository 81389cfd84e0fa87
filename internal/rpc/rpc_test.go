package rpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/known/structpb"

	"coach-booking-api/internal/model"
	"coach-booking-api/internal/rpc"
	"coach-booking-api/internal/stats"
)

type fakeServer struct {
	lastMigration *rpc.RunMigrationRequest
}

func (f *fakeServer) Login(_ context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	if req.Password != "testpass123" {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	return &rpc.LoginResponse{Token: "tok", UserID: "u1", Role: model.UserRoleAdmin}, nil
}

func (f *fakeServer) RunParticipantMigration(_ context.Context, req *rpc.RunMigrationRequest) (*rpc.RunMigrationResponse, error) {
	f.lastMigration = req
	return &rpc.RunMigrationResponse{Summary: model.MigrationSummary{Created: 3, Skipped: 1, DryRun: req.DryRun}}, nil
}

func (f *fakeServer) GetWeeklyStats(_ context.Context, req *rpc.WeeklyStatsRequest) (*rpc.WeeklyStatsResponse, error) {
	return &rpc.WeeklyStatsResponse{CoachID: req.CoachID, Weeks: []stats.WeekBucket{{
		WeekStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Sessions: 2, Minutes: 90,
	}}}, nil
}

func (f *fakeServer) ListSessionFeedback(context.Context, *rpc.ListFeedbackRequest) (*rpc.ListFeedbackResponse, error) {
	return &rpc.ListFeedbackResponse{}, nil
}

func dial(t *testing.T, srv rpc.AdminServer) *grpc.ClientConn {
	t.Helper()
	s := grpc.NewServer()
	rpc.RegisterAdminServer(s, srv)
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

func TestClientRoundTrip(t *testing.T) {
	fake := &fakeServer{}
	c := rpc.NewAdminClient(dial(t, fake))
	ctx := context.Background()

	lr, err := c.Login(ctx, &rpc.LoginRequest{Email: "a@b.com", Password: "testpass123"})
	require.NoError(t, err)
	require.Equal(t, "tok", lr.Token)
	require.Equal(t, model.UserRoleAdmin, lr.Role)

	_, err = c.Login(ctx, &rpc.LoginRequest{Email: "a@b.com", Password: "nope"})
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	mr, err := c.RunParticipantMigration(ctx, &rpc.RunMigrationRequest{DryRun: true, TargetCoachOnlyUserID: "c1"})
	require.NoError(t, err)
	require.Equal(t, "c1", fake.lastMigration.TargetCoachOnlyUserID)
	require.True(t, mr.Summary.DryRun)
	require.Equal(t, 3, mr.Summary.Created)
	require.Equal(t, 1, mr.Summary.Skipped)

	ws, err := c.GetWeeklyStats(ctx, &rpc.WeeklyStatsRequest{CoachID: "c1", Weeks: 1})
	require.NoError(t, err)
	require.Len(t, ws.Weeks, 1)
	require.True(t, ws.Weeks[0].WeekStart.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 90, ws.Weeks[0].Minutes)
}

// A generic client only knows the descriptor: it sends a Struct.
func TestRawStructCall(t *testing.T) {
	conn := dial(t, &fakeServer{})

	in, err := structpb.NewStruct(map[string]any{"dryRun": true})
	require.NoError(t, err)
	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), rpc.MethodRunMigration, in, out))

	sum := out.GetFields()["summary"].GetStructValue().AsMap()
	require.Equal(t, true, sum["dryRun"])
	require.Equal(t, float64(3), sum["created"])
}

func TestMalformedRequest(t *testing.T) {
	conn := dial(t, &fakeServer{})

	in, err := structpb.NewStruct(map[string]any{"weeks": "three"})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), rpc.MethodGetWeeklyStats, in, new(structpb.Struct))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDescriptorRegistered(t *testing.T) {
	d, err := protoregistry.GlobalFiles.FindDescriptorByName(protoreflect.FullName(rpc.ServiceName))
	require.NoError(t, err)
	svc, ok := d.(protoreflect.ServiceDescriptor)
	require.True(t, ok)
	require.Equal(t, 4, svc.Methods().Len())

	m := svc.Methods().ByName("RunParticipantMigration")
	require.NotNil(t, m)
	require.Equal(t, protoreflect.FullName("google.protobuf.Struct"), m.Input().FullName())
	require.Equal(t, protoreflect.FullName("google.protobuf.Struct"), m.Output().FullName())
}

func TestEncodeDecode(t *testing.T) {
	s, err := rpc.Encode(&rpc.ListFeedbackRequest{AppointmentIDs: []string{"a1", "a2"}})
	require.NoError(t, err)

	var back rpc.ListFeedbackRequest
	require.NoError(t, rpc.Decode(s, &back))
	require.Equal(t, []string{"a1", "a2"}, back.AppointmentIDs)

	require.NoError(t, rpc.Decode(nil, &back))
	require.Equal(t, []string{"a1", "a2"}, back.AppointmentIDs)
}
