package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type AdminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

func (c *AdminClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	out := new(LoginResponse)
	return out, c.invoke(ctx, MethodLogin, in, out, opts)
}

func (c *AdminClient) RunParticipantMigration(ctx context.Context, in *RunMigrationRequest, opts ...grpc.CallOption) (*RunMigrationResponse, error) {
	out := new(RunMigrationResponse)
	return out, c.invoke(ctx, MethodRunMigration, in, out, opts)
}

func (c *AdminClient) GetWeeklyStats(ctx context.Context, in *WeeklyStatsRequest, opts ...grpc.CallOption) (*WeeklyStatsResponse, error) {
	out := new(WeeklyStatsResponse)
	return out, c.invoke(ctx, MethodGetWeeklyStats, in, out, opts)
}

func (c *AdminClient) ListSessionFeedback(ctx context.Context, in *ListFeedbackRequest, opts ...grpc.CallOption) (*ListFeedbackResponse, error) {
	out := new(ListFeedbackResponse)
	return out, c.invoke(ctx, MethodListSessionFeedback, in, out, opts)
}

func (c *AdminClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	req, err := Encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, resp, opts...); err != nil {
		return err
	}
	return Decode(resp, out)
}
