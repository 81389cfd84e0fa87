// Package rpc defines the admin gRPC service. Requests and responses are
// plain Go structs carried as google.protobuf.Struct messages, so the
// default protobuf codec and generic tools like grpcurl work unchanged.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "coaching.admin.v1.AdminService"

// Full method names, as seen by interceptors.
const (
	MethodLogin               = "/" + ServiceName + "/Login"
	MethodRunMigration        = "/" + ServiceName + "/RunParticipantMigration"
	MethodGetWeeklyStats      = "/" + ServiceName + "/GetWeeklyStats"
	MethodListSessionFeedback = "/" + ServiceName + "/ListSessionFeedback"
)

type AdminServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RunParticipantMigration(context.Context, *RunMigrationRequest) (*RunMigrationResponse, error)
	GetWeeklyStats(context.Context, *WeeklyStatsRequest) (*WeeklyStatsResponse, error)
	ListSessionFeedback(context.Context, *ListFeedbackRequest) (*ListFeedbackResponse, error)
}

var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unary(MethodLogin, AdminServer.Login)},
		{MethodName: "RunParticipantMigration", Handler: unary(MethodRunMigration, AdminServer.RunParticipantMigration)},
		{MethodName: "GetWeeklyStats", Handler: unary(MethodGetWeeklyStats, AdminServer.GetWeeklyStats)},
		{MethodName: "ListSessionFeedback", Handler: unary(MethodListSessionFeedback, AdminServer.ListSessionFeedback)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&AdminServiceDesc, srv)
}

// unary adapts a typed method to grpc's untyped handler signature. The
// interceptor chain sees the decoded *Req.
func unary[Req, Resp any](fullMethod string, call func(AdminServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		wire := new(structpb.Struct)
		if err := dec(wire); err != nil {
			return nil, err
		}
		in := new(Req)
		if err := Decode(wire, in); err != nil {
			return nil, status.Error(codes.InvalidArgument, "malformed request")
		}

		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(AdminServer), ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			out, err := Encode(resp)
			if err != nil {
				return nil, status.Error(codes.Internal, "internal error")
			}
			return out, nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}
