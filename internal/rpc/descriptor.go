package rpc

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
)

const protoFile = "coaching/admin/v1/admin.proto"

var methodNames = []string{"Login", "RunParticipantMigration", "GetWeeklyStats", "ListSessionFeedback"}

// The service is described at runtime so grpc reflection (and grpcurl) can
// see it. Every method takes and returns a google.protobuf.Struct.
func init() {
	wire := "." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())

	svc := &descriptorpb.ServiceDescriptorProto{Name: proto.String("AdminService")}
	for _, m := range methodNames {
		svc.Method = append(svc.Method, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(m),
			InputType:  proto.String(wire),
			OutputType: proto.String(wire),
		})
	}
	fdp := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(protoFile),
		Package:    proto.String("coaching.admin.v1"),
		Dependency: []string{"google/protobuf/struct.proto"},
		Service:    []*descriptorpb.ServiceDescriptorProto{svc},
		Syntax:     proto.String("proto3"),
	}

	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		panic("rpc: build descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("rpc: register descriptor: " + err.Error())
	}
}
