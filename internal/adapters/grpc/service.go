package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "amalgam.v1.GameService"

// GameServiceServer is the server API for the game service
type GameServiceServer interface {
	StartGame(context.Context, *StartGameRequest) (*StartGameResponse, error)
	SubmitDirection(context.Context, *SubmitDirectionRequest) (*SubmitDirectionResponse, error)
	GetState(context.Context, *GetStateRequest) (*GetStateResponse, error)
	ListSessions(context.Context, *ListSessionsRequest) (*ListSessionsResponse, error)
	GetCraftingTree(context.Context, *GetCraftingTreeRequest) (*GetCraftingTreeResponse, error)
	GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

// GameServiceDesc describes the service for grpc.Server.RegisterService
var GameServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("StartGame", GameServiceServer.StartGame),
		unaryMethod("SubmitDirection", GameServiceServer.SubmitDirection),
		unaryMethod("GetState", GameServiceServer.GetState),
		unaryMethod("ListSessions", GameServiceServer.ListSessions),
		unaryMethod("GetCraftingTree", GameServiceServer.GetCraftingTree),
		unaryMethod("GetHistory", GameServiceServer.GetHistory),
		unaryMethod("HealthCheck", GameServiceServer.HealthCheck),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "amalgam/v1/game",
}

// RegisterGameServiceServer attaches srv to a gRPC server
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameServiceDesc, srv)
}

// fullMethod returns "/amalgam.v1.GameService/<method>"
func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryMethod[Req, Resp any](
	name string,
	call func(GameServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GameServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GameServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
