// Package grpcapi serves the evaluation API over gRPC. Requests and results
// are google.protobuf.Struct messages with the same fields as the HTTP
// surface, so no generated stubs are needed.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lemonberrylabs/asteval/pkg/api"
	"github.com/lemonberrylabs/asteval/pkg/builtins"
	"github.com/lemonberrylabs/asteval/pkg/types"
)

// ServiceName is the fully qualified name of the evaluator service.
const ServiceName = "asteval.v1.Evaluator"

const evaluateMethod = "/" + ServiceName + "/Evaluate"

// EvaluatorServer is the server API for the evaluator service.
type EvaluatorServer interface {
	Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// EvaluatorServiceDesc describes the evaluator service for grpc.Server.
var EvaluatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EvaluatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "asteval/v1/evaluator.proto",
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvaluatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EvaluatorServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// EvaluatorClient calls the evaluator service.
type EvaluatorClient struct {
	cc grpc.ClientConnInterface
}

// NewEvaluatorClient wraps a client connection.
func NewEvaluatorClient(cc grpc.ClientConnInterface) *EvaluatorClient {
	return &EvaluatorClient{cc: cc}
}

// Evaluate sends one evaluation request.
func (c *EvaluatorClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, evaluateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Server implements the evaluator and health services.
type Server struct {
	log      zerolog.Logger
	registry *builtins.Registry
	health   *health.Server
	grpc     *grpc.Server
}

// New creates a new gRPC server evaluating against registry.
func New(logger zerolog.Logger, registry *builtins.Registry) *Server {
	srv := &Server{
		log:      logger,
		registry: registry,
		health:   health.NewServer(),
	}

	gs := grpc.NewServer()
	gs.RegisterService(&EvaluatorServiceDesc, srv)
	healthpb.RegisterHealthServer(gs, srv.health)
	srv.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

// Evaluate decodes the request struct, evaluates it and returns the
// {value, type} result.
func (s *Server) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := api.ParseRequest(types.FromProtoStruct(in))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	value, err := api.Run(req, s.registry)
	if err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) {
			return nil, status.Error(codes.InvalidArgument, reqErr.Error())
		}
		s.log.Debug().Err(err).Str("kind", api.ErrorKind(err)).Msg("evaluation failed")
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}

	result, err := api.ResultStruct(value)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return result, nil
}
