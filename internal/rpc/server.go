package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/xtding233/craft-odds/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type levelsRequest struct {
	Option string `json:"option"`
}

type levelsResponse struct {
	Option string   `json:"option"`
	Levels []string `json:"levels"`
}

type optionsResponse struct {
	Options []string `json:"options"`
}

// Server hosts OddsService and the standard health service.
type Server struct {
	odds   *service.Odds
	logger *slog.Logger
	grpc   *grpc.Server
	health *health.Server
}

// NewServer creates a gRPC server answering from odds.
func NewServer(odds *service.Odds, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{odds: odds, logger: logger, health: health.NewServer()}
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(s.logUnary))
	RegisterOddsServer(s.grpc, s)
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.SyncHealth()
	return s
}

// SyncHealth reports SERVING once a snapshot is available.
func (s *Server) SyncHealth() {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if s.odds.Ready() {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Serve accepts connections on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("grpc server listening", "addr", lis.Addr().String())
	if err := s.grpc.Serve(lis); err != nil {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// Stop drains in-flight calls and stops the server.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func (s *Server) Calculate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.odds.Calculate(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

func (s *Server) ListOptions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	opts, err := s.odds.ListOptions(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	if opts == nil {
		opts = []string{}
	}
	return encode(optionsResponse{Options: opts})
}

func (s *Server) ListLevels(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req levelsRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	req.Option = strings.TrimSpace(req.Option)
	if req.Option == "" {
		return nil, status.Error(codes.InvalidArgument, "option is required")
	}
	levels, err := s.odds.ListLevels(ctx, req.Option)
	if err != nil {
		return nil, toStatus(err)
	}
	if levels == nil {
		levels = []string{}
	}
	return encode(levelsResponse{Option: req.Option, Levels: levels})
}

func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug("grpc call",
		"method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}

func encode(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	if errors.Is(err, service.ErrNoData) {
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
