package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/bibbank/loan-decision-service/pkg/auth"
	"github.com/bibbank/loan-decision-service/pkg/tlsutil"
)

// ServerOptions configures the optional parts of the gRPC server.
type ServerOptions struct {
	// JWT enables bearer-token authentication when non-nil.
	JWT *auth.JWTService
	// TLSCertFile and TLSKeyFile enable TLS when both are set.
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
}

// Server wraps a gRPC server with the loan decision handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server.
func NewServer(handler *LoanDecisionHandler, logger *slog.Logger, opts ServerOptions) (*Server, error) {
	interceptors := []grpc.UnaryServerInterceptor{
		recoveryInterceptor(logger),
		loggingInterceptor(logger),
	}
	if opts.JWT != nil {
		interceptors = append(interceptors,
			auth.UnaryAuthInterceptor(opts.JWT, []string{
				"/grpc.health.v1.Health/Check",
				"/grpc.health.v1.Health/Watch",
			}),
			auth.RequireRole([]string{MethodUpdateApplicationStatus}, auth.RoleAdmin, auth.RoleOperator),
		)
	} else {
		logger.Warn("gRPC authentication disabled, no JWT key configured")
	}

	serverOpts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(interceptors...)}

	if opts.TLSCertFile != "" && opts.TLSKeyFile != "" {
		creds, err := tlsutil.ServerTLSConfig(opts.TLSCertFile, opts.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load gRPC TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.TLSCertFile)
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(gs)
	}

	RegisterLoanDecisionServiceServer(gs, handler)

	return &Server{gs: gs, health: healthSrv, logger: logger}, nil
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// GracefulStop marks the service as not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "grpc request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

func recoveryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "panic in grpc handler",
					"method", info.FullMethod,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
