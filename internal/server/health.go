package server

import (
	"errors"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// TablesService is the health service name reported for the lobby.
const TablesService = "realms.Tables"

// Health owns the gRPC health service. Status flips to NOT_SERVING on Stop.
type Health struct {
	grpc   *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewHealth creates a gRPC server with the standard health service registered.
func NewHealth(logger *zap.Logger) *Health {
	if logger == nil {
		logger = zap.NewNop()
	}
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(TablesService, healthpb.HealthCheckResponse_SERVING)

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return &Health{grpc: srv, health: hs, logger: logger}
}

// Serve blocks serving health checks on lis until Stop.
func (h *Health) Serve(lis net.Listener) error {
	h.logger.Info("health server listening", zap.String("address", lis.Addr().String()))
	if err := h.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop marks every service NOT_SERVING and drains in-flight checks.
func (h *Health) Stop() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
}
