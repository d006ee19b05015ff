// Package server exposes the watch daemon's gRPC health endpoint and journal lifecycle helpers.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported next to the overall "" status.
const ServiceName = "scanrename.Watcher"

// Pinger is satisfied by journal.Store.
type Pinger interface {
	Ping(ctx context.Context, timeout time.Duration) error
}

type HealthServer struct {
	grpc     *grpc.Server
	health   *health.Server
	journal  Pinger
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
}

// NewHealthServer registers the standard health service and reflection.
// journal may be nil when the daemon runs without one.
func NewHealthServer(journal Pinger, logger *slog.Logger, interval time.Duration) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	s := &HealthServer{
		grpc:     gs,
		health:   hs,
		journal:  journal,
		logger:   logger,
		interval: interval,
		timeout:  3 * time.Second,
	}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Check pings the journal and publishes the result.
func (s *HealthServer) Check(ctx context.Context) bool {
	if s.journal != nil {
		if err := s.journal.Ping(ctx, s.timeout); err != nil {
			s.logger.Warn("health.not_serving", "error", err)
			s.set(healthpb.HealthCheckResponse_NOT_SERVING)
			return false
		}
	}
	s.set(healthpb.HealthCheckResponse_SERVING)
	return true
}

// Serve listens on addr until ctx is done, then stops gracefully.
func (s *HealthServer) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, lis)
}

func (s *HealthServer) ServeListener(ctx context.Context, lis net.Listener) error {
	s.Check(ctx)
	go s.monitor(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gRPC serving", "addr", lis.Addr().String())
		errCh <- s.grpc.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

func (s *HealthServer) monitor(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Check(ctx)
		}
	}
}
