package api

import (
	"context"
	"fmt"
	"net"
	"time"

	availabilityv1 "slotbook/internal/api/gen/availability/v1"
	"slotbook/internal/config"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service name reported for the booking store.
const ServiceName = "slotbook.BookingStore"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// GRPCServer serves the availability service plus grpc.health.v1 so
// orchestrators can probe the store.
type GRPCServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	store    Pinger
	log      zerolog.Logger
}

func NewGRPCServer(cfg config.APIConfig, store Pinger, bookings AvailabilityStore, logger *zerolog.Logger) (*GRPCServer, error) {
	addr := fmt.Sprintf(":%d", cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc listen %s: %w", addr, err)
	}
	return newGRPCServer(cfg, lis, store, bookings, logger), nil
}

func newGRPCServer(cfg config.APIConfig, lis net.Listener, store Pinger, bookings AvailabilityStore, logger *zerolog.Logger) *GRPCServer {
	unary := ChainUnaryInterceptors(
		LoggingUnaryInterceptor(logger),
		RateLimitUnaryInterceptor(newRateLimiter(cfg.RateLimit)),
	)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(unary))

	if bookings != nil {
		availabilityv1.RegisterAvailabilityServiceServer(grpcServer, NewAvailabilityService(bookings))
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	if cfg.GRPC.Reflection {
		reflection.Register(grpcServer)
	}

	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "grpc").Logger()
	}

	return &GRPCServer{
		server:   grpcServer,
		health:   hs,
		listener: lis,
		store:    store,
		log:      l,
	}
}

func (s *GRPCServer) Addr() string {
	return s.listener.Addr().String()
}

// Serve probes the store on every interval and reports the status until ctx ends.
func (s *GRPCServer) Serve(ctx context.Context, probeInterval time.Duration) error {
	s.probe(ctx)
	go func() {
		ticker := time.NewTicker(probeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.probe(ctx)
			}
		}
	}()

	s.log.Info().Str("addr", s.Addr()).Msg("gRPC API listening")
	return s.server.Serve(s.listener)
}

func (s *GRPCServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.store != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.store.PingContext(pctx)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Msg("store ping failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *GRPCServer) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Msg("gRPC graceful shutdown timed out; forcing stop")
		s.server.Stop()
	}
}
