package grpcserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name operators probe for the storefront.
// The empty name reports the same status for the process as a whole.
const ServiceName = "bookstore.Storefront"

// Pinger reports whether the backing store can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the operator gRPC endpoint.
type Options struct {
	Address       string
	Pinger        Pinger
	Logger        *slog.Logger
	CheckInterval time.Duration
}

// Server is a running gRPC health endpoint.
type Server struct {
	srv      *grpc.Server
	health   *health.Server
	lis      net.Listener
	pinger   Pinger
	log      *slog.Logger
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Start listens on opts.Address and serves grpc.health.v1.Health plus reflection.
// The status follows opts.Pinger and is re-checked every CheckInterval.
func Start(opts Options) (*Server, error) {
	if opts.Pinger == nil {
		return nil, errors.New("grpc: pinger is required")
	}
	addr := opts.Address
	if addr == "" {
		addr = ":50051"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = 15 * time.Second
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(opts.Logger)))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &Server{
		srv:      srv,
		health:   hs,
		lis:      lis,
		pinger:   opts.Pinger,
		log:      opts.Logger,
		interval: opts.CheckInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.Refresh(context.Background())

	go func() { _ = srv.Serve(lis) }()
	go s.watch()
	return s, nil
}

// Addr is the address the server is listening on.
func (s *Server) Addr() net.Addr { return s.lis.Addr() }

// Refresh pings the store once and publishes the result.
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(ctx); err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		s.log.WarnContext(ctx, "store health check failed", "error", err)
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
	return st
}

func (s *Server) watch() {
	defer close(s.done)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.Refresh(context.Background())
		}
	}
}

// Shutdown marks every service NOT_SERVING and stops the server, waiting for
// in-flight calls until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() { s.srv.GracefulStop(); close(stopped) }()
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		return ctx.Err()
	}
}
