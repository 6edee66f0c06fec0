// Package server exposes a store over the concert, ticket and reservation
// gRPC services. Several servers sharing one store behave like a
// consistently replicated cluster.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/api/concert"
	"github.com/msto63/mTix/api/reservation"
	"github.com/msto63/mTix/api/ticket"
	"github.com/msto63/mTix/internal/replica/events"
	"github.com/msto63/mTix/internal/replica/store"
	"github.com/msto63/mTix/pkg/core/discovery"
	tixerror "github.com/msto63/mTix/pkg/core/error"
	coregrpc "github.com/msto63/mTix/pkg/core/grpc"
	"github.com/msto63/mTix/pkg/core/health"
	"github.com/msto63/mTix/pkg/core/logging"
	"github.com/msto63/mTix/pkg/core/version"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultBatchSize is the number of reservations per stream message
const DefaultBatchSize = 10

// DefaultHealthInterval is how often the replica re-runs its self-checks
const DefaultHealthInterval = 5 * time.Second

// Config holds server configuration
type Config struct {
	Host string
	Port int
	// Advertise is the address registered for discovery; defaults to the
	// listen address
	Advertise        string
	EnableReflection bool
	// HealthInterval is the period of the self-checks that drive the
	// grpc.health.v1 serving status
	HealthInterval time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           50051,
		HealthInterval: DefaultHealthInterval,
	}
}

// Server is one replica of the ticketing backend
type Server struct {
	store     store.Store
	events    events.Publisher
	registrar discovery.Registrar
	grpc      *coregrpc.Server
	health    *health.Registry
	logger    *slog.Logger
	config    Config

	stopWatch context.CancelFunc
	watching  chan struct{}
}

// Option configures a Server
type Option func(*Server)

// WithPublisher sends booking events to p
func WithPublisher(p events.Publisher) Option {
	return func(s *Server) {
		s.events = p
	}
}

// WithRegistrar registers the replica for discovery on Start
func WithRegistrar(r discovery.Registrar) Option {
	return func(s *Server) {
		s.registrar = r
	}
}

// New creates a replica over st
func New(cfg Config, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	logger = logging.Component(logger, "replica")

	grpcCfg := coregrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.Port
	grpcCfg.EnableReflection = cfg.EnableReflection
	grpcCfg.Logger = logger

	s := &Server{
		store:  st,
		events: events.Nop{},
		grpc:   coregrpc.NewServer(grpcCfg),
		health: health.NewRegistry("mtix-replica", version.Replica),
		logger: logger,
		config: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.health.RegisterFunc("store", func(ctx context.Context) health.CheckResult {
		if err := st.Ping(ctx); err != nil {
			return health.CheckResult{Name: "store", Status: health.StatusUnhealthy, Message: err.Error()}
		}
		return health.CheckResult{Name: "store", Status: health.StatusHealthy, Message: "store reachable"}
	})

	gs := s.grpc.GRPCServer()
	concert.RegisterConcertServiceServer(gs, &concertService{s: s})
	ticket.RegisterTicketInventoryServiceServer(gs, &ticketService{s: s})
	reservation.RegisterReservationServiceServer(gs, &reservationService{s: s})
	return s
}

// Start begins serving in the background and registers the replica
func (s *Server) Start(ctx context.Context) error {
	if err := s.grpc.StartAsync(); err != nil {
		return tixerror.Wrap(err, "start replica").WithCode(tixerror.CodeConfig)
	}
	s.applyHealth(s.health.Check(ctx))

	interval := s.config.HealthInterval
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	watchCtx, cancel := context.WithCancel(context.Background())
	s.stopWatch = cancel
	s.watching = make(chan struct{})
	go func() {
		defer close(s.watching)
		s.health.Watch(watchCtx, interval, s.applyHealth)
	}()

	if s.registrar != nil {
		addr := s.AdvertiseAddress()
		if err := s.registrar.Register(ctx, addr); err != nil {
			s.logger.Warn("registration failed", "addr", addr, "error", err)
		} else {
			s.logger.Info("registered", "addr", addr)
		}
	}
	return nil
}

// Stop deregisters, then drains in-flight calls until ctx ends
func (s *Server) Stop(ctx context.Context) {
	if s.stopWatch != nil {
		s.stopWatch()
		<-s.watching
	}
	if s.registrar != nil {
		if err := s.registrar.Deregister(ctx); err != nil {
			s.logger.Warn("deregistration failed", "error", err)
		}
		_ = s.registrar.Close()
	}
	s.grpc.SetServing("", false)
	s.grpc.StopWithTimeout(ctx)
	_ = s.events.Close()
}

// Kill drops every connection at once, like a crashed replica
func (s *Server) Kill() {
	s.grpc.Kill()
}

// Address returns the bound listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}

// AdvertiseAddress returns the address clients should dial
func (s *Server) AdvertiseAddress() string {
	if s.config.Advertise != "" {
		return s.config.Advertise
	}
	ep, err := discovery.ParseEndpoint(s.Address())
	if err != nil {
		return s.Address()
	}
	if ep.Host == "0.0.0.0" || ep.Host == "::" || ep.Host == "" {
		ep.Host = "localhost"
	}
	return ep.String()
}

// Health runs the replica's health checks
func (s *Server) Health(ctx context.Context) *health.Report {
	return s.health.Check(ctx)
}

// applyHealth publishes the self-check outcome through grpc.health.v1, so
// a replica whose store is down reports NOT_SERVING
func (s *Server) applyHealth(report *health.Report) {
	serving := report.Serving()
	s.grpc.SetServing("", serving)
	if serving {
		s.logger.Info("serving", "status", report.Status)
	} else {
		s.logger.Warn("not serving", "status", report.Status, "failing", report.Failing())
	}
}

// result turns a store error into a response envelope. Rejections travel
// in the envelope; anything else is an internal failure of this replica.
func (s *Server) result(op string, err error) (common.Result, error) {
	if err == nil {
		return common.OK(""), nil
	}
	if tixerror.IsApplication(err) {
		var te *tixerror.Error
		msg := err.Error()
		if errors.As(err, &te) {
			msg = te.Message()
		}
		s.logger.Debug("rejected", "op", op, "code", store.WireCode(err), "reason", msg)
		return common.Fail(store.WireCode(err), msg), nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return common.Result{}, status.FromContextError(err).Err()
	}
	s.logger.Error("store failure", "op", op, "error", err)
	return common.Result{}, status.Error(codes.Internal, fmt.Sprintf("%s failed", op))
}

func (s *Server) publish(ctx context.Context, typ string, b store.Booking) {
	err := s.events.Publish(ctx, events.Event{
		Type:               typ,
		ReservationID:      b.ID,
		Kind:               string(b.Kind),
		ConcertID:          b.ConcertID,
		Holder:             b.Holder,
		SeatTier:           b.SeatTier,
		SeatCount:          b.SeatCount,
		AfterPartyQuantity: b.AfterPartyQuantity,
		TotalPrice:         b.TotalPrice,
		At:                 time.Now().UTC(),
	})
	if err != nil {
		s.logger.Debug("event not published", "type", typ, "reservation_id", b.ID, "error", err)
	}
}
