package grpc

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/msto63/mTix/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// ClientConfig holds gRPC client configuration
type ClientConfig struct {
	Target            string
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
	// Compression names a registered compressor ("zstd", "gzip"); empty disables it
	Compression string
	Logger      *slog.Logger
}

// DefaultClientConfig returns a default client configuration
func DefaultClientConfig(target string) ClientConfig {
	return ClientConfig{
		Target:            target,
		MaxRecvMsgSize:    16 * 1024 * 1024, // 16MB
		MaxSendMsgSize:    16 * 1024 * 1024, // 16MB
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

// Dial creates a new gRPC client connection. The connection is established
// lazily, so a dead target surfaces as Unavailable on the first call.
func Dial(cfg ClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	logger := logging.Component(cfg.Logger, "grpc-client")

	callOpts := []grpc.CallOption{
		grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
	}
	if cfg.Compression != "" && cfg.Compression != "none" {
		callOpts = append(callOpts, grpc.UseCompressor(cfg.Compression))
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(callOpts...),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                cfg.KeepaliveInterval,
			Timeout:             cfg.KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
		grpc.WithChainUnaryInterceptor(
			ClientRequestIDInterceptor(),
			ClientLoggingInterceptor(logger),
		),
		grpc.WithChainStreamInterceptor(
			ClientStreamRequestIDInterceptor(),
			ClientStreamLoggingInterceptor(logger),
		),
	}

	// Append custom options
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(cfg.Target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.Target, err)
	}
	return conn, nil
}

// ConnectionPool keeps one connection per target (thread-safe). It serves
// tooling that talks to every replica at once, such as health checks.
type ConnectionPool struct {
	mu          sync.RWMutex
	connections map[string]*grpc.ClientConn
	config      ClientConfig
}

// NewConnectionPool creates a new connection pool
func NewConnectionPool(cfg ClientConfig) *ConnectionPool {
	return &ConnectionPool{
		connections: make(map[string]*grpc.ClientConn),
		config:      cfg,
	}
}

// Get returns a connection to the target, creating one if necessary.
// Connections in TransientFailure or Shutdown are replaced.
func (p *ConnectionPool) Get(target string) (*grpc.ClientConn, error) {
	p.mu.RLock()
	conn, exists := p.connections[target]
	p.mu.RUnlock()

	if exists && isConnectionHealthy(conn) {
		return conn, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if conn, exists := p.connections[target]; exists {
		if isConnectionHealthy(conn) {
			return conn, nil
		}
		conn.Close()
		delete(p.connections, target)
	}

	cfg := p.config
	cfg.Target = target
	newConn, err := Dial(cfg)
	if err != nil {
		return nil, err
	}

	p.connections[target] = newConn
	return newConn, nil
}

func isConnectionHealthy(conn *grpc.ClientConn) bool {
	switch conn.GetState() {
	case connectivity.Ready, connectivity.Idle, connectivity.Connecting:
		return true
	default:
		return false
	}
}

// Close closes all connections in the pool
func (p *ConnectionPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for target, conn := range p.connections {
		if err := conn.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close connection to %s: %w", target, err)
		}
		delete(p.connections, target)
	}
	return lastErr
}
