// Package resilient keeps a client bound to one healthy backend replica.
// It resolves the replica list once, holds a single active connection,
// and retries transport failures on the next replica under a fixed
// attempt budget. Application rejections are never retried.
package resilient

import (
	"context"
	"log/slog"

	"github.com/msto63/mTix/pkg/core/config"
	"github.com/msto63/mTix/pkg/core/discovery"
	coregrpc "github.com/msto63/mTix/pkg/core/grpc"
	"github.com/msto63/mTix/pkg/core/logging"
)

// Client is the shared access layer behind every facade
type Client struct {
	manager  *ConnectionManager
	executor *Executor
	source   string
	logger   *slog.Logger
}

type options struct {
	dialer   Dialer
	kv       discovery.KV
	replicas *discovery.ReplicaSet
	execOpts []ExecutorOption
}

// Option configures Dial
type Option func(*options)

// WithDialer replaces the transport dialer
func WithDialer(d Dialer) Option {
	return func(o *options) {
		o.dialer = d
	}
}

// WithKV reads the endpoint list from kv instead of the configured store
func WithKV(kv discovery.KV) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithReplicas skips discovery and uses replicas as given
func WithReplicas(replicas *discovery.ReplicaSet) Option {
	return func(o *options) {
		o.replicas = replicas
	}
}

// WithExecutorOptions passes options through to the executor
func WithExecutorOptions(opts ...ExecutorOption) Option {
	return func(o *options) {
		o.execOpts = append(o.execOpts, opts...)
	}
}

// GRPCDialer returns a Dialer backed by pkg/core/grpc
func GRPCDialer(cfg *config.Config, logger *slog.Logger) Dialer {
	return func(ctx context.Context, ep discovery.Endpoint) (Conn, error) {
		cc := coregrpc.DefaultClientConfig(ep.String())
		cc.Compression = cfg.Client.Compression
		cc.Logger = logger
		conn, err := coregrpc.Dial(cc)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// Dial resolves the replica list and connects to its first reachable
// endpoint. Discovery runs exactly once per Client. An invalid cfg is
// rejected with CodeConfig before anything is dialed.
func Dial(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{dialer: GRPCDialer(cfg, logger)}
	for _, opt := range opts {
		opt(&o)
	}

	replicas := o.replicas
	if replicas == nil {
		var err error
		replicas, err = resolve(ctx, cfg, o.kv, logger)
		if err != nil {
			return nil, err
		}
	}

	manager, err := NewConnectionManager(ctx, replicas, o.dialer, cfg.Client.DrainTimeout.Duration, logger)
	if err != nil {
		return nil, err
	}

	policy := Policy{
		Attempts:    cfg.Client.RetryAttempts,
		Interval:    cfg.Client.RetryInterval.Duration,
		CallTimeout: cfg.Client.CallTimeout.Duration,
	}

	return &Client{
		manager:  manager,
		executor: NewExecutor(manager, policy, logger, o.execOpts...),
		source:   replicas.Source(),
		logger:   logging.Component(logger, "client"),
	}, nil
}

func resolve(ctx context.Context, cfg *config.Config, kv discovery.KV, logger *slog.Logger) (*discovery.ReplicaSet, error) {
	var resolver *discovery.Resolver
	if kv != nil {
		resolver = discovery.NewResolver(kv, cfg.Discovery.Key, "custom", cfg.Discovery.Timeout.Duration, logger)
	} else {
		var err error
		resolver, err = discovery.NewResolverFromConfig(cfg.Discovery, logger)
		if err != nil {
			return nil, err
		}
	}
	defer resolver.Close()

	return resolver.Resolve(ctx)
}

// Run executes call under the retry policy
func (c *Client) Run(ctx context.Context, op string, call Call) error {
	return c.executor.Run(ctx, op, call)
}

// Endpoint returns the endpoint currently in use
func (c *Client) Endpoint() discovery.Endpoint {
	return c.manager.Endpoint()
}

// Replicas returns the resolved endpoint list
func (c *Client) Replicas() []discovery.Endpoint {
	return c.manager.Replicas()
}

// Source names where the replica list came from ("etcd", "fallback", ...)
func (c *Client) Source() string {
	return c.source
}

// Policy returns the retry policy in effect
func (c *Client) Policy() Policy {
	return c.executor.Policy()
}

// Close releases the active connection. Idempotent.
func (c *Client) Close() error {
	return c.manager.Close()
}
