package discovery

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/msto63/mTix/pkg/core/config"
	tixerror "github.com/msto63/mTix/pkg/core/error"
	"github.com/msto63/mTix/pkg/core/logging"
	"github.com/redis/go-redis/v9"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// SourceFallback marks a replica set built from DefaultEndpoints
const SourceFallback = "fallback"

// Resolver turns one coordination-store read into a ReplicaSet
type Resolver struct {
	kv      KV
	key     string
	source  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolver creates a resolver over an arbitrary KV
func NewResolver(kv KV, key, source string, timeout time.Duration, logger *slog.Logger) *Resolver {
	if key == "" {
		key = config.DefaultDiscoveryKey
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		kv:      kv,
		key:     key,
		source:  source,
		timeout: timeout,
		logger:  logging.Component(logger, "discovery"),
	}
}

// NewResolverFromConfig builds the KV selected by cfg.Mode. Malformed store
// addresses are configuration errors; unreachable stores are not.
func NewResolverFromConfig(cfg config.DiscoveryConfig, logger *slog.Logger) (*Resolver, error) {
	var kv KV
	switch cfg.Mode {
	case config.DiscoveryEtcd:
		for _, ep := range cfg.EtcdEndpoints {
			if err := validateEtcdEndpoint(ep); err != nil {
				return nil, err
			}
		}
		etcd, err := NewEtcdKV(cfg.EtcdEndpoints, cfg.Timeout.Duration)
		if err != nil {
			return nil, tixerror.Wrap(err, "etcd discovery").WithCode(tixerror.CodeConfig)
		}
		kv = etcd
	case config.DiscoveryRedis:
		if _, _, err := net.SplitHostPort(cfg.RedisAddr); err != nil {
			return nil, tixerror.Config("invalid discovery.redis_addr %q: %v", cfg.RedisAddr, err)
		}
		kv = NewRedisKV(cfg.RedisAddr, cfg.RedisPassword)
	case config.DiscoveryStatic:
		kv = NewStaticKV(cfg.StaticEndpoints)
	default:
		return nil, tixerror.Config("unknown discovery mode %q", cfg.Mode)
	}
	return NewResolver(kv, cfg.Key, cfg.Mode, cfg.Timeout.Duration, logger), nil
}

// NewRegistrarFromConfig builds the registrar matching cfg.Mode. Static
// discovery has nothing to register with and returns nil.
func NewRegistrarFromConfig(cfg config.DiscoveryConfig, logger *slog.Logger) (Registrar, error) {
	switch cfg.Mode {
	case config.DiscoveryEtcd:
		client, err := clientv3.New(clientv3.Config{
			Endpoints:   cfg.EtcdEndpoints,
			DialTimeout: cfg.Timeout.Duration,
		})
		if err != nil {
			return nil, tixerror.Wrap(err, "etcd registrar").WithCode(tixerror.CodeConfig)
		}
		return NewEtcdRegistrar(client, cfg.Key, 10*time.Second, logger), nil
	case config.DiscoveryRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		return NewRedisRegistrar(client, cfg.Key, logger), nil
	default:
		return nil, nil
	}
}

// Resolve reads the endpoint list once. An empty or unreachable store
// yields the default three local endpoints with Source() == "fallback".
// Only cancellation of ctx is returned as an error.
func (r *Resolver) Resolve(ctx context.Context) (*ReplicaSet, error) {
	readCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	values, err := r.kv.Get(readCtx, r.key)
	if err != nil {
		if ctx.Err() != nil {
			return nil, tixerror.Wrap(ctx.Err(), "discovery canceled").WithCode(tixerror.CodeCanceled)
		}
		r.logger.Warn("coordination store unreachable, using fallback endpoints",
			"source", r.source, "key", r.key, "error", err)
		return r.fallback()
	}

	endpoints := ParseEndpoints(values, r.logger)
	if len(endpoints) == 0 {
		r.logger.Warn("no endpoints registered, using fallback endpoints",
			"source", r.source, "key", r.key)
		return r.fallback()
	}

	r.logger.Info("resolved endpoints", "source", r.source, "count", len(endpoints), "first", endpoints[0].String())
	return NewReplicaSet(endpoints, r.source)
}

func (r *Resolver) fallback() (*ReplicaSet, error) {
	return NewReplicaSet(DefaultEndpoints(), SourceFallback)
}

// Close releases the underlying store client, if any
func (r *Resolver) Close() error {
	if c, ok := r.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func validateEtcdEndpoint(ep string) error {
	hostport := ep
	if strings.Contains(ep, "://") {
		u, err := url.Parse(ep)
		if err != nil {
			return tixerror.Config("invalid etcd endpoint %q: %v", ep, err)
		}
		hostport = u.Host
	}
	if _, _, err := net.SplitHostPort(hostport); err != nil {
		return tixerror.Config("invalid etcd endpoint %q: %v", ep, err)
	}
	return nil
}
