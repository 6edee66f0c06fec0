// ============================================================================
// mTix - Concert ticketing client
// ============================================================================
//
// Package:     discovery
// Description: Replica self-registration in the coordination store
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/msto63/mTix/pkg/core/logging"
	"github.com/redis/go-redis/v9"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// Registrar publishes a replica address under the discovery key
type Registrar interface {
	Register(ctx context.Context, addr string) error
	Deregister(ctx context.Context) error
	Close() error
}

// EtcdRegistrar writes <key>/<addr> bound to a lease kept alive in the
// background, so a crashed replica disappears after the TTL.
type EtcdRegistrar struct {
	client *clientv3.Client
	key    string
	ttl    int64
	logger *slog.Logger

	mu      sync.Mutex
	leaseID clientv3.LeaseID
	cancel  context.CancelFunc
}

// NewEtcdRegistrar creates a registrar on an etcd client
func NewEtcdRegistrar(client *clientv3.Client, key string, ttl time.Duration, logger *slog.Logger) *EtcdRegistrar {
	if ttl < time.Second {
		ttl = 10 * time.Second
	}
	return &EtcdRegistrar{
		client: client,
		key:    strings.TrimSuffix(key, "/"),
		ttl:    int64(ttl / time.Second),
		logger: logging.Component(logger, "registrar"),
	}
}

// Register grants a lease, writes the address and starts the keepalive
func (r *EtcdRegistrar) Register(ctx context.Context, addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lease, err := r.client.Grant(ctx, r.ttl)
	if err != nil {
		return fmt.Errorf("etcd grant: %w", err)
	}

	key := r.key + "/" + addr
	if _, err := r.client.Put(ctx, key, addr, clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("etcd put %s: %w", key, err)
	}

	kaCtx, cancel := context.WithCancel(context.Background())
	ch, err := r.client.KeepAlive(kaCtx, lease.ID)
	if err != nil {
		cancel()
		return fmt.Errorf("etcd keepalive: %w", err)
	}

	r.leaseID = lease.ID
	r.cancel = cancel

	go func() {
		for range ch {
		}
		r.logger.Debug("lease keepalive stopped", "key", key)
	}()

	r.logger.Info("registered replica", "key", key, "ttl_s", r.ttl)
	return nil
}

// Deregister revokes the lease, removing the key
func (r *EtcdRegistrar) Deregister(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.leaseID == 0 {
		return nil
	}
	_, err := r.client.Revoke(ctx, r.leaseID)
	r.leaseID = 0
	if err != nil {
		return fmt.Errorf("etcd revoke: %w", err)
	}
	return nil
}

// Close closes the etcd client
func (r *EtcdRegistrar) Close() error {
	return r.client.Close()
}

// RedisRegistrar adds the address to a sorted set scored by registration
// time, which keeps discovery order stable across restarts of other replicas.
type RedisRegistrar struct {
	client redis.UniversalClient
	key    string
	logger *slog.Logger

	mu   sync.Mutex
	addr string
}

// NewRedisRegistrar creates a registrar on a redis client
func NewRedisRegistrar(client redis.UniversalClient, key string, logger *slog.Logger) *RedisRegistrar {
	return &RedisRegistrar{
		client: client,
		key:    key,
		logger: logging.Component(logger, "registrar"),
	}
}

// Register adds addr unless it is already present
func (r *RedisRegistrar) Register(ctx context.Context, addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.client.ZAddNX(ctx, r.key, redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: addr,
	}).Err()
	if err != nil {
		return fmt.Errorf("redis zadd %s: %w", r.key, err)
	}
	r.addr = addr
	r.logger.Info("registered replica", "key", r.key, "addr", addr)
	return nil
}

// Deregister removes the registered address
func (r *RedisRegistrar) Deregister(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.addr == "" {
		return nil
	}
	if err := r.client.ZRem(ctx, r.key, r.addr).Err(); err != nil {
		return fmt.Errorf("redis zrem %s: %w", r.key, err)
	}
	r.addr = ""
	return nil
}

// Close closes the redis client
func (r *RedisRegistrar) Close() error {
	return r.client.Close()
}
