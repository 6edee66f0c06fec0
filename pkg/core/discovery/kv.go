package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// KV is the single read discovery needs from a coordination store
type KV interface {
	Get(ctx context.Context, key string) ([]string, error)
}

// StaticKV serves a fixed endpoint list for every key
type StaticKV struct {
	values []string
}

// NewStaticKV creates a KV from configured endpoints
func NewStaticKV(values []string) *StaticKV {
	return &StaticKV{values: append([]string(nil), values...)}
}

// Get returns the configured values
func (s *StaticKV) Get(ctx context.Context, key string) ([]string, error) {
	return append([]string(nil), s.values...), nil
}

// EtcdKV reads endpoints from etcd. The key is read as a prefix so both a
// single value under the key and per-replica keys below it are found.
type EtcdKV struct {
	client *clientv3.Client
}

// NewEtcdKV connects to etcd. The client connects lazily; an unreachable
// cluster surfaces on Get.
func NewEtcdKV(endpoints []string, dialTimeout time.Duration) (*EtcdKV, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("etcd client: %w", err)
	}
	return &EtcdKV{client: client}, nil
}

// NewEtcdKVFromClient wraps an existing etcd client
func NewEtcdKVFromClient(client *clientv3.Client) *EtcdKV {
	return &EtcdKV{client: client}
}

// Get returns the values under key in key order
func (e *EtcdKV) Get(ctx context.Context, key string) ([]string, error) {
	resp, err := e.client.Get(ctx, key,
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend),
	)
	if err != nil {
		return nil, fmt.Errorf("etcd get %s: %w", key, err)
	}
	values := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		values = append(values, string(kv.Value))
	}
	return values, nil
}

// Close closes the etcd client
func (e *EtcdKV) Close() error {
	return e.client.Close()
}

// RedisKV reads endpoints from redis. Replicas register in a sorted set
// scored by registration time; a plain string, list or set also works.
type RedisKV struct {
	client redis.UniversalClient
}

// NewRedisKV creates a redis-backed KV
func NewRedisKV(addr, password string) *RedisKV {
	return &RedisKV{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})}
}

// NewRedisKVFromClient wraps an existing redis client
func NewRedisKVFromClient(client redis.UniversalClient) *RedisKV {
	return &RedisKV{client: client}
}

// Get returns the values stored at key
func (r *RedisKV) Get(ctx context.Context, key string) ([]string, error) {
	kind, err := r.client.Type(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis type %s: %w", key, err)
	}

	switch kind {
	case "none":
		return nil, nil
	case "zset":
		return r.client.ZRange(ctx, key, 0, -1).Result()
	case "list":
		return r.client.LRange(ctx, key, 0, -1).Result()
	case "set":
		return r.client.SMembers(ctx, key).Result()
	case "string":
		v, err := r.client.Get(ctx, key).Result()
		if err == redis.Nil {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("redis key %s has unsupported type %s", key, kind)
	}
}

// Close closes the redis client
func (r *RedisKV) Close() error {
	return r.client.Close()
}

// MemoryRegistry is an in-process coordination store for tests and single
// process setups. It implements both KV and Registrar.
type MemoryRegistry struct {
	mu     sync.RWMutex
	values map[string][]string
	err    error
}

// NewMemoryRegistry creates an empty registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{values: make(map[string][]string)}
}

// Put replaces the values stored at key
func (m *MemoryRegistry) Put(key string, values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]string(nil), values...)
}

// FailWith makes every Get return err; nil restores normal operation
func (m *MemoryRegistry) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Get returns the values at key in insertion order
func (m *MemoryRegistry) Get(ctx context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.values[key]...), nil
}

// Registrar returns a registrar appending to key
func (m *MemoryRegistry) Registrar(key string) Registrar {
	return &memoryRegistrar{registry: m, key: key}
}

type memoryRegistrar struct {
	registry *MemoryRegistry
	key      string
	addr     string
}

func (r *memoryRegistrar) Register(ctx context.Context, addr string) error {
	m := r.registry
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.values[r.key] {
		if v == addr {
			r.addr = addr
			return nil
		}
	}
	m.values[r.key] = append(m.values[r.key], addr)
	r.addr = addr
	return nil
}

func (r *memoryRegistrar) Deregister(ctx context.Context) error {
	m := r.registry
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.values[r.key][:0]
	for _, v := range m.values[r.key] {
		if v != r.addr {
			kept = append(kept, v)
		}
	}
	m.values[r.key] = kept
	return nil
}

func (r *memoryRegistrar) Close() error {
	return nil
}
