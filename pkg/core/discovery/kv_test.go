package discovery

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// fakeEtcd answers Get from a map and records the requested options
type fakeEtcd struct {
	clientv3.KV
	values map[string]string
	err    error
	prefix bool
}

func (f *fakeEtcd) Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.prefix = clientv3.OpGet(key, opts...).IsOptsWithPrefix()

	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		if k == key || (f.prefix && strings.HasPrefix(k, key)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	resp := &clientv3.GetResponse{Count: int64(len(keys))}
	for _, k := range keys {
		resp.Kvs = append(resp.Kvs, &mvccpb.KeyValue{Key: []byte(k), Value: []byte(f.values[k])})
	}
	return resp, nil
}

func TestEtcdKV_Get(t *testing.T) {
	fake := &fakeEtcd{values: map[string]string{
		"concert-servers/b": "replica-2:50052",
		"concert-servers/a": "replica-1:50051",
		"concert-servers":   "replica-0:50050",
		"payment-servers/a": "payments:6000",
	}}
	kv := NewEtcdKVFromClient(&clientv3.Client{KV: fake})

	got, err := kv.Get(context.Background(), "concert-servers")
	require.NoError(t, err)
	assert.True(t, fake.prefix, "key is read as a prefix")
	assert.Equal(t, []string{"replica-0:50050", "replica-1:50051", "replica-2:50052"}, got)

	none, err := kv.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, none)

	fake.err = errors.New("etcdserver: request timed out")
	_, err = kv.Get(context.Background(), "concert-servers")
	assert.ErrorContains(t, err, "etcd get concert-servers")
}

// fakeRedis answers the reads RedisKV issues from typed maps
type fakeRedis struct {
	redis.UniversalClient
	kinds  map[string]string
	values map[string][]string
	err    error
}

func (f *fakeRedis) Type(ctx context.Context, key string) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	kind, ok := f.kinds[key]
	if !ok {
		kind = "none"
	}
	return redis.NewStatusResult(kind, nil)
}

func (f *fakeRedis) ZRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(f.values[key], nil)
}

func (f *fakeRedis) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(f.values[key], nil)
}

func (f *fakeRedis) SMembers(ctx context.Context, key string) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(f.values[key], nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	vals := f.values[key]
	if len(vals) == 0 {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(vals[0], nil)
}

func TestRedisKV_Get(t *testing.T) {
	fake := &fakeRedis{
		kinds: map[string]string{
			"zset":    "zset",
			"list":    "list",
			"set":     "set",
			"string":  "string",
			"expired": "string",
			"hash":    "hash",
		},
		values: map[string][]string{
			"zset":   {"replica-1:50051", "replica-2:50052"},
			"list":   {"replica-3:50053"},
			"set":    {"replica-4:50054"},
			"string": {"replica-5:50055"},
		},
	}
	kv := NewRedisKVFromClient(fake)

	tests := []struct {
		key     string
		want    []string
		wantErr bool
	}{
		{key: "zset", want: []string{"replica-1:50051", "replica-2:50052"}},
		{key: "list", want: []string{"replica-3:50053"}},
		{key: "set", want: []string{"replica-4:50054"}},
		{key: "string", want: []string{"replica-5:50055"}},
		{key: "expired"},
		{key: "missing"},
		{key: "hash", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := kv.Get(context.Background(), tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	fake.err = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	_, err := kv.Get(context.Background(), "zset")
	assert.ErrorContains(t, err, "redis type zset")
}
