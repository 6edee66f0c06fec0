package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/mTix/pkg/core/config"
	tixerror "github.com/msto63/mTix/pkg/core/error"
	"github.com/msto63/mTix/pkg/core/logging"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		want    Endpoint
		wantErr bool
	}{
		{in: "localhost:50051", want: Endpoint{Host: "localhost", Port: 50051}},
		{in: " 10.0.0.7:9000 ", want: Endpoint{Host: "10.0.0.7", Port: 9000}},
		{in: "[::1]:7000", want: Endpoint{Host: "::1", Port: 7000}},
		{in: "localhost", wantErr: true},
		{in: ":50051", wantErr: true},
		{in: "host:abc", wantErr: true},
		{in: "host:0", wantErr: true},
		{in: "host:70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEndpoint(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpoint_String(t *testing.T) {
	assert.Equal(t, "localhost:50051", Endpoint{Host: "localhost", Port: 50051}.String())
	assert.Equal(t, "[::1]:7000", Endpoint{Host: "::1", Port: 7000}.String())
}

func TestParseEndpoints_SkipsMalformedAndDuplicates(t *testing.T) {
	values := []string{
		"a:1,b:2",
		"garbage",
		"b:2, c:3 ,",
		"a:1",
	}
	got := ParseEndpoints(values, logging.Discard())
	assert.Equal(t, []Endpoint{
		{Host: "a", Port: 1},
		{Host: "b", Port: 2},
		{Host: "c", Port: 3},
	}, got)
}

func TestReplicaSet_AdvanceWraps(t *testing.T) {
	rs, err := NewReplicaSet(DefaultEndpoints(), "test")
	require.NoError(t, err)

	assert.Equal(t, 0, rs.Index())
	assert.Equal(t, 50051, rs.Current().Port)
	assert.Equal(t, 50052, rs.Advance().Port)
	assert.Equal(t, 50053, rs.Advance().Port)
	assert.Equal(t, 50051, rs.Advance().Port)
	assert.Equal(t, 0, rs.Index())
	assert.Equal(t, 3, rs.Len())
}

func TestReplicaSet_EndpointsIsCopy(t *testing.T) {
	rs, err := NewReplicaSet(DefaultEndpoints(), "test")
	require.NoError(t, err)

	eps := rs.Endpoints()
	eps[0].Port = 1
	assert.Equal(t, 50051, rs.Current().Port)
}

func TestNewReplicaSet_Empty(t *testing.T) {
	_, err := NewReplicaSet(nil, "test")
	require.Error(t, err)
	assert.True(t, tixerror.IsConfig(err))
}

func TestResolver_UsesStoreOrder(t *testing.T) {
	reg := NewMemoryRegistry()
	reg.Put("concert-servers", "node-b:50052", "node-a:50051")

	r := NewResolver(reg, "concert-servers", "memory", time.Second, logging.Discard())
	rs, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "memory", rs.Source())
	assert.Equal(t, []Endpoint{
		{Host: "node-b", Port: 50052},
		{Host: "node-a", Port: 50051},
	}, rs.Endpoints())
}

func TestResolver_FallbackWhenEmpty(t *testing.T) {
	r := NewResolver(NewMemoryRegistry(), "concert-servers", "memory", time.Second, logging.Discard())
	rs, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, rs.Source())
	assert.Equal(t, DefaultEndpoints(), rs.Endpoints())
}

func TestResolver_FallbackWhenOnlyMalformed(t *testing.T) {
	reg := NewMemoryRegistry()
	reg.Put("concert-servers", "nonsense", "also:nonsense")

	r := NewResolver(reg, "concert-servers", "memory", time.Second, logging.Discard())
	rs, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, rs.Source())
}

func TestResolver_FallbackWhenUnreachable(t *testing.T) {
	reg := NewMemoryRegistry()
	reg.Put("concert-servers", "node-a:1")
	reg.FailWith(errors.New("connection refused"))

	r := NewResolver(reg, "concert-servers", "memory", time.Second, logging.Discard())
	rs, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, rs.Source())
	assert.Equal(t, DefaultEndpoints(), rs.Endpoints())
}

func TestResolver_CanceledContext(t *testing.T) {
	reg := NewMemoryRegistry()
	reg.FailWith(context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(reg, "concert-servers", "memory", time.Second, logging.Discard())
	_, err := r.Resolve(ctx)
	require.Error(t, err)
	assert.True(t, tixerror.HasCode(err, tixerror.CodeCanceled))
}

func TestNewResolverFromConfig_Static(t *testing.T) {
	cfg := config.Default().Discovery
	cfg.Mode = config.DiscoveryStatic
	cfg.StaticEndpoints = []string{"s1:1", "s2:2"}

	r, err := NewResolverFromConfig(cfg, logging.Discard())
	require.NoError(t, err)
	defer r.Close()

	rs, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DiscoveryStatic, rs.Source())
	assert.Equal(t, 2, rs.Len())
}

func TestNewResolverFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.DiscoveryConfig)
	}{
		{name: "unknown mode", mutate: func(c *config.DiscoveryConfig) { c.Mode = "zookeeper" }},
		{name: "bad etcd endpoint", mutate: func(c *config.DiscoveryConfig) { c.EtcdEndpoints = []string{"http://no-port"} }},
		{name: "bad redis addr", mutate: func(c *config.DiscoveryConfig) {
			c.Mode = config.DiscoveryRedis
			c.RedisAddr = "redis"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Discovery
			tt.mutate(&cfg)
			_, err := NewResolverFromConfig(cfg, logging.Discard())
			require.Error(t, err)
			assert.True(t, tixerror.IsConfig(err))
		})
	}
}

func TestMemoryRegistrar(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	a := reg.Registrar("concert-servers")
	b := reg.Registrar("concert-servers")
	require.NoError(t, a.Register(ctx, "a:1"))
	require.NoError(t, b.Register(ctx, "b:2"))
	require.NoError(t, a.Register(ctx, "a:1"))

	values, err := reg.Get(ctx, "concert-servers")
	require.NoError(t, err)
	assert.Equal(t, []string{"a:1", "b:2"}, values)

	require.NoError(t, a.Deregister(ctx))
	values, err = reg.Get(ctx, "concert-servers")
	require.NoError(t, err)
	assert.Equal(t, []string{"b:2"}, values)
}
