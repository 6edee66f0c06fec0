package health

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coregrpc "github.com/msto63/mTix/pkg/core/grpc"
	"github.com/msto63/mTix/pkg/core/logging"
)

func fixed(st Status) func(ctx context.Context) CheckResult {
	return func(ctx context.Context) CheckResult {
		return CheckResult{Status: st}
	}
}

func TestNewChecker(t *testing.T) {
	checker := NewChecker("replica-1", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "ok"}
	})

	assert.Equal(t, "replica-1", checker.Name())
	result := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Equal(t, "ok", result.Message)
}

func TestRegistry_Check(t *testing.T) {
	registry := NewRegistry("mtix", "1.0.0")
	registry.RegisterFunc("store", fixed(StatusHealthy))
	registry.RegisterFunc("amqp", fixed(StatusHealthy))
	assert.Nil(t, registry.Last())

	report := registry.Check(context.Background())
	assert.Equal(t, "mtix", report.Service)
	assert.Equal(t, "1.0.0", report.Version)
	assert.Equal(t, StatusHealthy, report.Status)
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "amqp", report.Checks[0].Name)
	assert.Equal(t, "store", report.Checks[1].Name)
	assert.Same(t, report, registry.Last())
}

func TestRegistry_RegisterReplacesByName(t *testing.T) {
	registry := NewRegistry("mtix", "1.0.0")
	registry.RegisterFunc("store", fixed(StatusUnhealthy))
	registry.RegisterFunc("store", fixed(StatusHealthy))

	report := registry.Check(context.Background())
	require.Len(t, report.Checks, 1)
	assert.Equal(t, StatusHealthy, report.Status)
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
		serving  bool
	}{
		{name: "all healthy", statuses: []Status{StatusHealthy, StatusHealthy}, want: StatusHealthy, serving: true},
		{name: "one degraded", statuses: []Status{StatusHealthy, StatusDegraded}, want: StatusDegraded, serving: true},
		{name: "one unhealthy", statuses: []Status{StatusDegraded, StatusUnhealthy}, want: StatusUnhealthy},
		{name: "no checks", want: StatusHealthy, serving: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("mtix", "1.0.0")
			for i, st := range tt.statuses {
				registry.RegisterFunc(string(rune('a'+i)), fixed(st))
			}
			report := registry.Check(context.Background())
			assert.Equal(t, tt.want, report.Status)
			assert.Equal(t, tt.serving, report.Serving())
		})
	}
}

func TestReport_Failing(t *testing.T) {
	registry := NewRegistry("mtix", "1.0.0")
	registry.RegisterFunc("store", fixed(StatusUnhealthy))
	registry.RegisterFunc("amqp", fixed(StatusDegraded))
	registry.RegisterFunc("disk", fixed(StatusHealthy))

	assert.Equal(t, []string{"store"}, registry.Check(context.Background()).Failing())
}

func TestRegistry_ChecksRunInParallel(t *testing.T) {
	registry := NewRegistry("mtix", "1.0.0")

	var counter atomic.Int32
	for i := 0; i < 5; i++ {
		registry.RegisterFunc("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			counter.Add(1)
			time.Sleep(20 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		})
	}

	start := time.Now()
	report := registry.Check(context.Background())
	assert.Less(t, time.Since(start), 80*time.Millisecond)
	assert.Equal(t, int32(5), counter.Load())
	assert.Len(t, report.Checks, 5)
}

func TestRegistry_CheckTimeout(t *testing.T) {
	registry := NewRegistry("mtix", "1.0.0")
	registry.timeout = 20 * time.Millisecond
	registry.RegisterFunc("stuck", func(ctx context.Context) CheckResult {
		<-ctx.Done()
		return CheckResult{Status: StatusUnhealthy, Message: ctx.Err().Error()}
	})

	report := registry.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, "context deadline exceeded", report.Checks[0].Message)
}

func TestRegistry_WatchReportsChanges(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)

	registry := NewRegistry("mtix", "1.0.0")
	registry.RegisterFunc("store", func(ctx context.Context) CheckResult {
		if healthy.Load() {
			return CheckResult{Status: StatusHealthy}
		}
		return CheckResult{Status: StatusUnhealthy}
	})
	registry.Check(context.Background())

	changes := make(chan Status, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		registry.Watch(ctx, 5*time.Millisecond, func(r *Report) { changes <- r.Status })
	}()

	healthy.Store(false)
	assert.Equal(t, StatusUnhealthy, <-changes)
	healthy.Store(true)
	assert.Equal(t, StatusHealthy, <-changes)

	cancel()
	<-done
}

func startServer(t *testing.T) *coregrpc.Server {
	t.Helper()
	cfg := coregrpc.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.Logger = logging.Discard()
	srv := coregrpc.NewServer(cfg)
	require.NoError(t, srv.StartAsync())
	t.Cleanup(srv.Kill)
	return srv
}

func TestGRPCChecker(t *testing.T) {
	srv := startServer(t)

	pool := coregrpc.NewConnectionPool(coregrpc.DefaultClientConfig(""))
	defer pool.Close()

	result := GRPCChecker("replica", srv.Address(), pool, 2*time.Second).Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status, result.Message)
	assert.Equal(t, "SERVING", result.Details["serving_status"])

	srv.SetServing("", false)
	result = GRPCChecker("replica", srv.Address(), pool, 2*time.Second).Check(context.Background())
	assert.Equal(t, StatusDegraded, result.Status)
}

func TestGRPCChecker_Unreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	result := GRPCChecker("replica", addr, nil, time.Second).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)
}
