package resilient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/pkg/core/config"
	"github.com/msto63/mTix/pkg/core/discovery"
	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// fakeNet scripts the outcome of calls per endpoint
type fakeNet struct {
	mu       sync.Mutex
	failures map[string]error
	dialErrs map[string]error
	calls    []string
	closed   map[string]int
}

func newFakeNet() *fakeNet {
	return &fakeNet{
		failures: make(map[string]error),
		dialErrs: make(map[string]error),
		closed:   make(map[string]int),
	}
}

func (n *fakeNet) down(addrs ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, a := range addrs {
		n.failures[a] = status.Error(codes.Unavailable, a+" is down")
	}
}

func (n *fakeNet) fail(addr string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures[addr] = err
}

func (n *fakeNet) callLog() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

func (n *fakeNet) closeCount(addr string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed[addr]
}

func (n *fakeNet) dial(ctx context.Context, ep discovery.Endpoint) (Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.dialErrs[ep.String()]; err != nil {
		return nil, err
	}
	return &fakeConn{addr: ep.String(), net: n}, nil
}

type fakeConn struct {
	addr string
	net  *fakeNet
}

func (c *fakeConn) Invoke(ctx context.Context, method string, args, reply interface{}, opts ...grpc.CallOption) error {
	c.net.mu.Lock()
	defer c.net.mu.Unlock()
	c.net.calls = append(c.net.calls, c.addr)
	return c.net.failures[c.addr]
}

func (c *fakeConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, status.Error(codes.Unimplemented, "no streams")
}

func (c *fakeConn) Close() error {
	c.net.mu.Lock()
	defer c.net.mu.Unlock()
	c.net.closed[c.addr]++
	return nil
}

// recordingSleeper returns immediately and remembers what it was asked for
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func (s *recordingSleeper) total() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum time.Duration
	for _, w := range s.waits {
		sum += w
	}
	return sum
}

func replicas(t *testing.T) *discovery.ReplicaSet {
	t.Helper()
	rs, err := discovery.NewReplicaSet([]discovery.Endpoint{
		{Host: "a", Port: 1},
		{Host: "b", Port: 2},
		{Host: "c", Port: 3},
	}, "test")
	require.NoError(t, err)
	return rs
}

func newManager(t *testing.T, n *fakeNet) *ConnectionManager {
	t.Helper()
	m, err := NewConnectionManager(context.Background(), replicas(t), n.dial, time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func invoke(ctx context.Context, cc grpc.ClientConnInterface) error {
	return cc.Invoke(ctx, "/test/Op", nil, nil)
}

func TestConnectionManager_FailoverOrder(t *testing.T) {
	m := newManager(t, newFakeNet())
	ctx := context.Background()

	assert.Equal(t, "a:1", m.Endpoint().String())
	want := []string{"b:2", "c:3", "a:1", "b:2"}
	for i, ep := range want {
		require.NoError(t, m.Failover(ctx, nil))
		assert.Equal(t, ep, m.Endpoint().String())
		assert.Equal(t, (i+1)%3, m.Index())
	}
}

func TestConnectionManager_SkipsUndialableAtStart(t *testing.T) {
	n := newFakeNet()
	n.dialErrs["a:1"] = errors.New("bad target")

	m := newManager(t, n)
	assert.Equal(t, "b:2", m.Endpoint().String())
	assert.Equal(t, 1, m.Index())
}

func TestConnectionManager_NoEndpointDialable(t *testing.T) {
	n := newFakeNet()
	for _, a := range []string{"a:1", "b:2", "c:3"} {
		n.dialErrs[a] = errors.New("bad target")
	}

	_, err := NewConnectionManager(context.Background(), replicas(t), n.dial, time.Second, nil)
	require.Error(t, err)
	assert.True(t, tixerror.IsTransport(err))
}

func TestConnectionManager_ConcurrentFailoverAdvancesOnce(t *testing.T) {
	m := newManager(t, newFakeNet())
	ctx := context.Background()

	lease, err := m.Acquire()
	require.NoError(t, err)
	lease.Release()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.Failover(ctx, lease))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.Index())
	assert.Equal(t, "b:2", m.Endpoint().String())
}

func TestConnectionManager_DrainsBeforeClosing(t *testing.T) {
	n := newFakeNet()
	m, err := NewConnectionManager(context.Background(), replicas(t), n.dial, 5*time.Second, nil)
	require.NoError(t, err)
	defer m.Close()

	lease, err := m.Acquire()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- m.Failover(context.Background(), nil) }()

	assert.Eventually(t, func() bool { return m.Index() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, n.closeCount("a:1"))

	lease.Release()
	require.NoError(t, <-done)
	assert.Equal(t, 1, n.closeCount("a:1"))
}

func TestConnectionManager_FailoverKeepsOldWhenNothingDials(t *testing.T) {
	n := newFakeNet()
	m := newManager(t, n)

	n.mu.Lock()
	n.dialErrs["b:2"] = errors.New("bad target")
	n.dialErrs["c:3"] = errors.New("bad target")
	n.dialErrs["a:1"] = errors.New("bad target")
	n.mu.Unlock()

	err := m.Failover(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "a:1", m.Endpoint().String())
	assert.Equal(t, 0, n.closeCount("a:1"))
}

func TestConnectionManager_CloseIdempotent(t *testing.T) {
	n := newFakeNet()
	m, err := NewConnectionManager(context.Background(), replicas(t), n.dial, time.Second, nil)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, 1, n.closeCount("a:1"))

	_, err = m.Acquire()
	assert.True(t, tixerror.HasCode(err, tixerror.CodeCanceled))
}

func TestExecutor_SucceedsOnLastAttempt(t *testing.T) {
	n := newFakeNet()
	n.down("a:1", "b:2")
	m := newManager(t, n)
	s := &recordingSleeper{}

	e := NewExecutor(m, Policy{Attempts: 3, Interval: 2 * time.Second}, nil, WithSleeper(s.sleep))
	require.NoError(t, e.Run(context.Background(), "op", invoke))

	assert.Equal(t, []string{"a:1", "b:2", "c:3"}, n.callLog())
	assert.Equal(t, 4*time.Second, s.total())
	assert.Equal(t, "c:3", m.Endpoint().String())
}

func TestExecutor_RetriesExhausted(t *testing.T) {
	n := newFakeNet()
	n.down("a:1", "b:2", "c:3")
	m := newManager(t, n)
	s := &recordingSleeper{}

	e := NewExecutor(m, Policy{Attempts: 3, Interval: 2 * time.Second}, nil, WithSleeper(s.sleep))
	err := e.Run(context.Background(), "op", invoke)

	require.Error(t, err)
	assert.True(t, tixerror.HasCode(err, tixerror.CodeRetriesExhausted))
	assert.True(t, errors.Is(err, tixerror.ErrRetriesExhausted))
	assert.Contains(t, err.Error(), "c:3 is down")
	assert.Len(t, n.callLog(), 3)
	assert.Equal(t, 4*time.Second, s.total())
}

func TestExecutor_ApplicationErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want tixerror.Code
	}{
		{name: "status not found", err: status.Error(codes.NotFound, "no such concert"), want: tixerror.CodeNotFound},
		{name: "status invalid", err: status.Error(codes.InvalidArgument, "bad"), want: tixerror.CodeInvalidInput},
		{name: "status precondition", err: status.Error(codes.FailedPrecondition, "cancelled"), want: tixerror.CodeRejected},
		{name: "result rejection", err: common.Fail(common.CodeInsufficientInventory, "sold out").Err(), want: tixerror.CodeInsufficientInventory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newFakeNet()
			n.fail("a:1", tt.err)
			m := newManager(t, n)
			s := &recordingSleeper{}

			e := NewExecutor(m, Policy{Attempts: 3, Interval: time.Second}, nil, WithSleeper(s.sleep))
			err := e.Run(context.Background(), "op", invoke)

			require.Error(t, err)
			assert.Equal(t, tt.want, tixerror.GetCode(err))
			assert.Len(t, n.callLog(), 1)
			assert.Zero(t, s.total())
			assert.Equal(t, "a:1", m.Endpoint().String())
		})
	}
}

func TestExecutor_CanceledDuringWait(t *testing.T) {
	n := newFakeNet()
	n.down("a:1", "b:2", "c:3")
	m := newManager(t, n)

	ctx, cancel := context.WithCancel(context.Background())
	sleeper := func(ctx context.Context, d time.Duration) error {
		cancel()
		return Sleep(ctx, d)
	}

	e := NewExecutor(m, Policy{Attempts: 3, Interval: time.Hour}, nil, WithSleeper(sleeper))
	err := e.Run(ctx, "op", invoke)

	require.Error(t, err)
	assert.True(t, tixerror.HasCode(err, tixerror.CodeCanceled))
	assert.Len(t, n.callLog(), 1)
}

func TestExecutor_CanceledBeforeStart(t *testing.T) {
	n := newFakeNet()
	m := newManager(t, n)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewExecutor(m, DefaultPolicy(), nil).Run(ctx, "op", invoke)
	assert.True(t, tixerror.HasCode(err, tixerror.CodeCanceled))
	assert.Empty(t, n.callLog())
}

func TestExecutor_CallTimeoutIsPerAttempt(t *testing.T) {
	n := newFakeNet()
	m := newManager(t, n)
	s := &recordingSleeper{}

	attempts := 0
	call := func(ctx context.Context, cc grpc.ClientConnInterface) error {
		attempts++
		if attempts == 1 {
			<-ctx.Done()
			return status.FromContextError(ctx.Err()).Err()
		}
		return nil
	}

	e := NewExecutor(m, Policy{Attempts: 2, CallTimeout: 10 * time.Millisecond}, nil, WithSleeper(s.sleep))
	require.NoError(t, e.Run(context.Background(), "op", call))
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "b:2", m.Endpoint().String())
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestClassify(t *testing.T) {
	live := context.Background()
	dead, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want Class
	}{
		{name: "unavailable", ctx: live, err: status.Error(codes.Unavailable, "x"), want: ClassTransport},
		{name: "deadline", ctx: live, err: status.Error(codes.DeadlineExceeded, "x"), want: ClassTransport},
		{name: "internal", ctx: live, err: status.Error(codes.Internal, "x"), want: ClassTransport},
		{name: "plain error", ctx: live, err: errors.New("connection reset"), want: ClassTransport},
		{name: "not found", ctx: live, err: status.Error(codes.NotFound, "x"), want: ClassApplication},
		{name: "already exists", ctx: live, err: status.Error(codes.AlreadyExists, "x"), want: ClassApplication},
		{name: "rejection", ctx: live, err: common.Fail(common.CodeConcertCancelled, "x").Err(), want: ClassApplication},
		{name: "closed client", ctx: live, err: tixerror.New("closed").WithCode(tixerror.CodeCanceled), want: ClassCanceled},
		{name: "caller gave up", ctx: dead, err: status.Error(codes.Unavailable, "x"), want: ClassCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ctx, tt.err))
		})
	}
}

func TestDo_ReturnsValue(t *testing.T) {
	m := newManager(t, newFakeNet())
	e := NewExecutor(m, DefaultPolicy(), nil)

	got, err := Do(context.Background(), e, "op", func(ctx context.Context, cc grpc.ClientConnInterface) (int, error) {
		return 42, invoke(ctx, cc)
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDial_ResolvesOnceAndConnects(t *testing.T) {
	reg := discovery.NewMemoryRegistry()
	reg.Put(config.DefaultDiscoveryKey, "b:2", "c:3")
	n := newFakeNet()

	c, err := Dial(context.Background(), config.Default(), nil, WithKV(reg), WithDialer(n.dial))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "b:2", c.Endpoint().String())
	assert.Len(t, c.Replicas(), 2)
	assert.Equal(t, 3, c.Policy().Attempts)
	assert.Equal(t, 2*time.Second, c.Policy().Interval)
	require.NoError(t, c.Run(context.Background(), "op", invoke))
}

func TestDial_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "zero attempts", mutate: func(c *config.Config) { c.Client.RetryAttempts = 0 }},
		{name: "negative attempts", mutate: func(c *config.Config) { c.Client.RetryAttempts = -2 }},
		{name: "negative interval", mutate: func(c *config.Config) { c.Client.RetryInterval = config.Duration{Duration: -time.Second} }},
		{name: "unknown compression", mutate: func(c *config.Config) { c.Client.Compression = "brotli" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := discovery.NewMemoryRegistry()
			reg.Put(config.DefaultDiscoveryKey, "b:2")
			n := newFakeNet()
			dials := 0
			dialer := func(ctx context.Context, ep discovery.Endpoint) (Conn, error) {
				dials++
				return n.dial(ctx, ep)
			}
			cfg := config.Default()
			tt.mutate(cfg)

			c, err := Dial(context.Background(), cfg, nil, WithKV(reg), WithDialer(dialer))
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, tixerror.IsConfig(err))
			assert.Zero(t, dials)
		})
	}
}

func TestDial_FallsBackWhenStoreFails(t *testing.T) {
	reg := discovery.NewMemoryRegistry()
	reg.FailWith(errors.New("connection refused"))
	n := newFakeNet()

	c, err := Dial(context.Background(), config.Default(), nil, WithKV(reg), WithDialer(n.dial))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, discovery.SourceFallback, c.Source())
	assert.Equal(t, "localhost:50051", c.Endpoint().String())
}
