package resilient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/msto63/mTix/pkg/core/discovery"
	tixerror "github.com/msto63/mTix/pkg/core/error"
	"github.com/msto63/mTix/pkg/core/logging"
)

// Conn is a transport bound to one endpoint. *grpc.ClientConn satisfies it.
type Conn interface {
	grpc.ClientConnInterface
	Close() error
}

// Dialer opens a transport to an endpoint
type Dialer func(ctx context.Context, ep discovery.Endpoint) (Conn, error)

// Connections is what the executor needs from a connection manager
type Connections interface {
	Acquire() (*Lease, error)
	Failover(ctx context.Context, observed *Lease) error
}

// trackedConn counts the calls running on a connection so a retired
// connection is closed only after they finish or the grace period ends.
type trackedConn struct {
	conn     Conn
	endpoint discovery.Endpoint

	mu       sync.Mutex
	inflight int
	retired  bool
	drained  chan struct{}
}

func newTrackedConn(conn Conn, ep discovery.Endpoint) *trackedConn {
	return &trackedConn{conn: conn, endpoint: ep, drained: make(chan struct{})}
}

func (c *trackedConn) acquire() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
}

func (c *trackedConn) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.retired && c.inflight == 0 {
		close(c.drained)
	}
}

func (c *trackedConn) retire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retired {
		return
	}
	c.retired = true
	if c.inflight == 0 {
		close(c.drained)
	}
}

// Lease pins the active connection for the duration of one call
type Lease struct {
	c    *trackedConn
	once sync.Once
}

// Conn returns the leased transport
func (l *Lease) Conn() grpc.ClientConnInterface {
	return l.c.conn
}

// Endpoint returns the endpoint the lease is bound to
func (l *Lease) Endpoint() discovery.Endpoint {
	return l.c.endpoint
}

// Release ends the lease; safe to call more than once
func (l *Lease) Release() {
	l.once.Do(l.c.release)
}

// ConnectionManager owns exactly one active connection, bound to the
// current endpoint of its replica set. The replica index and the active
// connection are only changed together, under mu.
type ConnectionManager struct {
	mu           sync.Mutex
	replicas     *discovery.ReplicaSet
	active       *trackedConn
	dial         Dialer
	drainTimeout time.Duration
	closed       bool
	logger       *slog.Logger
}

// NewConnectionManager connects to the current endpoint of replicas.
// Endpoints that cannot be dialed are skipped; construction fails only
// when none can.
func NewConnectionManager(ctx context.Context, replicas *discovery.ReplicaSet, dial Dialer, drainTimeout time.Duration, logger *slog.Logger) (*ConnectionManager, error) {
	m := &ConnectionManager{
		replicas:     replicas,
		dial:         dial,
		drainTimeout: drainTimeout,
		logger:       logging.Component(logger, "connection-manager"),
	}

	conn, err := m.dialFrom(ctx, replicas.Current(), false)
	if err != nil {
		return nil, err
	}
	m.active = conn
	m.logger.Info("connected", "endpoint", conn.endpoint.String(), "index", replicas.Index(), "replicas", replicas.Len())
	return m, nil
}

// dialFrom dials first, then the following endpoints, until one succeeds.
// With advanceFirst the index moves before the first dial. Callers hold mu
// (or own m exclusively during construction).
func (m *ConnectionManager) dialFrom(ctx context.Context, first discovery.Endpoint, advanceFirst bool) (*trackedConn, error) {
	ep := first
	if advanceFirst {
		ep = m.replicas.Advance()
	}

	var lastErr error
	for i := 0; i < m.replicas.Len(); i++ {
		if i > 0 {
			ep = m.replicas.Advance()
		}
		conn, err := m.dial(ctx, ep)
		if err == nil {
			return newTrackedConn(conn, ep), nil
		}
		lastErr = err
		m.logger.Warn("dial failed", "endpoint", ep.String(), "error", err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, tixerror.Wrap(lastErr, "no endpoint could be dialed").WithCode(tixerror.CodeTransport)
}

// Active returns the current transport handle without blocking on I/O
func (m *ConnectionManager) Active() grpc.ClientConnInterface {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active.conn
}

// Endpoint returns the endpoint of the active connection
func (m *ConnectionManager) Endpoint() discovery.Endpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active.endpoint
}

// Index returns the replica index of the active connection
func (m *ConnectionManager) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replicas.Index()
}

// Replicas returns the endpoint list in discovery order
func (m *ConnectionManager) Replicas() []discovery.Endpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replicas.Endpoints()
}

// Acquire leases the active connection for one call
func (m *ConnectionManager) Acquire() (*Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, tixerror.New("client closed").WithCode(tixerror.CodeCanceled)
	}
	m.active.acquire()
	return &Lease{c: m.active}, nil
}

// Failover moves to the next endpoint and reconnects before returning.
// When observed is non-nil the switch happens only if observed is still
// the active connection, so callers that failed on the same endpoint
// advance the index once between them. The old connection is drained
// for up to the drain timeout and then closed.
func (m *ConnectionManager) Failover(ctx context.Context, observed *Lease) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return tixerror.New("client closed").WithCode(tixerror.CodeCanceled)
	}
	if observed != nil && observed.c != m.active {
		m.mu.Unlock()
		return nil
	}

	old := m.active
	next, err := m.dialFrom(ctx, old.endpoint, true)
	if err != nil {
		// keep serving from the old connection rather than leaving none
		m.mu.Unlock()
		return err
	}
	m.active = next
	index := m.replicas.Index()
	m.mu.Unlock()

	m.logger.Warn("failover",
		"from", old.endpoint.String(),
		"to", next.endpoint.String(),
		"index", index,
	)

	m.drain(ctx, old)
	return nil
}

// drain retires c and closes it once its calls finish, the grace period
// elapses or ctx ends, whichever comes first.
func (m *ConnectionManager) drain(ctx context.Context, c *trackedConn) {
	c.retire()

	timer := time.NewTimer(m.drainTimeout)
	defer timer.Stop()

	select {
	case <-c.drained:
	case <-timer.C:
		m.logger.Warn("drain timeout, closing with calls in flight", "endpoint", c.endpoint.String())
	case <-ctx.Done():
	}

	if err := c.conn.Close(); err != nil {
		m.logger.Debug("close failed", "endpoint", c.endpoint.String(), "error", err)
	}
}

// Close drains and releases the active connection. Idempotent.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	c := m.active
	m.mu.Unlock()

	m.drain(context.Background(), c)
	return nil
}
