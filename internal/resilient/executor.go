package resilient

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"

	tixerror "github.com/msto63/mTix/pkg/core/error"
	"github.com/msto63/mTix/pkg/core/logging"
)

// Policy bounds how a remote call is retried
type Policy struct {
	// Attempts is the total number of tries, the first included
	Attempts int
	// Interval is the pause between a failed attempt and the next one
	Interval time.Duration
	// CallTimeout caps a single attempt; zero means no cap
	CallTimeout time.Duration
}

// DefaultPolicy returns three attempts two seconds apart
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Interval: 2 * time.Second, CallTimeout: 10 * time.Second}
}

// Sleeper waits for d or until ctx ends
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Call is one remote operation against a transport
type Call func(ctx context.Context, cc grpc.ClientConnInterface) error

// Runner runs a remote operation under a retry policy
type Runner interface {
	Run(ctx context.Context, op string, call Call) error
}

// Executor runs calls against the active connection, failing over to the
// next replica on transport errors until the attempt budget is spent.
type Executor struct {
	conns  Connections
	policy Policy
	sleep  Sleeper
	logger *slog.Logger
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithSleeper replaces the wait between attempts
func WithSleeper(s Sleeper) ExecutorOption {
	return func(e *Executor) {
		e.sleep = s
	}
}

// NewExecutor creates an executor over conns. A policy with fewer than
// one attempt runs each call once.
func NewExecutor(conns Connections, policy Policy, logger *slog.Logger, opts ...ExecutorOption) *Executor {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	e := &Executor{
		conns:  conns,
		policy: policy,
		sleep:  Sleep,
		logger: logging.Component(logger, "executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the retry policy in effect
func (e *Executor) Policy() Policy {
	return e.policy
}

// Run executes call at most Policy.Attempts times. Application errors are
// returned after the first attempt. After a transport error the executor
// waits Policy.Interval, fails over, and tries again; when the budget is
// spent the last transport error is returned with CodeRetriesExhausted.
func (e *Executor) Run(ctx context.Context, op string, call Call) error {
	if err := ctx.Err(); err != nil {
		return canceled(op, err)
	}

	var lastErr error
	for attempt := 1; attempt <= e.policy.Attempts; attempt++ {
		lease, err := e.conns.Acquire()
		if err != nil {
			return tixerror.Wrap(err, "acquire connection").WithOperation(op)
		}

		err = e.attempt(ctx, lease, call)
		lease.Release()
		if err == nil {
			if attempt > 1 {
				e.logger.Info("recovered", "op", op, "attempt", attempt, "endpoint", lease.Endpoint().String())
			}
			return nil
		}

		switch Classify(ctx, err) {
		case ClassCanceled:
			if ctx.Err() != nil {
				return canceled(op, ctx.Err())
			}
			return err
		case ClassApplication:
			e.logger.Debug("rejected", "op", op, "endpoint", lease.Endpoint().String(), "error", err)
			return applicationError(err)
		}

		lastErr = err
		e.logger.Warn("call failed",
			"op", op,
			"attempt", attempt,
			"of", e.policy.Attempts,
			"endpoint", lease.Endpoint().String(),
			"error", err,
		)
		if attempt == e.policy.Attempts {
			break
		}

		if err := e.sleep(ctx, e.policy.Interval); err != nil {
			return canceled(op, err)
		}
		if err := e.conns.Failover(ctx, lease); err != nil {
			if ctx.Err() != nil {
				return canceled(op, ctx.Err())
			}
			// stay on the current connection and spend the next attempt there
			e.logger.Warn("failover failed", "op", op, "error", err)
		}
	}

	return tixerror.Wrap(lastErr, "retries exhausted").
		WithCode(tixerror.CodeRetriesExhausted).
		WithOperation(op).
		WithDetail("attempts", e.policy.Attempts)
}

func (e *Executor) attempt(ctx context.Context, lease *Lease, call Call) error {
	if e.policy.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.policy.CallTimeout)
		defer cancel()
	}
	return call(ctx, lease.Conn())
}

func canceled(op string, err error) error {
	return tixerror.Wrap(err, "call canceled").WithCode(tixerror.CodeCanceled).WithOperation(op)
}

// Do runs fn through r and returns its result
func Do[T any](ctx context.Context, r Runner, op string, fn func(ctx context.Context, cc grpc.ClientConnInterface) (T, error)) (T, error) {
	var out T
	err := r.Run(ctx, op, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		v, err := fn(ctx, cc)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
