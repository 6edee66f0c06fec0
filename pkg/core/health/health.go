// Package health runs the self-checks of a replica and checks remote
// replicas with the standard grpc.health.v1 protocol.
package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	coregrpc "github.com/msto63/mTix/pkg/core/grpc"
)

// Status represents the health status of a replica or one of its parts
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultCheckTimeout bounds a single check run by a Registry
const DefaultCheckTimeout = 2 * time.Second

// CheckResult is the outcome of one check
type CheckResult struct {
	Name     string
	Status   Status
	Message  string
	Duration time.Duration
	Details  map[string]interface{}
}

// Checker is a single named health check
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type funcChecker struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &funcChecker{name: name, fn: fn}
}

func (c *funcChecker) Name() string {
	return c.name
}

func (c *funcChecker) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// Report is the combined result of every check of a registry
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// Serving reports whether the replica should accept traffic. Degraded
// replicas still serve.
func (r *Report) Serving() bool {
	return r.Status != StatusUnhealthy
}

// Failing returns the names of the unhealthy checks
func (r *Report) Failing() []string {
	var out []string
	for _, c := range r.Checks {
		if c.Status == StatusUnhealthy {
			out = append(out, c.Name)
		}
	}
	return out
}

// Registry runs a fixed set of checks and remembers the last report
type Registry struct {
	mu       sync.RWMutex
	checkers []Checker
	service  string
	version  string
	startAt  time.Time
	timeout  time.Duration
	last     *Report
}

// NewRegistry creates an empty registry for service
func NewRegistry(service, version string) *Registry {
	return &Registry{
		service: service,
		version: version,
		startAt: time.Now(),
		timeout: DefaultCheckTimeout,
	}
}

// RegisterFunc adds a check; a later check with the same name replaces it
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := NewChecker(name, fn)
	for i, existing := range r.checkers {
		if existing.Name() == name {
			r.checkers[i] = c
			return
		}
	}
	r.checkers = append(r.checkers, c)
}

// Check runs every check in parallel, each bounded by the registry timeout.
// The worst individual status becomes the report status.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := append([]Checker(nil), r.checkers...)
	timeout := r.timeout
	r.mu.RUnlock()

	results := make([]CheckResult, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			start := time.Now()
			res := c.Check(cctx)
			res.Duration = time.Since(start)
			if res.Name == "" {
				res.Name = c.Name()
			}
			results[i] = res
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    StatusHealthy,
		Uptime:    time.Since(r.startAt),
		Timestamp: time.Now(),
		Checks:    results,
	}
	for _, res := range results {
		switch {
		case res.Status == StatusUnhealthy:
			report.Status = StatusUnhealthy
		case res.Status == StatusDegraded && report.Status == StatusHealthy:
			report.Status = StatusDegraded
		}
	}

	r.mu.Lock()
	r.last = report
	r.mu.Unlock()
	return report
}

// Last returns the most recent report, or nil before the first check
func (r *Registry) Last() *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Watch re-runs the checks every interval until ctx ends and calls
// onChange whenever the overall status differs from the one it last saw,
// starting from the report current when Watch begins.
func (r *Registry) Watch(ctx context.Context, interval time.Duration, onChange func(*Report)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	prev := r.Last()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		report := r.Check(ctx)
		if ctx.Err() != nil {
			return
		}
		if prev == nil || prev.Status != report.Status {
			onChange(report)
		}
		prev = report
	}
}

// GRPCChecker checks target with the standard grpc.health.v1 protocol.
// Connections come from pool when given, otherwise one is dialed per check.
func GRPCChecker(name, target string, pool *coregrpc.ConnectionPool, timeout time.Duration) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:    name,
			Details: map[string]interface{}{"address": target},
		}

		var conn *grpc.ClientConn
		var err error
		if pool != nil {
			conn, err = pool.Get(target)
		} else {
			conn, err = coregrpc.Dial(coregrpc.DefaultClientConfig(target))
			if conn != nil {
				defer conn.Close()
			}
		}
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}

		result.Details["serving_status"] = resp.GetStatus().String()
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			result.Status = StatusDegraded
			result.Message = "replica not serving"
			return result
		}
		result.Status = StatusHealthy
		result.Message = "replica serving"
		return result
	})
}
