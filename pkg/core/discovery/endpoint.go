package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// Endpoint identifies one backend replica. Immutable once resolved.
type Endpoint struct {
	Host string
	Port int
}

// ParseEndpoint parses "host:port"
func ParseEndpoint(s string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: %w", s, err)
	}
	if host == "" {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: empty host", s)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: bad port", s)
	}
	return Endpoint{Host: host, Port: port}, nil
}

// String returns "host:port"
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// DefaultEndpoints is the fallback used when discovery finds nothing
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Host: "localhost", Port: 50051},
		{Host: "localhost", Port: 50052},
		{Host: "localhost", Port: 50053},
	}
}

// ParseEndpoints turns raw coordination-store values into endpoints. A value
// may hold one "host:port" or a comma-separated list. Malformed entries are
// skipped with a warning and duplicates dropped, keeping first-seen order.
func ParseEndpoints(values []string, logger *slog.Logger) []Endpoint {
	seen := make(map[Endpoint]struct{})
	var out []Endpoint
	for _, value := range values {
		for _, raw := range strings.Split(value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			ep, err := ParseEndpoint(raw)
			if err != nil {
				if logger != nil {
					logger.Warn("skipping malformed endpoint", "value", raw, "error", err)
				}
				continue
			}
			if _, dup := seen[ep]; dup {
				continue
			}
			seen[ep] = struct{}{}
			out = append(out, ep)
		}
	}
	return out
}

// ReplicaSet is an ordered, non-empty list of endpoints plus the index of
// the active one. The list is fixed after discovery; only the index moves.
//
// ReplicaSet does no locking of its own. The owning connection manager
// serializes Advance against readers.
type ReplicaSet struct {
	endpoints []Endpoint
	index     int
	source    string
}

// NewReplicaSet creates a replica set starting at the first endpoint
func NewReplicaSet(endpoints []Endpoint, source string) (*ReplicaSet, error) {
	if len(endpoints) == 0 {
		return nil, tixerror.Config("replica set needs at least one endpoint")
	}
	eps := make([]Endpoint, len(endpoints))
	copy(eps, endpoints)
	return &ReplicaSet{endpoints: eps, source: source}, nil
}

// Current returns the active endpoint
func (r *ReplicaSet) Current() Endpoint {
	return r.endpoints[r.index]
}

// Index returns the position of the active endpoint
func (r *ReplicaSet) Index() int {
	return r.index
}

// Len returns the number of endpoints
func (r *ReplicaSet) Len() int {
	return len(r.endpoints)
}

// Source names where the endpoints came from (etcd, redis, static, fallback)
func (r *ReplicaSet) Source() string {
	return r.source
}

// Endpoints returns a copy of the endpoint list in order
func (r *ReplicaSet) Endpoints() []Endpoint {
	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Advance moves to the next endpoint, wrapping around, and returns it
func (r *ReplicaSet) Advance() Endpoint {
	r.index = (r.index + 1) % len(r.endpoints)
	return r.endpoints[r.index]
}
