// Package cache stores solved chains and sweeps keyed by their inputs.
//
// Solving is deterministic: the same rod specs, driving parameters and
// solver options always produce the same geometry. Long sweeps are worth
// keeping, so the CLI and the HTTP host look results up here before
// solving.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP host
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] derives keys from a chain hash ([ChainHash]) and the options
// that influence the result. [NewScopedKeyer] prefixes every key, which the
// binaries use to keep entries from different releases apart.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/linkagesim/pkg/dimension"
	"github.com/matzehuels/linkagesim/pkg/observability"
)

// DefaultTTL is used when a caller passes a zero TTL to [Fetch].
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SolveKeyOpts are the solver inputs besides the chain that determine a
// single solve.
type SolveKeyOpts struct {
	Mode     string  `json:"mode"`
	Topology string  `json:"topology"`
	Heading  float64 `json:"heading"`
	Theta    float64 `json:"theta"`
	Offset   float64 `json:"offset"`
}

// SweepKeyOpts are the solver inputs besides the chain that determine a
// sweep.
type SweepKeyOpts struct {
	Mode     string  `json:"mode"`
	Topology string  `json:"topology"`
	Heading  float64 `json:"heading"`
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	Steps    int     `json:"steps"`
	Offset   float64 `json:"offset"`
}

// Keyer derives cache keys.
type Keyer interface {
	SolveKey(chainHash string, opts SolveKeyOpts) string
	SweepKey(chainHash string, opts SweepKeyOpts) string
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolveKey returns the key of a single solve.
func (DefaultKeyer) SolveKey(chainHash string, opts SolveKeyOpts) string {
	return hashKey("solve", chainHash, opts)
}

// SweepKey returns the key of a sweep.
func (DefaultKeyer) SweepKey(chainHash string, opts SweepKeyOpts) string {
	return hashKey("sweep", chainHash, opts)
}

// ChainHash returns a stable hash of a chain's rod specs.
func ChainHash(specs []dimension.RodSpec) string {
	data, _ := json.Marshal(specs)
	return Hash(data)
}

// Fetch returns the cached value under key, or computes, stores and
// returns it. The boolean reports a cache hit. Undecodable entries are
// treated as misses; a failed write is ignored since the value is still
// valid.
func Fetch[T any](ctx context.Context, c Cache, key, keyType string, ttl time.Duration, compute func() (T, error)) (T, bool, error) {
	var zero T
	if ttl == 0 {
		ttl = DefaultTTL
	}

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			observability.Cache().OnCacheHit(ctx, keyType)
			return v, true, nil
		}
		_ = c.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	v, err := compute()
	if err != nil {
		return zero, false, err
	}
	if data, err := json.Marshal(v); err == nil {
		if err := c.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return v, false, nil
}
