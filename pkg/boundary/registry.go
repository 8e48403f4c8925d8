// Package boundary exposes the solver through opaque handles and numeric
// status codes, the shape a foreign caller sees.
//
// A [Registry] owns every dimension store and segment buffer it hands out.
// Each handle is released exactly once with [Registry.Free] on the same
// registry that produced it; unknown, foreign and already released handles
// fail with [StatusInvalidHandle]. A failed call never allocates, so there
// is nothing to release after a non-zero status.
//
// The registry itself is safe for concurrent use. Two calls that mutate the
// same store concurrently are serialised by the registry lock.
package boundary

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/linkagesim/pkg/dimension"
	"github.com/matzehuels/linkagesim/pkg/errors"
	"github.com/matzehuels/linkagesim/pkg/geom"
	"github.com/matzehuels/linkagesim/pkg/scissor"
)

// Handle is an opaque reference to a store or buffer owned by a Registry.
// The zero Handle is never issued.
type Handle uuid.UUID

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return uuid.UUID(h) == uuid.Nil }

// String returns the handle in canonical UUID form.
func (h Handle) String() string { return uuid.UUID(h).String() }

// ParseHandle parses the canonical form produced by String.
func ParseHandle(s string) (Handle, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, errors.Wrap(errors.ErrCodeInvalidHandle, err, "parse handle %q", s)
	}
	return Handle(id), nil
}

// SolveResult is the outcome of [Registry.Solve]. Segments is the zero
// handle unless Status is StatusOK.
type SolveResult struct {
	Status      Status
	Segments    Handle
	NumSegments int
}

// Registry owns dimension stores and segment buffers.
type Registry struct {
	mu      sync.Mutex
	stores  map[Handle]*dimension.Store
	buffers map[Handle][]geom.Segment
	solver  *scissor.Solver
	logger  *log.Logger
}

// NewRegistry creates an empty registry that solves with solver.
// A nil solver uses scissor defaults.
func NewRegistry(solver *scissor.Solver, logger *log.Logger) *Registry {
	if solver == nil {
		solver = scissor.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		stores:  make(map[Handle]*dimension.Store),
		buffers: make(map[Handle][]geom.Segment),
		solver:  solver,
		logger:  logger,
	}
}

// CreateDimensionArray allocates a store of n units, each set to
// [dimension.DefaultRodSpec].
func (r *Registry) CreateDimensionArray(n int) (Handle, Status) {
	st, err := dimension.NewFilled(n, dimension.DefaultRodSpec)
	if err != nil {
		r.logger.Debug("create dimension array failed", "n", n, "err", err)
		return Handle{}, StatusOf(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.newHandle()
	r.stores[h] = st
	return h, StatusOK
}

// GetDimensionElement reads unit i of the store h.
func (r *Registry) GetDimensionElement(h Handle, i int) (dimension.RodSpec, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stores[h]
	if !ok {
		return dimension.RodSpec{}, StatusInvalidHandle
	}
	spec, err := st.Get(i)
	return spec, StatusOf(err)
}

// SetDimensionElement overwrites unit i of the store h. The spec is not
// validated until the next solve.
func (r *Registry) SetDimensionElement(h Handle, i int, spec dimension.RodSpec) Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stores[h]
	if !ok {
		return StatusInvalidHandle
	}
	return StatusOf(st.Set(i, spec))
}

// Solve solves the first n units of store h. n greater than the store's
// length fails with StatusIndexOutOfRange. On success the segments live in
// a new buffer that must be released with Free.
func (r *Registry) Solve(h Handle, n int, theta, offset float64) SolveResult {
	r.mu.Lock()
	st, ok := r.stores[h]
	var specs []dimension.RodSpec
	if ok && n >= 0 && n <= st.Len() {
		specs = st.Specs()[:n]
	}
	size := 0
	if ok {
		size = st.Len()
	}
	r.mu.Unlock()

	switch {
	case !ok:
		return SolveResult{Status: StatusInvalidHandle}
	case n < 0 || n > size:
		r.logger.Debug("solve length out of range", "n", n, "len", size)
		return SolveResult{Status: StatusIndexOutOfRange}
	}

	chain, err := dimension.FromSpecs(specs)
	if err != nil {
		return SolveResult{Status: StatusOf(err)}
	}
	buf, status := BuildResult(r.solver.Solve(chain, theta, offset))
	if !status.OK() {
		return SolveResult{Status: status}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.newHandle()
	r.buffers[out] = buf
	return SolveResult{Status: StatusOK, Segments: out, NumSegments: len(buf)}
}

// Segments borrows the buffer h. The slice is valid until h is freed and
// must not be modified.
func (r *Registry) Segments(h Handle) ([]geom.Segment, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.buffers[h]
	if !ok {
		return nil, StatusInvalidHandle
	}
	return buf, StatusOK
}

// Free releases a store or buffer. Freeing a handle twice, or one this
// registry did not issue, returns StatusInvalidHandle.
func (r *Registry) Free(h Handle) Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[h]; ok {
		delete(r.stores, h)
		return StatusOK
	}
	if _, ok := r.buffers[h]; ok {
		delete(r.buffers, h)
		return StatusOK
	}
	return StatusInvalidHandle
}

// Live returns the number of handles not yet freed.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores) + len(r.buffers)
}

// newHandle must be called with r.mu held.
func (r *Registry) newHandle() Handle {
	for {
		h := Handle(uuid.New())
		if _, ok := r.stores[h]; ok {
			continue
		}
		if _, ok := r.buffers[h]; ok {
			continue
		}
		return h
	}
}
