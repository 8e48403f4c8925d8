// Package dimension holds the per-unit rod specifications of a scissor chain.
//
// A [Store] is an owned, indexable, resizable sequence of [RodSpec] values
// in mechanical order along the linkage. Entries are not validated when
// written; a caller may pass through temporarily invalid states while it
// builds a chain. Geometric invariants are checked by [RodSpec.Validate],
// which the solver calls for every unit before any geometry is attempted.
//
// # Concurrency
//
// A Store has no internal locking. Concurrent reads are safe; any write
// must be exclusive with all other access.
package dimension

import (
	"math"

	"github.com/matzehuels/linkagesim/pkg/errors"
)

// MaxUnits bounds the length of a single store.
const MaxUnits = 1 << 16

// RodSpec describes one scissor unit.
//
//   - A: length of the first rod from its origin to its far end
//   - B: length of the second rod from its origin to its far end
//   - C: distance from the first rod's origin to the crossing point
//   - D: distance from the second rod's origin to the crossing point
type RodSpec struct {
	A float64 `json:"a" toml:"a" yaml:"a"`
	B float64 `json:"b" toml:"b" yaml:"b"`
	C float64 `json:"c" toml:"c" yaml:"c"`
	D float64 `json:"d" toml:"d" yaml:"d"`
}

// DefaultRodSpec is the symmetric unit used to pre-fill stores created with
// [NewFilled]: unit rods crossing at their midpoints.
var DefaultRodSpec = RodSpec{A: 1, B: 1, C: 0.5, D: 0.5}

// Validate checks a > 0, b > 0, 0 < c ≤ a and 0 < d ≤ b.
// Non-finite values are rejected. The returned error carries no unit
// index; the solver attaches one.
func (s RodSpec) Validate() error {
	for _, v := range [...]float64{s.A, s.B, s.C, s.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidDimension, "non-finite value in %v", s)
		}
	}
	switch {
	case s.A <= 0 || s.B <= 0:
		return errors.New(errors.ErrCodeInvalidDimension, "rod lengths must be positive (a=%g, b=%g)", s.A, s.B)
	case s.C <= 0 || s.C > s.A:
		return errors.New(errors.ErrCodeInvalidDimension, "crossing distance c=%g outside (0, a=%g]", s.C, s.A)
	case s.D <= 0 || s.D > s.B:
		return errors.New(errors.ErrCodeInvalidDimension, "crossing distance d=%g outside (0, b=%g]", s.D, s.B)
	}
	return nil
}

// Store is a sequence of rod specifications.
type Store struct {
	specs []RodSpec
}

// New allocates a store of n zero-valued specs. n = 0 is legal.
func New(n int) (*Store, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	return &Store{specs: make([]RodSpec, n)}, nil
}

// NewFilled allocates a store of n copies of spec.
func NewFilled(n int, spec RodSpec) (*Store, error) {
	s, err := New(n)
	if err != nil {
		return nil, err
	}
	for i := range s.specs {
		s.specs[i] = spec
	}
	return s, nil
}

// FromSpecs returns a store over a copy of specs.
func FromSpecs(specs []RodSpec) (*Store, error) {
	if err := checkSize(len(specs)); err != nil {
		return nil, err
	}
	return &Store{specs: append([]RodSpec(nil), specs...)}, nil
}

// Len returns the number of units.
func (s *Store) Len() int { return len(s.specs) }

// Get returns the spec at index.
func (s *Store) Get(index int) (RodSpec, error) {
	if err := s.checkIndex(index); err != nil {
		return RodSpec{}, err
	}
	return s.specs[index], nil
}

// Set overwrites the spec at index. The spec is not validated.
func (s *Store) Set(index int, spec RodSpec) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.specs[index] = spec
	return nil
}

// Append adds spec after the last unit.
func (s *Store) Append(spec RodSpec) error {
	if err := checkSize(len(s.specs) + 1); err != nil {
		return err
	}
	s.specs = append(s.specs, spec)
	return nil
}

// Resize grows the store with zero-valued specs or truncates it to n.
func (s *Store) Resize(n int) error {
	if err := checkSize(n); err != nil {
		return err
	}
	if n <= len(s.specs) {
		clear(s.specs[n:])
		s.specs = s.specs[:n]
		return nil
	}
	s.specs = append(s.specs, make([]RodSpec, n-len(s.specs))...)
	return nil
}

// Specs returns a copy of all specs in order.
func (s *Store) Specs() []RodSpec {
	return append([]RodSpec(nil), s.specs...)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.specs) {
		return errors.New(errors.ErrCodeIndexOutOfRange, "index %d outside [0, %d)", index, len(s.specs))
	}
	return nil
}

func checkSize(n int) error {
	if n < 0 || n > MaxUnits {
		return errors.New(errors.ErrCodeAllocation, "cannot allocate %d units (max %d)", n, MaxUnits)
	}
	return nil
}
