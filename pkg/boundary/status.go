package boundary

import (
	"github.com/matzehuels/linkagesim/pkg/errors"
	"github.com/matzehuels/linkagesim/pkg/geom"
	"github.com/matzehuels/linkagesim/pkg/scissor"
)

// Status is the numeric outcome of a boundary call. Its values are stable.
type Status int

const (
	StatusOK                 Status = 0
	StatusAllocationError    Status = 1
	StatusIndexOutOfRange    Status = 2
	StatusInvalidDimension   Status = 3
	StatusDegenerateGeometry Status = 4
	StatusInvalidHandle      Status = 5
	StatusInternal           Status = 6
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusAllocationError:
		return string(errors.ErrCodeAllocation)
	case StatusIndexOutOfRange:
		return string(errors.ErrCodeIndexOutOfRange)
	case StatusInvalidDimension:
		return string(errors.ErrCodeInvalidDimension)
	case StatusDegenerateGeometry:
		return string(errors.ErrCodeDegenerateGeometry)
	case StatusInvalidHandle:
		return string(errors.ErrCodeInvalidHandle)
	default:
		return "INTERNAL"
	}
}

// OK reports whether s is StatusOK.
func (s Status) OK() bool { return s == StatusOK }

// StatusOf maps an error to its boundary status. A nil error is StatusOK;
// errors without a recognised code are StatusInternal.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeAllocation:
		return StatusAllocationError
	case errors.ErrCodeIndexOutOfRange:
		return StatusIndexOutOfRange
	case errors.ErrCodeInvalidDimension:
		return StatusInvalidDimension
	case errors.ErrCodeDegenerateGeometry:
		return StatusDegenerateGeometry
	case errors.ErrCodeInvalidHandle:
		return StatusInvalidHandle
	default:
		return StatusInternal
	}
}

// BuildResult turns a solver outcome into the flat segment buffer handed
// across the boundary. On failure it returns a nil buffer and the error's
// status; nothing is allocated.
func BuildResult(sol *scissor.Solution, err error) ([]geom.Segment, Status) {
	if err != nil {
		return nil, StatusOf(err)
	}
	if sol == nil {
		return nil, StatusInternal
	}
	return append(make([]geom.Segment, 0, len(sol.Segments)), sol.Segments...), StatusOK
}
