package scissor

import (
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkagesim/pkg/errors"
)

// Mode selects how the driving parameter theta is interpreted.
type Mode int

const (
	// ModeAngle reads theta as the crossing angle between the rods.
	ModeAngle Mode = iota
	// ModeSpan reads theta as the distance between the two rod origins.
	ModeSpan
)

// String returns the mode's configuration name.
func (m Mode) String() string {
	switch m {
	case ModeAngle:
		return "angle"
	case ModeSpan:
		return "span"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode parses a configuration name. The empty string selects ModeAngle.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "angle":
		return ModeAngle, nil
	case "span":
		return ModeSpan, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid mode: %s (must be 'angle' or 'span')", s)
}

// Topology selects how consecutive units are joined.
type Topology int

const (
	// TopologySerial continues from rod 1's far endpoint.
	TopologySerial Topology = iota
	// TopologyLazyTongs cross-links the far endpoints of both rods.
	TopologyLazyTongs
)

// String returns the topology's configuration name.
func (t Topology) String() string {
	switch t {
	case TopologySerial:
		return "serial"
	case TopologyLazyTongs:
		return "lazy-tongs"
	default:
		return "unknown"
	}
}

// MarshalText encodes the topology by name.
func (t Topology) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a topology name.
func (t *Topology) UnmarshalText(b []byte) error {
	v, err := ParseTopology(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTopology parses a configuration name. The empty string selects
// TopologySerial.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "serial":
		return TopologySerial, nil
	case "lazy-tongs", "lazytongs", "tongs":
		return TopologyLazyTongs, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid topology: %s (must be 'serial' or 'lazy-tongs')", s)
}

// Option configures a Solver.
type Option func(*Solver)

// WithMode sets how theta is interpreted.
func WithMode(m Mode) Option { return func(s *Solver) { s.mode = m } }

// WithTopology sets how units are joined.
func WithTopology(t Topology) Option { return func(s *Solver) { s.topology = t } }

// WithHeading rotates the chain's baseline: the first unit's rod 1 points
// at heading (radians) instead of along the x axis.
func WithHeading(heading float64) Option { return func(s *Solver) { s.heading = heading } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers bounds the number of concurrent solves in a sweep.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.workers = n
		}
	}
}

func defaultWorkers() int { return max(runtime.GOMAXPROCS(0), 1) }
