package dimension

import (
	"math"
	"testing"

	"github.com/matzehuels/linkagesim/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr errors.Code
	}{
		{"empty", 0, ""},
		{"five", 5, ""},
		{"at bound", MaxUnits, ""},
		{"over bound", MaxUnits + 1, errors.ErrCodeAllocation},
		{"negative", -1, errors.ErrCodeAllocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.n)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New(%d) error = %v, want %s", tt.n, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%d) error: %v", tt.n, err)
			}
			if s.Len() != tt.n {
				t.Errorf("Len() = %d, want %d", s.Len(), tt.n)
			}
		})
	}
}

func TestNewZeroValued(t *testing.T) {
	s, _ := New(3)
	for i := 0; i < s.Len(); i++ {
		got, err := s.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) error: %v", i, err)
		}
		if got != (RodSpec{}) {
			t.Errorf("Get(%d) = %+v, want zero value", i, got)
		}
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s, _ := New(5)
	want := RodSpec{A: 1.0, B: 1.0, C: 0.6, D: 0.4}

	for i := 0; i < s.Len(); i++ {
		spec := want
		spec.A += float64(i)
		if err := s.Set(i, spec); err != nil {
			t.Fatalf("Set(%d) error: %v", i, err)
		}
		got, err := s.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) error: %v", i, err)
		}
		if got != spec {
			t.Errorf("Get(%d) = %+v, want %+v", i, got, spec)
		}
	}
}

func TestSetDoesNotValidate(t *testing.T) {
	s, _ := New(1)
	bad := RodSpec{A: 1, B: 1, C: 2, D: 0.4}
	if err := s.Set(0, bad); err != nil {
		t.Fatalf("Set() rejected an invalid spec: %v", err)
	}
}

func TestBounds(t *testing.T) {
	s, _ := NewFilled(3, DefaultRodSpec)
	before := s.Specs()

	for _, idx := range []int{3, 4, 100, -1} {
		if _, err := s.Get(idx); !errors.Is(err, errors.ErrCodeIndexOutOfRange) {
			t.Errorf("Get(%d) error = %v, want INDEX_OUT_OF_RANGE", idx, err)
		}
		if err := s.Set(idx, RodSpec{A: 9}); !errors.Is(err, errors.ErrCodeIndexOutOfRange) {
			t.Errorf("Set(%d) error = %v, want INDEX_OUT_OF_RANGE", idx, err)
		}
	}

	after := s.Specs()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("spec %d mutated by out-of-range Set", i)
		}
	}
}

func TestResize(t *testing.T) {
	s, _ := NewFilled(2, DefaultRodSpec)

	if err := s.Resize(4); err != nil {
		t.Fatalf("Resize(4) error: %v", err)
	}
	if got, _ := s.Get(3); got != (RodSpec{}) {
		t.Errorf("grown entry = %+v, want zero value", got)
	}
	if got, _ := s.Get(1); got != DefaultRodSpec {
		t.Errorf("kept entry = %+v, want %+v", got, DefaultRodSpec)
	}

	if err := s.Resize(1); err != nil {
		t.Fatalf("Resize(1) error: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if err := s.Resize(MaxUnits + 1); !errors.Is(err, errors.ErrCodeAllocation) {
		t.Errorf("Resize over bound error = %v, want ALLOCATION_ERROR", err)
	}
}

func TestAppendAndFromSpecs(t *testing.T) {
	specs := []RodSpec{DefaultRodSpec, {A: 1, B: 1, C: 0.6, D: 0.4}}
	s, err := FromSpecs(specs)
	if err != nil {
		t.Fatalf("FromSpecs() error: %v", err)
	}
	specs[0].A = 42
	if got, _ := s.Get(0); got != DefaultRodSpec {
		t.Error("FromSpecs() did not copy its input")
	}

	if err := s.Append(RodSpec{A: 2, B: 2, C: 1, D: 1}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestRodSpecValidate(t *testing.T) {
	tests := []struct {
		name  string
		spec  RodSpec
		valid bool
	}{
		{"default", DefaultRodSpec, true},
		{"asymmetric", RodSpec{A: 1, B: 1, C: 0.6, D: 0.4}, true},
		{"crossing at far end", RodSpec{A: 1, B: 1, C: 1, D: 1}, true},
		{"zero value", RodSpec{}, false},
		{"c beyond a", RodSpec{A: 1, B: 1, C: 1.2, D: 0.4}, false},
		{"d beyond b", RodSpec{A: 1, B: 1, C: 0.6, D: 1.4}, false},
		{"negative a", RodSpec{A: -1, B: 1, C: 0.5, D: 0.5}, false},
		{"zero c", RodSpec{A: 1, B: 1, C: 0, D: 0.5}, false},
		{"NaN", RodSpec{A: math.NaN(), B: 1, C: 0.5, D: 0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if !tt.valid && !errors.Is(err, errors.ErrCodeInvalidDimension) {
				t.Errorf("Validate() error = %v, want INVALID_DIMENSION", err)
			}
		})
	}
}
