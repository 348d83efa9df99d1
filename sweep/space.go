package sweep

import (
	"fmt"

	"github.com/thrasher-corp/gctsweep/strategy"
)

// Space is an ordered parameter space. The Cartesian product of every key's
// candidate values yields the full set of parameter sets; enumeration order
// is fixed by declaration order with the right-most key varying fastest, so
// re-running the same space reproduces the same ordering
type Space struct {
	keys   []string
	values map[string][]float64
}

// NewSpace returns an empty parameter space
func NewSpace() *Space {
	return &Space{values: make(map[string][]float64)}
}

// Add declares candidate values for a parameter. Re-adding a key replaces
// its values but keeps its original position in the enumeration order
func (s *Space) Add(name string, values ...float64) *Space {
	if _, ok := s.values[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = append([]float64(nil), values...)
	return s
}

// Keys returns the declared parameter names in order
func (s *Space) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Size returns the total number of parameter sets the space expands to
func (s *Space) Size() int {
	if len(s.keys) == 0 {
		return 0
	}
	total := 1
	for _, k := range s.keys {
		total *= len(s.values[k])
	}
	return total
}

// Validate confirms the space can be expanded
func (s *Space) Validate() error {
	if len(s.keys) == 0 {
		return ErrEmptySpace
	}
	for _, k := range s.keys {
		if len(s.values[k]) == 0 {
			return fmt.Errorf("%w: %q", ErrEmptyValues, k)
		}
	}
	return nil
}

// Expand enumerates every parameter set in the space in its fixed order
func (s *Space) Expand() ([]strategy.ParameterSet, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	total := s.Size()
	out := make([]strategy.ParameterSet, total)
	for i := 0; i < total; i++ {
		p := make(strategy.ParameterSet, len(s.keys))
		rem := i
		for k := len(s.keys) - 1; k >= 0; k-- {
			vals := s.values[s.keys[k]]
			p[s.keys[k]] = vals[rem%len(vals)]
			rem /= len(vals)
		}
		out[i] = p
	}
	return out, nil
}
