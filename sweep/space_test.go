package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrasher-corp/gctsweep/strategy"
)

func TestSpaceSize(t *testing.T) {
	t.Parallel()
	s := NewSpace().
		Add("a", 1, 2, 3).
		Add("b", 1, 2).
		Add("c", 1, 2, 3, 4)
	assert.Equal(t, 24, s.Size(), "size must be the product of per-key counts")
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())

	assert.Equal(t, 0, NewSpace().Size())
}

func TestSpaceValidate(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, NewSpace().Validate(), ErrEmptySpace)
	assert.ErrorIs(t, NewSpace().Add("a").Validate(), ErrEmptyValues)
	assert.NoError(t, NewSpace().Add("a", 1).Validate())
}

func TestSpaceExpandOrder(t *testing.T) {
	t.Parallel()
	combos, err := NewSpace().
		Add("emaFloor", 5, 10).
		Add("emaCeiling", 30).
		Expand()
	require.NoError(t, err)
	require.Len(t, combos, 2)
	assert.Equal(t, strategy.ParameterSet{"emaFloor": 5, "emaCeiling": 30}, combos[0])
	assert.Equal(t, strategy.ParameterSet{"emaFloor": 10, "emaCeiling": 30}, combos[1])
}

func TestSpaceExpandRightmostFastest(t *testing.T) {
	t.Parallel()
	combos, err := NewSpace().
		Add("a", 1, 2).
		Add("b", 10, 20).
		Expand()
	require.NoError(t, err)
	require.Len(t, combos, 4)
	assert.Equal(t, strategy.ParameterSet{"a": 1, "b": 10}, combos[0])
	assert.Equal(t, strategy.ParameterSet{"a": 1, "b": 20}, combos[1])
	assert.Equal(t, strategy.ParameterSet{"a": 2, "b": 10}, combos[2])
	assert.Equal(t, strategy.ParameterSet{"a": 2, "b": 20}, combos[3])
}

func TestSpaceExpandReproducible(t *testing.T) {
	t.Parallel()
	build := func() *Space {
		return NewSpace().Add("x", 1, 2, 3).Add("y", 4, 5)
	}
	first, err := build().Expand()
	require.NoError(t, err)
	second, err := build().Expand()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSpaceReAddKeepsPosition(t *testing.T) {
	t.Parallel()
	s := NewSpace().Add("a", 1).Add("b", 2).Add("a", 9)
	assert.Equal(t, []string{"a", "b"}, s.Keys())
	combos, err := s.Expand()
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, 9.0, combos[0]["a"])
}
