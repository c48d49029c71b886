package feature

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSetWithIsImmutable(t *testing.T) {
	parent := NewSet(3).With(1)
	left := parent.With(0)
	right := parent.With(2)

	assert.Equal(t, []int{0, 2}, parent.Available())
	assert.Equal(t, []int{2}, left.Available())
	assert.Equal(t, []int{0}, right.Available())
	assert.Equal(t, 1, parent.Used())
	assert.Equal(t, "{1}", parent.String())
	assert.Equal(t, "{0 1}", left.String())
}

func TestSetExhausted(t *testing.T) {
	assert.True(t, NewSet(0).Exhausted())
	s := NewSet(2)
	assert.False(t, s.Exhausted())
	s = s.With(0).With(0)
	assert.Equal(t, 1, s.Used())
	assert.False(t, s.Exhausted())
	assert.True(t, s.With(1).Exhausted())
	assert.Empty(t, s.With(1).Available())
}

func TestSetContains(t *testing.T) {
	s := NewSet(2).With(1)
	assert.False(t, s.Contains(0))
	assert.True(t, s.Contains(1))
	assert.True(t, s.Contains(-1))
	assert.True(t, s.Contains(2))
	assert.Equal(t, s, s.With(5))
}

func TestNames(t *testing.T) {
	n := Names{"outlook", "", "windy"}
	assert.Equal(t, "outlook", n.Name(0))
	assert.Equal(t, "1", n.Name(1))
	assert.Equal(t, "7", n.Name(7))
	i, ok := n.Index("windy")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = n.Index("humidity")
	assert.False(t, ok)
	assert.Equal(t, Names{"0", "1"}, DefaultNames(2))
}

type mapSample map[int]bool

func (ms mapSample) ValueFor(_ context.Context, f int) (bool, error) {
	v, ok := ms[f]
	if !ok {
		return false, errors.Errorf("no value for feature %d", f)
	}
	return v, nil
}

func TestCriterion(t *testing.T) {
	ctx := context.Background()
	c := Criterion(2)
	assert.Equal(t, 2, c.Feature())
	assert.Equal(t, "feature 2 is true", c.String())

	ok, err := c.SatisfiedBy(ctx, mapSample{2: true})
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.SatisfiedBy(ctx, mapSample{2: false})
	assert.NoError(t, err)
	assert.False(t, ok)
	_, err = c.SatisfiedBy(ctx, mapSample{})
	assert.Error(t, err)
}
