package bitset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetCount(t *testing.T) {
	b := New(130)
	assert.Equal(t, 0, b.Count())

	b.Set(0)
	b.Set(64)
	b.Set(129)
	assert.True(t, b.Get(0))
	assert.True(t, b.Get(64))
	assert.True(t, b.Get(129))
	assert.False(t, b.Get(1))
	assert.Equal(t, 3, b.Count())

	b.Clear(64)
	assert.False(t, b.Get(64))
	assert.Equal(t, 2, b.Count())
}

func TestOrInPlaceMonotone(t *testing.T) {
	a := New(10)
	a.Set(1)
	b := New(10)
	b.Set(2)
	b.Set(1)

	before := a.Count()
	a.OrInPlace(b)
	assert.GreaterOrEqual(t, a.Count(), before)
	assert.True(t, a.Get(1))
	assert.True(t, a.Get(2))
}

func TestCloneIndependence(t *testing.T) {
	a := New(10)
	a.Set(3)
	b := a.Clone()
	b.Set(4)
	assert.False(t, a.Get(4))
	assert.True(t, b.Get(4))
}

func TestEqualAndHash(t *testing.T) {
	a := New(70)
	a.Set(5)
	a.Set(69)
	b := New(70)
	b.Set(5)
	b.Set(69)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	b.Set(6)
	assert.False(t, a.Equal(b))
}

func TestRoundTrip(t *testing.T) {
	a := New(200)
	a.Set(0)
	a.Set(63)
	a.Set(64)
	a.Set(199)

	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadBitset(&buf, 200)
	require.NoError(t, err)
	assert.True(t, a.Equal(got))
}
