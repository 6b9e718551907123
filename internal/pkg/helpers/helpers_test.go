package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCursor(t *testing.T) {
	t.Run("returns next offset when more rows remain", func(t *testing.T) {
		next := NextCursor(0, 20, 45)
		require.NotNil(t, next)
		assert.Equal(t, 20, *next)

		next = NextCursor(20, 20, 45)
		require.NotNil(t, next)
		assert.Equal(t, 40, *next)
	})

	t.Run("nil when the page lands exactly on the end", func(t *testing.T) {
		assert.Nil(t, NextCursor(20, 20, 40))
	})

	t.Run("nil when the page overshoots the end", func(t *testing.T) {
		assert.Nil(t, NextCursor(40, 20, 45))
	})

	t.Run("nil on an empty result set", func(t *testing.T) {
		assert.Nil(t, NextCursor(0, 20, 0))
	})

	t.Run("single short page has no next", func(t *testing.T) {
		assert.Nil(t, NextCursor(0, 20, 5))
	})
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, ClampPageSize(0))
	assert.Equal(t, DefaultPageSize, ClampPageSize(-3))
	assert.Equal(t, 1, ClampPageSize(1))
	assert.Equal(t, MaxPageSize, ClampPageSize(MaxPageSize))
	assert.Equal(t, MaxPageSize, ClampPageSize(MaxPageSize+500))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 3.0, RoundRating(3.0))
	assert.Equal(t, 2.7, RoundRating(2.6666666))
	assert.Equal(t, 2.5, RoundRating(2.45))
	assert.Equal(t, 0.0, RoundRating(0.04))
}

func TestRoundRatingPtr(t *testing.T) {
	assert.Nil(t, RoundRatingPtr(nil))

	v := 4.4444
	rounded := RoundRatingPtr(&v)
	require.NotNil(t, rounded)
	assert.Equal(t, 4.4, *rounded)
}

func TestLikedPercent(t *testing.T) {
	t.Run("nil when there are no reviews", func(t *testing.T) {
		assert.Nil(t, LikedPercent(0, 0))
	})

	t.Run("zero percent is a real value, not nil", func(t *testing.T) {
		p := LikedPercent(0, 3)
		require.NotNil(t, p)
		assert.Equal(t, 0.0, *p)
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		p := LikedPercent(2, 3)
		require.NotNil(t, p)
		assert.Equal(t, 66.7, *p)
	})

	t.Run("all liked", func(t *testing.T) {
		p := LikedPercent(5, 5)
		require.NotNil(t, p)
		assert.Equal(t, 100.0, *p)
	})
}
