package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derin/courseboard/internal/pkg/apperrors"
	"github.com/derin/courseboard/internal/pkg/helpers"
)

func TestCourseListSpecNormalizeDefaults(t *testing.T) {
	spec := &CourseListSpec{}
	require.NoError(t, spec.Normalize())

	assert.Equal(t, SortCourseCode, spec.Sort)
	assert.Equal(t, OrderAsc, spec.Order)
	assert.Equal(t, helpers.DefaultPageSize, spec.PageSize)
	assert.Equal(t, 0, spec.Cursor)
}

func TestCourseListSpecNormalizeRejectsUnknownSortKey(t *testing.T) {
	spec := &CourseListSpec{Sort: "professor"}
	err := spec.Normalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCourseListSpecNormalizeRejectsUnknownOrder(t *testing.T) {
	spec := &CourseListSpec{Order: "sideways"}
	err := spec.Normalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCourseListSpecNormalizeRejectsNegativeValues(t *testing.T) {
	neg := -1
	err := (&CourseListSpec{MinRatings: &neg}).Normalize()
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = (&CourseListSpec{Cursor: -5}).Normalize()
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCourseListSpecNormalizeBreadthLetters(t *testing.T) {
	spec := &CourseListSpec{Breadth: []string{"A", "C"}}
	require.NoError(t, spec.Normalize())

	spec = &CourseListSpec{Breadth: []string{"A", "Z"}}
	assert.ErrorIs(t, spec.Normalize(), apperrors.ErrValidationFailed)
}

func TestCourseListSpecNormalizeCanonicalizesCategory(t *testing.T) {
	cat := "ba"
	spec := &CourseListSpec{Category: &cat}
	require.NoError(t, spec.Normalize())
	require.NotNil(t, spec.Category)
	assert.Equal(t, "AB", *spec.Category)

	bad := "AQ"
	spec = &CourseListSpec{Category: &bad}
	assert.ErrorIs(t, spec.Normalize(), apperrors.ErrValidationFailed)
}

func TestCourseListSpecOrderColumn(t *testing.T) {
	cases := map[SortKey]string{
		SortLiked:      "liked_ratio",
		SortDifficulty: "avg_difficulty",
		SortUseful:     "avg_useful",
		SortAttendance: "avg_attendance",
		SortCourseCode: "c.course_code",
		SortRatings:    "review_count",
	}
	for key, col := range cases {
		spec := &CourseListSpec{Sort: key}
		require.NoError(t, spec.Normalize())
		assert.Equal(t, col, spec.OrderColumn())
	}
}

func TestCourseListSpecOrderDirection(t *testing.T) {
	spec := &CourseListSpec{Order: OrderDesc}
	require.NoError(t, spec.Normalize())
	assert.Equal(t, "DESC", spec.OrderDirection())

	spec = &CourseListSpec{}
	require.NoError(t, spec.Normalize())
	assert.Equal(t, "ASC", spec.OrderDirection())
}

func TestParseBreadth(t *testing.T) {
	t.Run("combined letters", func(t *testing.T) {
		letters, err := ParseBreadth("AB")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, letters)
	})

	t.Run("comma separated, lowercase, unsorted", func(t *testing.T) {
		letters, err := ParseBreadth("c,a")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "C"}, letters)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		letters, err := ParseBreadth("AABBA")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, letters)
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		letters, err := ParseBreadth("   ")
		require.NoError(t, err)
		assert.Nil(t, letters)
	})

	t.Run("letters outside the category set are rejected", func(t *testing.T) {
		_, err := ParseBreadth("AD")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestReviewListSpecNormalize(t *testing.T) {
	t.Run("defaults to newest first", func(t *testing.T) {
		spec := &ReviewListSpec{CourseCode: "CALC 1000"}
		require.NoError(t, spec.Normalize())
		assert.Equal(t, ReviewSortDate, spec.Sort)
		assert.Equal(t, OrderDesc, spec.Order)
	})

	t.Run("requires a course code", func(t *testing.T) {
		spec := &ReviewListSpec{}
		assert.ErrorIs(t, spec.Normalize(), apperrors.ErrValidationFailed)
	})

	t.Run("rejects unknown sort keys", func(t *testing.T) {
		spec := &ReviewListSpec{CourseCode: "CALC 1000", Sort: "liked"}
		assert.ErrorIs(t, spec.Normalize(), apperrors.ErrValidationFailed)
	})

	t.Run("rejects negative take", func(t *testing.T) {
		spec := &ReviewListSpec{CourseCode: "CALC 1000", Take: -1}
		assert.ErrorIs(t, spec.Normalize(), apperrors.ErrValidationFailed)
	})
}
