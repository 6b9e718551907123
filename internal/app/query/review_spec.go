package query

import (
	"fmt"
	"strings"

	"github.com/derin/courseboard/internal/pkg/apperrors"
)

// ReviewSortKey enumerates the fields a course's review list can be ordered by.
type ReviewSortKey string

const (
	ReviewSortDate       ReviewSortKey = "date_created"
	ReviewSortDifficulty ReviewSortKey = "difficulty"
	ReviewSortEnthusiasm ReviewSortKey = "enthusiasm"
	ReviewSortAttendance ReviewSortKey = "attendance"
	ReviewSortUseful     ReviewSortKey = "useful"
)

var reviewSortColumns = map[ReviewSortKey]string{
	ReviewSortDate:       "date_created",
	ReviewSortDifficulty: "difficulty",
	ReviewSortEnthusiasm: "enthusiasm",
	ReviewSortAttendance: "attendance",
	ReviewSortUseful:     "useful",
}

// ReviewListSpec describes a request for one course's reviews. When Exclude
// is non-empty, reviews authored under that email are left out (the caller's
// own review is delivered separately, never mixed into "others' reviews").
type ReviewListSpec struct {
	CourseCode string
	Sort       ReviewSortKey
	Order      SortOrder
	Take       int
	Exclude    string
}

// Normalize applies defaults and validates the spec.
func (s *ReviewListSpec) Normalize() error {
	if strings.TrimSpace(s.CourseCode) == "" {
		return apperrors.NewValidationError("course_code is required")
	}

	if s.Sort == "" {
		s.Sort = ReviewSortDate
	}
	if _, ok := reviewSortColumns[s.Sort]; !ok {
		return apperrors.NewValidationError(fmt.Sprintf("invalid review sort key %q", s.Sort))
	}

	if s.Order == "" {
		s.Order = OrderDesc
	}
	if s.Order != OrderAsc && s.Order != OrderDesc {
		return apperrors.NewValidationError(fmt.Sprintf("invalid sort order %q", s.Order))
	}

	if s.Take < 0 {
		return apperrors.NewValidationError("take must be non-negative")
	}

	return nil
}

// OrderColumn returns the reviews column the query orders by.
func (s *ReviewListSpec) OrderColumn() string {
	return reviewSortColumns[s.Sort]
}

// OrderDirection returns the SQL direction keyword for the spec's order.
func (s *ReviewListSpec) OrderDirection() string {
	if s.Order == OrderAsc {
		return "ASC"
	}
	return "DESC"
}
