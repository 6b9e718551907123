// Package query defines the typed specification consumed by the course
// listing engine: filter predicates, sort key, and pagination cursor.
// Specs validate themselves before any store access; translation to SQL is
// the repository's concern.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/derin/courseboard/internal/pkg/apperrors"
	"github.com/derin/courseboard/internal/pkg/helpers"
)

// SortKey enumerates the fields the course listing can be ordered by.
type SortKey string

const (
	SortLiked      SortKey = "liked"
	SortDifficulty SortKey = "difficulty"
	SortUseful     SortKey = "useful"
	SortAttendance SortKey = "attendance"
	SortCourseCode SortKey = "course_code"
	SortRatings    SortKey = "ratings"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// sortColumns maps sort keys to the aggregate aliases of the listing query.
// Acts as the allow-list: anything outside this map is rejected before SQL
// is ever built.
var sortColumns = map[SortKey]string{
	SortLiked:      "liked_ratio",
	SortDifficulty: "avg_difficulty",
	SortUseful:     "avg_useful",
	SortAttendance: "avg_attendance",
	SortCourseCode: "c.course_code",
	SortRatings:    "review_count",
}

// CourseListSpec describes one listing request. Filters combine as a
// conjunction; the zero value lists the whole catalog in course code order.
type CourseListSpec struct {
	Sort       SortKey
	Order      SortOrder
	MinRatings *int
	// HasPrereqs filters on the presence of structured prerequisite links:
	// true requires at least one, false requires none, nil skips the filter.
	HasPrereqs *bool
	// Breadth is a set of category letters; a course matches when its
	// category string overlaps the requested set (any-overlap policy).
	Breadth []string
	// Category is an exact match on the combined category string.
	Category *string
	Cursor   int
	PageSize int
}

// validBreadthLetters is the closed set of breadth categories.
var validBreadthLetters = map[string]bool{"A": true, "B": true, "C": true}

// Normalize applies defaults and validates the spec. It must be called
// before handing the spec to a repository.
func (s *CourseListSpec) Normalize() error {
	if s.Sort == "" {
		s.Sort = SortCourseCode
	}
	if _, ok := sortColumns[s.Sort]; !ok {
		return apperrors.NewValidationError(fmt.Sprintf("invalid sort key %q", s.Sort))
	}

	if s.Order == "" {
		s.Order = OrderAsc
	}
	if s.Order != OrderAsc && s.Order != OrderDesc {
		return apperrors.NewValidationError(fmt.Sprintf("invalid sort order %q", s.Order))
	}

	if s.MinRatings != nil && *s.MinRatings < 0 {
		return apperrors.NewValidationError("minratings must be non-negative")
	}

	for _, letter := range s.Breadth {
		if !validBreadthLetters[letter] {
			return apperrors.NewValidationError(fmt.Sprintf("invalid breadth category %q", letter))
		}
	}

	if s.Category != nil {
		letters, err := ParseBreadth(*s.Category)
		if err != nil {
			return err
		}
		cat := strings.Join(letters, "")
		s.Category = &cat
	}

	if s.Cursor < 0 {
		return apperrors.NewValidationError("cursor must be non-negative")
	}
	s.PageSize = helpers.ClampPageSize(s.PageSize)

	return nil
}

// OrderColumn returns the SQL expression the listing query orders by.
// Normalize must have accepted the spec first.
func (s *CourseListSpec) OrderColumn() string {
	return sortColumns[s.Sort]
}

// OrderDirection returns the SQL direction keyword for the spec's order.
func (s *CourseListSpec) OrderDirection() string {
	if s.Order == OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// ParseBreadth splits a breadth parameter ("AB", "A,B" or "a b") into a
// sorted, de-duplicated set of category letters.
func ParseBreadth(raw string) ([]string, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return nil, nil
	}

	seen := map[string]bool{}
	for _, r := range raw {
		switch {
		case r == ',' || r == ' ':
			continue
		case validBreadthLetters[string(r)]:
			seen[string(r)] = true
		default:
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid breadth category %q", string(r)))
		}
	}

	letters := make([]string, 0, len(seen))
	for l := range seen {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters, nil
}
