package dto

import "github.com/derin/courseboard/internal/app/models"

// CourseListResponse is the listing engine page. next_cursor is omitted when
// no further pages exist; it is never an out-of-range cursor.
type CourseListResponse struct {
	Courses    []models.CourseSummary `json:"courses"`
	Count      int                    `json:"_count"`
	NextCursor *int                   `json:"next_cursor,omitempty"`
}

// CourseDetailResponse pairs a course record with its aggregate statistics.
type CourseDetailResponse struct {
	Course *models.Course      `json:"course"`
	Stats  *models.CourseStats `json:"stats"`
}

// CourseListFilterRequest carries the raw listing query parameters before
// they are parsed into a query.CourseListSpec.
type CourseListFilterRequest struct {
	SortKey    string `form:"sortkey"`
	SortOrder  string `form:"sortorder"`
	MinRatings string `form:"minratings"`
	HasPrereqs string `form:"hasprereqs"`
	NoPrereqs  string `form:"noprereqs"`
	Breadth    string `form:"breadth"`
	Category   string `form:"cat"`
	Cursor     string `form:"cursor"`
	Format     string `form:"format"`
}
