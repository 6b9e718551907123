package models

import "time"

// Course represents a catalog entry keyed by its immutable course code.
type Course struct {
	CourseCode     string    `json:"course_code" db:"course_code"`
	CourseName     string    `json:"course_name" db:"course_name"`
	Description    *string   `json:"description,omitempty" db:"description"`
	Prerequisites  *string   `json:"prerequisites,omitempty" db:"prerequisites"`
	Antirequisites *string   `json:"antirequisites,omitempty" db:"antirequisites"`
	Corequisites   *string   `json:"corequisites,omitempty" db:"corequisites"`
	Location       *string   `json:"location,omitempty" db:"location"`
	Category       *string   `json:"category,omitempty" db:"category"` // combined breadth letters, e.g. "AB"
	ExtraInfo      *string   `json:"extra_info,omitempty" db:"extra_info"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Structured requisite links (populated when needed)
	Links []CourseLink `json:"links,omitempty"`
}

// LinkKind distinguishes the structured requisite relations between courses.
type LinkKind string

const (
	LinkPrerequisite  LinkKind = "prerequisite"
	LinkAntirequisite LinkKind = "antirequisite"
	LinkCorequisite   LinkKind = "corequisite"
)

// CourseLink connects a course to another course code by requisite kind.
type CourseLink struct {
	CourseCode string   `json:"course_code" db:"course_code"`
	LinkedCode string   `json:"linked_code" db:"linked_code"`
	Kind       LinkKind `json:"kind" db:"kind"`
}

// CourseSummary is a single row of the course listing engine output:
// catalog identity plus aggregates derived from the reviews table.
// Averages and liked percentage are nil when the course has no reviews.
type CourseSummary struct {
	CourseCode    string   `json:"course_code"`
	CourseName    string   `json:"course_name"`
	ReviewCount   int64    `json:"review_count"`
	LikedCount    int64    `json:"liked_count"`
	LikedPercent  *float64 `json:"liked_percent"`
	AvgDifficulty *float64 `json:"avg_difficulty"`
	AvgEnthusiasm *float64 `json:"avg_enthusiasm"`
	AvgAttendance *float64 `json:"avg_attendance"`
	AvgUseful     *float64 `json:"avg_useful"`
}

// CourseSearchEntry is the compact projection served for client-side search.
type CourseSearchEntry struct {
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
}

// CourseStats holds the per-course aggregate record. It is computed on read
// and must agree with the listing engine's aggregates field for field.
type CourseStats struct {
	ReviewCount   int64    `json:"review_count"`
	LikedCount    int64    `json:"liked_count"`
	LikedPercent  *float64 `json:"liked_percent"`
	AvgDifficulty *float64 `json:"avg_difficulty"`
	AvgEnthusiasm *float64 `json:"avg_enthusiasm"`
	AvgAttendance *float64 `json:"avg_attendance"`
	AvgUseful     *float64 `json:"avg_useful"`
}
