package models

import "time"

// Rating bounds shared by all four review scales.
const (
	RatingMin = 0
	RatingMax = 5
)

// Review represents a single user's review of a course. A user may hold at
// most one review per course, enforced by a unique constraint on
// (course_code, email).
type Review struct {
	ReviewID    int64     `json:"review_id" db:"review_id"`
	CourseCode  string    `json:"course_code" db:"course_code"`
	Professor   string    `json:"professor" db:"professor"`
	Body        *string   `json:"review,omitempty" db:"review"`
	Email       string    `json:"email,omitempty" db:"email"`
	Difficulty  int       `json:"difficulty" db:"difficulty"`
	Enthusiasm  int       `json:"enthusiasm" db:"enthusiasm"`
	Attendance  int       `json:"attendance" db:"attendance"`
	Useful      int       `json:"useful" db:"useful"`
	Liked       bool      `json:"liked" db:"liked"`
	Anonymous   bool      `json:"anon" db:"anon"`
	DateTaken   time.Time `json:"date_taken" db:"date_taken"`
	DateCreated time.Time `json:"date_created" db:"date_created"`
	LastEdited  time.Time `json:"last_edited" db:"last_edited"`
}

// Term is the academic term derived from the date a course was taken.
// It is computed on read, never stored.
type Term string

const (
	TermWinter Term = "winter"
	TermSummer Term = "summer"
	TermFall   Term = "fall"
)

// TermTaken derives the academic term from the review's date_taken:
// months 1-4 winter, 5-8 summer, 9-12 fall.
func (r *Review) TermTaken() Term {
	switch m := r.DateTaken.Month(); {
	case m <= time.April:
		return TermWinter
	case m <= time.August:
		return TermSummer
	default:
		return TermFall
	}
}

// YearTaken is the calendar year of date_taken.
func (r *Review) YearTaken() int {
	return r.DateTaken.Year()
}
