package dto

import (
	"time"

	"github.com/derin/courseboard/internal/app/models"
)

// ReviewResponse is one review as served to clients. Email is only present
// when the author chose not to be anonymous, or when the review belongs to
// the caller. Term and year are derived from date_taken on the way out.
type ReviewResponse struct {
	ReviewID    int64       `json:"review_id"`
	CourseCode  string      `json:"course_code"`
	Professor   string      `json:"professor"`
	Body        *string     `json:"review,omitempty"`
	Email       string      `json:"email,omitempty"`
	Difficulty  int         `json:"difficulty"`
	Enthusiasm  int         `json:"enthusiasm"`
	Attendance  int         `json:"attendance"`
	Useful      int         `json:"useful"`
	Liked       bool        `json:"liked"`
	Anonymous   bool        `json:"anon"`
	Term        models.Term `json:"term"`
	Year        int         `json:"year"`
	DateTaken   time.Time   `json:"date_taken"`
	DateCreated time.Time   `json:"date_created"`
	LastEdited  time.Time   `json:"last_edited"`
}

// NewReviewResponse maps a review for output. isOwn forces the email through
// regardless of the anonymous flag (users always see their own identity).
func NewReviewResponse(review *models.Review, isOwn bool) ReviewResponse {
	resp := ReviewResponse{
		ReviewID:    review.ReviewID,
		CourseCode:  review.CourseCode,
		Professor:   review.Professor,
		Body:        review.Body,
		Difficulty:  review.Difficulty,
		Enthusiasm:  review.Enthusiasm,
		Attendance:  review.Attendance,
		Useful:      review.Useful,
		Liked:       review.Liked,
		Anonymous:   review.Anonymous,
		Term:        review.TermTaken(),
		Year:        review.YearTaken(),
		DateTaken:   review.DateTaken,
		DateCreated: review.DateCreated,
		LastEdited:  review.LastEdited,
	}

	if isOwn || !review.Anonymous {
		resp.Email = review.Email
	}

	return resp
}

// ReviewCount mirrors the aggregate-count shape of the reviews endpoint.
type ReviewCount struct {
	ReviewID int `json:"review_id"`
}

// ReviewListResponse is the reviews endpoint payload. userReview holds the
// caller's own review when an identity was supplied; it is excluded from
// reviews and _count.
type ReviewListResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	UserReview *ReviewResponse  `json:"userReview,omitempty"`
	Count      ReviewCount      `json:"_count"`
}

// SubmitReviewRequest is the create/edit payload for a review.
type SubmitReviewRequest struct {
	CourseCode string  `json:"course_code" binding:"required"`
	Professor  string  `json:"professor"`
	Body       *string `json:"review"`
	Difficulty int     `json:"difficulty" binding:"min=0,max=5"`
	Enthusiasm int     `json:"enthusiasm" binding:"min=0,max=5"`
	Attendance int     `json:"attendance" binding:"min=0,max=5"`
	Useful     int     `json:"useful" binding:"min=0,max=5"`
	Liked      bool    `json:"liked"`
	Anonymous  bool    `json:"anon"`
	DateTaken  string  `json:"date_taken" binding:"required"` // YYYY-MM-DD
}
