package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/derin/courseboard/internal/app/models"
	"github.com/derin/courseboard/internal/app/query"
	"github.com/derin/courseboard/internal/pkg/apperrors"
	"github.com/derin/courseboard/internal/pkg/helpers"
	"github.com/derin/courseboard/internal/pkg/validation"
)

// ReviewStore is the storage surface the review service needs.
type ReviewStore interface {
	ListReviews(ctx context.Context, spec *query.ReviewListSpec) ([]models.Review, int, error)
	GetUserReview(ctx context.Context, courseCode, email string) (*models.Review, error)
	GetReviewByID(ctx context.Context, reviewID int64) (*models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) (int64, error)
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, reviewID int64) error
	DeleteReviewsByEmail(ctx context.Context, email string) (int64, error)
	GetCourseStats(ctx context.Context, courseCode, excludeEmail string) (*models.CourseStats, error)
}

// CourseReviewsResult is the review listing for one course. UserReview is
// the caller's own review, delivered separately and never counted into
// Reviews or TotalCount.
type CourseReviewsResult struct {
	Reviews    []models.Review
	UserReview *models.Review
	TotalCount int
}

// ReviewService defines the interface for review operations
type ReviewService interface {
	GetCourseReviews(ctx context.Context, spec *query.ReviewListSpec, identity string) (*CourseReviewsResult, error)
	CreateReview(ctx context.Context, review *models.Review) (int64, error)
	UpdateReview(ctx context.Context, identity string, review *models.Review) error
	DeleteReview(ctx context.Context, identity string, reviewID int64) error
	DeleteAccount(ctx context.Context, identity string) (int64, error)
}

// reviewServiceImpl implements the ReviewService interface
type reviewServiceImpl struct {
	reviews ReviewStore
}

// NewReviewService creates a new review service instance
func NewReviewService(reviews ReviewStore) ReviewService {
	return &reviewServiceImpl{reviews: reviews}
}

// validateReview validates review data before database operations
func (s *reviewServiceImpl) validateReview(review *models.Review) error {
	if review == nil {
		return apperrors.NewValidationError("review is nil")
	}

	if strings.TrimSpace(review.CourseCode) == "" {
		return apperrors.NewValidationError("course_code is required")
	}

	if !validation.IsValidEmail(review.Email) {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidEmail, review.Email)
	}

	for name, rating := range map[string]int{
		"difficulty": review.Difficulty,
		"enthusiasm": review.Enthusiasm,
		"attendance": review.Attendance,
		"useful":     review.Useful,
	} {
		if rating < models.RatingMin || rating > models.RatingMax {
			return apperrors.NewValidationError(
				fmt.Sprintf("%s must be between %d and %d", name, models.RatingMin, models.RatingMax))
		}
	}

	if review.Body != nil && len(strings.TrimSpace(*review.Body)) < validation.ReviewBodyMinLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("review body must be at least %d characters", validation.ReviewBodyMinLength))
	}

	if len(review.Professor) > validation.ProfessorMaxLength {
		return apperrors.NewValidationError("professor name is too long")
	}

	if review.DateTaken.IsZero() {
		return apperrors.NewValidationError("date_taken is required")
	}

	return nil
}

// GetCourseReviews returns a course's reviews plus, when an identity is
// supplied, that user's own review as a separate field. The caller's review
// never appears in the list or the count shown to them.
func (s *reviewServiceImpl) GetCourseReviews(ctx context.Context, spec *query.ReviewListSpec, identity string) (*CourseReviewsResult, error) {
	spec.CourseCode = strings.ToUpper(strings.TrimSpace(spec.CourseCode))
	spec.Exclude = identity
	if spec.Take == 0 {
		spec.Take = helpers.DefaultTake
	}
	spec.Take = helpers.ClampPageSize(spec.Take)
	if err := spec.Normalize(); err != nil {
		return nil, err
	}

	// Distinguishes a missing course from a course with zero reviews
	if _, err := s.reviews.GetCourseStats(ctx, spec.CourseCode, identity); err != nil {
		return nil, err
	}

	reviews, totalCount, err := s.reviews.ListReviews(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}

	result := &CourseReviewsResult{
		Reviews:    reviews,
		TotalCount: totalCount,
	}

	if identity != "" {
		userReview, err := s.reviews.GetUserReview(ctx, spec.CourseCode, identity)
		switch {
		case err == nil:
			result.UserReview = userReview
		case errors.Is(err, apperrors.ErrReviewNotFound):
			// The user simply has not reviewed this course
		default:
			return nil, fmt.Errorf("error loading user review: %w", err)
		}
	}

	return result, nil
}

// CreateReview validates and stores a new review. Duplicate submissions for
// the same (course, email) pair surface as a conflict.
func (s *reviewServiceImpl) CreateReview(ctx context.Context, review *models.Review) (int64, error) {
	review.CourseCode = strings.ToUpper(strings.TrimSpace(review.CourseCode))
	if err := s.validateReview(review); err != nil {
		return 0, err
	}

	id, err := s.reviews.CreateReview(ctx, review)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateReview) || errors.Is(err, apperrors.ErrCourseNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating review: %w", err)
	}
	return id, nil
}

// UpdateReview applies an author's edit to their existing review.
func (s *reviewServiceImpl) UpdateReview(ctx context.Context, identity string, review *models.Review) error {
	if review.ReviewID <= 0 {
		return apperrors.NewValidationError("invalid review ID")
	}

	existing, err := s.reviews.GetReviewByID(ctx, review.ReviewID)
	if err != nil {
		return err
	}
	if existing.Email != identity {
		return apperrors.ErrNotReviewOwner
	}

	// Course and author identity are immutable on edit
	review.CourseCode = existing.CourseCode
	review.Email = existing.Email
	if err := s.validateReview(review); err != nil {
		return err
	}

	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return err
	}
	return nil
}

// DeleteReview removes the author's review.
func (s *reviewServiceImpl) DeleteReview(ctx context.Context, identity string, reviewID int64) error {
	if reviewID <= 0 {
		return apperrors.NewValidationError("invalid review ID")
	}

	existing, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if existing.Email != identity {
		return apperrors.ErrNotReviewOwner
	}

	return s.reviews.DeleteReview(ctx, reviewID)
}

// DeleteAccount removes every review the identity holds.
func (s *reviewServiceImpl) DeleteAccount(ctx context.Context, identity string) (int64, error) {
	if !validation.IsValidEmail(identity) {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrInvalidEmail, identity)
	}
	deleted, err := s.reviews.DeleteReviewsByEmail(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("error deleting account reviews: %w", err)
	}
	return deleted, nil
}
