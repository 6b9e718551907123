package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/derin/courseboard/internal/app/models"
	"github.com/derin/courseboard/internal/app/models/dto"
	"github.com/derin/courseboard/internal/app/query"
	"github.com/derin/courseboard/internal/app/services"
	"github.com/derin/courseboard/internal/middleware"
)

// ReviewController handles review endpoints
type ReviewController struct {
	reviewService services.ReviewService
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService services.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// GetReviews lists a course's reviews.
// @Summary List reviews for a course
// @Description Returns a course's reviews. When authenticated, the caller's own review is returned separately as userReview and excluded from the list and count.
// @Tags reviews
// @Produce json
// @Param course_code query string true "Course code"
// @Param sortKey query string false "Sort key" Enums(date_created, difficulty, enthusiasm, attendance, useful)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Param take query int false "Maximum number of reviews to return"
// @Success 200 {object} dto.ReviewListResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews [get]
func (c *ReviewController) GetReviews(ctx *gin.Context) {
	spec := &query.ReviewListSpec{
		CourseCode: ctx.Query("course_code"),
		Sort:       query.ReviewSortKey(ctx.Query("sortKey")),
		Order:      query.SortOrder(ctx.Query("sortOrder")),
	}

	if takeStr := ctx.Query("take"); takeStr != "" {
		take, err := strconv.Atoi(takeStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "take must be an integer").WithField("take")))
			return
		}
		spec.Take = take
	}

	identity := middleware.Identity(ctx)
	result, err := c.reviewService.GetCourseReviews(ctx, spec, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ReviewListResponse{
		Reviews: make([]dto.ReviewResponse, 0, len(result.Reviews)),
		Count:   dto.ReviewCount{ReviewID: result.TotalCount},
	}
	for i := range result.Reviews {
		resp.Reviews = append(resp.Reviews, dto.NewReviewResponse(&result.Reviews[i], false))
	}
	if result.UserReview != nil {
		own := dto.NewReviewResponse(result.UserReview, true)
		resp.UserReview = &own
	}

	ctx.JSON(http.StatusOK, resp)
}

// CreateReview submits a new review.
// @Summary Create a review
// @Description Creates the caller's review for a course. A user may hold at most one review per course.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitReviewRequest true "Review"
// @Success 201 {object} dto.ReviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid review data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Review already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews [post]
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	review, ok := c.bindReview(ctx)
	if !ok {
		return
	}
	review.Email = middleware.Identity(ctx)

	if _, err := c.reviewService.CreateReview(ctx, review); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewReviewResponse(review, true)
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateReview edits the caller's review.
// @Summary Update a review
// @Description Rewrites the caller's existing review. Course and author cannot change.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param request body dto.SubmitReviewRequest true "Updated review"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid review data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Review belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews/{id} [put]
func (c *ReviewController) UpdateReview(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Review ID must be a valid number").WithField("id")))
		return
	}

	review, ok := c.bindReview(ctx)
	if !ok {
		return
	}
	review.ReviewID = id

	if err := c.reviewService.UpdateReview(ctx, middleware.Identity(ctx), review); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Review updated"})
}

// DeleteReview removes the caller's review.
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Review belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews/{id} [delete]
func (c *ReviewController) DeleteReview(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Review ID must be a valid number").WithField("id")))
		return
	}

	if err := c.reviewService.DeleteReview(ctx, middleware.Identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Review deleted"})
}

// DeleteAccount removes every review the caller holds.
// @Summary Delete account data
// @Description Physically deletes all reviews authored under the caller's email.
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DeletedResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /account [delete]
func (c *ReviewController) DeleteAccount(ctx *gin.Context) {
	deleted, err := c.reviewService.DeleteAccount(ctx, middleware.Identity(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeletedResponse{Message: "Account reviews deleted", Deleted: deleted})
}

// bindReview parses the submit payload into a review model.
func (c *ReviewController) bindReview(ctx *gin.Context) (*models.Review, bool) {
	var req dto.SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid review data").WithDetails(err.Error())))
		return nil, false
	}

	dateTaken, err := time.Parse("2006-01-02", req.DateTaken)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "date_taken must be YYYY-MM-DD").WithField("date_taken")))
		return nil, false
	}

	return &models.Review{
		CourseCode: req.CourseCode,
		Professor:  req.Professor,
		Body:       req.Body,
		Difficulty: req.Difficulty,
		Enthusiasm: req.Enthusiasm,
		Attendance: req.Attendance,
		Useful:     req.Useful,
		Liked:      req.Liked,
		Anonymous:  req.Anonymous,
		DateTaken:  dateTaken,
	}, true
}
