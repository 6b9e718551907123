package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/derin/courseboard/internal/app/models/dto"
	"github.com/derin/courseboard/internal/app/query"
	"github.com/derin/courseboard/internal/app/services"
	"github.com/derin/courseboard/internal/middleware"
)

// CourseController handles course catalog endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// GetCourses serves the course listing engine.
// @Summary List courses
// @Description Returns a sorted, filtered page of courses with aggregate review statistics. With format=search, returns the compact code/name index instead.
// @Tags courses
// @Produce json
// @Param sortkey query string false "Sort key" Enums(liked, difficulty, useful, attendance, course_code, ratings)
// @Param sortorder query string false "Sort order" Enums(asc, desc)
// @Param minratings query int false "Minimum review count"
// @Param hasprereqs query bool false "Only courses with prerequisites"
// @Param noprereqs query bool false "Only courses without prerequisites"
// @Param breadth query string false "Breadth category letters, e.g. AB"
// @Param cat query string false "Exact category match"
// @Param cursor query int false "Offset into the sorted result set"
// @Param format query string false "Set to 'search' for the compact index"
// @Success 200 {object} dto.CourseListResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	var req dto.CourseListFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameters").WithDetails(err.Error())))
		return
	}

	if strings.EqualFold(req.Format, "search") {
		entries, err := c.courseService.SearchIndex(ctx)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, entries)
		return
	}

	spec, errDetail := buildListSpec(&req)
	if errDetail != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errDetail))
		return
	}

	result, err := c.courseService.ListCourses(ctx, spec)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CourseListResponse{
		Courses:    result.Courses,
		Count:      result.TotalCount,
		NextCursor: result.NextCursor,
	})
}

// buildListSpec turns raw query parameters into a listing spec. Anything
// unparsable is a client error; range and enum checks happen in Normalize.
func buildListSpec(req *dto.CourseListFilterRequest) (*query.CourseListSpec, *dto.ErrorDetail) {
	spec := &query.CourseListSpec{
		Sort:  query.SortKey(strings.ToLower(req.SortKey)),
		Order: query.SortOrder(strings.ToLower(req.SortOrder)),
	}

	if req.MinRatings != "" {
		n, err := strconv.Atoi(req.MinRatings)
		if err != nil {
			return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "minratings must be an integer").WithField("minratings")
		}
		spec.MinRatings = &n
	}

	hasPrereqs, errDetail := parseBoolFlag(req.HasPrereqs, "hasprereqs")
	if errDetail != nil {
		return nil, errDetail
	}
	noPrereqs, errDetail := parseBoolFlag(req.NoPrereqs, "noprereqs")
	if errDetail != nil {
		return nil, errDetail
	}
	switch {
	case hasPrereqs != nil && noPrereqs != nil:
		return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "hasprereqs and noprereqs cannot be combined")
	case hasPrereqs != nil:
		spec.HasPrereqs = hasPrereqs
	case noPrereqs != nil:
		inverted := !*noPrereqs
		spec.HasPrereqs = &inverted
	}

	if req.Breadth != "" {
		letters, err := query.ParseBreadth(req.Breadth)
		if err != nil {
			return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()).WithField("breadth")
		}
		spec.Breadth = letters
	}

	if req.Category != "" {
		cat := strings.ToUpper(strings.TrimSpace(req.Category))
		spec.Category = &cat
	}

	if req.Cursor != "" {
		cursor, err := strconv.Atoi(req.Cursor)
		if err != nil {
			return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "cursor must be an integer").WithField("cursor")
		}
		spec.Cursor = cursor
	}

	return spec, nil
}

func parseBoolFlag(raw, field string) (*bool, *dto.ErrorDetail) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, field+" must be a boolean").WithField(field)
	}
	return &v, nil
}

// GetCourseByCode retrieves one course with its aggregate statistics.
// @Summary Get course details
// @Description Retrieves a course record together with its review statistics. When authenticated, the caller's own review is excluded from the statistics.
// @Tags courses
// @Produce json
// @Param courseCode path string true "Course code, e.g. CALC 1000"
// @Success 200 {object} dto.CourseDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{courseCode} [get]
func (c *CourseController) GetCourseByCode(ctx *gin.Context) {
	detail, err := c.courseService.GetCourseDetail(ctx, ctx.Param("courseCode"), middleware.Identity(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CourseDetailResponse{
		Course: detail.Course,
		Stats:  detail.Stats,
	})
}
