package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derin/courseboard/internal/app/models"
	"github.com/derin/courseboard/internal/app/query"
	"github.com/derin/courseboard/internal/app/services"
	"github.com/derin/courseboard/internal/pkg/apperrors"
)

type stubCourseService struct {
	lastSpec *query.CourseListSpec
	result   *services.CourseListResult
	detail   *services.CourseDetail
	err      error
}

func (s *stubCourseService) ListCourses(_ context.Context, spec *query.CourseListSpec) (*services.CourseListResult, error) {
	s.lastSpec = spec
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubCourseService) SearchIndex(context.Context) ([]models.CourseSearchEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.CourseSearchEntry{{CourseCode: "CALC 1000", CourseName: "Calculus I"}}, nil
}

func (s *stubCourseService) GetCourseDetail(context.Context, string, string) (*services.CourseDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func courseTestRouter(svc services.CourseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewCourseController(svc)
	router.GET("/courses", controller.GetCourses)
	router.GET("/courses/:courseCode", controller.GetCourseByCode)
	return router
}

func performRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetCoursesBuildsSpecFromQueryParams(t *testing.T) {
	stub := &stubCourseService{result: &services.CourseListResult{Courses: []models.CourseSummary{}}}
	router := courseTestRouter(stub)

	w := performRequest(router, http.MethodGet,
		"/courses?sortkey=difficulty&sortorder=desc&minratings=2&breadth=AB&cursor=20")
	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, stub.lastSpec)
	assert.Equal(t, query.SortDifficulty, stub.lastSpec.Sort)
	assert.Equal(t, query.OrderDesc, stub.lastSpec.Order)
	require.NotNil(t, stub.lastSpec.MinRatings)
	assert.Equal(t, 2, *stub.lastSpec.MinRatings)
	assert.Equal(t, []string{"A", "B"}, stub.lastSpec.Breadth)
	assert.Equal(t, 20, stub.lastSpec.Cursor)
}

func TestGetCoursesPrereqFlags(t *testing.T) {
	t.Run("hasprereqs passes through", func(t *testing.T) {
		stub := &stubCourseService{result: &services.CourseListResult{}}
		router := courseTestRouter(stub)

		w := performRequest(router, http.MethodGet, "/courses?hasprereqs=true")
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, stub.lastSpec.HasPrereqs)
		assert.True(t, *stub.lastSpec.HasPrereqs)
	})

	t.Run("noprereqs inverts", func(t *testing.T) {
		stub := &stubCourseService{result: &services.CourseListResult{}}
		router := courseTestRouter(stub)

		w := performRequest(router, http.MethodGet, "/courses?noprereqs=true")
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, stub.lastSpec.HasPrereqs)
		assert.False(t, *stub.lastSpec.HasPrereqs)
	})

	t.Run("combining both flags is a client error", func(t *testing.T) {
		stub := &stubCourseService{result: &services.CourseListResult{}}
		router := courseTestRouter(stub)

		w := performRequest(router, http.MethodGet, "/courses?hasprereqs=true&noprereqs=true")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, stub.lastSpec)
	})
}

func TestGetCoursesRejectsUnparsableParams(t *testing.T) {
	for _, target := range []string{
		"/courses?minratings=two",
		"/courses?cursor=abc",
		"/courses?hasprereqs=maybe",
		"/courses?breadth=AZ",
	} {
		stub := &stubCourseService{result: &services.CourseListResult{}}
		router := courseTestRouter(stub)

		w := performRequest(router, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestGetCoursesValidationErrorFromService(t *testing.T) {
	stub := &stubCourseService{err: apperrors.NewValidationError("invalid sort key")}
	router := courseTestRouter(stub)

	w := performRequest(router, http.MethodGet, "/courses?sortkey=professor")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCoursesResponseShape(t *testing.T) {
	next := 20
	stub := &stubCourseService{result: &services.CourseListResult{
		Courses:    []models.CourseSummary{{CourseCode: "CALC 1000", CourseName: "Calculus I"}},
		TotalCount: 45,
		NextCursor: &next,
	}}
	router := courseTestRouter(stub)

	w := performRequest(router, http.MethodGet, "/courses")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "courses")
	assert.Contains(t, body, "_count")
	assert.Contains(t, body, "next_cursor")

	var count int
	require.NoError(t, json.Unmarshal(body["_count"], &count))
	assert.Equal(t, 45, count)
}

func TestGetCoursesLastPageOmitsNextCursor(t *testing.T) {
	stub := &stubCourseService{result: &services.CourseListResult{
		Courses:    []models.CourseSummary{{CourseCode: "CALC 1000"}},
		TotalCount: 1,
	}}
	router := courseTestRouter(stub)

	w := performRequest(router, http.MethodGet, "/courses")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "next_cursor")
}

func TestGetCoursesSearchFormat(t *testing.T) {
	stub := &stubCourseService{}
	router := courseTestRouter(stub)

	w := performRequest(router, http.MethodGet, "/courses?format=search")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.CourseSearchEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "CALC 1000", entries[0].CourseCode)
}

func TestGetCourseByCodeNotFound(t *testing.T) {
	stub := &stubCourseService{err: apperrors.ErrCourseNotFound}
	router := courseTestRouter(stub)

	w := performRequest(router, http.MethodGet, "/courses/NOPE%209999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
