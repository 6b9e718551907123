package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/derin/courseboard/internal/app/models"
	"github.com/derin/courseboard/internal/app/query"
	"github.com/derin/courseboard/internal/pkg/apperrors"
	"github.com/derin/courseboard/internal/pkg/helpers"
)

// CourseStore is the storage surface the course service needs.
type CourseStore interface {
	ListCourses(ctx context.Context, spec *query.CourseListSpec) ([]models.CourseSummary, int, error)
	SearchIndex(ctx context.Context) ([]models.CourseSearchEntry, error)
	GetCourseByCode(ctx context.Context, courseCode string) (*models.Course, error)
}

// CourseStatsStore computes per-course aggregates.
type CourseStatsStore interface {
	GetCourseStats(ctx context.Context, courseCode, excludeEmail string) (*models.CourseStats, error)
}

// CourseListResult is one page of the listing engine output.
type CourseListResult struct {
	Courses    []models.CourseSummary
	TotalCount int
	// NextCursor is nil when this page exhausts the result set.
	NextCursor *int
}

// CourseDetail pairs a full course record with its aggregate stats.
type CourseDetail struct {
	Course *models.Course
	Stats  *models.CourseStats
}

// CourseService defines the interface for course catalog operations
type CourseService interface {
	ListCourses(ctx context.Context, spec *query.CourseListSpec) (*CourseListResult, error)
	SearchIndex(ctx context.Context) ([]models.CourseSearchEntry, error)
	GetCourseDetail(ctx context.Context, courseCode string, identity string) (*CourseDetail, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courses  CourseStore
	stats    CourseStatsStore
	pageSize int
}

// NewCourseService creates a new course service instance. pageSize is the
// deployment-fixed listing page size.
func NewCourseService(courses CourseStore, stats CourseStatsStore, pageSize int) CourseService {
	return &courseServiceImpl{
		courses:  courses,
		stats:    stats,
		pageSize: pageSize,
	}
}

// ListCourses validates the spec, runs the listing query, and derives the
// next-page cursor. Identical inputs against an unchanged store return
// identical pages, row order included.
func (s *courseServiceImpl) ListCourses(ctx context.Context, spec *query.CourseListSpec) (*CourseListResult, error) {
	if spec.PageSize == 0 {
		spec.PageSize = s.pageSize
	}
	if err := spec.Normalize(); err != nil {
		return nil, err
	}

	courses, totalCount, err := s.courses.ListCourses(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	if courses == nil {
		courses = []models.CourseSummary{}
	}

	return &CourseListResult{
		Courses:    courses,
		TotalCount: totalCount,
		NextCursor: helpers.NextCursor(spec.Cursor, spec.PageSize, totalCount),
	}, nil
}

// SearchIndex returns the compact catalog projection for client-side search.
func (s *courseServiceImpl) SearchIndex(ctx context.Context) ([]models.CourseSearchEntry, error) {
	entries, err := s.courses.SearchIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("error building search index: %w", err)
	}
	return entries, nil
}

// GetCourseDetail retrieves a course with the same aggregate record the
// listing engine reports. When an identity is supplied, that user's own
// review is excluded from the stats.
func (s *courseServiceImpl) GetCourseDetail(ctx context.Context, courseCode string, identity string) (*CourseDetail, error) {
	courseCode = strings.ToUpper(strings.TrimSpace(courseCode))
	if courseCode == "" {
		return nil, apperrors.NewValidationError("course code is required")
	}

	course, err := s.courses.GetCourseByCode(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats.GetCourseStats(ctx, courseCode, identity)
	if err != nil {
		return nil, err
	}

	return &CourseDetail{Course: course, Stats: stats}, nil
}
