package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/derin/courseboard/internal/app/models"
	"github.com/derin/courseboard/internal/app/query"
	"github.com/derin/courseboard/internal/db"
	"github.com/derin/courseboard/internal/pkg/apperrors"
	"github.com/derin/courseboard/internal/pkg/helpers"
	"github.com/derin/courseboard/internal/pkg/logger"
)

// CourseRepository handles course catalog and listing queries
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// buildListQuery translates a validated listing spec into the grouped
// aggregate select (unordered, unpaged) shared by the page and count queries.
func (r *CourseRepository) buildListQuery(spec *query.CourseListSpec) squirrel.SelectBuilder {
	sel := r.sb.Select(
		"c.course_code",
		"c.course_name",
		"COUNT(r.review_id) AS review_count",
		"COUNT(r.review_id) FILTER (WHERE r.liked) AS liked_count",
		"(COUNT(r.review_id) FILTER (WHERE r.liked))::float8 / NULLIF(COUNT(r.review_id), 0) AS liked_ratio",
		"AVG(r.difficulty)::float8 AS avg_difficulty",
		"AVG(r.enthusiasm)::float8 AS avg_enthusiasm",
		"AVG(r.attendance)::float8 AS avg_attendance",
		"AVG(r.useful)::float8 AS avg_useful",
	).
		From("courses c").
		LeftJoin("reviews r ON r.course_code = c.course_code")

	// All filters combine as a conjunction
	whereCondition := squirrel.And{}
	if len(spec.Breadth) > 0 {
		// Any-overlap: a course matches when its category string contains
		// at least one of the requested letters.
		overlap := squirrel.Or{}
		for _, letter := range spec.Breadth {
			overlap = append(overlap, squirrel.Like{"c.category": "%" + letter + "%"})
		}
		whereCondition = append(whereCondition, overlap)
	}
	if spec.Category != nil {
		whereCondition = append(whereCondition, squirrel.Eq{"c.category": *spec.Category})
	}
	if spec.HasPrereqs != nil {
		existsClause := "EXISTS (SELECT 1 FROM course_links cl WHERE cl.course_code = c.course_code AND cl.kind = 'prerequisite')"
		if !*spec.HasPrereqs {
			existsClause = "NOT " + existsClause
		}
		whereCondition = append(whereCondition, squirrel.Expr(existsClause))
	}
	if len(whereCondition) > 0 {
		sel = sel.Where(whereCondition)
	}

	sel = sel.GroupBy("c.course_code", "c.course_name")

	if spec.MinRatings != nil {
		sel = sel.Having("COUNT(r.review_id) >= ?", *spec.MinRatings)
	}

	return sel
}

// orderListQuery applies the spec's sort plus the deterministic course code
// tie-break. Aggregate sorts push NULL rows (zero-review courses) last in
// both directions so pagination stays stable.
func orderListQuery(sel squirrel.SelectBuilder, spec *query.CourseListSpec) squirrel.SelectBuilder {
	col := spec.OrderColumn()
	dir := spec.OrderDirection()

	if spec.Sort == query.SortCourseCode {
		return sel.OrderBy(fmt.Sprintf("c.course_code %s", dir))
	}
	return sel.OrderBy(
		fmt.Sprintf("%s %s NULLS LAST", col, dir),
		"c.course_code ASC",
	)
}

// ListCourses runs the listing engine: it returns one page of course
// summaries plus the total number of matching courses before pagination.
func (r *CourseRepository) ListCourses(ctx context.Context, spec *query.CourseListSpec) ([]models.CourseSummary, int, error) {
	grouped := r.buildListQuery(spec)

	// Total is the number of grouped rows, so count over the subquery
	countSql, countArgs, err := r.sb.Select("COUNT(*)").
		FromSelect(grouped, "filtered").
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var totalCount int
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalCount); err != nil {
		logger.Error().Err(err).Msg("Error executing count courses query")
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	if totalCount == 0 || spec.Cursor >= totalCount {
		return []models.CourseSummary{}, totalCount, nil
	}

	paged := orderListQuery(grouped, spec).
		Limit(uint64(spec.PageSize)).
		Offset(uint64(spec.Cursor))

	pageSql, pageArgs, err := paged.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, pageSql, pageArgs...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, 0, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var summaries []models.CourseSummary
	for rows.Next() {
		var s models.CourseSummary
		var likedRatio, avgDifficulty, avgEnthusiasm, avgAttendance, avgUseful sql.NullFloat64

		err := rows.Scan(
			&s.CourseCode, &s.CourseName,
			&s.ReviewCount, &s.LikedCount, &likedRatio,
			&avgDifficulty, &avgEnthusiasm, &avgAttendance, &avgUseful,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan course summary row: %w", err)
		}

		s.LikedPercent = helpers.LikedPercent(s.LikedCount, s.ReviewCount)
		s.AvgDifficulty = helpers.RoundRatingPtr(helpers.NullFloatPtr(avgDifficulty))
		s.AvgEnthusiasm = helpers.RoundRatingPtr(helpers.NullFloatPtr(avgEnthusiasm))
		s.AvgAttendance = helpers.RoundRatingPtr(helpers.NullFloatPtr(avgAttendance))
		s.AvgUseful = helpers.RoundRatingPtr(helpers.NullFloatPtr(avgUseful))

		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course summary rows: %w", err)
	}

	logger.Debug().
		Int("cursor", spec.Cursor).
		Int("pageSize", spec.PageSize).
		Int("totalCount", totalCount).
		Int("returned", len(summaries)).
		Msg("Fetched course listing page")
	return summaries, totalCount, nil
}

// SearchIndex returns the compact course_code/course_name projection used
// for client-side fuzzy search.
func (r *CourseRepository) SearchIndex(ctx context.Context) ([]models.CourseSearchEntry, error) {
	sqlQuery, args, err := r.sb.Select("course_code", "course_name").
		From("courses").
		OrderBy("course_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search index query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query search index: %w", err)
	}
	defer rows.Close()

	entries := []models.CourseSearchEntry{}
	for rows.Next() {
		var e models.CourseSearchEntry
		if err := rows.Scan(&e.CourseCode, &e.CourseName); err != nil {
			return nil, fmt.Errorf("failed to scan search index row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetCourseByCode retrieves a full course record with its requisite links.
func (r *CourseRepository) GetCourseByCode(ctx context.Context, courseCode string) (*models.Course, error) {
	sqlQuery, args, err := r.sb.Select(
		"course_code", "course_name", "description", "prerequisites",
		"antirequisites", "corequisites", "location", "category", "extra_info",
		"created_at", "updated_at",
	).
		From("courses").
		Where(squirrel.Eq{"course_code": courseCode}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var course models.Course
	var description, prerequisites, antirequisites, corequisites, location, category, extraInfo sql.NullString

	err = r.db.QueryRow(ctx, sqlQuery, args...).Scan(
		&course.CourseCode, &course.CourseName,
		&description, &prerequisites, &antirequisites, &corequisites,
		&location, &category, &extraInfo,
		&course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseCode", courseCode).Msg("Error querying course")
		return nil, fmt.Errorf("error querying course %s: %w", courseCode, err)
	}

	course.Description = helpers.NullStringPtr(description)
	course.Prerequisites = helpers.NullStringPtr(prerequisites)
	course.Antirequisites = helpers.NullStringPtr(antirequisites)
	course.Corequisites = helpers.NullStringPtr(corequisites)
	course.Location = helpers.NullStringPtr(location)
	course.Category = helpers.NullStringPtr(category)
	course.ExtraInfo = helpers.NullStringPtr(extraInfo)

	links, err := r.getCourseLinks(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	course.Links = links

	return &course, nil
}

func (r *CourseRepository) getCourseLinks(ctx context.Context, courseCode string) ([]models.CourseLink, error) {
	sqlQuery, args, err := r.sb.Select("course_code", "linked_code", "kind").
		From("course_links").
		Where(squirrel.Eq{"course_code": courseCode}).
		OrderBy("kind ASC", "linked_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course links query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query course links: %w", err)
	}
	defer rows.Close()

	var links []models.CourseLink
	for rows.Next() {
		var l models.CourseLink
		if err := rows.Scan(&l.CourseCode, &l.LinkedCode, &l.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan course link row: %w", err)
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// CourseExists reports whether a course code is present in the catalog.
func (r *CourseRepository) CourseExists(ctx context.Context, courseCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE course_code = $1)`, courseCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}
	return exists, nil
}

// CountCourses returns the catalog size.
func (r *CourseRepository) CountCourses(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}

// CreateCourse inserts a course and its requisite links atomically. Used by
// seeding; the catalog itself is administered externally.
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		insertSql, args, err := r.sb.Insert("courses").
			Columns(
				"course_code", "course_name", "description", "prerequisites",
				"antirequisites", "corequisites", "location", "category", "extra_info",
			).
			Values(
				course.CourseCode, course.CourseName,
				helpers.GetNullString(course.Description),
				helpers.GetNullString(course.Prerequisites),
				helpers.GetNullString(course.Antirequisites),
				helpers.GetNullString(course.Corequisites),
				helpers.GetNullString(course.Location),
				helpers.GetNullString(course.Category),
				helpers.GetNullString(course.ExtraInfo),
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create course query: %w", err)
		}

		if _, err := tx.Exec(ctx, insertSql, args...); err != nil {
			return fmt.Errorf("error inserting course %s: %w", course.CourseCode, err)
		}

		for _, link := range course.Links {
			linkSql, linkArgs, err := r.sb.Insert("course_links").
				Columns("course_code", "linked_code", "kind").
				Values(course.CourseCode, link.LinkedCode, link.Kind).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build course link query: %w", err)
			}
			if _, err := tx.Exec(ctx, linkSql, linkArgs...); err != nil {
				return fmt.Errorf("error inserting course link %s -> %s: %w", course.CourseCode, link.LinkedCode, err)
			}
		}

		return nil
	})
}
