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
	"github.com/derin/courseboard/internal/pkg/dberrors"
	"github.com/derin/courseboard/internal/pkg/helpers"
	"github.com/derin/courseboard/internal/pkg/logger"
)

const reviewUniqueConstraint = "reviews_course_email_key"

var reviewColumns = []string{
	"review_id", "course_code", "professor", "review", "email",
	"difficulty", "enthusiasm", "attendance", "useful",
	"liked", "anon", "date_taken", "date_created", "last_edited",
}

// ReviewRepository handles review database operations
type ReviewRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var review models.Review
	var body sql.NullString

	err := row.Scan(
		&review.ReviewID, &review.CourseCode, &review.Professor, &body, &review.Email,
		&review.Difficulty, &review.Enthusiasm, &review.Attendance, &review.Useful,
		&review.Liked, &review.Anonymous, &review.DateTaken, &review.DateCreated, &review.LastEdited,
	)
	if err != nil {
		return nil, err
	}

	review.Body = helpers.NullStringPtr(body)
	return &review, nil
}

// ListReviews returns a course's reviews per the spec, plus the count of
// matching reviews independent of the take limit. Reviews authored under
// spec.Exclude are omitted from both.
func (r *ReviewRepository) ListReviews(ctx context.Context, spec *query.ReviewListSpec) ([]models.Review, int, error) {
	whereCondition := squirrel.And{squirrel.Eq{"course_code": spec.CourseCode}}
	if spec.Exclude != "" {
		whereCondition = append(whereCondition, squirrel.NotEq{"email": spec.Exclude})
	}

	countSql, countArgs, err := r.sb.Select("COUNT(*)").
		From("reviews").
		Where(whereCondition).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count reviews query: %w", err)
	}

	var totalCount int
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalCount); err != nil {
		logger.Error().Err(err).Str("courseCode", spec.CourseCode).Msg("Error counting reviews")
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	sel := r.sb.Select(reviewColumns...).
		From("reviews").
		Where(whereCondition).
		OrderBy(
			fmt.Sprintf("%s %s", spec.OrderColumn(), spec.OrderDirection()),
			"review_id ASC",
		)
	if spec.Take > 0 {
		sel = sel.Limit(uint64(spec.Take))
	}

	listSql, listArgs, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list reviews query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSql, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, *review)
	}

	return reviews, totalCount, rows.Err()
}

// GetUserReview fetches the review a user holds for a course, if any.
func (r *ReviewRepository) GetUserReview(ctx context.Context, courseCode, email string) (*models.Review, error) {
	sqlQuery, args, err := r.sb.Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"course_code": courseCode, "email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user review query: %w", err)
	}

	review, err := scanReview(r.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error querying user review: %w", err)
	}
	return review, nil
}

// GetReviewByID fetches a single review.
func (r *ReviewRepository) GetReviewByID(ctx context.Context, reviewID int64) (*models.Review, error) {
	sqlQuery, args, err := r.sb.Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"review_id": reviewID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get review query: %w", err)
	}

	review, err := scanReview(r.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error querying review ID=%d: %w", reviewID, err)
	}
	return review, nil
}

// CreateReview inserts a new review. The unique constraint on
// (course_code, email) makes concurrent duplicate submissions race-safe:
// the second insert fails with a conflict and the original stays untouched.
func (r *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) (int64, error) {
	sqlQuery, args, err := r.sb.Insert("reviews").
		Columns(
			"course_code", "professor", "review", "email",
			"difficulty", "enthusiasm", "attendance", "useful",
			"liked", "anon", "date_taken",
		).
		Values(
			review.CourseCode, review.Professor, helpers.GetNullString(review.Body), review.Email,
			review.Difficulty, review.Enthusiasm, review.Attendance, review.Useful,
			review.Liked, review.Anonymous, review.DateTaken,
		).
		Suffix("RETURNING review_id, date_created, last_edited").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create review query: %w", err)
	}

	err = r.db.QueryRow(ctx, sqlQuery, args...).
		Scan(&review.ReviewID, &review.DateCreated, &review.LastEdited)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, reviewUniqueConstraint) {
			return 0, apperrors.ErrDuplicateReview
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseCode", review.CourseCode).Msg("Error inserting review")
		return 0, fmt.Errorf("error inserting review: %w", err)
	}

	logger.Info().Int64("reviewID", review.ReviewID).Str("courseCode", review.CourseCode).Msg("Review created")
	return review.ReviewID, nil
}

// UpdateReview rewrites a review's mutable fields and bumps last_edited.
func (r *ReviewRepository) UpdateReview(ctx context.Context, review *models.Review) error {
	sqlQuery, args, err := r.sb.Update("reviews").
		SetMap(map[string]interface{}{
			"professor":   review.Professor,
			"review":      helpers.GetNullString(review.Body),
			"difficulty":  review.Difficulty,
			"enthusiasm":  review.Enthusiasm,
			"attendance":  review.Attendance,
			"useful":      review.Useful,
			"liked":       review.Liked,
			"anon":        review.Anonymous,
			"date_taken":  review.DateTaken,
			"last_edited": squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"review_id": review.ReviewID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update review query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		logger.Error().Err(err).Int64("reviewID", review.ReviewID).Msg("Error updating review")
		return fmt.Errorf("error updating review ID=%d: %w", review.ReviewID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}

	logger.Info().Int64("reviewID", review.ReviewID).Msg("Review updated")
	return nil
}

// DeleteReview removes a review physically.
func (r *ReviewRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	sqlQuery, args, err := r.sb.Delete("reviews").
		Where(squirrel.Eq{"review_id": reviewID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete review query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		logger.Error().Err(err).Int64("reviewID", reviewID).Msg("Error deleting review")
		return fmt.Errorf("error deleting review ID=%d: %w", reviewID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}

	logger.Info().Int64("reviewID", reviewID).Msg("Review deleted")
	return nil
}

// DeleteReviewsByEmail removes every review a user holds. Account-deletion
// cascade.
func (r *ReviewRepository) DeleteReviewsByEmail(ctx context.Context, email string) (int64, error) {
	sqlQuery, args, err := r.sb.Delete("reviews").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete reviews query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting reviews for email: %w", err)
	}

	deleted := cmdTag.RowsAffected()
	logger.Info().Int64("deleted", deleted).Msg("Deleted reviews for account")
	return deleted, nil
}

// GetCourseStats computes the per-course aggregate. The existence check and
// the aggregate run in one transaction so a concurrent course deletion can
// never yield stats for a vanished course, and "no course" stays distinct
// from "no reviews". Reviews under excludeEmail are left out of the stats.
func (r *ReviewRepository) GetCourseStats(ctx context.Context, courseCode, excludeEmail string) (*models.CourseStats, error) {
	var stats models.CourseStats

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM courses WHERE course_code = $1)`, courseCode).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check course existence: %w", err)
		}
		if !exists {
			return apperrors.ErrCourseNotFound
		}

		whereCondition := squirrel.And{squirrel.Eq{"course_code": courseCode}}
		if excludeEmail != "" {
			whereCondition = append(whereCondition, squirrel.NotEq{"email": excludeEmail})
		}

		aggSql, aggArgs, err := r.sb.Select(
			"COUNT(review_id)",
			"COUNT(review_id) FILTER (WHERE liked)",
			"AVG(difficulty)::float8",
			"AVG(enthusiasm)::float8",
			"AVG(attendance)::float8",
			"AVG(useful)::float8",
		).
			From("reviews").
			Where(whereCondition).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build course stats query: %w", err)
		}

		var avgDifficulty, avgEnthusiasm, avgAttendance, avgUseful sql.NullFloat64
		err = tx.QueryRow(ctx, aggSql, aggArgs...).Scan(
			&stats.ReviewCount, &stats.LikedCount,
			&avgDifficulty, &avgEnthusiasm, &avgAttendance, &avgUseful,
		)
		if err != nil {
			return fmt.Errorf("failed to compute course stats: %w", err)
		}

		stats.LikedPercent = helpers.LikedPercent(stats.LikedCount, stats.ReviewCount)
		stats.AvgDifficulty = helpers.RoundRatingPtr(helpers.NullFloatPtr(avgDifficulty))
		stats.AvgEnthusiasm = helpers.RoundRatingPtr(helpers.NullFloatPtr(avgEnthusiasm))
		stats.AvgAttendance = helpers.RoundRatingPtr(helpers.NullFloatPtr(avgAttendance))
		stats.AvgUseful = helpers.RoundRatingPtr(helpers.NullFloatPtr(avgUseful))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
