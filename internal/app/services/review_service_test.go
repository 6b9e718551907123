package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derin/courseboard/internal/app/models"
	"github.com/derin/courseboard/internal/app/query"
	"github.com/derin/courseboard/internal/pkg/apperrors"
	"github.com/derin/courseboard/internal/pkg/helpers"
)

// fakeReviewStore implements ReviewStore over an in-memory review table,
// enforcing the same one-review-per-course-and-email constraint the
// database does.
type fakeReviewStore struct {
	courses map[string]bool
	reviews map[int64]*models.Review
	nextID  int64
}

func newFakeReviewStore(courseCodes ...string) *fakeReviewStore {
	courses := map[string]bool{}
	for _, code := range courseCodes {
		courses[code] = true
	}
	return &fakeReviewStore{
		courses: courses,
		reviews: map[int64]*models.Review{},
		nextID:  1,
	}
}

func (f *fakeReviewStore) ListReviews(_ context.Context, spec *query.ReviewListSpec) ([]models.Review, int, error) {
	var matched []models.Review
	for _, r := range f.reviews {
		if r.CourseCode != spec.CourseCode {
			continue
		}
		if spec.Exclude != "" && r.Email == spec.Exclude {
			continue
		}
		matched = append(matched, *r)
	}

	desc := spec.Order == query.OrderDesc
	sort.SliceStable(matched, func(i, j int) bool {
		var vi, vj float64
		switch spec.Sort {
		case query.ReviewSortDifficulty:
			vi, vj = float64(matched[i].Difficulty), float64(matched[j].Difficulty)
		case query.ReviewSortEnthusiasm:
			vi, vj = float64(matched[i].Enthusiasm), float64(matched[j].Enthusiasm)
		case query.ReviewSortAttendance:
			vi, vj = float64(matched[i].Attendance), float64(matched[j].Attendance)
		case query.ReviewSortUseful:
			vi, vj = float64(matched[i].Useful), float64(matched[j].Useful)
		default:
			vi = float64(matched[i].DateCreated.UnixNano())
			vj = float64(matched[j].DateCreated.UnixNano())
		}
		if vi != vj {
			if desc {
				return vi > vj
			}
			return vi < vj
		}
		return matched[i].ReviewID < matched[j].ReviewID
	})

	total := len(matched)
	if spec.Take > 0 && spec.Take < total {
		matched = matched[:spec.Take]
	}
	return matched, total, nil
}

func (f *fakeReviewStore) GetUserReview(_ context.Context, courseCode, email string) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.CourseCode == courseCode && r.Email == email {
			copy := *r
			return &copy, nil
		}
	}
	return nil, apperrors.ErrReviewNotFound
}

func (f *fakeReviewStore) GetReviewByID(_ context.Context, reviewID int64) (*models.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok {
		return nil, apperrors.ErrReviewNotFound
	}
	copy := *r
	return &copy, nil
}

func (f *fakeReviewStore) CreateReview(_ context.Context, review *models.Review) (int64, error) {
	if !f.courses[review.CourseCode] {
		return 0, apperrors.ErrCourseNotFound
	}
	for _, existing := range f.reviews {
		if existing.CourseCode == review.CourseCode && existing.Email == review.Email {
			return 0, apperrors.ErrDuplicateReview
		}
	}

	review.ReviewID = f.nextID
	review.DateCreated = time.Now()
	review.LastEdited = review.DateCreated
	f.nextID++

	stored := *review
	f.reviews[stored.ReviewID] = &stored
	return stored.ReviewID, nil
}

func (f *fakeReviewStore) UpdateReview(_ context.Context, review *models.Review) error {
	existing, ok := f.reviews[review.ReviewID]
	if !ok {
		return apperrors.ErrReviewNotFound
	}
	updated := *review
	updated.DateCreated = existing.DateCreated
	updated.LastEdited = time.Now()
	f.reviews[review.ReviewID] = &updated
	return nil
}

func (f *fakeReviewStore) DeleteReview(_ context.Context, reviewID int64) error {
	if _, ok := f.reviews[reviewID]; !ok {
		return apperrors.ErrReviewNotFound
	}
	delete(f.reviews, reviewID)
	return nil
}

func (f *fakeReviewStore) DeleteReviewsByEmail(_ context.Context, email string) (int64, error) {
	var deleted int64
	for id, r := range f.reviews {
		if r.Email == email {
			delete(f.reviews, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeReviewStore) GetCourseStats(_ context.Context, courseCode, excludeEmail string) (*models.CourseStats, error) {
	if !f.courses[courseCode] {
		return nil, apperrors.ErrCourseNotFound
	}

	stats := &models.CourseStats{}
	var diff, enth, att, use float64
	for _, r := range f.reviews {
		if r.CourseCode != courseCode {
			continue
		}
		if excludeEmail != "" && r.Email == excludeEmail {
			continue
		}
		stats.ReviewCount++
		if r.Liked {
			stats.LikedCount++
		}
		diff += float64(r.Difficulty)
		enth += float64(r.Enthusiasm)
		att += float64(r.Attendance)
		use += float64(r.Useful)
	}
	if stats.ReviewCount > 0 {
		n := float64(stats.ReviewCount)
		avg := func(sum float64) *float64 { v := helpers.RoundRating(sum / n); return &v }
		stats.LikedPercent = helpers.LikedPercent(stats.LikedCount, stats.ReviewCount)
		stats.AvgDifficulty = avg(diff)
		stats.AvgEnthusiasm = avg(enth)
		stats.AvgAttendance = avg(att)
		stats.AvgUseful = avg(use)
	}
	return stats, nil
}

func validReview(courseCode, email string) *models.Review {
	body := "Great introduction, the weekly problem sets are where the learning happens."
	return &models.Review{
		CourseCode: courseCode,
		Professor:  "Dr. Example",
		Body:       &body,
		Email:      email,
		Difficulty: 3,
		Enthusiasm: 4,
		Attendance: 2,
		Useful:     5,
		Liked:      true,
		Anonymous:  true,
		DateTaken:  time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateReview(t *testing.T) {
	store := newFakeReviewStore("CALC 1000")
	svc := NewReviewService(store)
	ctx := context.Background()

	t.Run("stores a valid review and uppercases the course code", func(t *testing.T) {
		review := validReview("calc 1000", "student@uni.ca")
		id, err := svc.CreateReview(ctx, review)
		require.NoError(t, err)
		assert.Positive(t, id)
		assert.Equal(t, "CALC 1000", review.CourseCode)
	})

	t.Run("second review for the same course and email conflicts", func(t *testing.T) {
		_, err := svc.CreateReview(ctx, validReview("CALC 1000", "student@uni.ca"))
		assert.ErrorIs(t, err, apperrors.ErrDuplicateReview)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.CreateReview(ctx, validReview("NOPE 9999", "student@uni.ca"))
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestCreateReviewValidation(t *testing.T) {
	svc := NewReviewService(newFakeReviewStore("CALC 1000"))
	ctx := context.Background()

	t.Run("invalid email", func(t *testing.T) {
		review := validReview("CALC 1000", "not-an-email")
		_, err := svc.CreateReview(ctx, review)
		assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	})

	t.Run("rating out of range", func(t *testing.T) {
		review := validReview("CALC 1000", "student@uni.ca")
		review.Difficulty = 6
		_, err := svc.CreateReview(ctx, review)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("body too short", func(t *testing.T) {
		review := validReview("CALC 1000", "student@uni.ca")
		short := "meh"
		review.Body = &short
		_, err := svc.CreateReview(ctx, review)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("body is optional", func(t *testing.T) {
		review := validReview("CALC 1000", "bodyless@uni.ca")
		review.Body = nil
		_, err := svc.CreateReview(ctx, review)
		assert.NoError(t, err)
	})

	t.Run("missing date taken", func(t *testing.T) {
		review := validReview("CALC 1000", "other@uni.ca")
		review.DateTaken = time.Time{}
		_, err := svc.CreateReview(ctx, review)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestGetCourseReviews(t *testing.T) {
	store := newFakeReviewStore("CALC 1000")
	svc := NewReviewService(store)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, validReview("CALC 1000", "me@uni.ca"))
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, validReview("CALC 1000", "alice@uni.ca"))
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, validReview("CALC 1000", "bob@uni.ca"))
	require.NoError(t, err)

	t.Run("caller's own review is split out, never listed or counted", func(t *testing.T) {
		result, err := svc.GetCourseReviews(ctx, &query.ReviewListSpec{CourseCode: "calc 1000"}, "me@uni.ca")
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalCount)
		require.Len(t, result.Reviews, 2)
		for _, r := range result.Reviews {
			assert.NotEqual(t, "me@uni.ca", r.Email)
		}
		require.NotNil(t, result.UserReview)
		assert.Equal(t, "me@uni.ca", result.UserReview.Email)
	})

	t.Run("anonymous caller sees every review and no userReview", func(t *testing.T) {
		result, err := svc.GetCourseReviews(ctx, &query.ReviewListSpec{CourseCode: "CALC 1000"}, "")
		require.NoError(t, err)

		assert.Equal(t, 3, result.TotalCount)
		assert.Len(t, result.Reviews, 3)
		assert.Nil(t, result.UserReview)
	})

	t.Run("identity without a review gets no userReview", func(t *testing.T) {
		result, err := svc.GetCourseReviews(ctx, &query.ReviewListSpec{CourseCode: "CALC 1000"}, "lurker@uni.ca")
		require.NoError(t, err)

		assert.Equal(t, 3, result.TotalCount)
		assert.Nil(t, result.UserReview)
	})

	t.Run("take caps the list but not the count", func(t *testing.T) {
		result, err := svc.GetCourseReviews(ctx, &query.ReviewListSpec{CourseCode: "CALC 1000", Take: 1}, "")
		require.NoError(t, err)

		assert.Len(t, result.Reviews, 1)
		assert.Equal(t, 3, result.TotalCount)
	})

	t.Run("unknown course is not found, even with zero reviews", func(t *testing.T) {
		_, err := svc.GetCourseReviews(ctx, &query.ReviewListSpec{CourseCode: "NOPE 9999"}, "")
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestUpdateReview(t *testing.T) {
	store := newFakeReviewStore("CALC 1000")
	svc := NewReviewService(store)
	ctx := context.Background()

	id, err := svc.CreateReview(ctx, validReview("CALC 1000", "owner@uni.ca"))
	require.NoError(t, err)

	t.Run("owner can edit", func(t *testing.T) {
		edit := validReview("CALC 1000", "owner@uni.ca")
		edit.ReviewID = id
		edit.Difficulty = 5
		require.NoError(t, svc.UpdateReview(ctx, "owner@uni.ca", edit))

		stored, err := store.GetReviewByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 5, stored.Difficulty)
	})

	t.Run("course and email cannot be changed through an edit", func(t *testing.T) {
		edit := validReview("OTHER 2000", "hijack@uni.ca")
		edit.ReviewID = id
		require.NoError(t, svc.UpdateReview(ctx, "owner@uni.ca", edit))

		stored, err := store.GetReviewByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "CALC 1000", stored.CourseCode)
		assert.Equal(t, "owner@uni.ca", stored.Email)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		edit := validReview("CALC 1000", "owner@uni.ca")
		edit.ReviewID = id
		err := svc.UpdateReview(ctx, "someone-else@uni.ca", edit)
		assert.ErrorIs(t, err, apperrors.ErrNotReviewOwner)
	})

	t.Run("unknown review", func(t *testing.T) {
		edit := validReview("CALC 1000", "owner@uni.ca")
		edit.ReviewID = 404
		err := svc.UpdateReview(ctx, "owner@uni.ca", edit)
		assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)
	})
}

func TestDeleteReview(t *testing.T) {
	store := newFakeReviewStore("CALC 1000")
	svc := NewReviewService(store)
	ctx := context.Background()

	id, err := svc.CreateReview(ctx, validReview("CALC 1000", "owner@uni.ca"))
	require.NoError(t, err)

	t.Run("non-owner is rejected", func(t *testing.T) {
		err := svc.DeleteReview(ctx, "intruder@uni.ca", id)
		assert.ErrorIs(t, err, apperrors.ErrNotReviewOwner)
	})

	t.Run("owner deletion reflects in the aggregate", func(t *testing.T) {
		require.NoError(t, svc.DeleteReview(ctx, "owner@uni.ca", id))

		stats, err := store.GetCourseStats(ctx, "CALC 1000", "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.ReviewCount)
		assert.Nil(t, stats.AvgDifficulty)
	})
}

func TestDeleteAccount(t *testing.T) {
	store := newFakeReviewStore("CALC 1000", "CS 1026")
	svc := NewReviewService(store)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, validReview("CALC 1000", "leaver@uni.ca"))
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, validReview("CS 1026", "leaver@uni.ca"))
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, validReview("CALC 1000", "stayer@uni.ca"))
	require.NoError(t, err)

	t.Run("removes every review the identity holds", func(t *testing.T) {
		deleted, err := svc.DeleteAccount(ctx, "leaver@uni.ca")
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		stats, err := store.GetCourseStats(ctx, "CALC 1000", "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.ReviewCount)
	})

	t.Run("rejects a malformed identity", func(t *testing.T) {
		_, err := svc.DeleteAccount(ctx, "not an email")
		assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	})
}
