package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derin/courseboard/internal/app/models"
)

func sampleReview(anon bool) *models.Review {
	return &models.Review{
		ReviewID:   7,
		CourseCode: "CALC 1000",
		Email:      "author@uni.ca",
		Anonymous:  anon,
		DateTaken:  time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewReviewResponseEmailVisibility(t *testing.T) {
	t.Run("anonymous review hides the author", func(t *testing.T) {
		resp := NewReviewResponse(sampleReview(true), false)
		assert.Empty(t, resp.Email)

		raw, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "author@uni.ca")
	})

	t.Run("non-anonymous review shows the author", func(t *testing.T) {
		resp := NewReviewResponse(sampleReview(false), false)
		assert.Equal(t, "author@uni.ca", resp.Email)
	})

	t.Run("owner always sees their own email", func(t *testing.T) {
		resp := NewReviewResponse(sampleReview(true), true)
		assert.Equal(t, "author@uni.ca", resp.Email)
	})
}

func TestNewReviewResponseDerivesTermAndYear(t *testing.T) {
	resp := NewReviewResponse(sampleReview(true), false)
	assert.Equal(t, models.TermFall, resp.Term)
	assert.Equal(t, 2024, resp.Year)
}

func TestReviewListResponseShape(t *testing.T) {
	own := NewReviewResponse(sampleReview(true), true)
	resp := ReviewListResponse{
		Reviews:    []ReviewResponse{},
		UserReview: &own,
		Count:      ReviewCount{ReviewID: 4},
	}

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "reviews")
	assert.Contains(t, decoded, "userReview")
	assert.Contains(t, decoded, "_count")

	var count map[string]int
	require.NoError(t, json.Unmarshal(decoded["_count"], &count))
	assert.Equal(t, 4, count["review_id"])
}
