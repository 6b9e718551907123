package helpers

import "math"

// RoundRating rounds an average rating to one decimal on the 5-point scale.
// Both the listing engine and the per-course aggregate go through this so the
// two surfaces can never disagree on rounding.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundRatingPtr rounds a nullable average in place, preserving nil for the
// zero-review case (averages stay undefined, never become 0).
func RoundRatingPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := RoundRating(*v)
	return &r
}

// LikedPercent derives the liked percentage from counts. Zero reviews yield
// nil, not 0%: "nobody liked it" and "nobody reviewed it" are different.
func LikedPercent(likedCount, reviewCount int64) *float64 {
	if reviewCount == 0 {
		return nil
	}
	p := RoundRating(float64(likedCount) / float64(reviewCount) * 100)
	return &p
}
