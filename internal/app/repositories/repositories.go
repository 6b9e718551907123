package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories contains all repository instances
type Repositories struct {
	CourseRepository *CourseRepository
	ReviewRepository *ReviewRepository
}

// NewRepositories creates instances of all repositories sharing one pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository: NewCourseRepository(db),
		ReviewRepository: NewReviewRepository(db),
	}
}
