package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/derin/courseboard/internal/app/controllers"
	"github.com/derin/courseboard/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	reviewController *controllers.ReviewController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.RequireAuth(), authController.Me)
	}

	// --- Course routes (public; detail personalizes when a token is sent) ---
	courses := v1.Group("/courses")
	courses.Use(authMiddleware.OptionalAuth())
	{
		courses.GET("", courseController.GetCourses)
		courses.GET("/:courseCode", courseController.GetCourseByCode)
	}

	// --- Review routes ---
	reviews := v1.Group("/reviews")
	{
		// Listing is public; identity personalizes userReview and exclusion
		reviews.GET("", authMiddleware.OptionalAuth(), reviewController.GetReviews)

		// Mutations require an authenticated identity
		reviewsProtected := reviews.Group("")
		reviewsProtected.Use(authMiddleware.RequireAuth())
		{
			reviewsProtected.POST("", reviewController.CreateReview)
			reviewsProtected.PUT("/:id", reviewController.UpdateReview)
			reviewsProtected.DELETE("/:id", reviewController.DeleteReview)
		}
	}

	// --- Account routes ---
	v1.DELETE("/account", authMiddleware.RequireAuth(), reviewController.DeleteAccount)
}
