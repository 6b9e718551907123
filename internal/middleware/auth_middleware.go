package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/derin/courseboard/internal/app/models/dto"
	"github.com/derin/courseboard/internal/pkg/auth"
)

// IdentityKey is the gin context key holding the authenticated email.
const IdentityKey = "identity"

// AuthMiddleware validates identity tokens
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth rejects requests without a valid identity token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, errDetail := m.identityFromRequest(c)
		if errDetail != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errDetail))
			return
		}

		c.Set(IdentityKey, email)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through. Used by read endpoints that personalize their
// response (userReview, own-review exclusion).
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if email, errDetail := m.identityFromRequest(c); errDetail == nil {
			c.Set(IdentityKey, email)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) identityFromRequest(c *gin.Context) (string, *dto.ErrorDetail) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("Authorization header missing")
	}

	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err != nil {
		return "", dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("Invalid token format")
	}

	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		code := dto.ErrorCodeInvalidToken
		if err == auth.ErrExpiredToken {
			code = dto.ErrorCodeExpiredToken
		}
		return "", dto.NewErrorDetail(code, "Invalid or expired token")
	}

	return claims.Email, nil
}

// Identity returns the authenticated email from the context, empty when the
// request is anonymous.
func Identity(c *gin.Context) string {
	if v, ok := c.Get(IdentityKey); ok {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
