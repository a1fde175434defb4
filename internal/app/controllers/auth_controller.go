package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/middleware"
)

const loginFieldsRequired = "Email, password, dan role harus diisi"

// AuthService is what the auth endpoints need from services.AuthService.
type AuthService interface {
	Authenticate(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, id authz.Identity) error
	Me(ctx context.Context, id authz.Identity) (*models.Account, error)
}

// AuthController handles authentication related requests
type AuthController struct {
	authService AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login handles user login
// @Summary Login
// @Description Verifies email, password and the claimed role, then starts a session and returns its bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login berhasil"
// @Failure 400 {object} dto.ErrorResponse "Missing email, password or role"
// @Failure 401 {object} dto.ErrorResponse "Unknown email, wrong password or role mismatch"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := middleware.BindJSON(ctx, &req, loginFieldsRequired); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.authService.Authenticate(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("email", req.Email).Msg("Login rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Logout handles user logout
// @Summary Logout
// @Description Revokes the current session. The token stops working immediately.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse "Logout berhasil"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	id, ok := identity(ctx)
	if !ok {
		return
	}
	if err := c.authService.Logout(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout berhasil"})
}

// Me returns the authenticated account
// @Summary Current account
// @Description Returns the account of the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DataResponse{data=models.Account}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	id, ok := identity(ctx)
	if !ok {
		return
	}
	account, err := c.authService.Me(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Data: account})
}
