package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	"github.com/zhwaweb/zhwaweb-admin/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
	presenter   *Presenter
}

func NewAuthController(authService service.AuthService, presenter *Presenter) *AuthController {
	return &AuthController{
		authService: authService,
		presenter:   presenter,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
	Type     string `json:"type" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ctrl *AuthController) tokenResponse(result *service.LoginResult) TokenResponse {
	return TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt,
		User:        ctrl.presenter.User(result.User),
	}
}

// Register handles account creation
// POST /auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.authService.Register(req.Username, req.Password, model.UserRole(req.Type))
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusOK, ctrl.presenter.User(user))
}

// Login exchanges credentials for a bearer token
// POST /auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, ctrl.tokenResponse(result))
}

// LoginPhone signs in as the configured admin when enabled
// POST /auth/login-phone
func (ctrl *AuthController) LoginPhone(c *gin.Context) {
	result, err := ctrl.authService.LoginAsAdmin()
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, ctrl.tokenResponse(result))
}

// Logout revokes the current token if a revocation list is configured
// POST /auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	claims, _ := middleware.GetClaims(c)
	if err := ctrl.authService.Logout(c.Request.Context(), claims); err != nil {
		log.Error("Logout failed", err, nil)
		respondServiceError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

// GetMe returns the authenticated user
// GET /auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.User(user))
}
