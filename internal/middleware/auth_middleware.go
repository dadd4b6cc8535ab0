package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	"github.com/zhwaweb/zhwaweb-admin/internal/errors"
	"github.com/zhwaweb/zhwaweb-admin/pkg/util"
)

// Context keys for the authenticated request
const (
	PrincipalKey = "principal"
	ClaimsKey    = "claims"
)

type AuthMiddleware struct {
	identity service.IdentityService
}

func NewAuthMiddleware(identity service.IdentityService) *AuthMiddleware {
	return &AuthMiddleware{
		identity: identity,
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Authenticate requires a valid token for an active account.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, errors.MsgCouldNotValidate)
			return
		}

		user, claims, err := m.identity.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Warn("Authentication failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if stderrors.Is(err, service.ErrInactiveAccount) {
				c.Header("WWW-Authenticate", "Bearer")
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInactiveAccount, "Inactive user")
				return
			}
			errors.Unauthorized(c, errors.MsgCouldNotValidate)
			return
		}

		c.Set(PrincipalKey, user)
		c.Set(ClaimsKey, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
			"type":    user.Type,
		})

		c.Next()
	}
}

// GetPrincipal extracts the authenticated user from context
func GetPrincipal(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok && user != nil
}

// GetClaims extracts the verified token claims from context
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*util.Claims)
	return claims, ok && claims != nil
}
