package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	apperrors "github.com/zhwaweb/zhwaweb-admin/internal/errors"
	"github.com/zhwaweb/zhwaweb-admin/internal/middleware"
)

// bindJSON decodes the body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		apperrors.RespondWithValidationError(c, fields)
		return false
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Malformed request body")
	return false
}

// respondServiceError maps a service or engine error onto the HTTP
// contract. resource names the record for 404 and storage messages.
func respondServiceError(c *gin.Context, err error, resource string) {
	var denial *authz.Denial
	var violation *authz.Violation

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		apperrors.Unauthorized(c, apperrors.MsgCouldNotValidate)
	case errors.Is(err, service.ErrInactiveAccount):
		c.Header("WWW-Authenticate", "Bearer")
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInactiveAccount, "Inactive user")
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Incorrect username or password")
	case errors.Is(err, service.ErrAdminCredentialsInvalid):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Admin credentials invalid")
	case errors.Is(err, service.ErrPhoneLoginDisabled):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthPhoneLoginDisabled, "Phone login is disabled")

	case errors.As(err, &denial):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, denial.Reason)
	case errors.Is(err, authz.ErrForbidden):
		apperrors.Forbidden(c, apperrors.MsgNotEnoughPermission)
	case errors.As(err, &violation):
		apperrors.BadRequest(c, violationCode(violation), violation.Reason)

	case errors.Is(err, service.ErrUsernameTaken):
		apperrors.BadRequest(c, apperrors.AuthUsernameExists, "Username already registered")
	case errors.Is(err, service.ErrInvalidRole):
		apperrors.BadRequest(c, apperrors.AuthInvalidRole, "Invalid user type")
	case errors.Is(err, model.ErrInvalidProductTag), errors.Is(err, model.ErrEmptyProductTag):
		apperrors.BadRequest(c, apperrors.BusinessInvalidProductTag, err.Error())
	case errors.Is(err, service.ErrInvalidDiscount):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "discount_percentage must be between 0 and 100")
	case errors.Is(err, service.ErrInvalidStatus):
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid subscription status")
	case errors.Is(err, service.ErrInvalidFileType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "File type not allowed")
	case errors.Is(err, service.ErrFileTooLarge):
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "File too large")

	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, apperrors.NotFoundMessage("store"))
	case errors.Is(err, service.ErrOfferNotFound):
		apperrors.NotFound(c, apperrors.OfferNotFound, apperrors.NotFoundMessage("offer"))
	case errors.Is(err, service.ErrSubscriptionNotFound):
		apperrors.NotFound(c, apperrors.SubscriptionNotFound, apperrors.NotFoundMessage("subscription"))
	case errors.Is(err, service.ErrNoSubscriptionEmail):
		apperrors.NotFound(c, apperrors.SubscriptionNotFound, "No subscription found with this email")

	default:
		info := apperrors.ParseError(err, resource)
		if info.IsClientError() {
			middleware.GetLoggerFromContext(c).Warn("Request rejected by storage", map[string]interface{}{
				"code":  info.Code,
				"error": err.Error(),
			})
			apperrors.BadRequest(c, info.Code, info.Message)
			return
		}
		middleware.GetLoggerFromContext(c).Error("Unhandled service error", err, map[string]interface{}{
			"resource": resource,
		})
		apperrors.InternalError(c, apperrors.MsgInternal)
	}
}

func violationCode(v *authz.Violation) string {
	switch v {
	case authz.ErrStoreLimitReached:
		return apperrors.BusinessOneStorePerUser
	case authz.ErrSubscriptionApproved, authz.ErrApprovedSubscriptionDelete:
		return apperrors.BusinessSubscriptionApproved
	case authz.ErrSubscriptionNotPending:
		return apperrors.BusinessSubscriptionNotPending
	default:
		return apperrors.ValidationInvalidInput
	}
}

// currentPrincipal returns the user set by AuthMiddleware, writing a 401
// when the route was mounted without it.
func currentPrincipal(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.MsgCouldNotValidate)
		return nil, false
	}
	return user, true
}
