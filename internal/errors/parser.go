package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a code/message pair ready to be written to the client.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies a storage error that escaped the service layer.
// Driver details never reach the client; context names the resource
// ("store", "offer", "subscription", "user").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: MsgInternal}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: notFoundCode(context), Message: NotFoundMessage(context)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error())
	}

	errLower := strings.ToLower(err.Error())

	// postgres 23505 / sqlite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// postgres 23503 / sqlite FOREIGN KEY
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceConflict, Message: "Referenced record does not exist or is still in use"}
	}

	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint failed") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	return ErrorInfo{Code: InternalServerError, Message: MsgInternal}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	if strings.Contains(strings.ToLower(errStr), "username") {
		return ErrorInfo{Code: AuthUsernameExists, Message: "Username already registered"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
}

func notFoundCode(context string) string {
	switch strings.ToLower(context) {
	case "store":
		return StoreNotFound
	case "offer":
		return OfferNotFound
	case "subscription":
		return SubscriptionNotFound
	default:
		return ResourceNotFound
	}
}

// NotFoundMessage returns the 404 message for a resource name.
func NotFoundMessage(context string) string {
	switch strings.ToLower(context) {
	case "store":
		return "Store not found"
	case "offer":
		return "Offer not found"
	case "subscription":
		return "Subscription not found"
	case "user":
		return "User not found"
	default:
		return "Record not found"
	}
}

// IsClientError reports whether info maps to a 4xx rather than a 500.
func (e ErrorInfo) IsClientError() bool {
	return e.Code != InternalServerError && e.Code != InternalDatabaseError
}
