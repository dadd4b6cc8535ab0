package errors

// Error codes returned in the "error" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // missing or unusable token
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong username/password
	AuthInactiveAccount    = "AUTH_INACTIVE_ACCOUNT"    // is_active = false
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthInvalidRole        = "AUTH_INVALID_ROLE"
	AuthPhoneLoginDisabled = "AUTH_PHONE_LOGIN_DISABLED"
	AuthRateLimited        = "AUTH_RATE_LIMITED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	StoreNotFound        = "STORE_NOT_FOUND"
	OfferNotFound        = "OFFER_NOT_FOUND"
	SubscriptionNotFound = "SUBSCRIPTION_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Business rules (BUSINESS_) ====================
	BusinessOneStorePerUser        = "BUSINESS_ONE_STORE_PER_USER"
	BusinessSubscriptionApproved   = "BUSINESS_SUBSCRIPTION_APPROVED"
	BusinessSubscriptionNotPending = "BUSINESS_SUBSCRIPTION_NOT_PENDING"
	BusinessInvalidProductTag      = "BUSINESS_INVALID_PRODUCT_TAG"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
