package errors

// Error code constants carried in the "code" field of error responses.
// Clients branch on the code; the "error" field stays human-readable.

const (
	// Authentication (AUTH_)
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUsernameTaken      = "AUTH_USERNAME_TAKEN"

	// Authorization (AUTHZ_)
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// Validation (VALIDATION_)
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Resources (RESOURCE_)
	ResourceNotFound = "RESOURCE_NOT_FOUND"
	ResourceConflict = "RESOURCE_CONFLICT"

	// Uploads (UPLOAD_)
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// Internal (INTERNAL_)
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
