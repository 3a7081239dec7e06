package apperrors

// Machine-readable error codes carried in the error envelope. Clients switch
// on these instead of parsing messages.
const (
	CodeGeneric   = "GENERIC_ERROR"
	CodeUnhandled = "UNHANDLED_ERROR"

	// Authentication / authorization.
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeAdminRequired      = "ADMIN_REQUIRED"

	// Business rules.
	CodeUsernameExists   = "USERNAME_EXISTS"
	CodeClientIDRequired = "CLIENT_ID_REQUIRED"
	CodeClientNotFound   = "CLIENT_NOT_FOUND"
	CodeClientHasUsers   = "CLIENT_HAS_USERS"
)
