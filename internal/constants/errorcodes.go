// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling, categorization,
// and messaging. User-facing messages are informative without revealing which
// internal check failed.
package constants

// Error Types define the categories of errors that can occur in the application.
const (
	ErrorNotFound           = "resource not found"
	ErrorUnauthorized       = "unauthorized access"
	ErrorForbidden          = "forbidden access"
	ErrorBadRequest         = "invalid request"
	ErrorInternalServer     = "internal server error"
	ErrorValidation         = "validation error"
	ErrorDuplicate          = "duplicate resource"
	ErrorInvalidCredentials = "invalid credentials"
	ErrorExpiredToken       = "expired token"
	ErrorInvalidToken       = "invalid token"
	ErrorInvalidResetToken  = "invalid reset token"
	ErrorConflict           = "state conflict"
)

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgInvalidCredentials is returned for both an unknown email and a wrong password.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgAdminSignupDisabled is returned when a client asks to register as an admin.
	MsgAdminSignupDisabled = "Admin accounts cannot be created through signup"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired indicates that the user's authentication token has expired.
	MsgTokenExpired = "Authentication token has expired"

	// MsgInvalidToken indicates that the provided session token is invalid.
	MsgInvalidToken = "Invalid token"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgResourceAlreadyExists indicates a duplicate resource conflict.
	MsgResourceAlreadyExists = "A resource with the same unique identifier already exists"

	// MsgMethodNotAllowed indicates that the HTTP method is not supported for the endpoint.
	MsgMethodNotAllowed = "This method is not allowed for this resource"

	// MsgTooManyRequests is returned by the rate limiter.
	MsgTooManyRequests = "Too many requests, please try again later"
)

// Auth Flow Messages.
const (
	MsgEmailAlreadyRegistered = "Email already registered"
	MsgResetLinkSent          = "If the email is registered, a reset link has been sent."
	MsgInvalidResetToken      = "Invalid or expired token"
	MsgPasswordResetSuccess   = "Password reset successful"
)

// Catalog, Cart and Order Messages.
const (
	MsgProductNotFound         = "Product not found"
	MsgProductDeleted          = "Product deleted successfully"
	MsgProductInOrder          = "Product cannot be deleted as it is part of an order"
	MsgOutOfStockFormat        = "'%s' is currently out of stock."
	MsgCartLimitFormat         = "Cannot add %d more units of '%s'. You already have %d in your cart. Only %d units are available in stock."
	MsgCartQuantityFormat      = "Only %d units of '%s' are available in stock."
	MsgCartItemNotFound        = "Cart item not found"
	MsgCartItemRemoved         = "Item removed from cart"
	MsgCartEmpty               = "Cart is empty"
	MsgInsufficientStockFormat = "Insufficient stock for '%s'"
	MsgOrderNotFound           = "Order not found"
	MsgOrderCannotBePaid       = "Order cannot be paid"
	MsgOrderCannotBeCancelled  = "Order cannot be cancelled"
	MsgSearchKeywordRequired   = "keyword is required"
	MsgInvalidPriceRange       = "min_price cannot be greater than max_price"
	MsgInvalidSortField        = "sort_by must be one of: price, name"
	MsgPageOutOfRange          = "page is out of range"
	MsgInvalidIdentifierFormat = "Invalid %s ID"
)

// Logger Constants define values used for structured logging.
const (
	LogCategoryAuth       = "auth"
	LogEventSignup        = "signup"
	LogEventSignin        = "signin"
	LogEventRefresh       = "refresh"
	LogEventResetRequest  = "password_reset_request"
	LogEventResetComplete = "password_reset_complete"
	LogEventRoleDenied    = "role_denied"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
