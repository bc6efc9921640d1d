// Package handlers provides HTTP request handlers for the Shopfront API.
package handlers

import (
	"context"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication service.
// The auth handlers talk to the account business logic through it so that they are
// not tied to the concrete implementation.
type AuthServiceInterface interface {
	// Signup registers a new account and returns an access token for it.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - req: Registration data including name, email, password and optional role
	//
	// Returns:
	//   - The access token response for the new account
	//   - An error if registration fails (duplicate email, admin signup disabled)
	Signup(ctx context.Context, req *models.SignupRequest) (*models.TokenResponse, error)

	// Signin authenticates a user by email and password.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - req: The credentials supplied by the client
	//
	// Returns:
	//   - An access/refresh token pair
	//   - A generic invalid credentials error for both unknown emails and wrong passwords
	Signin(ctx context.Context, req *models.SigninRequest) (*models.TokenResponse, error)

	// Refresh exchanges a refresh token for a new token pair.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - refreshToken: The refresh token issued at signin
	//
	// Returns:
	//   - A new access/refresh token pair
	//   - An error if the token is invalid, expired or its user no longer exists
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)

	// Me returns the public profile of the authenticated user.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - userID: The ID resolved by the authentication middleware
	//
	// Returns:
	//   - The user's id, name, email and role
	//   - A not found error if the account has been removed
	Me(ctx context.Context, userID int64) (*models.UserResponse, error)
}

// PasswordResetServiceInterface defines the password reset workflow used by
// PasswordResetHandler.
type PasswordResetServiceInterface interface {
	// RequestReset issues a reset token for the email and mails the link.
	// Unknown emails succeed silently.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - email: The address the reset was requested for
	//
	// Returns:
	//   - An error only when the store fails
	RequestReset(ctx context.Context, email string) error

	// ResetPassword consumes a valid token and replaces the owner's password.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - token: The plain token from the reset link
	//   - newPassword: The replacement password
	//
	// Returns:
	//   - An invalid reset token error for unknown, used or expired tokens
	ResetPassword(ctx context.Context, token, newPassword string) error
}
