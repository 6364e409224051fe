// Package models defines the data structures for the Insurex coverage engine.
package models

import "errors"

// Common errors. The coverage, dispute and estimation engines never return
// errors for malformed business input; these belong to the service surface
// around them.
var (
	ErrOTPNotFound        = errors.New("otp expired or not found")
	ErrOTPExpired         = errors.New("otp has expired")
	ErrOTPTooManyAttempts = errors.New("too many failed attempts")
	ErrOTPMismatch        = errors.New("invalid otp")
	ErrMissingContact     = errors.New("email and phone are required")
	ErrInvalidPincode     = errors.New("pincode must be a 6-digit number")
	ErrMissingToken       = errors.New("missing token")
	ErrAuthNotConfigured  = errors.New("google client id not configured")
	ErrInvalidToken       = errors.New("invalid token")
)
