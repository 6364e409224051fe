// Package auth verifies Google sign-in ID tokens.
package auth

import (
	"context"

	"google.golang.org/api/idtoken"

	"insurex/internal/models"
)

// User is the identity extracted from a verified Google ID token.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verifier validates Google ID tokens against a configured OAuth client
// ID.
type Verifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewVerifier creates a verifier for the given OAuth client ID. An empty
// client ID is allowed; verification then fails with
// models.ErrAuthNotConfigured.
func NewVerifier(clientID string) *Verifier {
	return &Verifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

// VerifyIDToken validates the token signature and audience and returns
// the embedded identity claims.
func (v *Verifier) VerifyIDToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, models.ErrMissingToken
	}
	if v.clientID == "" {
		return nil, models.ErrAuthNotConfigured
	}

	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, models.ErrInvalidToken
	}

	return &User{
		ID:      payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
