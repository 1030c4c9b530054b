package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the JWT claims structure issued by the auth provider.
type AccessClaims struct {
	jwt.RegisteredClaims        // standard claims (sub, iss, aud, exp, iat, ...)
	Email                string `json:"email"`
	Role                 string `json:"role"`
	SessionID            string `json:"session_id"`
	IsAnonymous          bool   `json:"is_anonymous"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
