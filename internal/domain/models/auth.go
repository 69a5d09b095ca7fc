package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claim set accepted by the API. It matches the tokens
// issued by Supabase Auth.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	Role      string `json:"role"` // "authenticated" or "anon"
	SessionID string `json:"session_id"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
