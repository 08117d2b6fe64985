package jwt

import "github.com/golang-jwt/jwt/v5"

// AdminClaims defines the JWT claims carried by an admin session token.
// Admin tokens are minted after a successful secret exchange and are the only
// credential accepted by the administrative routes.
type AdminClaims struct {
	jwt.RegisteredClaims

	// SessionID is a random identifier for this admin session, present so
	// individual sessions show up distinctly in logs.
	SessionID string `json:"session_id"`
}
