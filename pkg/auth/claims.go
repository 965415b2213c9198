package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload carries the identity minted into an access token.
type AccessTokenPayload struct {
	UserID   string
	Username string
	JTI      string
}

// AccessTokenClaims is the typed JWT claim set for API access tokens.
type AccessTokenClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}
