package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload carries the identity baked into a freshly minted token.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Username string
	JTI      string
}

// AccessTokenClaims is the JWT claim set validated on each request.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"uid"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}
