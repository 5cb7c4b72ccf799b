package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/icevibe/pos-terminal/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Code   string
	Name   string
	Email  string
	Role   enums.Role
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to terminal clients.
type AccessTokenClaims struct {
	UserID int64      `json:"user_id"`
	Code   string     `json:"code,omitempty"`
	Name   string     `json:"name,omitempty"`
	Email  string     `json:"email,omitempty"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}
