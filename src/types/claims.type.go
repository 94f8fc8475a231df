package types

import "github.com/golang-jwt/jwt/v4"

// Claims mirrors the access token issued by the hosted auth provider.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
