package auth

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin is the only role the service issues.
const RoleAdmin = "admin"

// AdminClaims represents the typed JWT carried in the admin cookie. The jti
// doubles as the redis session key.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
