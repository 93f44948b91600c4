package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims the simulation API reads.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasAnyRole reports whether the claims carry one of roles. An empty list
// accepts any caller.
func (c Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	return slices.ContainsFunc(c.Roles, func(r string) bool { return slices.Contains(roles, r) })
}

// Roles accepted on the catalog endpoints.
const (
	RoleAdmin     = "admin"
	RoleAPIClient = "api_client"
)

// CatalogRoles may read the product catalog.
var CatalogRoles = []string{RoleAPIClient, RoleAdmin}
