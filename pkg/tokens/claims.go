package tokens

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the closed claim set carried by every issued token.
// Refresh tokens never carry roles or email; roles are composed at
// access-token issuance time only.
type Claims struct {
	TokenType string   `json:"token_type"`
	Roles     []string `json:"roles,omitempty"`
	Email     string   `json:"email,omitempty"`
	// RefreshID binds an access token to the refresh token that
	// produced it, so logout with an access token can resolve the
	// refresh token to revoke.
	RefreshID string `json:"refresh_jti,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) AccountID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// HasAnyRole reports whether the claim role set intersects roles.
// Matching is case-sensitive and exact; tenant-scoped entries of the
// form "{tenantId}/{role}" never match a plain system role here.
func (c *Claims) HasAnyRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TenantRole formats the access-token claim for a role granted by a
// tenant.
func TenantRole(tenantID uint, role string) string {
	return strconv.FormatUint(uint64(tenantID), 10) + "/" + role
}

// AuthorizedIDs returns the account ids whose data the caller may act
// on under role: the caller itself when it holds the plain role, plus
// every tenant that granted it "{tenantId}/{role}". Unparseable tenant
// prefixes are skipped.
func (c *Claims) AuthorizedIDs(role string) []uint {
	var ids []uint
	self, selfErr := c.AccountID()
	for _, r := range c.Roles {
		if r == role {
			if selfErr == nil {
				ids = append(ids, self)
			}
			continue
		}
		tenant, name, ok := strings.Cut(r, "/")
		if !ok || name != role {
			continue
		}
		id, err := strconv.ParseUint(tenant, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
