package auth

import (
	"strings"

	echo "github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/pkg/rpcstatus"
	"github.com/vyatkin0/micro-services/pkg/tokens"
)

const claimsKey = "auth_claims"

type Middleware struct {
	Keys tokens.Keychain
}

func New(keys tokens.Keychain) *Middleware {
	return &Middleware{Keys: keys}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", status.Error(codes.Unauthenticated, "Authorization token is missing")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", status.Error(codes.Unauthenticated, "Unknown authorization type")
	}
	return strings.TrimSpace(token), nil
}

func (m *Middleware) require(c echo.Context, accessOnly bool) error {
	token, err := bearerToken(c)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}

	claims, err := m.Keys.Parse(token)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}

	if accessOnly && claims.TokenType != tokens.TypeAccess {
		return rpcstatus.JSON(c, status.Error(codes.PermissionDenied, "Wrong token"))
	}

	c.Set(claimsKey, claims)
	return nil
}

// RequireToken accepts any valid token, access or refresh. Logout is
// the only operation that needs it.
func (m *Middleware) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.require(c, false); err != nil {
			return err
		}
		return next(c)
	}
}

// RequireAccess accepts access tokens only.
func (m *Middleware) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.require(c, true); err != nil {
			return err
		}
		return next(c)
	}
}

// RequireRoles gates a route on the caller's system roles. Must run
// after RequireAccess.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return rpcstatus.JSON(c, status.Error(codes.Unauthenticated, "Authorization token is missing"))
			}
			if !claims.HasAnyRole(roles...) {
				return rpcstatus.JSON(c, status.Error(codes.PermissionDenied, "Permission denied"))
			}
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(claimsKey).(*tokens.Claims)
	return claims
}

// AuthorizedIDs resolves the account ids the caller may act on for
// role. Admin grants count for any role. Empty result means the call
// is not permitted.
func AuthorizedIDs(c echo.Context, role string) ([]uint, error) {
	claims := ClaimsFrom(c)
	if claims == nil {
		return nil, status.Error(codes.Unauthenticated, "Authorization token is missing")
	}
	ids := claims.AuthorizedIDs(role)
	ids = append(ids, claims.AuthorizedIDs("Admin")...)
	if len(ids) == 0 {
		return nil, status.Error(codes.PermissionDenied, "Unauthorized")
	}
	return dedup(ids), nil
}

func dedup(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
