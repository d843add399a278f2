package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// Keychain holds the process-wide signing material. Loaded once at
// startup and treated as immutable.
type Keychain struct {
	Key      []byte
	Issuer   string
	Audience string
}

// Signed is a freshly minted token together with its bookkeeping
// attributes.
type Signed struct {
	Token     string
	ID        string
	ValidFrom time.Time
	ValidTo   time.Time
}

func (k Keychain) sign(claims *Claims, ttl time.Duration) (*Signed, error) {
	now := time.Now().UTC()
	claims.ID = uuid.NewString()
	claims.Issuer = k.Issuer
	claims.Audience = jwt.ClaimStrings{k.Audience}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.Key)
	if err != nil {
		return nil, err
	}

	return &Signed{
		Token:     token,
		ID:        claims.ID,
		ValidFrom: now,
		ValidTo:   now.Add(ttl),
	}, nil
}

// SignAccess mints a 30-minute access token. roles must already be the
// composed, deduplicated union of system and tenant-scoped roles.
func (k Keychain) SignAccess(subject, refreshID, email string, roles []string) (*Signed, error) {
	return k.sign(&Claims{
		TokenType: TypeAccess,
		Roles:     roles,
		Email:     email,
		RefreshID: refreshID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}, AccessTokenTTL)
}

// SignRefresh mints a 30-day refresh token. The caller persists the
// returned id for revocation bookkeeping.
func (k Keychain) SignRefresh(subject string) (*Signed, error) {
	return k.sign(&Claims{
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}, RefreshTokenTTL)
}

// Parse validates signature, expiry, issuer and audience and returns
// the claims. Any failure is Unauthenticated; token-type checks are
// the caller's concern.
func (k Keychain) Parse(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (any, error) { return k.Key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(k.Issuer),
		jwt.WithAudience(k.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return nil, status.Error(codes.Unauthenticated, "Unauthenticated")
	}
	return &claims, nil
}
