// Package authjwt validates PAAA bearer tokens locally as HS256 JWTs.
package authjwt

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "paaa/pkg/domain-errors"
	"paaa/pkg/requestcontext"
)

const healthKey = "authorization"

// Claims are the access token claims understood by the gateway.
type Claims struct {
	Patron string   `json:"patron,omitempty"`
	Scope  []string `json:"scope"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token carries scope.
func (c *Claims) HasScope(scope string) bool {
	return scope != "" && slices.Contains(c.Scope, scope)
}

// Validator issues and checks access tokens.
type Validator struct {
	signingKey []byte
	issuer     string
	audience   string
	adminScope string
	tokenTTL   time.Duration
}

// New creates a Validator. An empty audience disables the audience check.
func New(signingKey, issuer, audience, adminScope string, tokenTTL time.Duration) *Validator {
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}
	return &Validator{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		adminScope: adminScope,
		tokenTTL:   tokenTTL,
	}
}

// Issue signs a token for patronID granting scopes.
func (v *Validator) Issue(ctx context.Context, patronID string, scopes []string) (string, error) {
	if len(v.signingKey) == 0 {
		return "", dErrors.New(dErrors.CodeInternal, "signing key not configured")
	}
	if len(scopes) == 0 {
		return "", dErrors.New(dErrors.CodeValidation, "scopes cannot be empty")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	now := requestcontext.Now(ctx)

	claims := Claims{
		Patron: patronID,
		Scope:  scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   patronID,
			ExpiresAt: jwt.NewNumericDate(now.Add(v.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			ID:        hex.EncodeToString(b),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.signingKey)
}

// Parse verifies signature, algorithm, expiry, issuer and audience, and
// returns the claims. A "Bearer " prefix is accepted.
func (v *Validator) Parse(ctx context.Context, token string) (*Claims, error) {
	if len(v.signingKey) == 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "signing key not configured")
	}
	token = stripBearer(token)
	if token == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "empty token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return requestcontext.Now(ctx) }),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

// IsTokenValid implements ports.Authorization. The token must grant service
// (or the admin scope) and belong to patronID unless it is an admin token.
// Rejected tokens are (false, nil).
func (v *Validator) IsTokenValid(ctx context.Context, service, patronID, token string) (bool, error) {
	claims, err := v.Parse(ctx, token)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return false, nil
		}
		return false, err
	}

	admin := claims.HasScope(v.adminScope)
	if !admin && !claims.HasScope(service) {
		return false, nil
	}
	if !admin && claims.Patron != patronID {
		return false, nil
	}
	return true, nil
}

// Health implements ports.Authorization.
func (v *Validator) Health(context.Context) map[string]string {
	if len(v.signingKey) == 0 {
		return map[string]string{healthKey: "signing key not configured"}
	}
	return map[string]string{healthKey: "ok"}
}

func stripBearer(token string) string {
	token = strings.TrimSpace(token)
	const prefix = "bearer "
	if len(token) >= len(prefix) && strings.EqualFold(token[:len(prefix)], prefix) {
		return strings.TrimSpace(token[len(prefix):])
	}
	return token
}
