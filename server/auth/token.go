package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/indieprop/homestead/config"
)

type principalKeyType struct{}

var principalKey = principalKeyType{}

// Principal is the authenticated account attached to a request before the
// intake core runs.
type Principal struct {
	Subject string
	Email   string
	Role    string
}

func (p *Principal) String() string {
	return fmt.Sprintf("Principal{subject=%v, email=%v, role=%v}", p.Subject, p.Email, p.Role)
}

func (p *Principal) HasRole(role string) bool {
	return strings.EqualFold(p.Role, role)
}

// ExtractBearerToken extracts a Bearer token from an Authorization header value.
// Returns an empty string if the header is not present, malformed, or not a Bearer token.
func ExtractBearerToken(auth string) string {
	if auth == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return token
}

func AddPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok {
		return nil
	}

	return p
}

var (
	ErrEmptyToken   = errors.New("received empty token")
	ErrInvalidToken = errors.New("token validation failed")
)

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// VerifyAccessToken parses and validates an HMAC-signed access token against
// the configured secret and optional issuer, returning the principal it
// carries.
func VerifyAccessToken(cfg *config.Config, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Auth.Issuer))
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return []byte(cfg.Auth.Secret), nil
	}, opts...)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !parsed.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{
		Subject: c.Subject,
		Email:   c.Email,
		Role:    c.Role,
	}, nil
}
