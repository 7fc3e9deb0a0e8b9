package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/indieprop/homestead/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{Secret: testSecret, Issuer: "homestead"},
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return signed
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "jo@example.com",
		"role":  "agent",
		"iss":   "homestead",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		expect string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}

	for _, tc := range cases {
		if got := ExtractBearerToken(tc.header); got != tc.expect {
			t.Errorf("ExtractBearerToken(%q) = %q, expected %q", tc.header, got, tc.expect)
		}
	}
}

func TestVerifyAccessToken_Valid(t *testing.T) {
	token := signToken(t, testSecret, baseClaims())

	principal, err := VerifyAccessToken(testConfig(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if principal.Subject != "user-1" || principal.Email != "jo@example.com" || principal.Role != "agent" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestVerifyAccessToken_Empty(t *testing.T) {
	_, err := VerifyAccessToken(testConfig(), "")
	if !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	token := signToken(t, "another-secret-another-secret-ab", baseClaims())

	_, err := VerifyAccessToken(testConfig(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	claims := baseClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, claims)

	_, err := VerifyAccessToken(testConfig(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccessToken_MissingExpiry(t *testing.T) {
	claims := baseClaims()
	delete(claims, "exp")
	token := signToken(t, testSecret, claims)

	_, err := VerifyAccessToken(testConfig(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccessToken_WrongIssuer(t *testing.T) {
	claims := baseClaims()
	claims["iss"] = "someone-else"
	token := signToken(t, testSecret, claims)

	_, err := VerifyAccessToken(testConfig(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	p := &Principal{Subject: "user-1", Role: "admin"}
	ctx := AddPrincipal(context.Background(), p)

	if got := GetPrincipal(ctx); got != p {
		t.Fatalf("principal not carried through context")
	}

	if got := GetPrincipal(context.Background()); got != nil {
		t.Fatalf("expected nil principal on empty context, got %+v", got)
	}
}

func TestPrincipal_HasRole(t *testing.T) {
	p := &Principal{Role: "Admin"}

	if !p.HasRole("admin") {
		t.Fatal("role comparison should be case-insensitive")
	}

	if p.HasRole("agent") {
		t.Fatal("unexpected role match")
	}
}
