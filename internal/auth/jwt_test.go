package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &model.User{ID: "0c1d", Email: "lead@example.org", Name: "Lead", Role: model.RoleAdmin}
	token, err := GenerateAccessToken(user, "secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "0c1d" || claims.Email != "lead@example.org" || claims.Role != model.RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, err := ValidateAccessToken(token, "other-secret"); err == nil {
		t.Fatalf("token validated with the wrong secret")
	}
}

func TestValidateRejectsExpiredAndForeignTokens(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, _ := expired.SignedString([]byte("secret"))
	if _, err := ValidateAccessToken(signed, "secret"); err == nil {
		t.Fatalf("expired token accepted")
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	})
	signed, _ = foreign.SignedString([]byte("secret"))
	if _, err := ValidateAccessToken(signed, "secret"); err == nil {
		t.Fatalf("token from another issuer accepted")
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	a, _ := GenerateRefreshToken()
	b, _ := GenerateRefreshToken()
	if a == "" || a == b {
		t.Fatalf("refresh tokens should be random, got %q and %q", a, b)
	}
}
