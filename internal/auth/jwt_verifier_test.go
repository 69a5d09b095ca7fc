package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
)

const testKID = "test-key"

func newJWKSServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	jwks := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": testKID,
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sign(t *testing.T, key *rsa.PrivateKey, claims models.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKID
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestJWKSVerifier_VerifyToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	srv := newJWKSServer(t, key)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier, err := NewJWTVerifier(srv.URL, logger)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}
	defer verifier.Close()

	valid := func(sub, role string, exp time.Time) models.Claims {
		return models.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: sub, ExpiresAt: jwt.NewNumericDate(exp)},
			Role:             role,
		}
	}
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   string
		wantSub string
	}{
		{"valid", sign(t, key, valid("user-1", "authenticated", future)), "user-1"},
		{"expired", sign(t, key, valid("user-1", "authenticated", time.Now().Add(-time.Hour))), ""},
		{"anonymous", sign(t, key, valid("user-1", "anon", future)), ""},
		{"missing subject", sign(t, key, valid("", "authenticated", future)), ""},
		{"wrong key", sign(t, otherKey, valid("user-1", "authenticated", future)), ""},
		{"garbage", "not-a-token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.VerifyToken(tt.token)
			if tt.wantSub == "" {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Errorf("VerifyToken() error = %v, want unauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if claims.GetUserID() != tt.wantSub {
				t.Errorf("subject = %s, want %s", claims.GetUserID(), tt.wantSub)
			}
		})
	}
}

func TestNewJWTVerifier_RequiresURL(t *testing.T) {
	if _, err := NewJWTVerifier("", slog.Default()); err == nil {
		t.Error("expected error for empty JWKS URL")
	}
}
