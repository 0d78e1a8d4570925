package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, "guest@example.com", "CUSTOMER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if !at.Exp.After(time.Now().UTC()) {
		t.Fatal("token already expired")
	}
	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tk.Method)
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse failed: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["email"] != "guest@example.com" {
		t.Fatalf("email claim = %v", claims["email"])
	}
	if claims["role"] != "CUSTOMER" {
		t.Fatalf("role claim = %v", claims["role"])
	}
	if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 42 {
		t.Fatalf("sub claim = %v", claims["sub"])
	}
}

func TestHashRefreshRawIsStable(t *testing.T) {
	r, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(r.Raw) != 96 {
		t.Fatalf("raw token length = %d, want 96", len(r.Raw))
	}
	if HashRefreshRaw(r.Raw) != HashRefreshRaw(r.Raw) {
		t.Fatal("hash not deterministic")
	}
	if HashRefreshRaw(r.Raw) == HashRefreshRaw(r.Raw+"x") {
		t.Fatal("different inputs collided")
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	h, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(h, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(h, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
