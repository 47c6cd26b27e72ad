package services

import (
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := CreateAccessToken(testSecret, "owner", time.Hour)
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	claims, err := ParseAccessToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "owner" || claims.Scope != "api" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAccessTokenRejected(t *testing.T) {
	good, _ := CreateAccessToken(testSecret, "owner", time.Hour)
	expired, _ := CreateAccessToken(testSecret, "owner", -time.Minute)

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"wrong secret", []byte("other"), good},
		{"expired", testSecret, expired},
		{"garbage", testSecret, "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccessToken(tt.secret, tt.token); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCreateAccessTokenNeedsSecret(t *testing.T) {
	if _, err := CreateAccessToken(nil, "owner", time.Hour); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hash, "hunter2"); err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}
