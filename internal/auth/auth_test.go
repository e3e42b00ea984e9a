package auth

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/mylibapp/mylib-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("expected password to verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword wrong: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("x", maxPasswordLength+1)); err == nil {
		t.Fatal("expected error for oversized password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "anything")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("malformed hash must not verify")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword h1: %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword h2: %v", err)
	}
	if h1 == h2 {
		t.Error("expected distinct hashes for the same password")
	}
}

func newTestTokenService(t *testing.T, d time.Duration) *TokenService {
	t.Helper()
	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	svc, err := NewTokenService(hex.EncodeToString(key), d)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	user := &domain.User{ID: 42, Email: "alice@example.com", Role: domain.RoleAdmin}
	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID: got %d, want 42", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email: got %q", claims.Email)
	}
	if claims.Issuer != tokenIssuer {
		t.Errorf("Issuer: got %q, want %q", claims.Issuer, tokenIssuer)
	}
	if claims.TokenID == "" {
		t.Error("expected non-empty token ID")
	}
	if claims.Purpose != PurposeAccess {
		t.Errorf("Purpose: got %q, want %q", claims.Purpose, PurposeAccess)
	}
}

func TestActionToken_PurposeScoping(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	user := &domain.User{ID: 9, Email: "v@example.com"}

	token, err := svc.GenerateActionToken(user, PurposeVerify, 10*time.Minute)
	if err != nil {
		t.Fatalf("GenerateActionToken: %v", err)
	}

	claims, err := svc.VerifyActionToken(token, PurposeVerify)
	if err != nil {
		t.Fatalf("VerifyActionToken: %v", err)
	}
	if claims.UserID != 9 {
		t.Errorf("UserID: got %d, want 9", claims.UserID)
	}

	// A verify token must not pass as a reset token.
	if _, err := svc.VerifyActionToken(token, PurposeReset); err == nil {
		t.Fatal("expected purpose mismatch")
	}

	// An access token must not pass as an action token.
	access, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := svc.VerifyActionToken(access, PurposeVerify); err == nil {
		t.Fatal("expected purpose mismatch for access token")
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	user := &domain.User{ID: 1, Email: "x@example.com"}
	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc1 := newTestTokenService(t, time.Hour)
	svc2 := newTestTokenService(t, time.Hour)

	token, err := svc1.GenerateAccessToken(&domain.User{ID: 1, Email: "x@example.com"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc2.VerifyAccessToken(token); err == nil {
		t.Fatal("expected token from another key to fail verification")
	}
}

func TestNewTokenService_BadKey(t *testing.T) {
	if _, err := NewTokenService("short", time.Hour); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := NewTokenService(strings.Repeat("z", keyHexSize), time.Hour); err == nil {
		t.Fatal("expected error for non-hex key")
	}
}

func TestLoadOrGenerateKey_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	if len(key1) != keyHexSize {
		t.Fatalf("key length: got %d, want %d", len(key1), keyHexSize)
	}

	// Second call loads the same key.
	key2, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey second: %v", err)
	}
	if key1 != key2 {
		t.Error("expected persisted key to be reloaded")
	}
}
