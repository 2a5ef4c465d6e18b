package utils

import (
	"errors"
	"testing"
)

const testSecret = "test-secret"

func TestTokenPairRoundTrip(t *testing.T) {
	access, refresh, err := GenerateTokenPair(42, testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair() = %v", err)
	}

	claims, err := ParseJWT(access, TokenTypeAccess, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT(access) = %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("access UserID = %d, want 42", claims.UserID)
	}

	claims, err = ParseJWT(refresh, TokenTypeRefresh, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT(refresh) = %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("refresh UserID = %d, want 42", claims.UserID)
	}
}

func TestParseJWTRejectsWrongType(t *testing.T) {
	_, refresh, err := GenerateTokenPair(42, testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair() = %v", err)
	}
	// A refresh token must not pass as an access token
	if _, err := ParseJWT(refresh, TokenTypeAccess, testSecret); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("ParseJWT(refresh as access) = %v, want ErrWrongTokenType", err)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	access, err := GenerateAccessToken(42, testSecret)
	if err != nil {
		t.Fatalf("GenerateAccessToken() = %v", err)
	}
	if _, err := ParseJWT(access, TokenTypeAccess, "other-secret"); err == nil {
		t.Fatal("ParseJWT with wrong secret should fail")
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	if _, err := ParseJWT("not-a-token", TokenTypeAccess, testSecret); err == nil {
		t.Fatal("ParseJWT of garbage should fail")
	}
}
