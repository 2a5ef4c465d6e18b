package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Token lifetimes
const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Token type claim values
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType is returned when a token of the wrong kind is presented,
// e.g. a refresh token on a protected endpoint.
var ErrWrongTokenType = errors.New("wrong token type")

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"`    // Custom claim for user ID
	TokenType            string `json:"token_type"` // access or refresh
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateAccessToken issues a fresh access token, used by the refresh flow.
func GenerateAccessToken(userID uint, secret string) (string, error) {
	return generateToken(userID, TokenTypeAccess, accessTokenTTL, secret)
}

// GenerateTokenPair creates an access and a refresh token for a user ID.
func GenerateTokenPair(userID uint, secret string) (access, refresh string, err error) {
	access, err = GenerateAccessToken(userID, secret)
	if err != nil {
		return "", "", err
	}
	refresh, err = generateToken(userID, TokenTypeRefresh, refreshTokenTTL, secret)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// generateToken signs a single token of the given type and lifetime.
func generateToken(userID uint, tokenType string, ttl time.Duration, secret string) (string, error) {
	claims := Claims{
		UserID:    userID,    // Custom claim for user ID
		TokenType: tokenType, // Token kind
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses a token string and checks it carries the expected type.
func ParseJWT(tokenStr, tokenType, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
