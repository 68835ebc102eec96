package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenClaims extracts the claims of a JWT issued by the upstream identity
// service. The upstream holds the signing key, so the signature is not
// re-verified here; possession of the exact stored credential is checked
// separately via HashToken.
func TokenClaims(tokenString string) (jwt.MapClaims, error) {
	parser := jwt.Parser{}
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims format")
	}
	return claims, nil
}

// TokenExpired reports whether the token carries an "exp" claim in the past.
// Tokens that are not introspectable JWTs, or carry no expiry claim, are
// treated as opaque non-expiring credentials; possession is still checked by
// hash comparison against the stored credential.
func TokenExpired(tokenString string) bool {
	claims, err := TokenClaims(tokenString)
	if err != nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().Unix() >= int64(exp)
}

// ExtractIDFromToken extracts the subject from the token claims.
func ExtractIDFromToken(tokenString string) (string, error) {
	claims, err := TokenClaims(tokenString)
	if err != nil {
		return "", err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}
