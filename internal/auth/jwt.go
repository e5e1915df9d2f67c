// Package auth issues and validates the admin tokens that guard maintenance
// endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// RoleAdmin is the role claim required by admin endpoints.
const RoleAdmin = "admin"

// JWTManager handles admin token generation and validation.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// tokenClaims extends standard JWT claims with the operator's role.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// GenerateToken creates a signed HS256 JWT with the operator name as subject
// and role as a custom claim.
func (m *JWTManager) GenerateToken(operator, role string) (string, error) {
	if operator == "" {
		return "", fmt.Errorf("operator is empty")
	}
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// GenerateAdminToken creates an admin token for operator.
func (m *JWTManager) GenerateAdminToken(operator string) (string, error) {
	return m.GenerateToken(operator, RoleAdmin)
}

// ValidateToken parses and validates a JWT. Returns the operator and role.
func (m *JWTManager) ValidateToken(tokenString string) (string, string, error) {
	if tokenString == "" {
		return "", "", fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return "", "", fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}
	if claims.Subject == "" {
		return "", "", fmt.Errorf("token has no subject")
	}

	return claims.Subject, claims.Role, nil
}

// ValidateAdminToken validates a token and requires the admin role.
// Returns domain.ErrUnauthorized for unusable tokens and domain.ErrForbidden
// for valid tokens without the admin role.
func (m *JWTManager) ValidateAdminToken(tokenString string) (string, error) {
	operator, role, err := m.ValidateToken(tokenString)
	if err != nil {
		return "", errors.Join(domain.ErrUnauthorized, err)
	}
	if role != RoleAdmin {
		return "", fmt.Errorf("role %q: %w", role, domain.ErrForbidden)
	}
	return operator, nil
}
