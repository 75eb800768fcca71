// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token service error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService handles JWT token generation and validation for operators
type TokenService interface {
	GenerateToken(userID uint, role string) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
}

// TokenClaims represents the claims in an operator JWT
type TokenClaims struct {
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenID   string    `json:"jti"`
}

// TokenServiceImpl implements TokenService with HMAC signing
type TokenServiceImpl struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
	audience  string
}

// NewTokenService creates a new token service
func NewTokenService(cfg config.JWTConfig) (TokenService, error) {
	if len(cfg.SecretKey) < 32 {
		return nil, fmt.Errorf("JWT secret key must be at least 32 characters")
	}
	return &TokenServiceImpl{
		secretKey: []byte(cfg.SecretKey),
		ttl:       cfg.AccessTokenTTL,
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
	}, nil
}

// GenerateToken creates a signed access token for the operator
func (s *TokenServiceImpl) GenerateToken(userID uint, role string) (string, error) {
	now := utils.UTCNow()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
		"iss":     s.issuer,
		"aud":     s.audience,
		"jti":     uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a token string
func (s *TokenServiceImpl) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)

	result := &TokenClaims{
		UserID:  uint(userID),
		Role:    role,
		TokenID: jti,
	}
	if iat, ok := claims["iat"].(float64); ok {
		result.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := claims["exp"].(float64); ok {
		result.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return result, nil
}
