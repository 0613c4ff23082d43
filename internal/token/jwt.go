package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/accounts-server/internal/model"
)

// Claims represents the signed JWT payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// JWT implements model.TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key
// and token lifetime in minutes.
func NewJWT(secretKey string, ttlMinutes int) *JWT {
	return &JWT{secretKey: secretKey, ttl: time.Duration(ttlMinutes) * time.Minute}
}

var _ model.TokenManager = (*JWT)(nil)

// Generate creates a signed identity token for the given user id.
func (j *JWT) Generate(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: strconv.FormatInt(userID, 10),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse validates signature and expiry and extracts the claims. Callers
// must not distinguish failure causes for clients: a forged token and
// an expired one map to the same user-facing error.
func (j *JWT) Parse(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return model.Claims{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return model.Claims{}, fmt.Errorf("token is invalid")
	}

	var issuedAt, expiresAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return model.Claims{
		UserID:    claims.UserID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
