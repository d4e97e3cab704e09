package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT claims with token type and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT verifies caller ID tokens signed with a shared HMAC secret.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: secretKey}
}

const (
	accessTTL    = 15 * time.Minute
	appCheckTTL  = time.Hour
	typeAccess   = "access"
	typeAppCheck = "app_check"
)

// GenerateAccessToken creates a short-lived access token for userID.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
		UserID:    userID,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates and extracts the user ID from an access token.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims, err := parse(tokenString, j.secretKey, typeAccess)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("access token has no user id")
	}
	return claims.UserID, nil
}

// AppCheck verifies app attestation tokens.
type AppCheck struct {
	secretKey string
}

// NewAppCheck creates an app attestation verifier.
func NewAppCheck(secretKey string) *AppCheck {
	return &AppCheck{secretKey: secretKey}
}

// GenerateAppCheckToken creates an attestation token for appID.
func (a *AppCheck) GenerateAppCheckToken(appID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   appID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(appCheckTTL)),
		},
		TokenType: typeAppCheck,
	})

	tokenString, err := token.SignedString([]byte(a.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign app check token: %w", err)
	}

	return tokenString, nil
}

// ParseAppCheckToken validates an attestation token and returns the app ID.
func (a *AppCheck) ParseAppCheckToken(tokenString string) (string, error) {
	claims, err := parse(tokenString, a.secretKey, typeAppCheck)
	if err != nil {
		return "", fmt.Errorf("failed to parse app check token: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("app check token has no subject")
	}
	return claims.Subject, nil
}

func parse(tokenString, secretKey, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return claims, nil
}
