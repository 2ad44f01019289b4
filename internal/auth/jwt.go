package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erazemk/hranilka/internal/model"
)

// Token audiences keep session and archive tokens from being swapped.
const (
	audienceSession = "session"
	audienceArchive = "archive"
)

// Claims represents the session JWT claims.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Session returns the session carried by the claims.
func (c *Claims) Session() Session {
	role, _ := model.ParseRole(c.Role)
	return Session{Name: c.Name, Role: role}
}

// DefaultSessionTTL is the default session token lifetime.
const DefaultSessionTTL = 12 * time.Hour

// GenerateToken creates a new session JWT with a unique JTI.
func GenerateToken(secret string, s Session, ttl time.Duration) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	now := time.Now()
	claims := Claims{
		Name: s.Name,
		Role: string(s.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Audience:  jwt.ClaimStrings{audienceSession},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return sign(secret, claims)
}

// ValidateToken parses and validates a session JWT, returning the claims.
// Tokens naming an unknown role are rejected.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(secret, tokenStr, audienceSession, claims); err != nil {
		return nil, err
	}
	if _, ok := model.ParseRole(claims.Role); !ok {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}
	if claims.Name == "" {
		return nil, errors.New("token without name")
	}
	return claims, nil
}

// GenerateArchiveToken creates a short-lived token proving the archive
// password was entered.
func GenerateArchiveToken(secret string, ttl time.Duration) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	now := time.Now()
	return sign(secret, jwt.RegisteredClaims{
		ID:        jti,
		Audience:  jwt.ClaimStrings{audienceArchive},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
}

// ValidateArchiveToken checks a token issued by GenerateArchiveToken.
func ValidateArchiveToken(secret, tokenStr string) error {
	return parse(secret, tokenStr, audienceArchive, &jwt.RegisteredClaims{})
}

func sign(secret string, claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func parse(secret, tokenStr, audience string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithAudience(audience), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
