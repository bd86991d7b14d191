package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventlottery/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

type jwtCodec struct {
	secret []byte
}

// NewJWTCodec returns a TokenIssuer/TokenVerifier pair backed by HS256 JWTs
// signed with the given secret. The subject claim carries the user id and a
// custom claim carries the role.
func NewJWTCodec(secret string) (domain.TokenIssuer, domain.TokenVerifier) {
	c := &jwtCodec{secret: []byte(secret)}
	return c, c
}

func (c *jwtCodec) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
		Role:  string(role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (c *jwtCodec) Verify(tokenString string) (string, domain.Role, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return "", "", fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return "", "", fmt.Errorf("token missing subject")
	}
	role := domain.Role(claims.Role)
	if !domain.ValidRole(claims.Role) {
		role = domain.RoleEntrant
	}
	return claims.Subject, role, nil
}
