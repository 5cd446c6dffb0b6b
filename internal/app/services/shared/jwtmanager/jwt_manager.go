package jwtmanager

import (
	"fmt"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/pkg/exceptions"

	"github.com/golang-jwt/jwt/v4"
)

// JWTManager signs and verifies the HS256 actor tokens used by all three
// front ends. Claims carry the actor identity and role only.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(cfg *config.InternalConfig) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWT.Secret),
		ttl:    time.Duration(cfg.JWT.ExpTimeInHour) * time.Hour,
	}
}

func (m *JWTManager) CreateToken(actorID, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actorID,
		"role": role,
		"exp":  time.Now().Add(m.ttl).Unix(),
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}
	return tokenString, nil
}

func (m *JWTManager) VerifyToken(tokenString string) (actorID, role string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", exceptions.ErrTokenInvalidOrExpired(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", exceptions.ErrTokenInvalidOrExpired(nil)
	}

	actorID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if actorID == "" || role == "" {
		return "", "", exceptions.ErrTokenInvalidOrExpired(nil)
	}
	return actorID, role, nil
}
